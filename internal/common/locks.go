package common

import "sync"

// KeyedLocks serializes work per string key. Locks are created lazily
// and never released back, which is fine for the bounded key space of
// (email, currency) pairs.
type KeyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedLocks creates an empty lock registry.
func NewKeyedLocks() *KeyedLocks {
	return &KeyedLocks{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the mutex for key and returns the unlock function.
func (k *KeyedLocks) Acquire(key string) func() {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
