package models

import "time"

// WatchListEntry is a symbol an account tracks without holding it.
type WatchListEntry struct {
	ID       string `badgerhold:"key"`
	Email    string `badgerhold:"index"`
	Symbol   string
	Name     string
	Currency string
	AddedAt  time.Time
}
