package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/models"
)

type watchListStorage struct {
	store  *Store
	logger *common.Logger
}

// NewWatchListStorage creates a new WatchListStorage backed by BadgerHold.
func NewWatchListStorage(store *Store, logger *common.Logger) *watchListStorage {
	return &watchListStorage{store: store, logger: logger}
}

func (s *watchListStorage) GetEntry(_ context.Context, id string) (*models.WatchListEntry, error) {
	var entry models.WatchListEntry
	err := s.store.db.Get(id, &entry)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("watch list entry '%s': %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get watch list entry '%s': %w", id, err)
	}
	return &entry, nil
}

func (s *watchListStorage) SaveEntry(_ context.Context, entry *models.WatchListEntry) error {
	if err := s.store.db.Upsert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to save watch list entry: %w", err)
	}
	s.logger.Debug().
		Str("email", entry.Email).
		Str("symbol", entry.Symbol).
		Msg("Watch list entry saved")
	return nil
}

func (s *watchListStorage) ListEntries(_ context.Context, email, currency string) ([]models.WatchListEntry, error) {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	var entries []models.WatchListEntry
	if err := s.store.db.Find(&entries, query.SortBy("AddedAt")); err != nil {
		return nil, fmt.Errorf("failed to list watch list entries for '%s': %w", email, err)
	}
	return entries, nil
}

func (s *watchListStorage) DeleteEntry(_ context.Context, id string) error {
	err := s.store.db.Delete(id, models.WatchListEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete watch list entry '%s': %w", id, err)
	}
	return nil
}

func (s *watchListStorage) DeleteEntries(_ context.Context, email, currency string) error {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	if err := s.store.db.DeleteMatching(&models.WatchListEntry{}, query); err != nil {
		return fmt.Errorf("failed to delete watch list entries for '%s': %w", email, err)
	}
	return nil
}
