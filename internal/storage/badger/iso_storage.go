package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/models"
)

type isoDataStorage struct {
	store  *Store
	logger *common.Logger
}

// NewIsoDataStorage creates a new IsoDataStorage backed by BadgerHold.
func NewIsoDataStorage(store *Store, logger *common.Logger) *isoDataStorage {
	return &isoDataStorage{store: store, logger: logger}
}

func (s *isoDataStorage) GetIsoData(_ context.Context, countryAlpha2 string) (*models.IsoData, error) {
	var data models.IsoData
	err := s.store.db.Get(countryAlpha2, &data)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("iso data '%s': %w", countryAlpha2, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get iso data '%s': %w", countryAlpha2, err)
	}
	return &data, nil
}

func (s *isoDataStorage) SaveIsoData(_ context.Context, data *models.IsoData) error {
	if err := s.store.db.Upsert(data.CountryAlpha2, data); err != nil {
		return fmt.Errorf("failed to save iso data: %w", err)
	}
	s.logger.Debug().Str("country", data.CountryAlpha2).Msg("ISO data saved")
	return nil
}

func (s *isoDataStorage) ListIsoData(_ context.Context, activeOnly bool) ([]models.IsoData, error) {
	var rows []models.IsoData
	var query *badgerhold.Query
	if activeOnly {
		query = badgerhold.Where("Active").Eq(true).SortBy("CountryAlpha2")
	}
	if err := s.store.db.Find(&rows, query); err != nil {
		return nil, fmt.Errorf("failed to list iso data: %w", err)
	}
	return rows, nil
}

func (s *isoDataStorage) FindByCurrency(_ context.Context, currencyCode string) ([]models.IsoData, error) {
	var rows []models.IsoData
	query := badgerhold.Where("CurrencyCode").Eq(currencyCode).Index("CurrencyCode")
	if err := s.store.db.Find(&rows, query); err != nil {
		return nil, fmt.Errorf("failed to find iso data for currency '%s': %w", currencyCode, err)
	}
	return rows, nil
}
