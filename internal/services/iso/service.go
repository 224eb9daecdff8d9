// Package iso maintains the ISO 3166/4217 country and currency
// reference data and answers currency-precision lookups for the ledger.
package iso

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/interfaces"
	"github.com/tradeforge/vtrade/internal/models"
)

// defaultMinorUnits applies when a currency is in neither the reference
// data nor the ISO 4217 table.
const defaultMinorUnits = 2

// Service manages ISO reference rows. Create, Update, Activate, and
// Deactivate record the acting admin in the row's audit fields.
type Service struct {
	storage interfaces.IsoDataStorage
	logger  *common.Logger
}

// NewService creates a new ISO data service.
func NewService(storage interfaces.IsoDataStorage, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]models.IsoData, error) {
	return s.storage.ListIsoData(ctx, activeOnly)
}

func (s *Service) Get(ctx context.Context, countryAlpha2 string) (*models.IsoData, error) {
	return s.storage.GetIsoData(ctx, strings.ToUpper(countryAlpha2))
}

func (s *Service) Create(ctx context.Context, admin string, data *models.IsoData) error {
	data.CountryAlpha2 = strings.ToUpper(strings.TrimSpace(data.CountryAlpha2))
	data.CurrencyCode = strings.ToUpper(strings.TrimSpace(data.CurrencyCode))
	if len(data.CountryAlpha2) != 2 {
		return fmt.Errorf("country code %q is not ISO 3166-1 alpha-2", data.CountryAlpha2)
	}
	if len(data.CurrencyCode) != 3 {
		return fmt.Errorf("currency code %q is not ISO 4217", data.CurrencyCode)
	}

	now := time.Now()
	data.CreatedBy = admin
	data.CreatedAt = now
	if data.Active {
		data.ActivatedBy = admin
		data.ActivatedAt = &now
	}

	if err := s.storage.SaveIsoData(ctx, data); err != nil {
		return err
	}
	s.logger.Info().
		Str("country", data.CountryAlpha2).
		Str("currency", data.CurrencyCode).
		Str("admin", admin).
		Msg("ISO data created")
	return nil
}

func (s *Service) Update(ctx context.Context, admin string, data *models.IsoData) error {
	existing, err := s.storage.GetIsoData(ctx, strings.ToUpper(data.CountryAlpha2))
	if err != nil {
		return err
	}

	existing.CountryName = data.CountryName
	existing.CurrencyCode = strings.ToUpper(strings.TrimSpace(data.CurrencyCode))
	existing.CurrencyName = data.CurrencyName
	existing.CurrencyMinorUnits = data.CurrencyMinorUnits
	now := time.Now()
	existing.UpdatedBy = admin
	existing.UpdatedAt = &now

	return s.storage.SaveIsoData(ctx, existing)
}

func (s *Service) Activate(ctx context.Context, admin, countryAlpha2 string) error {
	return s.setActive(ctx, admin, countryAlpha2, true)
}

func (s *Service) Deactivate(ctx context.Context, admin, countryAlpha2 string) error {
	return s.setActive(ctx, admin, countryAlpha2, false)
}

func (s *Service) setActive(ctx context.Context, admin, countryAlpha2 string, active bool) error {
	data, err := s.storage.GetIsoData(ctx, strings.ToUpper(countryAlpha2))
	if err != nil {
		return err
	}

	now := time.Now()
	data.Active = active
	if active {
		data.ActivatedBy = admin
		data.ActivatedAt = &now
	} else {
		data.DeactivatedBy = admin
		data.DeactivatedAt = &now
	}

	if err := s.storage.SaveIsoData(ctx, data); err != nil {
		return err
	}
	s.logger.Info().
		Str("country", data.CountryAlpha2).
		Bool("active", active).
		Str("admin", admin).
		Msg("ISO data activation changed")
	return nil
}

// MinorUnits returns the display precision for a currency: the active
// reference row wins, then the ISO 4217 table, then two places.
func (s *Service) MinorUnits(ctx context.Context, currency string) int {
	code := strings.ToUpper(currency)
	rows, err := s.storage.FindByCurrency(ctx, code)
	if err == nil {
		for _, row := range rows {
			if row.Active {
				return row.CurrencyMinorUnits
			}
		}
	}
	if c := money.GetCurrency(code); c != nil {
		return c.Fraction
	}
	return defaultMinorUnits
}

// Ensure Service implements IsoDataService
var _ interfaces.IsoDataService = (*Service)(nil)
