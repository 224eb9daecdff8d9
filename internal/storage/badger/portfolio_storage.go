package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/models"
)

type portfolioStorage struct {
	store  *Store
	logger *common.Logger
}

// NewPortfolioStorage creates a new PortfolioStorage backed by BadgerHold.
func NewPortfolioStorage(store *Store, logger *common.Logger) *portfolioStorage {
	return &portfolioStorage{store: store, logger: logger}
}

func (s *portfolioStorage) GetPortfolio(_ context.Context, id string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := s.store.db.Get(id, &portfolio)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("portfolio '%s': %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get portfolio '%s': %w", id, err)
	}
	return &portfolio, nil
}

func (s *portfolioStorage) SavePortfolio(_ context.Context, portfolio *models.Portfolio) error {
	if err := s.store.db.Upsert(portfolio.ID, portfolio); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	s.logger.Debug().
		Str("email", portfolio.Email).
		Str("portfolio_id", portfolio.ID).
		Msg("Portfolio saved")
	return nil
}

func (s *portfolioStorage) ListPortfolios(_ context.Context, email, currency string) ([]models.Portfolio, error) {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	var portfolios []models.Portfolio
	if err := s.store.db.Find(&portfolios, query.SortBy("CreatedAt")); err != nil {
		return nil, fmt.Errorf("failed to list portfolios for '%s': %w", email, err)
	}
	return portfolios, nil
}

func (s *portfolioStorage) DeletePortfolios(_ context.Context, email, currency string) error {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	if err := s.store.db.DeleteMatching(&models.Portfolio{}, query); err != nil {
		return fmt.Errorf("failed to delete portfolios for '%s': %w", email, err)
	}
	return nil
}
