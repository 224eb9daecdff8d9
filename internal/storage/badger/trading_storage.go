package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/models"
)

type tradingStorage struct {
	store  *Store
	logger *common.Logger
}

// NewTradingStorage creates a new TradingStorage backed by BadgerHold.
func NewTradingStorage(store *Store, logger *common.Logger) *tradingStorage {
	return &tradingStorage{store: store, logger: logger}
}

func (s *tradingStorage) GetTransaction(_ context.Context, id string) (*models.TradingTransaction, error) {
	var txn models.TradingTransaction
	err := s.store.db.Get(id, &txn)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("trading transaction '%s': %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trading transaction '%s': %w", id, err)
	}
	return &txn, nil
}

func (s *tradingStorage) SaveTransaction(_ context.Context, txn *models.TradingTransaction) error {
	if err := s.store.db.Upsert(txn.ID, txn); err != nil {
		return fmt.Errorf("failed to save trading transaction: %w", err)
	}
	s.logger.Debug().
		Str("email", txn.Email).
		Str("symbol", txn.Symbol).
		Str("deed", string(txn.Deed)).
		Int64("quantity", txn.Quantity).
		Msg("Trading transaction saved")
	return nil
}

func (s *tradingStorage) DeleteTransaction(_ context.Context, id string) error {
	err := s.store.db.Delete(id, models.TradingTransaction{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete trading transaction '%s': %w", id, err)
	}
	return nil
}

func (s *tradingStorage) ListTransactions(_ context.Context, email, currency string) ([]models.TradingTransaction, error) {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	var txns []models.TradingTransaction
	if err := s.store.db.Find(&txns, query.SortBy("ExecutedAt")); err != nil {
		return nil, fmt.Errorf("failed to list trading transactions for '%s': %w", email, err)
	}
	return txns, nil
}

func (s *tradingStorage) ListTransactionsBySymbol(_ context.Context, email, symbol string) ([]models.TradingTransaction, error) {
	query := badgerhold.Where("Email").Eq(email).Index("Email").And("Symbol").Eq(symbol)
	var txns []models.TradingTransaction
	if err := s.store.db.Find(&txns, query.SortBy("ExecutedAt")); err != nil {
		return nil, fmt.Errorf("failed to list trading transactions for '%s/%s': %w", email, symbol, err)
	}
	return txns, nil
}

func (s *tradingStorage) ListTransactionsByPortfolio(_ context.Context, portfolioID string) ([]models.TradingTransaction, error) {
	query := badgerhold.Where("PortfolioID").Eq(portfolioID).Index("PortfolioID")
	var txns []models.TradingTransaction
	if err := s.store.db.Find(&txns, query.SortBy("ExecutedAt")); err != nil {
		return nil, fmt.Errorf("failed to list trading transactions for portfolio '%s': %w", portfolioID, err)
	}
	return txns, nil
}

func (s *tradingStorage) DeleteTransactions(_ context.Context, email, currency string) error {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	if err := s.store.db.DeleteMatching(&models.TradingTransaction{}, query); err != nil {
		return fmt.Errorf("failed to delete trading transactions for '%s': %w", email, err)
	}
	return nil
}
