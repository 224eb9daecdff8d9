package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/models"
)

type balanceStorage struct {
	store  *Store
	logger *common.Logger
}

// NewBalanceStorage creates a new BalanceStorage backed by BadgerHold.
func NewBalanceStorage(store *Store, logger *common.Logger) *balanceStorage {
	return &balanceStorage{store: store, logger: logger}
}

func (s *balanceStorage) GetBalance(_ context.Context, email, currency string) (*models.AccountBalance, error) {
	var balance models.AccountBalance
	err := s.store.db.Get(models.BalanceID(email, currency), &balance)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("balance '%s/%s': %w", email, currency, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get balance '%s/%s': %w", email, currency, err)
	}
	return &balance, nil
}

func (s *balanceStorage) SaveBalance(_ context.Context, balance *models.AccountBalance) error {
	balance.ID = models.BalanceID(balance.Email, balance.Currency)
	if err := s.store.db.Upsert(balance.ID, balance); err != nil {
		return fmt.Errorf("failed to save balance: %w", err)
	}
	s.logger.Debug().
		Str("email", balance.Email).
		Str("currency", balance.Currency).
		Msg("Balance saved")
	return nil
}

func (s *balanceStorage) ListBalances(_ context.Context, email string) ([]models.AccountBalance, error) {
	var balances []models.AccountBalance
	if err := s.store.db.Find(&balances, badgerhold.Where("Email").Eq(email).Index("Email")); err != nil {
		return nil, fmt.Errorf("failed to list balances for '%s': %w", email, err)
	}
	return balances, nil
}

func (s *balanceStorage) DeleteBalances(_ context.Context, email, currency string) error {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	if err := s.store.db.DeleteMatching(&models.AccountBalance{}, query); err != nil {
		return fmt.Errorf("failed to delete balances for '%s': %w", email, err)
	}
	return nil
}

func (s *balanceStorage) AppendAccountTransaction(_ context.Context, txn *models.AccountTransaction) error {
	if err := s.store.db.Insert(txn.ID, txn); err != nil {
		return fmt.Errorf("failed to append account transaction: %w", err)
	}
	return nil
}

func (s *balanceStorage) DeleteAccountTransaction(_ context.Context, id string) error {
	err := s.store.db.Delete(id, models.AccountTransaction{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete account transaction '%s': %w", id, err)
	}
	return nil
}

func (s *balanceStorage) ListAccountTransactions(_ context.Context, email, currency string) ([]models.AccountTransaction, error) {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	var txns []models.AccountTransaction
	if err := s.store.db.Find(&txns, query.SortBy("CreatedAt")); err != nil {
		return nil, fmt.Errorf("failed to list account transactions for '%s': %w", email, err)
	}
	return txns, nil
}

func (s *balanceStorage) DeleteAccountTransactions(_ context.Context, email, currency string) error {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	if err := s.store.db.DeleteMatching(&models.AccountTransaction{}, query); err != nil {
		return fmt.Errorf("failed to delete account transactions for '%s': %w", email, err)
	}
	return nil
}
