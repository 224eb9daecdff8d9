package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/models"
)

type bankStorage struct {
	store  *Store
	logger *common.Logger
}

// NewBankStorage creates a new BankStorage backed by BadgerHold.
func NewBankStorage(store *Store, logger *common.Logger) *bankStorage {
	return &bankStorage{store: store, logger: logger}
}

func (s *bankStorage) GetBankAccount(_ context.Context, id string) (*models.BankAccount, error) {
	var account models.BankAccount
	err := s.store.db.Get(id, &account)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("bank account '%s': %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bank account '%s': %w", id, err)
	}
	return &account, nil
}

func (s *bankStorage) SaveBankAccount(_ context.Context, account *models.BankAccount) error {
	if err := s.store.db.Upsert(account.ID, account); err != nil {
		return fmt.Errorf("failed to save bank account: %w", err)
	}
	s.logger.Debug().
		Str("email", account.Email).
		Str("bank_account_id", account.ID).
		Msg("Bank account saved")
	return nil
}

func (s *bankStorage) ListBankAccounts(_ context.Context, email, currency string) ([]models.BankAccount, error) {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	var accounts []models.BankAccount
	if err := s.store.db.Find(&accounts, query.SortBy("CreatedAt")); err != nil {
		return nil, fmt.Errorf("failed to list bank accounts for '%s': %w", email, err)
	}
	return accounts, nil
}

func (s *bankStorage) DeleteBankAccounts(_ context.Context, email, currency string) error {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	if err := s.store.db.DeleteMatching(&models.BankAccount{}, query); err != nil {
		return fmt.Errorf("failed to delete bank accounts for '%s': %w", email, err)
	}
	return nil
}

func (s *bankStorage) AppendBankTransaction(_ context.Context, txn *models.BankAccountTransaction) error {
	if err := s.store.db.Insert(txn.ID, txn); err != nil {
		return fmt.Errorf("failed to append bank transaction: %w", err)
	}
	return nil
}

func (s *bankStorage) ListBankTransactions(_ context.Context, email, currency string) ([]models.BankAccountTransaction, error) {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	var txns []models.BankAccountTransaction
	if err := s.store.db.Find(&txns, query.SortBy("CreatedAt")); err != nil {
		return nil, fmt.Errorf("failed to list bank transactions for '%s': %w", email, err)
	}
	return txns, nil
}

func (s *bankStorage) DeleteBankTransactions(_ context.Context, email, currency string) error {
	query := badgerhold.Where("Email").Eq(email).Index("Email")
	if currency != "" {
		query = query.And("Currency").Eq(currency)
	}
	if err := s.store.db.DeleteMatching(&models.BankAccountTransaction{}, query); err != nil {
		return fmt.Errorf("failed to delete bank transactions for '%s': %w", email, err)
	}
	return nil
}
