// Package bank manages linked external bank accounts.
package bank

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/interfaces"
	"github.com/tradeforge/vtrade/internal/models"
)

// Service maintains the bank accounts funds can be transferred to.
// Accounts are soft-deactivated so historical transfers keep a valid
// reference.
type Service struct {
	banks  interfaces.BankStorage
	logger *common.Logger
}

// NewService creates a new bank account service.
func NewService(banks interfaces.BankStorage, logger *common.Logger) *Service {
	return &Service{banks: banks, logger: logger}
}

func (s *Service) Add(ctx context.Context, email, currency, bankName, accountNumber string) (*models.BankAccount, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	bankName = strings.TrimSpace(bankName)
	accountNumber = strings.TrimSpace(accountNumber)
	if currency == "" || bankName == "" || accountNumber == "" {
		return nil, fmt.Errorf("currency, bank name, and account number are required")
	}

	now := time.Now()
	account := &models.BankAccount{
		ID:            uuid.New().String(),
		Email:         email,
		Currency:      currency,
		BankName:      bankName,
		AccountNumber: accountNumber,
		InUse:         true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.banks.SaveBankAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("email", email).
		Str("bank", bankName).
		Str("currency", currency).
		Msg("Bank account linked")
	return account, nil
}

func (s *Service) List(ctx context.Context, email, currency string) ([]models.BankAccount, error) {
	return s.banks.ListBankAccounts(ctx, email, strings.ToUpper(currency))
}

// Deactivate takes a bank account out of use. It stops accepting
// transfers but remains listed for history.
func (s *Service) Deactivate(ctx context.Context, email, bankAccountID string) error {
	account, err := s.banks.GetBankAccount(ctx, bankAccountID)
	if err != nil {
		return err
	}
	if account.Email != email {
		return fmt.Errorf("bank account '%s' belongs to another account: %w",
			bankAccountID, models.ErrOwnershipMismatch)
	}

	account.InUse = false
	account.UpdatedAt = time.Now()
	return s.banks.SaveBankAccount(ctx, account)
}

func (s *Service) Transactions(ctx context.Context, email, currency string) ([]models.BankAccountTransaction, error) {
	return s.banks.ListBankTransactions(ctx, email, strings.ToUpper(currency))
}

// Ensure Service implements BankService
var _ interfaces.BankService = (*Service)(nil)
