// Package ledger owns the per-currency balances: credits, debits,
// deposits, sub-account transfers, and transfers out to linked bank
// accounts. All mutations for one (email, currency) pair are serialized
// through a keyed lock, and every successful operation appends exactly
// one audit record.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/interfaces"
	"github.com/tradeforge/vtrade/internal/models"
)

// amountLimit caps deposits and transfers at one trillion, for the
// request amount and for the resulting balance.
var amountLimit = decimal.New(1, 12)

// Service implements the balance ledger over the balance and bank
// storages. Credit and Debit are settlement primitives and append no
// audit records; the calling operation writes the single descriptive
// AccountTransaction for the event.
type Service struct {
	balances interfaces.BalanceStorage
	banks    interfaces.BankStorage
	isoData  interfaces.IsoDataService
	locks    *common.KeyedLocks
	logger   *common.Logger
}

// NewService creates a new ledger service.
func NewService(balances interfaces.BalanceStorage, banks interfaces.BankStorage, isoData interfaces.IsoDataService, logger *common.Logger) *Service {
	return &Service{
		balances: balances,
		banks:    banks,
		isoData:  isoData,
		locks:    common.NewKeyedLocks(),
		logger:   logger,
	}
}

func (s *Service) Balance(ctx context.Context, email, currency string) (*models.AccountBalance, error) {
	return s.balances.GetBalance(ctx, email, strings.ToUpper(currency))
}

func (s *Service) Balances(ctx context.Context, email string) ([]models.AccountBalance, error) {
	return s.balances.ListBalances(ctx, email)
}

// Credit adds amount to the given sub-account, creating the balance row
// on first activity in the currency.
func (s *Service) Credit(ctx context.Context, email, currency string, sub models.BalanceSubAccount, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("credit amount %s is negative", amount)
	}
	currency = strings.ToUpper(currency)

	unlock := s.locks.Acquire(models.BalanceID(email, currency))
	defer unlock()

	balance, err := s.loadOrCreate(ctx, email, currency)
	if err != nil {
		return err
	}
	if err := applyDelta(balance, sub, amount); err != nil {
		return err
	}
	return s.save(ctx, balance)
}

// Debit removes amount from the given sub-account. The debit fails with
// ErrInsufficientFunds before any mutation when the sub-account holds
// less than amount; a missing balance row is treated the same way.
func (s *Service) Debit(ctx context.Context, email, currency string, sub models.BalanceSubAccount, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("debit amount %s is negative", amount)
	}
	currency = strings.ToUpper(currency)

	unlock := s.locks.Acquire(models.BalanceID(email, currency))
	defer unlock()

	balance, err := s.balances.GetBalance(ctx, email, currency)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("no %s balance for '%s': %w", currency, email, models.ErrInsufficientFunds)
		}
		return err
	}
	if err := applyDelta(balance, sub, amount.Neg()); err != nil {
		return err
	}
	return s.save(ctx, balance)
}

// Deposit credits the non-trading sub-account with new virtual funds,
// creating the balance row on first deposit in the currency.
func (s *Service) Deposit(ctx context.Context, email, currency string, amount decimal.Decimal) (*models.AccountBalance, error) {
	currency = strings.ToUpper(currency)
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(models.BalanceID(email, currency))
	defer unlock()

	balance, err := s.loadOrCreate(ctx, email, currency)
	if err != nil {
		return nil, err
	}
	next := balance.NonTradingAmount.Add(amount)
	if next.GreaterThanOrEqual(amountLimit) {
		return nil, fmt.Errorf("non-trading balance would reach %s, at or above the one trillion limit: %w",
			next, models.ErrAmountLimitExceeded)
	}
	balance.NonTradingAmount = next
	if err := s.save(ctx, balance); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Deposited %s %s", currency, models.FormatAmount(amount))
	if _, err := s.appendAccountTransaction(ctx, email, currency, description); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("email", email).
		Str("currency", currency).
		Str("amount", amount.String()).
		Msg("Funds deposited")
	return balance, nil
}

// TransferFunds moves amount between the trading and non-trading
// sub-accounts of one balance. Deposits land in non-trading; moving
// funds to trading makes them available for settlement.
func (s *Service) TransferFunds(ctx context.Context, email, currency string, from models.BalanceSubAccount, amount decimal.Decimal) (*models.AccountBalance, error) {
	currency = strings.ToUpper(currency)
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(models.BalanceID(email, currency))
	defer unlock()

	balance, err := s.balances.GetBalance(ctx, email, currency)
	if err != nil {
		return nil, err
	}

	to := models.SubAccountTrading
	destination := balance.TradingAmount
	if from == models.SubAccountTrading {
		to = models.SubAccountNonTrading
		destination = balance.NonTradingAmount
	}
	if destination.Add(amount).GreaterThanOrEqual(amountLimit) {
		return nil, fmt.Errorf("%s balance would reach %s, at or above the one trillion limit: %w",
			subAccountLabel(to), destination.Add(amount), models.ErrAmountLimitExceeded)
	}
	if err := applyDelta(balance, from, amount.Neg()); err != nil {
		return nil, err
	}
	if err := applyDelta(balance, to, amount); err != nil {
		return nil, err
	}
	if err := s.save(ctx, balance); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Transferred %s %s from %s to %s funds",
		currency, models.FormatAmount(amount), subAccountLabel(from), subAccountLabel(to))
	if _, err := s.appendAccountTransaction(ctx, email, currency, description); err != nil {
		return nil, err
	}
	return balance, nil
}

// TransferToBank debits the non-trading sub-account and records the
// transfer out to a linked bank account. The destination must belong to
// the caller, be in use, and match the balance currency.
func (s *Service) TransferToBank(ctx context.Context, email, currency, bankAccountID string, amount decimal.Decimal) error {
	currency = strings.ToUpper(currency)
	if err := validateAmount(amount); err != nil {
		return err
	}

	bank, err := s.banks.GetBankAccount(ctx, bankAccountID)
	if err != nil {
		return err
	}
	if bank.Email != email || !bank.InUse {
		return fmt.Errorf("bank account '%s': %w", bankAccountID, models.ErrInvalidBankAccount)
	}
	if !strings.EqualFold(bank.Currency, currency) {
		return fmt.Errorf("balance currency %s vs bank account currency %s: %w",
			currency, bank.Currency, models.ErrCurrencyMismatch)
	}

	unlock := s.locks.Acquire(models.BalanceID(email, currency))
	defer unlock()

	balance, err := s.balances.GetBalance(ctx, email, currency)
	if err != nil {
		return err
	}
	if balance.NonTradingAmount.LessThan(amount) {
		return fmt.Errorf("non-trading balance %s below transfer amount %s: %w",
			balance.NonTradingAmount, amount, models.ErrInsufficientFunds)
	}
	balance.NonTradingAmount = balance.NonTradingAmount.Sub(amount)
	if err := s.save(ctx, balance); err != nil {
		return err
	}

	// A failure past this point restores the balance and removes any
	// audit row already written; failed transfers leave no records.
	restore := func() {
		balance.NonTradingAmount = balance.NonTradingAmount.Add(amount)
		if err := s.save(ctx, balance); err != nil {
			s.logger.Error().Err(err).
				Str("email", email).
				Str("currency", currency).
				Msg("Transfer compensation failed")
		}
	}

	description := fmt.Sprintf("Transferred %s %s to bank %s with bank account number %s for currency %s",
		currency, models.FormatAmount(amount), bank.BankName, bank.AccountNumber, bank.Currency)
	auditID, err := s.appendAccountTransaction(ctx, email, currency, description)
	if err != nil {
		restore()
		return err
	}
	if err := s.banks.AppendBankTransaction(ctx, &models.BankAccountTransaction{
		ID:            uuid.New().String(),
		Email:         email,
		BankAccountID: bank.ID,
		Currency:      currency,
		Description:   description,
		CreatedAt:     time.Now(),
	}); err != nil {
		if derr := s.balances.DeleteAccountTransaction(ctx, auditID); derr != nil {
			s.logger.Error().Err(derr).Str("transaction", auditID).Msg("Audit rollback failed")
		}
		restore()
		return err
	}

	s.logger.Info().
		Str("email", email).
		Str("currency", currency).
		Str("bank_account", bank.ID).
		Str("amount", amount.String()).
		Msg("Funds transferred to bank")
	return nil
}

func (s *Service) Transactions(ctx context.Context, email, currency string) ([]models.AccountTransaction, error) {
	return s.balances.ListAccountTransactions(ctx, email, strings.ToUpper(currency))
}

func (s *Service) loadOrCreate(ctx context.Context, email, currency string) (*models.AccountBalance, error) {
	balance, err := s.balances.GetBalance(ctx, email, currency)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	return &models.AccountBalance{
		Email:            email,
		Currency:         currency,
		TradingAmount:    decimal.Zero,
		NonTradingAmount: decimal.Zero,
		DecimalPlaces:    s.isoData.MinorUnits(ctx, currency),
	}, nil
}

func (s *Service) save(ctx context.Context, balance *models.AccountBalance) error {
	balance.UpdatedAt = time.Now()
	return s.balances.SaveBalance(ctx, balance)
}

func (s *Service) appendAccountTransaction(ctx context.Context, email, currency, description string) (string, error) {
	txn := &models.AccountTransaction{
		ID:          uuid.New().String(),
		Email:       email,
		Currency:    currency,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := s.balances.AppendAccountTransaction(ctx, txn); err != nil {
		return "", err
	}
	return txn.ID, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount %s must be positive", amount)
	}
	if amount.GreaterThanOrEqual(amountLimit) {
		return fmt.Errorf("amount %s at or above the one trillion limit: %w",
			amount, models.ErrAmountLimitExceeded)
	}
	return nil
}

func applyDelta(balance *models.AccountBalance, sub models.BalanceSubAccount, delta decimal.Decimal) error {
	switch sub {
	case models.SubAccountTrading:
		next := balance.TradingAmount.Add(delta)
		if next.IsNegative() {
			return fmt.Errorf("trading balance %s below debit amount %s: %w",
				balance.TradingAmount, delta.Neg(), models.ErrInsufficientFunds)
		}
		balance.TradingAmount = next
	case models.SubAccountNonTrading:
		next := balance.NonTradingAmount.Add(delta)
		if next.IsNegative() {
			return fmt.Errorf("non-trading balance %s below debit amount %s: %w",
				balance.NonTradingAmount, delta.Neg(), models.ErrInsufficientFunds)
		}
		balance.NonTradingAmount = next
	default:
		return fmt.Errorf("unknown balance sub-account %q", sub)
	}
	return nil
}

func subAccountLabel(sub models.BalanceSubAccount) string {
	if sub == models.SubAccountTrading {
		return "trading"
	}
	return "non-trading"
}

// Ensure Service implements LedgerService
var _ interfaces.LedgerService = (*Service)(nil)
