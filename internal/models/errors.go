package models

import "errors"

// Sentinel errors shared by the trading, ledger, and portfolio services.
// Handlers map these onto HTTP status codes; services return them wrapped
// with operation context via fmt.Errorf and %w.
var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientPosition = errors.New("insufficient outstanding position")
	ErrQuoteUnavailable     = errors.New("quote unavailable")
	ErrSymbolNotTradable    = errors.New("symbol not tradable")
	ErrInvalidBankAccount   = errors.New("invalid bank account")
	ErrCurrencyMismatch     = errors.New("currency mismatch")
	ErrOwnershipMismatch    = errors.New("ownership mismatch")
	ErrTradeFailed          = errors.New("trade failed")
	ErrAccountInactive      = errors.New("account inactive")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotFound             = errors.New("not found")
	ErrAmountLimitExceeded  = errors.New("amount limit exceeded")
	ErrResetNotAllowed      = errors.New("reset not allowed")
)
