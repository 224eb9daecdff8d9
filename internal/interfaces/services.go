package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tradeforge/vtrade/internal/models"
)

// QuoteService resolves live quotes and catalog listings from the market
// data provider. Resolution failures surface models.ErrQuoteUnavailable;
// there are no internal retries.
type QuoteService interface {
	Resolve(ctx context.Context, symbols ...string) (map[string]models.Quote, error)
	ListStocks(ctx context.Context, kind string) ([]models.Quote, error)
	Search(ctx context.Context, field, criteria string) ([]models.Quote, error)
}

// LedgerService owns balance mutations and the fund audit log. All
// mutations for one (email, currency) pair are serialized.
type LedgerService interface {
	Balance(ctx context.Context, email, currency string) (*models.AccountBalance, error)
	Balances(ctx context.Context, email string) ([]models.AccountBalance, error)
	Credit(ctx context.Context, email, currency string, sub models.BalanceSubAccount, amount decimal.Decimal) error
	Debit(ctx context.Context, email, currency string, sub models.BalanceSubAccount, amount decimal.Decimal) error
	Deposit(ctx context.Context, email, currency string, amount decimal.Decimal) (*models.AccountBalance, error)
	TransferFunds(ctx context.Context, email, currency string, from models.BalanceSubAccount, amount decimal.Decimal) (*models.AccountBalance, error)
	TransferToBank(ctx context.Context, email, currency, bankAccountID string, amount decimal.Decimal) error
	Transactions(ctx context.Context, email, currency string) ([]models.AccountTransaction, error)
}

// TradeService executes buys and sells against live quotes and derives
// outstanding positions from the transaction log.
type TradeService interface {
	Buy(ctx context.Context, email, symbol string, quantity int64) (*models.TradingTransaction, error)
	Sell(ctx context.Context, email, symbol string, quantity int64, autoTransfer bool, bankAccountID string) (*models.TradingTransaction, error)
	Estimate(ctx context.Context, email, symbol string, quantity int64, deed models.Deed) (*models.TradeEstimate, error)
	Outstanding(ctx context.Context, email, currency string) ([]models.Position, error)
	OutstandingQuantity(ctx context.Context, email, symbol string) (int64, error)
	Transactions(ctx context.Context, email, currency string) ([]models.TradingTransaction, error)
}

// PortfolioService groups trading transactions and maintains the
// invested/current/profit-loss aggregates.
type PortfolioService interface {
	Create(ctx context.Context, email, name, currency string) (*models.Portfolio, error)
	List(ctx context.Context, email, currency string) ([]models.Portfolio, error)
	Detail(ctx context.Context, email, portfolioID string) (*models.PortfolioDetail, error)
	Link(ctx context.Context, email, portfolioID string, txnIDs []string) (*models.Portfolio, error)
	Unlink(ctx context.Context, email, portfolioID string, txnIDs []string) (*models.Portfolio, error)
	Revalue(ctx context.Context, portfolioID string) (*models.Portfolio, error)
}

// AccountService manages registration, authentication, trader profiles,
// and the admin access workflow.
type AccountService interface {
	Register(ctx context.Context, email, password, fullName string) (*models.Account, error)
	Login(ctx context.Context, email, password string, requireAdmin bool) (*models.Account, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
	Deactivate(ctx context.Context, email, reason string) error
	GetAccount(ctx context.Context, email string) (*models.Account, error)
	GetTrader(ctx context.Context, email string) (*models.Trader, error)
	UpdateTrader(ctx context.Context, trader *models.Trader) error
	RequestAdminAccess(ctx context.Context, email string) error
	GrantAdminAccess(ctx context.Context, approver, email string) error
	RevokeAdminAccess(ctx context.Context, approver, email string) error
	ListAdminRequests(ctx context.Context) ([]models.Account, error)
	ListAdminAccounts(ctx context.Context) ([]models.Account, error)
}

// BankService manages linked bank accounts.
type BankService interface {
	Add(ctx context.Context, email, currency, bankName, accountNumber string) (*models.BankAccount, error)
	List(ctx context.Context, email, currency string) ([]models.BankAccount, error)
	Deactivate(ctx context.Context, email, bankAccountID string) error
	Transactions(ctx context.Context, email, currency string) ([]models.BankAccountTransaction, error)
}

// WatchListService maintains per-account watch lists.
type WatchListService interface {
	Add(ctx context.Context, email, symbol string) (*models.WatchListEntry, error)
	Remove(ctx context.Context, email, entryID string) error
	List(ctx context.Context, email, currency string) ([]models.WatchListEntry, error)
}

// IsoDataService maintains ISO reference data and currency precision.
type IsoDataService interface {
	List(ctx context.Context, activeOnly bool) ([]models.IsoData, error)
	Get(ctx context.Context, countryAlpha2 string) (*models.IsoData, error)
	Create(ctx context.Context, admin string, data *models.IsoData) error
	Update(ctx context.Context, admin string, data *models.IsoData) error
	Activate(ctx context.Context, admin, countryAlpha2 string) error
	Deactivate(ctx context.Context, admin, countryAlpha2 string) error
	MinorUnits(ctx context.Context, currency string) int
}

// ResetService wipes trading state for an account, gated by the
// trader's allow-reset flag.
type ResetService interface {
	Reset(ctx context.Context, email, currency string) error
}
