// Package interfaces defines the contracts between storage, clients,
// services, and the HTTP server.
package interfaces

import (
	"context"

	"github.com/tradeforge/vtrade/internal/models"
)

// AccountStorage persists login accounts.
type AccountStorage interface {
	GetAccount(ctx context.Context, email string) (*models.Account, error)
	SaveAccount(ctx context.Context, account *models.Account) error
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// TraderStorage persists trader profiles.
type TraderStorage interface {
	GetTrader(ctx context.Context, email string) (*models.Trader, error)
	SaveTrader(ctx context.Context, trader *models.Trader) error
	DeleteTrader(ctx context.Context, email string) error
}

// BalanceStorage persists per-currency balances and their audit log.
type BalanceStorage interface {
	GetBalance(ctx context.Context, email, currency string) (*models.AccountBalance, error)
	SaveBalance(ctx context.Context, balance *models.AccountBalance) error
	ListBalances(ctx context.Context, email string) ([]models.AccountBalance, error)
	DeleteBalances(ctx context.Context, email, currency string) error

	AppendAccountTransaction(ctx context.Context, txn *models.AccountTransaction) error
	DeleteAccountTransaction(ctx context.Context, id string) error
	ListAccountTransactions(ctx context.Context, email, currency string) ([]models.AccountTransaction, error)
	DeleteAccountTransactions(ctx context.Context, email, currency string) error
}

// BankStorage persists linked bank accounts and their audit log.
type BankStorage interface {
	GetBankAccount(ctx context.Context, id string) (*models.BankAccount, error)
	SaveBankAccount(ctx context.Context, account *models.BankAccount) error
	ListBankAccounts(ctx context.Context, email, currency string) ([]models.BankAccount, error)
	DeleteBankAccounts(ctx context.Context, email, currency string) error

	AppendBankTransaction(ctx context.Context, txn *models.BankAccountTransaction) error
	ListBankTransactions(ctx context.Context, email, currency string) ([]models.BankAccountTransaction, error)
	DeleteBankTransactions(ctx context.Context, email, currency string) error
}

// TradingStorage persists executed trading transactions.
type TradingStorage interface {
	GetTransaction(ctx context.Context, id string) (*models.TradingTransaction, error)
	SaveTransaction(ctx context.Context, txn *models.TradingTransaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context, email, currency string) ([]models.TradingTransaction, error)
	ListTransactionsBySymbol(ctx context.Context, email, symbol string) ([]models.TradingTransaction, error)
	ListTransactionsByPortfolio(ctx context.Context, portfolioID string) ([]models.TradingTransaction, error)
	DeleteTransactions(ctx context.Context, email, currency string) error
}

// PortfolioStorage persists portfolios.
type PortfolioStorage interface {
	GetPortfolio(ctx context.Context, id string) (*models.Portfolio, error)
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error
	ListPortfolios(ctx context.Context, email, currency string) ([]models.Portfolio, error)
	DeletePortfolios(ctx context.Context, email, currency string) error
}

// IsoDataStorage persists ISO country/currency reference rows.
type IsoDataStorage interface {
	GetIsoData(ctx context.Context, countryAlpha2 string) (*models.IsoData, error)
	SaveIsoData(ctx context.Context, data *models.IsoData) error
	ListIsoData(ctx context.Context, activeOnly bool) ([]models.IsoData, error)
	FindByCurrency(ctx context.Context, currencyCode string) ([]models.IsoData, error)
}

// WatchListStorage persists watch list entries.
type WatchListStorage interface {
	GetEntry(ctx context.Context, id string) (*models.WatchListEntry, error)
	SaveEntry(ctx context.Context, entry *models.WatchListEntry) error
	ListEntries(ctx context.Context, email, currency string) ([]models.WatchListEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	DeleteEntries(ctx context.Context, email, currency string) error
}

// StorageManager aggregates all storage areas behind one lifecycle.
type StorageManager interface {
	Accounts() AccountStorage
	Traders() TraderStorage
	Balances() BalanceStorage
	Banks() BankStorage
	Trades() TradingStorage
	Portfolios() PortfolioStorage
	IsoData() IsoDataStorage
	WatchLists() WatchListStorage
	Close() error
}
