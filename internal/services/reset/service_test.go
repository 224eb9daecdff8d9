package reset

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/models"
	"github.com/tradeforge/vtrade/internal/storage"
)

func newTestManager(t *testing.T) *storage.Manager {
	t.Helper()
	config := common.NewDefaultConfig()
	config.Storage.Path = t.TempDir()
	manager, err := storage.NewManager(common.NewSilentLogger(), config)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func seedCurrency(t *testing.T, manager *storage.Manager, email, currency string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, manager.Balances().SaveBalance(ctx, &models.AccountBalance{
		Email: email, Currency: currency,
		TradingAmount: decimal.NewFromInt(100), NonTradingAmount: decimal.NewFromInt(50),
	}))
	require.NoError(t, manager.Balances().AppendAccountTransaction(ctx, &models.AccountTransaction{
		ID: uuid.New().String(), Email: email, Currency: currency,
		Description: "Deposited " + currency + " 150.0000", CreatedAt: time.Now(),
	}))
	require.NoError(t, manager.Trades().SaveTransaction(ctx, &models.TradingTransaction{
		ID: uuid.New().String(), Email: email, Symbol: "SYM." + currency,
		Deed: models.DeedBuy, Quantity: 1, Currency: currency,
		Price: decimal.NewFromInt(10), Cost: decimal.NewFromInt(10), ExecutedAt: time.Now(),
	}))
	require.NoError(t, manager.Portfolios().SavePortfolio(ctx, &models.Portfolio{
		ID: uuid.New().String(), Email: email, Name: "P-" + currency, Currency: currency,
		CreatedAt: time.Now(),
	}))
	bankID := uuid.New().String()
	require.NoError(t, manager.Banks().SaveBankAccount(ctx, &models.BankAccount{
		ID: bankID, Email: email, Currency: currency,
		BankName: "Bank", AccountNumber: "1", InUse: true, CreatedAt: time.Now(),
	}))
	require.NoError(t, manager.Banks().AppendBankTransaction(ctx, &models.BankAccountTransaction{
		ID: uuid.New().String(), Email: email, BankAccountID: bankID, Currency: currency,
		Description: "Transferred", CreatedAt: time.Now(),
	}))
	require.NoError(t, manager.WatchLists().SaveEntry(ctx, &models.WatchListEntry{
		ID: uuid.New().String(), Email: email, Symbol: "SYM." + currency,
		Currency: currency, AddedAt: time.Now(),
	}))
}

func TestReset_RequiresPermission(t *testing.T) {
	manager := newTestManager(t)
	service := NewService(manager, common.NewSilentLogger())
	ctx := context.Background()

	require.NoError(t, manager.Traders().SaveTrader(ctx, &models.Trader{
		Email: "trader@example.com", AllowReset: false,
	}))
	seedCurrency(t, manager, "trader@example.com", "USD")

	err := service.Reset(ctx, "trader@example.com", "USD")
	assert.ErrorIs(t, err, models.ErrResetNotAllowed)

	// Nothing was deleted.
	balances, err := manager.Balances().ListBalances(ctx, "trader@example.com")
	require.NoError(t, err)
	assert.Len(t, balances, 1)
}

func TestReset_SingleCurrencyScope(t *testing.T) {
	manager := newTestManager(t)
	service := NewService(manager, common.NewSilentLogger())
	ctx := context.Background()

	require.NoError(t, manager.Traders().SaveTrader(ctx, &models.Trader{
		Email: "trader@example.com", AllowReset: true,
	}))
	seedCurrency(t, manager, "trader@example.com", "USD")
	seedCurrency(t, manager, "trader@example.com", "HKD")

	require.NoError(t, service.Reset(ctx, "trader@example.com", "USD"))

	balances, err := manager.Balances().ListBalances(ctx, "trader@example.com")
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "HKD", balances[0].Currency)

	trades, err := manager.Trades().ListTransactions(ctx, "trader@example.com", "")
	require.NoError(t, err)
	assert.Len(t, trades, 1)

	banks, err := manager.Banks().ListBankAccounts(ctx, "trader@example.com", "")
	require.NoError(t, err)
	assert.Len(t, banks, 1)
}

func TestReset_AllCurrencies(t *testing.T) {
	manager := newTestManager(t)
	service := NewService(manager, common.NewSilentLogger())
	ctx := context.Background()

	require.NoError(t, manager.Traders().SaveTrader(ctx, &models.Trader{
		Email: "trader@example.com", AllowReset: true,
	}))
	seedCurrency(t, manager, "trader@example.com", "USD")
	seedCurrency(t, manager, "trader@example.com", "HKD")

	require.NoError(t, service.Reset(ctx, "trader@example.com", ""))

	balances, err := manager.Balances().ListBalances(ctx, "trader@example.com")
	require.NoError(t, err)
	assert.Empty(t, balances)

	trades, err := manager.Trades().ListTransactions(ctx, "trader@example.com", "")
	require.NoError(t, err)
	assert.Empty(t, trades)

	watch, err := manager.WatchLists().ListEntries(ctx, "trader@example.com", "")
	require.NoError(t, err)
	assert.Empty(t, watch)

	acctTxns, err := manager.Balances().ListAccountTransactions(ctx, "trader@example.com", "")
	require.NoError(t, err)
	assert.Empty(t, acctTxns)

	bankTxns, err := manager.Banks().ListBankTransactions(ctx, "trader@example.com", "")
	require.NoError(t, err)
	assert.Empty(t, bankTxns)

	// The trader profile itself survives a reset.
	trader, err := manager.Traders().GetTrader(ctx, "trader@example.com")
	require.NoError(t, err)
	assert.True(t, trader.AllowReset)
}
