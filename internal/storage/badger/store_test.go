package badger

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
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAccountStorage_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	accounts := NewAccountStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	_, err := accounts.GetAccount(ctx, "missing@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)

	account := &models.Account{
		Email:        "trader@example.com",
		PasswordHash: "hash",
		Active:       true,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, accounts.SaveAccount(ctx, account))

	got, err := accounts.GetAccount(ctx, "trader@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.Email, got.Email)
	assert.True(t, got.Active)

	all, err := accounts.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBalanceStorage_ScopedDelete(t *testing.T) {
	store := newTestStore(t)
	balances := NewBalanceStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	for _, currency := range []string{"USD", "HKD", "JPY"} {
		require.NoError(t, balances.SaveBalance(ctx, &models.AccountBalance{
			Email:            "trader@example.com",
			Currency:         currency,
			TradingAmount:    decimal.NewFromInt(100),
			NonTradingAmount: decimal.NewFromInt(50),
			DecimalPlaces:    2,
		}))
	}

	// Deleting one currency leaves the others untouched.
	require.NoError(t, balances.DeleteBalances(ctx, "trader@example.com", "HKD"))
	remaining, err := balances.ListBalances(ctx, "trader@example.com")
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	require.NoError(t, balances.DeleteBalances(ctx, "trader@example.com", ""))
	remaining, err = balances.ListBalances(ctx, "trader@example.com")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestBalanceStorage_DecimalFidelity(t *testing.T) {
	store := newTestStore(t)
	balances := NewBalanceStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	require.NoError(t, balances.SaveBalance(ctx, &models.AccountBalance{
		Email:            "trader@example.com",
		Currency:         "USD",
		TradingAmount:    decimal.RequireFromString("12345.6789"),
		NonTradingAmount: decimal.RequireFromString("0.0001"),
		DecimalPlaces:    4,
	}))

	got, err := balances.GetBalance(ctx, "trader@example.com", "USD")
	require.NoError(t, err)
	assert.True(t, got.TradingAmount.Equal(decimal.RequireFromString("12345.6789")))
	assert.True(t, got.NonTradingAmount.Equal(decimal.RequireFromString("0.0001")))
}

func TestTradingStorage_QueriesByScope(t *testing.T) {
	store := newTestStore(t)
	trades := NewTradingStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	save := func(symbol, currency, portfolioID string, deed models.Deed, offset time.Duration) {
		require.NoError(t, trades.SaveTransaction(ctx, &models.TradingTransaction{
			ID:          uuid.New().String(),
			Email:       "trader@example.com",
			Symbol:      symbol,
			Deed:        deed,
			Quantity:    10,
			Currency:    currency,
			Price:       decimal.NewFromInt(5),
			Cost:        decimal.NewFromInt(50),
			PortfolioID: portfolioID,
			ExecutedAt:  base.Add(offset),
		}))
	}

	save("AAPL", "USD", "p1", models.DeedBuy, 0)
	save("AAPL", "USD", "", models.DeedSell, time.Minute)
	save("0005.HK", "HKD", "", models.DeedBuy, 2*time.Minute)

	usd, err := trades.ListTransactions(ctx, "trader@example.com", "USD")
	require.NoError(t, err)
	require.Len(t, usd, 2)
	assert.True(t, usd[0].ExecutedAt.Before(usd[1].ExecutedAt))

	bySymbol, err := trades.ListTransactionsBySymbol(ctx, "trader@example.com", "AAPL")
	require.NoError(t, err)
	assert.Len(t, bySymbol, 2)

	byPortfolio, err := trades.ListTransactionsByPortfolio(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, byPortfolio, 1)

	require.NoError(t, trades.DeleteTransactions(ctx, "trader@example.com", "HKD"))
	all, err := trades.ListTransactions(ctx, "trader@example.com", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestIsoDataStorage_ActiveFilter(t *testing.T) {
	store := newTestStore(t)
	iso := NewIsoDataStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	require.NoError(t, iso.SaveIsoData(ctx, &models.IsoData{
		CountryAlpha2: "US", CountryName: "United States",
		CurrencyCode: "USD", CurrencyName: "US Dollar",
		CurrencyMinorUnits: 2, Active: true,
	}))
	require.NoError(t, iso.SaveIsoData(ctx, &models.IsoData{
		CountryAlpha2: "JP", CountryName: "Japan",
		CurrencyCode: "JPY", CurrencyName: "Yen",
		CurrencyMinorUnits: 0, Active: false,
	}))

	active, err := iso.ListIsoData(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "US", active[0].CountryAlpha2)

	all, err := iso.ListIsoData(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCurrency, err := iso.FindByCurrency(ctx, "JPY")
	require.NoError(t, err)
	require.Len(t, byCurrency, 1)
	assert.Equal(t, 0, byCurrency[0].CurrencyMinorUnits)
}

func TestWatchListStorage_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	watch := NewWatchListStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	entry := &models.WatchListEntry{
		ID:       uuid.New().String(),
		Email:    "trader@example.com",
		Symbol:   "AAPL",
		Name:     "Apple Inc.",
		Currency: "USD",
		AddedAt:  time.Now(),
	}
	require.NoError(t, watch.SaveEntry(ctx, entry))

	entries, err := watch.ListEntries(ctx, "trader@example.com", "USD")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, watch.DeleteEntry(ctx, entry.ID))
	entries, err = watch.ListEntries(ctx, "trader@example.com", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
