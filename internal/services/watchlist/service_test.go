package watchlist

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/models"
	"github.com/tradeforge/vtrade/internal/storage/badger"
)

type fakeQuoteService struct {
	quotes map[string]models.Quote
}

func (f *fakeQuoteService) Resolve(_ context.Context, symbols ...string) (map[string]models.Quote, error) {
	resolved := make(map[string]models.Quote, len(symbols))
	for _, symbol := range symbols {
		quote, ok := f.quotes[symbol]
		if !ok {
			return nil, fmt.Errorf("symbol '%s': %w", symbol, models.ErrQuoteUnavailable)
		}
		resolved[symbol] = quote
	}
	return resolved, nil
}

func (f *fakeQuoteService) ListStocks(context.Context, string) ([]models.Quote, error) {
	return nil, nil
}

func (f *fakeQuoteService) Search(context.Context, string, string) ([]models.Quote, error) {
	return nil, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := common.NewSilentLogger()
	store, err := badger.NewStore(logger, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	quotes := &fakeQuoteService{quotes: map[string]models.Quote{
		"AAPL":    {Symbol: "AAPL", Name: "Apple Inc.", Currency: "USD", Price: decimal.NewFromInt(190)},
		"0005.HK": {Symbol: "0005.HK", Name: "HSBC Holdings plc", Currency: "HKD", Price: decimal.NewFromInt(39)},
	}}
	return NewService(badger.NewWatchListStorage(store, logger), quotes, logger)
}

func TestAdd_ResolvesInstrument(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	entry, err := service.Add(ctx, "trader@example.com", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", entry.Name)
	assert.Equal(t, "USD", entry.Currency)

	// Re-adding is idempotent.
	again, err := service.Add(ctx, "trader@example.com", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, again.ID)

	_, err = service.Add(ctx, "trader@example.com", "NOPE")
	assert.ErrorIs(t, err, models.ErrQuoteUnavailable)
}

func TestList_ByCurrency(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	_, err := service.Add(ctx, "trader@example.com", "AAPL")
	require.NoError(t, err)
	_, err = service.Add(ctx, "trader@example.com", "0005.HK")
	require.NoError(t, err)

	hkd, err := service.List(ctx, "trader@example.com", "hkd")
	require.NoError(t, err)
	require.Len(t, hkd, 1)
	assert.Equal(t, "0005.HK", hkd[0].Symbol)

	all, err := service.List(ctx, "trader@example.com", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRemove_OwnershipEnforced(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	entry, err := service.Add(ctx, "trader@example.com", "AAPL")
	require.NoError(t, err)

	err = service.Remove(ctx, "other@example.com", entry.ID)
	assert.ErrorIs(t, err, models.ErrOwnershipMismatch)

	require.NoError(t, service.Remove(ctx, "trader@example.com", entry.ID))
	all, err := service.List(ctx, "trader@example.com", "")
	require.NoError(t, err)
	assert.Empty(t, all)
}
