package interfaces

import (
	"context"

	"github.com/tradeforge/vtrade/internal/models"
)

// MarketDataClient fetches the stock catalog and live prices from the
// external market data provider.
type MarketDataClient interface {
	ListStocks(ctx context.Context) ([]models.Stock, error)
	GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error)
}
