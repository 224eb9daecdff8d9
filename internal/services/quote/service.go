// Package quote resolves trading symbols to live prices through the
// market data client and serves catalog listings and searches.
package quote

import (
	"context"
	"fmt"
	"strings"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/interfaces"
	"github.com/tradeforge/vtrade/internal/models"
)

// Catalog listing kinds.
const (
	KindIndex  = "index"
	KindEquity = "equity"
)

// Search fields.
const (
	SearchBySymbol = "symbol"
	SearchByName   = "name"
)

// Service resolves quotes at the instant of a trade. Provider failures
// and missing symbols surface models.ErrQuoteUnavailable; nothing is
// retried or cached.
type Service struct {
	client interfaces.MarketDataClient
	logger *common.Logger
}

// NewService creates a new quote service.
func NewService(client interfaces.MarketDataClient, logger *common.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Resolve fetches current quotes for the given symbols. Every requested
// symbol must be present in the provider response.
func (s *Service) Resolve(ctx context.Context, symbols ...string) (map[string]models.Quote, error) {
	if len(symbols) == 0 {
		return map[string]models.Quote{}, nil
	}

	quotes, err := s.client.GetQuotes(ctx, symbols)
	if err != nil {
		s.logger.Warn().Err(err).Strs("symbols", symbols).Msg("Quote lookup failed")
		return nil, fmt.Errorf("quote lookup: %w", models.ErrQuoteUnavailable)
	}

	resolved := make(map[string]models.Quote, len(quotes))
	for _, quote := range quotes {
		resolved[quote.Symbol] = quote
	}
	for _, symbol := range symbols {
		if _, ok := resolved[symbol]; !ok {
			return nil, fmt.Errorf("symbol '%s': %w", symbol, models.ErrQuoteUnavailable)
		}
	}
	return resolved, nil
}

// ListStocks returns quoted catalog entries, optionally restricted to
// indices or equities.
func (s *Service) ListStocks(ctx context.Context, kind string) ([]models.Quote, error) {
	stocks, err := s.client.ListStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock catalog: %w", models.ErrQuoteUnavailable)
	}

	matched := make([]models.Stock, 0, len(stocks))
	for _, stock := range stocks {
		switch kind {
		case KindIndex:
			if !stock.IsIndex() {
				continue
			}
		case KindEquity:
			if stock.IsIndex() {
				continue
			}
		case "":
		default:
			return nil, fmt.Errorf("unknown stock kind %q", kind)
		}
		matched = append(matched, stock)
	}
	return s.quoteStocks(ctx, matched)
}

// Search filters the catalog by symbol or name and quotes the matches.
// Symbol searches match prefixes; name searches match substrings. Both
// are case-insensitive.
func (s *Service) Search(ctx context.Context, field, criteria string) ([]models.Quote, error) {
	criteria = strings.ToLower(strings.TrimSpace(criteria))
	if criteria == "" {
		return nil, fmt.Errorf("search criteria is required")
	}

	stocks, err := s.client.ListStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock catalog: %w", models.ErrQuoteUnavailable)
	}

	var matched []models.Stock
	for _, stock := range stocks {
		switch field {
		case SearchBySymbol:
			if strings.HasPrefix(strings.ToLower(stock.Symbol), criteria) {
				matched = append(matched, stock)
			}
		case SearchByName:
			if strings.Contains(strings.ToLower(stock.Description), criteria) {
				matched = append(matched, stock)
			}
		default:
			return nil, fmt.Errorf("unknown search field %q", field)
		}
	}
	return s.quoteStocks(ctx, matched)
}

func (s *Service) quoteStocks(ctx context.Context, stocks []models.Stock) ([]models.Quote, error) {
	if len(stocks) == 0 {
		return []models.Quote{}, nil
	}

	symbols := make([]string, 0, len(stocks))
	for _, stock := range stocks {
		symbols = append(symbols, stock.Symbol)
	}

	resolved, err := s.Resolve(ctx, symbols...)
	if err != nil {
		return nil, err
	}

	quotes := make([]models.Quote, 0, len(stocks))
	for _, stock := range stocks {
		quotes = append(quotes, resolved[stock.Symbol])
	}
	return quotes, nil
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
