// Package portfolio groups trading transactions into named per-currency
// portfolios and maintains their invested, current, and profit-loss
// aggregates.
package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/interfaces"
	"github.com/tradeforge/vtrade/internal/models"
)

// Service implements the portfolio aggregator. Linking and unlinking
// only move the association; transactions themselves are never deleted
// or mutated beyond the portfolio reference.
type Service struct {
	portfolios interfaces.PortfolioStorage
	trades     interfaces.TradingStorage
	quotes     interfaces.QuoteService
	logger     *common.Logger
}

// NewService creates a new portfolio service.
func NewService(portfolios interfaces.PortfolioStorage, trades interfaces.TradingStorage, quotes interfaces.QuoteService, logger *common.Logger) *Service {
	return &Service{portfolios: portfolios, trades: trades, quotes: quotes, logger: logger}
}

func (s *Service) Create(ctx context.Context, email, name, currency string) (*models.Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("portfolio name is required")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, fmt.Errorf("portfolio currency is required")
	}

	now := time.Now()
	portfolio := &models.Portfolio{
		ID:             uuid.New().String(),
		Email:          email,
		Name:           name,
		Currency:       currency,
		InvestedAmount: decimal.Zero,
		CurrentAmount:  decimal.Zero,
		ProfitLoss:     decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.portfolios.SavePortfolio(ctx, portfolio); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("email", email).
		Str("portfolio", portfolio.ID).
		Str("name", name).
		Msg("Portfolio created")
	return portfolio, nil
}

func (s *Service) List(ctx context.Context, email, currency string) ([]models.Portfolio, error) {
	return s.portfolios.ListPortfolios(ctx, email, strings.ToUpper(currency))
}

func (s *Service) Detail(ctx context.Context, email, portfolioID string) (*models.PortfolioDetail, error) {
	portfolio, err := s.owned(ctx, email, portfolioID)
	if err != nil {
		return nil, err
	}
	txns, err := s.trades.ListTransactionsByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	return &models.PortfolioDetail{Portfolio: *portfolio, Transactions: txns}, nil
}

// Link attaches transactions to a portfolio. Every transaction must
// belong to the caller and match the portfolio currency; validation
// runs before any link is written.
func (s *Service) Link(ctx context.Context, email, portfolioID string, txnIDs []string) (*models.Portfolio, error) {
	portfolio, err := s.owned(ctx, email, portfolioID)
	if err != nil {
		return nil, err
	}

	txns := make([]*models.TradingTransaction, 0, len(txnIDs))
	for _, id := range txnIDs {
		txn, err := s.trades.GetTransaction(ctx, id)
		if err != nil {
			return nil, err
		}
		if txn.Email != email {
			return nil, fmt.Errorf("transaction '%s' belongs to another account: %w",
				id, models.ErrOwnershipMismatch)
		}
		if !strings.EqualFold(txn.Currency, portfolio.Currency) {
			return nil, fmt.Errorf("transaction '%s' currency %s vs portfolio currency %s: %w",
				id, txn.Currency, portfolio.Currency, models.ErrCurrencyMismatch)
		}
		txns = append(txns, txn)
	}

	for _, txn := range txns {
		txn.PortfolioID = portfolio.ID
		if err := s.trades.SaveTransaction(ctx, txn); err != nil {
			return nil, err
		}
	}
	return s.Revalue(ctx, portfolio.ID)
}

// Unlink removes the association only; the transactions survive.
func (s *Service) Unlink(ctx context.Context, email, portfolioID string, txnIDs []string) (*models.Portfolio, error) {
	portfolio, err := s.owned(ctx, email, portfolioID)
	if err != nil {
		return nil, err
	}

	for _, id := range txnIDs {
		txn, err := s.trades.GetTransaction(ctx, id)
		if err != nil {
			return nil, err
		}
		if txn.PortfolioID != portfolio.ID {
			continue
		}
		txn.PortfolioID = ""
		if err := s.trades.SaveTransaction(ctx, txn); err != nil {
			return nil, err
		}
	}
	return s.Revalue(ctx, portfolio.ID)
}

// Revalue recomputes the aggregates from the linked transactions:
// invested is buy cost minus sell cost, current is the live mark of the
// outstanding linked quantities, profit-loss their difference.
func (s *Service) Revalue(ctx context.Context, portfolioID string) (*models.Portfolio, error) {
	portfolio, err := s.portfolios.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	txns, err := s.trades.ListTransactionsByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	invested := decimal.Zero
	outstanding := make(map[string]int64)
	for _, txn := range txns {
		switch txn.Deed {
		case models.DeedBuy:
			invested = invested.Add(txn.Cost)
			outstanding[txn.Symbol] += txn.Quantity
		case models.DeedSell:
			invested = invested.Sub(txn.Cost)
			outstanding[txn.Symbol] -= txn.Quantity
		}
	}

	symbols := make([]string, 0, len(outstanding))
	for symbol, quantity := range outstanding {
		if quantity > 0 {
			symbols = append(symbols, symbol)
		}
	}

	current := decimal.Zero
	if len(symbols) > 0 {
		resolved, err := s.quotes.Resolve(ctx, symbols...)
		if err != nil {
			return nil, err
		}
		for _, symbol := range symbols {
			current = current.Add(resolved[symbol].Price.Mul(decimal.NewFromInt(outstanding[symbol])))
		}
	}

	portfolio.InvestedAmount = invested
	portfolio.CurrentAmount = current
	portfolio.ProfitLoss = current.Sub(invested)
	portfolio.UpdatedAt = time.Now()
	if err := s.portfolios.SavePortfolio(ctx, portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

func (s *Service) owned(ctx context.Context, email, portfolioID string) (*models.Portfolio, error) {
	portfolio, err := s.portfolios.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio.Email != email {
		return nil, fmt.Errorf("portfolio '%s' belongs to another account: %w",
			portfolioID, models.ErrOwnershipMismatch)
	}
	return portfolio, nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
