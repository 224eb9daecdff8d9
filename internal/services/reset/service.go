// Package reset wipes an account's trading state, either for one
// currency or across the board.
package reset

import (
	"context"
	"fmt"
	"strings"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/interfaces"
	"github.com/tradeforge/vtrade/internal/models"
)

// Service implements the destructive reset. The operation is gated by
// the trader's AllowReset flag; the account and trader profile
// themselves survive.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new reset service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// Reset deletes watch lists, trading transactions, portfolios, bank
// transactions, bank accounts, account transactions, and balances for
// the scope. An empty currency wipes every currency.
func (s *Service) Reset(ctx context.Context, email, currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	trader, err := s.storage.Traders().GetTrader(ctx, email)
	if err != nil {
		return err
	}
	if !trader.AllowReset {
		return fmt.Errorf("account '%s': %w", email, models.ErrResetNotAllowed)
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"watch lists", func() error { return s.storage.WatchLists().DeleteEntries(ctx, email, currency) }},
		{"trading transactions", func() error { return s.storage.Trades().DeleteTransactions(ctx, email, currency) }},
		{"portfolios", func() error { return s.storage.Portfolios().DeletePortfolios(ctx, email, currency) }},
		{"bank transactions", func() error { return s.storage.Banks().DeleteBankTransactions(ctx, email, currency) }},
		{"bank accounts", func() error { return s.storage.Banks().DeleteBankAccounts(ctx, email, currency) }},
		{"account transactions", func() error { return s.storage.Balances().DeleteAccountTransactions(ctx, email, currency) }},
		{"balances", func() error { return s.storage.Balances().DeleteBalances(ctx, email, currency) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("resetting %s: %w", step.name, err)
		}
	}

	scope := currency
	if scope == "" {
		scope = "all currencies"
	}
	s.logger.Info().Str("email", email).Str("scope", scope).Msg("Account data reset")
	return nil
}

// Ensure Service implements ResetService
var _ interfaces.ResetService = (*Service)(nil)
