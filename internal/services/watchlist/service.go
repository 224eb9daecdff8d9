// Package watchlist maintains the symbols each account keeps an eye on.
package watchlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/interfaces"
	"github.com/tradeforge/vtrade/internal/models"
)

// Service manages watch list entries. Adding a symbol resolves it
// against the market data provider so the stored entry carries the
// instrument's name and currency.
type Service struct {
	entries interfaces.WatchListStorage
	quotes  interfaces.QuoteService
	logger  *common.Logger
}

// NewService creates a new watch list service.
func NewService(entries interfaces.WatchListStorage, quotes interfaces.QuoteService, logger *common.Logger) *Service {
	return &Service{entries: entries, quotes: quotes, logger: logger}
}

// Add watches a symbol. Re-adding an already watched symbol returns the
// existing entry.
func (s *Service) Add(ctx context.Context, email, symbol string) (*models.WatchListEntry, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	existing, err := s.entries.ListEntries(ctx, email, "")
	if err != nil {
		return nil, err
	}
	for _, entry := range existing {
		if strings.EqualFold(entry.Symbol, symbol) {
			return &entry, nil
		}
	}

	resolved, err := s.quotes.Resolve(ctx, symbol)
	if err != nil {
		return nil, err
	}
	quote := resolved[symbol]

	entry := &models.WatchListEntry{
		ID:       uuid.New().String(),
		Email:    email,
		Symbol:   quote.Symbol,
		Name:     quote.Name,
		Currency: quote.Currency,
		AddedAt:  time.Now(),
	}
	if err := s.entries.SaveEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", email).Str("symbol", quote.Symbol).Msg("Watch list entry added")
	return entry, nil
}

func (s *Service) Remove(ctx context.Context, email, entryID string) error {
	entry, err := s.entries.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Email != email {
		return fmt.Errorf("watch list entry '%s' belongs to another account: %w",
			entryID, models.ErrOwnershipMismatch)
	}
	return s.entries.DeleteEntry(ctx, entryID)
}

func (s *Service) List(ctx context.Context, email, currency string) ([]models.WatchListEntry, error) {
	return s.entries.ListEntries(ctx, email, strings.ToUpper(currency))
}

// Ensure Service implements WatchListService
var _ interfaces.WatchListService = (*Service)(nil)
