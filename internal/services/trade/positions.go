package trade

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tradeforge/vtrade/internal/models"
)

// Outstanding folds the transaction log into open positions and marks
// them at the latest available price. Fully closed positions are
// absent, not reported as zero rows.
func (s *Service) Outstanding(ctx context.Context, email, currency string) ([]models.Position, error) {
	txns, err := s.trades.ListTransactions(ctx, email, currency)
	if err != nil {
		return nil, err
	}

	open := foldPositions(email, txns)
	if len(open) == 0 {
		return []models.Position{}, nil
	}

	symbols := make([]string, 0, len(open))
	for _, position := range open {
		symbols = append(symbols, position.Symbol)
	}
	resolved, err := s.quotes.Resolve(ctx, symbols...)
	if err != nil {
		return nil, err
	}

	for i := range open {
		quote := resolved[open[i].Symbol]
		open[i].CurrentPrice = quote.Price
		open[i].CurrentAmount = quote.Price.Mul(decimal.NewFromInt(open[i].Quantity))
	}
	return open, nil
}

// OutstandingQuantity returns the open quantity for one symbol.
func (s *Service) OutstandingQuantity(ctx context.Context, email, symbol string) (int64, error) {
	txns, err := s.trades.ListTransactionsBySymbol(ctx, email, symbol)
	if err != nil {
		return 0, err
	}

	var quantity int64
	for _, txn := range txns {
		switch txn.Deed {
		case models.DeedBuy:
			quantity += txn.Quantity
		case models.DeedSell:
			quantity -= txn.Quantity
		}
	}
	return quantity, nil
}

func foldPositions(email string, txns []models.TradingTransaction) []models.Position {
	bySymbol := make(map[string]*models.Position)
	for _, txn := range txns {
		position, ok := bySymbol[txn.Symbol]
		if !ok {
			position = &models.Position{
				Email:      email,
				Symbol:     txn.Symbol,
				SymbolName: txn.SymbolName,
				Currency:   txn.Currency,
			}
			bySymbol[txn.Symbol] = position
		}
		switch txn.Deed {
		case models.DeedBuy:
			position.Quantity += txn.Quantity
		case models.DeedSell:
			position.Quantity -= txn.Quantity
		}
	}

	open := make([]models.Position, 0, len(bySymbol))
	for _, position := range bySymbol {
		if position.Quantity > 0 {
			open = append(open, *position)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Symbol < open[j].Symbol })
	return open
}
