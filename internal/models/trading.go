package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deed is the direction of a trading transaction.
type Deed string

const (
	DeedBuy  Deed = "BUY"
	DeedSell Deed = "SELL"
)

// TradingTransaction records a single executed buy or sell. Records are
// immutable once written except for the portfolio link.
type TradingTransaction struct {
	ID          string `badgerhold:"key"`
	Email       string `badgerhold:"index"`
	Symbol      string `badgerhold:"index"`
	SymbolName  string
	Deed        Deed
	Quantity    int64
	Currency    string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	PortfolioID string `badgerhold:"index"`
	ExecutedAt  time.Time
}

// TradeEstimate is a cost preview for a prospective buy or sell.
// For a buy Total is gross plus fees; for a sell it is gross minus fees.
type TradeEstimate struct {
	Symbol   string
	Deed     Deed
	Quantity int64
	Currency string
	Price    decimal.Decimal
	Gross    decimal.Decimal
	Fees     decimal.Decimal
	Total    decimal.Decimal
}

// Position is the derived outstanding holding for one symbol: total bought
// minus total sold, marked at the latest available price. A zero quantity
// means the position is closed and is not reported.
type Position struct {
	Email         string
	Symbol        string
	SymbolName    string
	Currency      string
	Quantity      int64
	CurrentPrice  decimal.Decimal
	CurrentAmount decimal.Decimal
}
