package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio groups trading transactions in a single currency.
// InvestedAmount is net cost of linked buys minus sells; CurrentAmount is
// the live mark of the outstanding linked positions.
type Portfolio struct {
	ID             string `badgerhold:"key"`
	Email          string `badgerhold:"index"`
	Name           string
	Currency       string
	InvestedAmount decimal.Decimal
	CurrentAmount  decimal.Decimal
	ProfitLoss     decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PortfolioDetail is a portfolio with its linked transactions resolved.
type PortfolioDetail struct {
	Portfolio    Portfolio
	Transactions []TradingTransaction
}
