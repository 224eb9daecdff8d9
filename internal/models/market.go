package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Stock is a catalog entry from the market data provider.
type Stock struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Currency    string `json:"currency"`
	Location    string `json:"location"`
}

// IsIndex reports whether the catalog entry is a market index rather
// than a tradable equity.
func (s Stock) IsIndex() bool {
	return strings.EqualFold(s.Type, "index")
}

// Quote is a resolved price for one symbol.
type Quote struct {
	Symbol        string
	EncodedSymbol string
	Name          string
	Currency      string
	Price         decimal.Decimal
	Index         bool
}
