// Package trade implements the trade engine: fee calculation, position
// tracking, and buy/sell execution against live quotes.
package trade

import "github.com/shopspring/decimal"

// Brokerage fee schedule applied to the gross consideration of every
// buy and sell. The levy is rounded up to the next whole currency unit
// before being added.
var (
	feeCommission   = decimal.RequireFromString("0.50")
	feeTradingRate  = decimal.RequireFromString("0.00005")
	feeClearingRate = decimal.RequireFromString("0.00005")
	feeSettleRate   = decimal.RequireFromString("0.00002")
	feeLevyRate     = decimal.RequireFromString("0.001")
)

// CalculateFees returns the total fees for a trade with the given gross
// amount, rounded half-up to four decimal places. The schedule is flat
// commission plus trading, clearing, and settlement rates, plus a levy
// rounded up to the next whole unit.
func CalculateFees(amount decimal.Decimal) decimal.Decimal {
	fees := feeCommission.
		Add(amount.Mul(feeTradingRate)).
		Add(amount.Mul(feeClearingRate)).
		Add(amount.Mul(feeSettleRate)).
		Add(amount.Mul(feeLevyRate).Ceil())
	return fees.Round(4)
}
