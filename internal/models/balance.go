package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance holds the virtual funds for one account in one currency.
// TradingAmount settles buy and sell executions; NonTradingAmount holds
// deposited cash and bank-transferable funds. Neither may go negative.
type AccountBalance struct {
	ID               string `badgerhold:"key"`
	Email            string `badgerhold:"index"`
	Currency         string
	TradingAmount    decimal.Decimal
	NonTradingAmount decimal.Decimal
	DecimalPlaces    int
	UpdatedAt        time.Time
}

// BalanceID builds the composite key for an (email, currency) balance.
func BalanceID(email, currency string) string {
	return email + "|" + currency
}

// Total returns trading plus non-trading funds.
func (b *AccountBalance) Total() decimal.Decimal {
	return b.TradingAmount.Add(b.NonTradingAmount)
}

// FormatAmount renders an amount at four decimal places with thousands
// separators, the format used in audit descriptions.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(4)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i := 0; i < len(whole); i++ {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(whole[i])
	}
	return sign + b.String() + "." + frac
}

// BalanceSubAccount selects which sub-amount of a balance an operation targets.
type BalanceSubAccount string

const (
	SubAccountTrading    BalanceSubAccount = "TRADING"
	SubAccountNonTrading BalanceSubAccount = "NON_TRADING"
)
