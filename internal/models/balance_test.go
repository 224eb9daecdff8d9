package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.0000"},
		{"1500", "1,500.0000"},
		{"1234567.89", "1,234,567.8900"},
		{"999.9999", "999.9999"},
		{"-42000.5", "-42,000.5000"},
	}
	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		assert.NoError(t, err)
		assert.Equal(t, c.want, FormatAmount(d), "input %s", c.in)
	}
}

func TestBalanceID(t *testing.T) {
	assert.Equal(t, "trader@example.com|USD", BalanceID("trader@example.com", "USD"))
}

func TestAccountBalance_Total(t *testing.T) {
	b := &AccountBalance{
		TradingAmount:    decimal.NewFromInt(300),
		NonTradingAmount: decimal.NewFromInt(700),
	}
	assert.True(t, b.Total().Equal(decimal.NewFromInt(1000)))
}
