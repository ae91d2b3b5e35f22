package output

import "github.com/shopspring/decimal"

// FormatCurrency formats a decimal as BRL currency with 2 decimals.
// Kept here so it can be reused by multiple formatters and tested in isolation.
func FormatCurrency(amount decimal.Decimal) string { return "R$ " + amount.StringFixed(2) }

// FormatPercent formats a fractional rate as a percentage with 2 decimals.
func FormatPercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
