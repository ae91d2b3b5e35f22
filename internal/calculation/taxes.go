package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rendago/fixedincome/internal/domain"
)

// TAX ASSUMPTIONS:
//
// 1. Regressive table: Brazilian fixed-income income-tax schedule keyed by
//    elapsed calendar days of the holding period. The final bracket is
//    open-ended, so any holding period resolves to a rate.
//
// 2. Day-count approximation: business-day periods map to calendar days via
//    365.25/252; monthly periods via 30 days per month. Other granularities
//    fall back to 365.25/periodsPerYear.
//
// 3. Custody fees are not deductible from the taxable gain: the tax base is
//    the fee-free compounded balance, never the fee-bearing one.

// TaxBracket is one row of the regressive table: holding periods between
// MinDays and MaxDays (inclusive) pay Rate on the total gain.
type TaxBracket struct {
	MinDays int
	MaxDays int
	Rate    decimal.Decimal
}

// RegressiveTaxTable resolves the income-tax rate from the holding period.
type RegressiveTaxTable struct {
	Brackets []TaxBracket
}

// NewRegressiveTaxTable returns the standard regressive schedule:
// 22.5% up to 180 days, 20% to 360, 17.5% to 720, 15% beyond.
func NewRegressiveTaxTable() *RegressiveTaxTable {
	return &RegressiveTaxTable{
		Brackets: []TaxBracket{
			{0, 180, decimal.NewFromFloat(0.225)},
			{181, 360, decimal.NewFromFloat(0.20)},
			{361, 720, decimal.NewFromFloat(0.175)},
			{721, 9999, decimal.NewFromFloat(0.15)},
		},
	}
}

// NewRegressiveTaxTableWithBrackets builds a table from configured brackets,
// validating that they are ordered and contiguous from day zero.
func NewRegressiveTaxTableWithBrackets(brackets []TaxBracket) (*RegressiveTaxTable, error) {
	if len(brackets) == 0 {
		return nil, fmt.Errorf("regressive tax table requires at least one bracket")
	}
	if brackets[0].MinDays != 0 {
		return nil, fmt.Errorf("first tax bracket must start at day 0, got %d", brackets[0].MinDays)
	}
	for i := 1; i < len(brackets); i++ {
		if brackets[i].MinDays != brackets[i-1].MaxDays+1 {
			return nil, fmt.Errorf("tax bracket %d must start at day %d, got %d", i, brackets[i-1].MaxDays+1, brackets[i].MinDays)
		}
	}
	return &RegressiveTaxTable{Brackets: append([]TaxBracket(nil), brackets...)}, nil
}

// RateForDays returns the rate for a holding period of elapsedDays calendar
// days. Inputs beyond the last declared bound yield the final bracket's rate.
func (t *RegressiveTaxTable) RateForDays(elapsedDays int) decimal.Decimal {
	for _, b := range t.Brackets {
		if elapsedDays >= b.MinDays && elapsedDays <= b.MaxDays {
			return b.Rate
		}
	}
	return t.Brackets[len(t.Brackets)-1].Rate
}

// RateForPeriods converts an elapsed period count at a given granularity to
// approximate calendar days, then resolves the bracket rate.
func (t *RegressiveTaxTable) RateForPeriods(periods, periodsPerYear int) decimal.Decimal {
	return t.RateForDays(CalendarDays(periods, periodsPerYear))
}

// CalendarDays approximates the calendar days spanned by a number of
// compounding periods at a given granularity.
func CalendarDays(periods, periodsPerYear int) int {
	switch periodsPerYear {
	case 12:
		return periods * 30
	case domain.BusinessDaysPerYear:
		return int(float64(periods) * 365.25 / float64(domain.BusinessDaysPerYear))
	default:
		return int(float64(periods) * 365.25 / float64(periodsPerYear))
	}
}
