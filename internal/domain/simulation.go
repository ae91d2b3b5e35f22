package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SimulationParameters holds the run-wide inputs shared by every product and
// scenario. Immutable once constructed.
type SimulationParameters struct {
	InitialCapital    decimal.Decimal
	AnnualCustodyRate decimal.Decimal
	TaxRate           decimal.Decimal // flat-policy rate on total gain
	PeriodsPerYear    int
}

// NewSimulationParameters validates and builds the shared run parameters.
func NewSimulationParameters(initialCapital, annualCustodyRate, taxRate decimal.Decimal, periodsPerYear int) (SimulationParameters, error) {
	if initialCapital.LessThanOrEqual(decimal.Zero) {
		return SimulationParameters{}, fmt.Errorf("initial capital must be positive, got %s", initialCapital)
	}
	if annualCustodyRate.IsNegative() {
		return SimulationParameters{}, fmt.Errorf("annual custody rate cannot be negative, got %s", annualCustodyRate)
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return SimulationParameters{}, fmt.Errorf("tax rate must be between 0 and 1, got %s", taxRate)
	}
	if periodsPerYear <= 0 {
		return SimulationParameters{}, fmt.Errorf("periods per year must be positive, got %d", periodsPerYear)
	}
	return SimulationParameters{
		InitialCapital:    initialCapital,
		AnnualCustodyRate: annualCustodyRate,
		TaxRate:           taxRate,
		PeriodsPerYear:    periodsPerYear,
	}, nil
}

// PeriodRecord is one row of a product timeline. GrossBalance is the fee-free
// ledger (the tax base); BalanceAfterFee is what the holder actually owns.
type PeriodRecord struct {
	Period          int             `json:"period"` // 1-based
	Rate            decimal.Decimal `json:"rate"`
	GrossBalance    decimal.Decimal `json:"gross_balance"`
	CustodyFee      decimal.Decimal `json:"custody_fee"`
	BalanceAfterFee decimal.Decimal `json:"balance_after_fee"`
}

// Timeline is the per-period history of one product under one scenario. It is
// owned exclusively by its ProductResult and never mutated after creation.
type Timeline []PeriodRecord

// ProductResult is the outcome of simulating one product under one scenario.
type ProductResult struct {
	Product    string          `json:"product"`
	Timeline   Timeline        `json:"timeline,omitempty"`
	FinalGross decimal.Decimal `json:"final_gross"` // fee-free compounded balance (tax base)
	FinalTax   decimal.Decimal `json:"final_tax"`
	FinalNet   decimal.Decimal `json:"final_net"` // after custody extraction and tax
}

// ScenarioSummary pairs a scenario with its product results, sorted descending
// by final net value; ties keep the original product declaration order.
type ScenarioSummary struct {
	Scenario    string          `json:"scenario"`
	Description string          `json:"description,omitempty"`
	Results     []ProductResult `json:"results"`
}

// ComparisonReport is the full output of one orchestrator run, consumed by the
// reporting collaborators (console/CSV/JSON/PDF formatters).
type ComparisonReport struct {
	GeneratedAt    time.Time         `json:"generated_at"`
	Granularity    Granularity       `json:"granularity"`
	TaxPolicy      TaxPolicy         `json:"tax_policy"`
	InitialCapital decimal.Decimal   `json:"initial_capital"`
	Scenarios      []ScenarioSummary `json:"scenarios"`
}
