package domain

import "fmt"

// TaxPolicy selects how the final income tax is resolved for a run. Exactly
// one policy applies per simulation; products may override it individually.
type TaxPolicy string

const (
	// TaxPolicyFlat applies the configured SimulationParameters.TaxRate to
	// the total gain at maturity.
	TaxPolicyFlat TaxPolicy = "flat"
	// TaxPolicyRegressive resolves the rate from the regressive bracket
	// table keyed by total holding period.
	TaxPolicyRegressive TaxPolicy = "regressive"
)

// ParseTaxPolicy validates a user-supplied tax policy string. The empty
// string maps to the flat policy, which is the documented default.
func ParseTaxPolicy(s string) (TaxPolicy, error) {
	switch TaxPolicy(s) {
	case TaxPolicyFlat, TaxPolicyRegressive:
		return TaxPolicy(s), nil
	case "":
		return TaxPolicyFlat, nil
	}
	return "", fmt.Errorf("unsupported tax policy %q (expected %q or %q)", s, TaxPolicyFlat, TaxPolicyRegressive)
}

// RateDeriver maps an expanded scenario to the product's own periodic rate
// series. Implementations must be pure: same projection, same series.
type RateDeriver func(proj *ScenarioProjection) (RateSeries, error)

// ProductRule describes one savings product: a rate-derivation rule layered
// on the generic compounding engine, plus its fee and tax treatment. Rules
// are static configuration, created once and never mutated.
type ProductRule struct {
	Name           string
	DeriveRates    RateDeriver
	CustodyApplies bool
	TaxExempt      bool
	// TaxPolicy overrides the run-wide policy when non-empty.
	TaxPolicy TaxPolicy
}
