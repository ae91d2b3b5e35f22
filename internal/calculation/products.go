package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rendago/fixedincome/internal/domain"
	"github.com/rendago/fixedincome/pkg/ratemath"
)

// Product rate-derivation rules. Each constructor returns a ProductRule whose
// DeriveRates maps the expanded scenario to the product's own periodic rate
// series; the generic compounding engine does the rest.

// FixedNominal yields a constant annual rate, converted once to the
// simulation's periodic rate and repeated for every period.
// Models prefixado treasury bonds.
func FixedNominal(name string, annualRate decimal.Decimal) domain.ProductRule {
	return domain.ProductRule{
		Name:           name,
		CustodyApplies: true,
		DeriveRates: func(proj *domain.ScenarioProjection) (domain.RateSeries, error) {
			periodic, err := ratemath.AnnualToPeriodic(annualRate, proj.PeriodsPerYear())
			if err != nil {
				return domain.RateSeries{}, fmt.Errorf("product %s: %w", name, err)
			}
			rates := make([]decimal.Decimal, len(proj.Periods))
			for i := range rates {
				rates[i] = periodic
			}
			return domain.RateSeries{Rates: rates, PeriodsPerYear: proj.PeriodsPerYear()}, nil
		},
	}
}

// InflationLinked composes each period's inflation rate with a fixed real
// periodic rate: (1+inflation)(1+real) - 1. The inflation leg comes from the
// scenario; the real leg is the product's contracted coupon.
// Models IPCA+ treasury bonds.
func InflationLinked(name string, realAnnualRate decimal.Decimal) domain.ProductRule {
	return domain.ProductRule{
		Name:           name,
		CustodyApplies: true,
		DeriveRates: func(proj *domain.ScenarioProjection) (domain.RateSeries, error) {
			realPeriodic, err := ratemath.AnnualToPeriodic(realAnnualRate, proj.PeriodsPerYear())
			if err != nil {
				return domain.RateSeries{}, fmt.Errorf("product %s: %w", name, err)
			}
			rates := make([]decimal.Decimal, len(proj.Periods))
			for i, p := range proj.Periods {
				rates[i] = ratemath.Compose(p.InflationPeriodic, realPeriodic)
			}
			return domain.RateSeries{Rates: rates, PeriodsPerYear: proj.PeriodsPerYear()}, nil
		},
	}
}

// PolicyTracker passes the scenario's own periodic policy-rate series through
// unchanged. Models Selic treasury bonds.
func PolicyTracker(name string) domain.ProductRule {
	return domain.ProductRule{
		Name:           name,
		CustodyApplies: true,
		DeriveRates: func(proj *domain.ScenarioProjection) (domain.RateSeries, error) {
			return proj.PolicyPeriodicSeries(), nil
		},
	}
}

// SpreadAdjusted subtracts a fixed spread from the policy rate in the annual
// domain before converting back to periodic. Subtracting in the periodic
// domain instead would compound the spread and drift from the quoted annual
// figure. Models CDI-referenced bank deposits (CDI ≈ policy rate − spread).
func SpreadAdjusted(name string, annualSpread decimal.Decimal) domain.ProductRule {
	return domain.ProductRule{
		Name:           name,
		CustodyApplies: true,
		DeriveRates: func(proj *domain.ScenarioProjection) (domain.RateSeries, error) {
			rates := make([]decimal.Decimal, len(proj.Periods))
			// Annual values repeat within a year; cache conversions by year.
			cachedYear := -1
			var cached decimal.Decimal
			for i, p := range proj.Periods {
				if p.Year != cachedYear {
					periodic, err := ratemath.AnnualToPeriodic(p.PolicyAnnual.Sub(annualSpread), proj.PeriodsPerYear())
					if err != nil {
						return domain.RateSeries{}, fmt.Errorf("product %s, year %d: %w", name, p.Year, err)
					}
					cachedYear, cached = p.Year, periodic
				}
				rates[i] = cached
			}
			return domain.RateSeries{Rates: rates, PeriodsPerYear: proj.PeriodsPerYear()}, nil
		},
	}
}

// FractionalRate multiplies the policy periodic rate by a fixed factor,
// typically below one. Models LCI/LCA certificates quoted as a percentage of
// the reference rate; these are usually income-tax exempt.
func FractionalRate(name string, factor decimal.Decimal, taxExempt bool) domain.ProductRule {
	return domain.ProductRule{
		Name:           name,
		CustodyApplies: true,
		TaxExempt:      taxExempt,
		DeriveRates: func(proj *domain.ScenarioProjection) (domain.RateSeries, error) {
			rates := make([]decimal.Decimal, len(proj.Periods))
			for i, p := range proj.Periods {
				rates[i] = p.PolicyPeriodic.Mul(factor)
			}
			return domain.RateSeries{Rates: rates, PeriodsPerYear: proj.PeriodsPerYear()}, nil
		},
	}
}

// TieredConfig parameterizes the administered savings rule.
type TieredConfig struct {
	// ThresholdAnnual is the annual policy rate above which the fixed
	// administered rate applies.
	ThresholdAnnual decimal.Decimal
	// AdministeredRate is the fixed rate per native period used above the
	// threshold.
	AdministeredRate decimal.Decimal
	// Fraction scales the policy rate converted to the native period when at
	// or below the threshold.
	Fraction decimal.Decimal
	// Increment is a fixed per-native-period addition applied in both
	// branches (the reference rate, TR).
	Increment decimal.Decimal
	// NativePeriodsPerYear is the rule's own capitalization frequency
	// (12 for the monthly-capitalizing savings account).
	NativePeriodsPerYear int
}

// TieredAdministered branches on the annual policy rate: above the threshold
// the fixed administered rate applies, otherwise a fraction of the policy
// rate converted to the native period; both branches add the fixed increment.
//
// When the simulation granularity is finer than the rule's native
// capitalization period, only the last period of each native block (the
// anniversary) carries the computed rate; every other period in the block
// carries exactly zero, reproducing no-interest days between capitalization
// events. Models the Brazilian savings account (poupança): no custody fee and
// income-tax exempt.
func TieredAdministered(name string, cfg TieredConfig) domain.ProductRule {
	return domain.ProductRule{
		Name:           name,
		CustodyApplies: false,
		TaxExempt:      true,
		DeriveRates: func(proj *domain.ScenarioProjection) (domain.RateSeries, error) {
			periodsPerYear := proj.PeriodsPerYear()
			if cfg.NativePeriodsPerYear <= 0 {
				return domain.RateSeries{}, fmt.Errorf("product %s: native periods per year must be positive, got %d", name, cfg.NativePeriodsPerYear)
			}
			if periodsPerYear < cfg.NativePeriodsPerYear {
				return domain.RateSeries{}, fmt.Errorf("product %s: simulation granularity (%d/yr) is coarser than the native capitalization period (%d/yr)",
					name, periodsPerYear, cfg.NativePeriodsPerYear)
			}
			if periodsPerYear%cfg.NativePeriodsPerYear != 0 {
				return domain.RateSeries{}, fmt.Errorf("product %s: %d periods per year do not divide into %d native blocks",
					name, periodsPerYear, cfg.NativePeriodsPerYear)
			}
			blockLen := periodsPerYear / cfg.NativePeriodsPerYear

			rates := make([]decimal.Decimal, len(proj.Periods))
			for i, p := range proj.Periods {
				if (i+1)%blockLen != 0 {
					rates[i] = decimal.Zero // no interest between anniversaries
					continue
				}
				var base decimal.Decimal
				if p.PolicyAnnual.GreaterThan(cfg.ThresholdAnnual) {
					base = cfg.AdministeredRate
				} else {
					periodic, err := ratemath.AnnualToPeriodic(p.PolicyAnnual, cfg.NativePeriodsPerYear)
					if err != nil {
						return domain.RateSeries{}, fmt.Errorf("product %s, year %d: %w", name, p.Year, err)
					}
					base = cfg.Fraction.Mul(periodic)
				}
				rates[i] = base.Add(cfg.Increment)
			}
			return domain.RateSeries{Rates: rates, PeriodsPerYear: periodsPerYear}, nil
		},
	}
}
