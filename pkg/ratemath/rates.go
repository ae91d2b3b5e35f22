// Package ratemath provides conversions between effective interest rates at
// different compounding granularities, plus rate composition helpers. All
// rates are effective rates expressed as decimals (0.15 == 15%).
package ratemath

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// AnnualToPeriodic converts an effective annual rate to the equivalent
// effective rate for one of periodsPerYear periods:
//
//	(1+annual)^(1/periodsPerYear) - 1
//
// The fractional power is computed in float64; the result is exact to well
// below the 1e-9 tolerance the simulation relies on.
func AnnualToPeriodic(annual decimal.Decimal, periodsPerYear int) (decimal.Decimal, error) {
	if periodsPerYear <= 0 {
		return decimal.Zero, fmt.Errorf("periods per year must be positive, got %d", periodsPerYear)
	}
	if annual.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return decimal.Zero, fmt.Errorf("annual rate must be greater than -100%%, got %s", annual)
	}
	v := math.Pow(1.0+annual.InexactFloat64(), 1.0/float64(periodsPerYear)) - 1.0
	return decimal.NewFromFloat(v), nil
}

// PeriodicToAnnual is the algebraic inverse of AnnualToPeriodic:
//
//	(1+periodic)^periodsPerYear - 1
func PeriodicToAnnual(periodic decimal.Decimal, periodsPerYear int) (decimal.Decimal, error) {
	if periodsPerYear <= 0 {
		return decimal.Zero, fmt.Errorf("periods per year must be positive, got %d", periodsPerYear)
	}
	if periodic.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return decimal.Zero, fmt.Errorf("periodic rate must be greater than -100%%, got %s", periodic)
	}
	return one.Add(periodic).Pow(decimal.NewFromInt(int64(periodsPerYear))).Sub(one), nil
}

// Compose combines two effective rates over the same period:
//
//	(1+a)(1+b) - 1
//
// The arithmetic is commutative; callers should document which leg is the
// inflation index and which is the real return.
func Compose(a, b decimal.Decimal) decimal.Decimal {
	return one.Add(a).Mul(one.Add(b)).Sub(one)
}

// RealFromNominal extracts the real return leg from a nominal rate and an
// inflation rate over the same period: (1+nominal)/(1+inflation) - 1.
func RealFromNominal(nominal, inflation decimal.Decimal) (decimal.Decimal, error) {
	if inflation.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return decimal.Zero, fmt.Errorf("inflation rate must be greater than -100%%, got %s", inflation)
	}
	return one.Add(nominal).Div(one.Add(inflation)).Sub(one), nil
}

// EquivalentPeriodicFee converts an annual custody/fee rate into its
// per-period equivalent. Identical formula to AnnualToPeriodic, applied to a
// cost instead of a yield.
func EquivalentPeriodicFee(annualFee decimal.Decimal, periodsPerYear int) (decimal.Decimal, error) {
	return AnnualToPeriodic(annualFee, periodsPerYear)
}

// ChainRates compounds a sequence of effective rates geometrically:
//
//	Π(1+r_i) - 1
func ChainRates(rates []decimal.Decimal) decimal.Decimal {
	acc := one
	for _, r := range rates {
		acc = acc.Mul(one.Add(r))
	}
	return acc.Sub(one)
}
