package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Granularity selects the compounding step of a simulation run.
type Granularity string

const (
	// GranularityMonthly compounds 12 times per year.
	GranularityMonthly Granularity = "monthly"
	// GranularityDaily compounds once per business day (252 per year).
	GranularityDaily Granularity = "daily"
)

// BusinessDaysPerYear is the Brazilian market convention for daily compounding.
const BusinessDaysPerYear = 252

// ParseGranularity validates a user-supplied granularity string.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityMonthly, GranularityDaily:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("unsupported granularity %q (expected %q or %q)", s, GranularityMonthly, GranularityDaily)
}

// PeriodsPerYear returns the number of compounding periods in one simulated year.
func (g Granularity) PeriodsPerYear() int {
	switch g {
	case GranularityDaily:
		return BusinessDaysPerYear
	default:
		return 12
	}
}

// ScenarioDefinition is a named macro-economic trajectory: one annual policy
// rate and one annual inflation rate per simulated year. Definitions are
// static configuration, created once and never mutated.
type ScenarioDefinition struct {
	Name             string
	Description      string
	StartYear        int
	PolicyRateByYear []decimal.Decimal
	InflationByYear  []decimal.Decimal
}

// NewScenarioDefinition builds a validated scenario definition. Both
// trajectories must cover exactly the configured number of simulated years;
// a length mismatch is a configuration error raised here, never during a
// simulation run.
func NewScenarioDefinition(name, description string, startYear, years int, policyByYear, inflationByYear []decimal.Decimal) (ScenarioDefinition, error) {
	if name == "" {
		return ScenarioDefinition{}, fmt.Errorf("scenario name is required")
	}
	if years <= 0 {
		return ScenarioDefinition{}, fmt.Errorf("scenario %s: simulated years must be positive, got %d", name, years)
	}
	if len(policyByYear) != years {
		return ScenarioDefinition{}, fmt.Errorf("scenario %s: policy-rate trajectory has %d entries, expected %d", name, len(policyByYear), years)
	}
	if len(inflationByYear) != years {
		return ScenarioDefinition{}, fmt.Errorf("scenario %s: inflation trajectory has %d entries, expected %d", name, len(inflationByYear), years)
	}
	minusOne := decimal.NewFromInt(-1)
	for i, r := range policyByYear {
		if r.LessThanOrEqual(minusOne) {
			return ScenarioDefinition{}, fmt.Errorf("scenario %s: policy rate for year %d must be greater than -100%%, got %s", name, startYear+i, r)
		}
	}
	for i, r := range inflationByYear {
		if r.LessThanOrEqual(minusOne) {
			return ScenarioDefinition{}, fmt.Errorf("scenario %s: inflation rate for year %d must be greater than -100%%, got %s", name, startYear+i, r)
		}
	}
	return ScenarioDefinition{
		Name:             name,
		Description:      description,
		StartYear:        startYear,
		PolicyRateByYear: append([]decimal.Decimal(nil), policyByYear...),
		InflationByYear:  append([]decimal.Decimal(nil), inflationByYear...),
	}, nil
}

// Years returns the number of simulated years the definition covers.
func (sd ScenarioDefinition) Years() int { return len(sd.PolicyRateByYear) }

// ScenarioPeriod is one period of an expanded scenario: the annual rates in
// force during its calendar year plus their periodic conversions.
type ScenarioPeriod struct {
	Index             int             `json:"index"` // 1-based
	Year              int             `json:"year"`
	PolicyAnnual      decimal.Decimal `json:"policy_annual"`
	InflationAnnual   decimal.Decimal `json:"inflation_annual"`
	PolicyPeriodic    decimal.Decimal `json:"policy_periodic"`
	InflationPeriodic decimal.Decimal `json:"inflation_periodic"`
}

// ScenarioProjection is a scenario expanded to a periodic rate table at a
// given granularity. It is a derived, immutable output of the generator.
type ScenarioProjection struct {
	Scenario    string           `json:"scenario"`
	Granularity Granularity      `json:"granularity"`
	Periods     []ScenarioPeriod `json:"periods"`
}

// PeriodsPerYear returns the granularity's compounding periods per year.
func (sp *ScenarioProjection) PeriodsPerYear() int { return sp.Granularity.PeriodsPerYear() }

// PolicyPeriodicSeries returns the per-period policy rates as a RateSeries.
func (sp *ScenarioProjection) PolicyPeriodicSeries() RateSeries {
	rates := make([]decimal.Decimal, len(sp.Periods))
	for i, p := range sp.Periods {
		rates[i] = p.PolicyPeriodic
	}
	return RateSeries{Rates: rates, PeriodsPerYear: sp.PeriodsPerYear()}
}

// RateSeries is an ordered sequence of periodic effective rates together with
// the granularity that produced it.
type RateSeries struct {
	Rates          []decimal.Decimal
	PeriodsPerYear int
}

// Len returns the number of simulated periods in the series.
func (rs RateSeries) Len() int { return len(rs.Rates) }
