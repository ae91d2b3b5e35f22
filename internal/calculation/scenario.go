package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rendago/fixedincome/internal/domain"
	"github.com/rendago/fixedincome/pkg/ratemath"
)

// ExpandScenario projects a scenario definition onto a periodic rate table at
// the requested granularity. Each annual value is replicated across all
// periods of its simulated year and converted to a periodic effective rate.
//
// totalPeriods selects how many periods to keep; zero means the full horizon
// (years × periods-per-year). A shorter request truncates the series
// deterministically; a longer one is a configuration error (the series is
// never padded).
func ExpandScenario(def domain.ScenarioDefinition, granularity domain.Granularity, totalPeriods int) (*domain.ScenarioProjection, error) {
	if _, err := domain.ParseGranularity(string(granularity)); err != nil {
		return nil, err
	}
	periodsPerYear := granularity.PeriodsPerYear()
	horizon := def.Years() * periodsPerYear
	if totalPeriods == 0 {
		totalPeriods = horizon
	}
	if totalPeriods < 0 || totalPeriods > horizon {
		return nil, fmt.Errorf("scenario %s: requested %d periods but the %d-year horizon provides at most %d at %s granularity",
			def.Name, totalPeriods, def.Years(), horizon, granularity)
	}

	// Convert each annual value once per year rather than once per period.
	policyPeriodic := make([]decimal.Decimal, def.Years())
	inflationPeriodic := make([]decimal.Decimal, def.Years())
	for y := 0; y < def.Years(); y++ {
		var err error
		policyPeriodic[y], err = ratemath.AnnualToPeriodic(def.PolicyRateByYear[y], periodsPerYear)
		if err != nil {
			return nil, fmt.Errorf("scenario %s, year %d policy rate: %w", def.Name, def.StartYear+y, err)
		}
		inflationPeriodic[y], err = ratemath.AnnualToPeriodic(def.InflationByYear[y], periodsPerYear)
		if err != nil {
			return nil, fmt.Errorf("scenario %s, year %d inflation rate: %w", def.Name, def.StartYear+y, err)
		}
	}

	periods := make([]domain.ScenarioPeriod, totalPeriods)
	for i := 0; i < totalPeriods; i++ {
		yearIdx := i / periodsPerYear
		periods[i] = domain.ScenarioPeriod{
			Index:             i + 1,
			Year:              def.StartYear + yearIdx,
			PolicyAnnual:      def.PolicyRateByYear[yearIdx],
			InflationAnnual:   def.InflationByYear[yearIdx],
			PolicyPeriodic:    policyPeriodic[yearIdx],
			InflationPeriodic: inflationPeriodic[yearIdx],
		}
	}

	return &domain.ScenarioProjection{
		Scenario:    def.Name,
		Granularity: granularity,
		Periods:     periods,
	}, nil
}
