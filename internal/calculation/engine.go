package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rendago/fixedincome/internal/domain"
	"github.com/rendago/fixedincome/pkg/ratemath"
)

var one = decimal.NewFromInt(1)

// Engine runs the generic product-compounding simulation: dual-ledger
// accumulation with custody-fee extraction and final tax provisioning.
// The whole computation is synchronous and deterministic; re-running with
// equal inputs produces equal outputs.
type Engine struct {
	TaxTable *RegressiveTaxTable
	Logger   Logger
}

// NewEngine creates an engine with the standard regressive tax table and a
// no-op logger.
func NewEngine() *Engine {
	return &Engine{
		TaxTable: NewRegressiveTaxTable(),
		Logger:   NopLogger{},
	}
}

// SetLogger sets the engine logger. A nil value restores the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// SimulateProduct compounds one product's rate series over the scenario
// horizon. Two parallel balances are tracked per period: a fee-free ledger
// that serves purely as the tax base (custody cost is not deductible from the
// taxable gain), and the fee-bearing ledger the holder actually owns.
func (e *Engine) SimulateProduct(proj *domain.ScenarioProjection, rule domain.ProductRule, params domain.SimulationParameters, runPolicy domain.TaxPolicy) (*domain.ProductResult, error) {
	if params.PeriodsPerYear != proj.PeriodsPerYear() {
		return nil, fmt.Errorf("product %s: parameters use %d periods per year but projection %s uses %d",
			rule.Name, params.PeriodsPerYear, proj.Scenario, proj.PeriodsPerYear())
	}

	series, err := rule.DeriveRates(proj)
	if err != nil {
		return nil, fmt.Errorf("deriving rates for %s under %s: %w", rule.Name, proj.Scenario, err)
	}
	if series.Len() != len(proj.Periods) {
		return nil, fmt.Errorf("product %s derived %d rates for %d periods", rule.Name, series.Len(), len(proj.Periods))
	}

	custodyPeriodic := decimal.Zero
	if rule.CustodyApplies {
		custodyPeriodic, err = ratemath.EquivalentPeriodicFee(params.AnnualCustodyRate, params.PeriodsPerYear)
		if err != nil {
			return nil, fmt.Errorf("product %s custody fee: %w", rule.Name, err)
		}
	}

	grossNoFee := params.InitialCapital
	grossWithFee := params.InitialCapital
	timeline := make(domain.Timeline, 0, series.Len())

	for i, rate := range series.Rates {
		grossNoFee = grossNoFee.Mul(one.Add(rate))
		grossWithFee = grossWithFee.Mul(one.Add(rate))
		fee := decimal.Zero
		if rule.CustodyApplies {
			fee = grossWithFee.Mul(custodyPeriodic)
			grossWithFee = grossWithFee.Sub(fee)
		}
		timeline = append(timeline, domain.PeriodRecord{
			Period:          i + 1,
			Rate:            rate,
			GrossBalance:    grossNoFee,
			CustodyFee:      fee,
			BalanceAfterFee: grossWithFee,
		})
	}

	// Losses never produce negative tax.
	gain := grossNoFee.Sub(params.InitialCapital)
	if gain.IsNegative() {
		gain = decimal.Zero
	}

	tax := decimal.Zero
	if !rule.TaxExempt {
		policy := runPolicy
		if rule.TaxPolicy != "" {
			policy = rule.TaxPolicy
		}
		rate := params.TaxRate
		if policy == domain.TaxPolicyRegressive {
			rate = e.TaxTable.RateForPeriods(series.Len(), params.PeriodsPerYear)
		}
		tax = gain.Mul(rate)
	}

	e.Logger.Debugf("simulated %s under %s: gross=%s tax=%s net=%s",
		rule.Name, proj.Scenario, grossNoFee.StringFixed(2), tax.StringFixed(2), grossWithFee.Sub(tax).StringFixed(2))

	return &domain.ProductResult{
		Product:    rule.Name,
		Timeline:   timeline,
		FinalGross: grossNoFee,
		FinalTax:   tax,
		FinalNet:   grossWithFee.Sub(tax),
	}, nil
}

// RunAll simulates every product against every scenario and collects ranked
// per-scenario summaries: results sorted descending by final net value, ties
// broken by the original product declaration order (stable sort).
func (e *Engine) RunAll(scenarios []domain.ScenarioDefinition, products []domain.ProductRule, params domain.SimulationParameters, granularity domain.Granularity, taxPolicy domain.TaxPolicy) (*domain.ComparisonReport, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios to simulate")
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products to simulate")
	}

	report := &domain.ComparisonReport{
		GeneratedAt:    time.Now(),
		Granularity:    granularity,
		TaxPolicy:      taxPolicy,
		InitialCapital: params.InitialCapital,
		Scenarios:      make([]domain.ScenarioSummary, 0, len(scenarios)),
	}

	for _, def := range scenarios {
		proj, err := ExpandScenario(def, granularity, 0)
		if err != nil {
			return nil, err
		}
		e.Logger.Infof("scenario %s: %d periods at %s granularity", def.Name, len(proj.Periods), granularity)

		results := make([]domain.ProductResult, 0, len(products))
		for _, rule := range products {
			res, err := e.SimulateProduct(proj, rule, params, taxPolicy)
			if err != nil {
				return nil, err
			}
			results = append(results, *res)
		}
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].FinalNet.GreaterThan(results[j].FinalNet)
		})

		report.Scenarios = append(report.Scenarios, domain.ScenarioSummary{
			Scenario:    def.Name,
			Description: def.Description,
			Results:     results,
		})
	}

	return report, nil
}
