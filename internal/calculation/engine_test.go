package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendago/fixedincome/internal/domain"
)

func testParams(t *testing.T, custody, taxRate float64) domain.SimulationParameters {
	t.Helper()
	params, err := domain.NewSimulationParameters(
		decimal.NewFromInt(100000),
		decimal.NewFromFloat(custody),
		decimal.NewFromFloat(taxRate),
		12,
	)
	require.NoError(t, err)
	return params
}

// constantRateRule is a test product with a fixed periodic rate, bypassing
// any annual conversion.
func constantRateRule(name string, rate decimal.Decimal, custody, exempt bool) domain.ProductRule {
	return domain.ProductRule{
		Name:           name,
		CustodyApplies: custody,
		TaxExempt:      exempt,
		DeriveRates: func(proj *domain.ScenarioProjection) (domain.RateSeries, error) {
			rates := make([]decimal.Decimal, len(proj.Periods))
			for i := range rates {
				rates[i] = rate
			}
			return domain.RateSeries{Rates: rates, PeriodsPerYear: proj.PeriodsPerYear()}, nil
		},
	}
}

func monthlyProjection(t *testing.T, periods int) *domain.ScenarioProjection {
	t.Helper()
	proj := flatProjection(t, domain.GranularityMonthly, (periods+11)/12, 0.15, 0.045)
	proj.Periods = proj.Periods[:periods]
	return proj
}

// Three periods at a constant 1% with no custody fee and a 15% flat tax:
// gross = 100000 × 1.01³ = 103030.10, gain = 3030.10, tax = 454.515,
// net = 102575.585.
func TestSimulateProductConcreteFigures(t *testing.T) {
	engine := NewEngine()
	proj := monthlyProjection(t, 3)
	params := testParams(t, 0, 0.15)
	rule := constantRateRule("Concreto", decimal.NewFromFloat(0.01), false, false)

	res, err := engine.SimulateProduct(proj, rule, params, domain.TaxPolicyFlat)
	require.NoError(t, err)

	assert.True(t, res.FinalGross.Equal(decimal.NewFromFloat(103030.10)), "gross: %s", res.FinalGross)
	assert.True(t, res.FinalTax.Equal(decimal.NewFromFloat(454.515)), "tax: %s", res.FinalTax)
	assert.True(t, res.FinalNet.Equal(decimal.NewFromFloat(102575.585)), "net: %s", res.FinalNet)

	require.Len(t, res.Timeline, 3)
	assert.Equal(t, 1, res.Timeline[0].Period)
	assert.True(t, res.Timeline[0].GrossBalance.Equal(decimal.NewFromInt(101000)))
	assert.True(t, res.Timeline[0].CustodyFee.IsZero())
	assert.True(t, res.Timeline[2].BalanceAfterFee.Equal(res.FinalGross), "no custody: both ledgers agree")
}

// With no custody fee and no tax, the net value is exactly the compounded
// initial capital.
func TestSimulateProductPureCompounding(t *testing.T) {
	engine := NewEngine()
	proj := monthlyProjection(t, 24)
	params := testParams(t, 0, 0)
	rate := decimal.NewFromFloat(0.011)
	rule := constantRateRule("Puro", rate, false, false)

	res, err := engine.SimulateProduct(proj, rule, params, domain.TaxPolicyFlat)
	require.NoError(t, err)

	expected := params.InitialCapital.Mul(
		decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(24)))
	assert.InDelta(t, expected.InexactFloat64(), res.FinalNet.InexactFloat64(), 1e-6)
}

func TestSimulateProductTaxExempt(t *testing.T) {
	engine := NewEngine()
	proj := monthlyProjection(t, 36)
	params := testParams(t, 0.002, 0.15)
	rule := constantRateRule("Isento", decimal.NewFromFloat(0.02), true, true)

	res, err := engine.SimulateProduct(proj, rule, params, domain.TaxPolicyFlat)
	require.NoError(t, err)
	assert.True(t, res.FinalTax.IsZero(), "a tax-exempt product pays exactly zero tax")
}

// The fee-bearing ledger never exceeds the fee-free one once the first fee
// has been charged.
func TestCustodyKeepsFeeLedgerBelowGross(t *testing.T) {
	engine := NewEngine()
	proj := monthlyProjection(t, 36)
	params := testParams(t, 0.002, 0.15)
	rule := constantRateRule("ComCustodia", decimal.NewFromFloat(0.011), true, false)

	res, err := engine.SimulateProduct(proj, rule, params, domain.TaxPolicyFlat)
	require.NoError(t, err)

	for _, rec := range res.Timeline {
		assert.True(t, rec.BalanceAfterFee.LessThanOrEqual(rec.GrossBalance),
			"period %d: %s > %s", rec.Period, rec.BalanceAfterFee, rec.GrossBalance)
		assert.True(t, rec.CustodyFee.GreaterThan(decimal.Zero))
	}
	assert.True(t, res.FinalNet.LessThan(res.FinalGross))
}

// Losses never produce negative tax.
func TestLossYieldsZeroTax(t *testing.T) {
	engine := NewEngine()
	proj := monthlyProjection(t, 12)
	params := testParams(t, 0, 0.15)
	rule := constantRateRule("Negativo", decimal.NewFromFloat(-0.01), false, false)

	res, err := engine.SimulateProduct(proj, rule, params, domain.TaxPolicyFlat)
	require.NoError(t, err)

	assert.True(t, res.FinalGross.LessThan(params.InitialCapital))
	assert.True(t, res.FinalTax.IsZero())
	assert.True(t, res.FinalNet.Equal(res.Timeline[11].BalanceAfterFee))
}

// A 36-month holding period falls in the final regressive bracket (15%),
// matching the flat default here; a 6-month run lands on 22.5% instead.
func TestRegressivePolicyResolvesRateFromHoldingPeriod(t *testing.T) {
	engine := NewEngine()
	params := testParams(t, 0, 0.10)
	rule := constantRateRule("Regressivo", decimal.NewFromFloat(0.01), false, false)

	short, err := engine.SimulateProduct(monthlyProjection(t, 6), rule, params, domain.TaxPolicyRegressive)
	require.NoError(t, err)
	long, err := engine.SimulateProduct(monthlyProjection(t, 36), rule, params, domain.TaxPolicyRegressive)
	require.NoError(t, err)

	shortGain := short.FinalGross.Sub(params.InitialCapital)
	assert.True(t, short.FinalTax.Equal(shortGain.Mul(decimal.NewFromFloat(0.225))))

	longGain := long.FinalGross.Sub(params.InitialCapital)
	assert.True(t, long.FinalTax.Equal(longGain.Mul(decimal.NewFromFloat(0.15))))
}

func TestProductTaxPolicyOverridesRunPolicy(t *testing.T) {
	engine := NewEngine()
	params := testParams(t, 0, 0.10)
	rule := constantRateRule("Override", decimal.NewFromFloat(0.01), false, false)
	rule.TaxPolicy = domain.TaxPolicyRegressive

	res, err := engine.SimulateProduct(monthlyProjection(t, 6), rule, params, domain.TaxPolicyFlat)
	require.NoError(t, err)

	gain := res.FinalGross.Sub(params.InitialCapital)
	assert.True(t, res.FinalTax.Equal(gain.Mul(decimal.NewFromFloat(0.225))),
		"the product-level regressive selector must win over the flat run policy")
}

func TestSimulateProductGranularityMismatch(t *testing.T) {
	engine := NewEngine()
	proj := flatProjection(t, domain.GranularityDaily, 1, 0.15, 0.045)
	params := testParams(t, 0, 0.15) // monthly parameters
	rule := constantRateRule("Trocado", decimal.NewFromFloat(0.01), false, false)

	_, err := engine.SimulateProduct(proj, rule, params, domain.TaxPolicyFlat)
	assert.Error(t, err)
}

func TestRunAllRanksByNetValue(t *testing.T) {
	engine := NewEngine()
	params := testParams(t, 0.002, 0.15)

	def, err := domain.NewScenarioDefinition("Base", "", 2025, 1,
		[]decimal.Decimal{decimal.NewFromFloat(0.15)},
		[]decimal.Decimal{decimal.NewFromFloat(0.045)},
	)
	require.NoError(t, err)

	products := []domain.ProductRule{
		FixedNominal("Baixo", decimal.NewFromFloat(0.08)),
		FixedNominal("Alto", decimal.NewFromFloat(0.16)),
		FixedNominal("Medio", decimal.NewFromFloat(0.12)),
	}

	report, err := engine.RunAll([]domain.ScenarioDefinition{def}, products, params, domain.GranularityMonthly, domain.TaxPolicyFlat)
	require.NoError(t, err)
	require.Len(t, report.Scenarios, 1)

	results := report.Scenarios[0].Results
	require.Len(t, results, 3)
	assert.Equal(t, "Alto", results[0].Product)
	assert.Equal(t, "Medio", results[1].Product)
	assert.Equal(t, "Baixo", results[2].Product)
	assert.True(t, results[0].FinalNet.GreaterThan(results[1].FinalNet))
}

// Equal net values keep the original product declaration order.
func TestRunAllTieBreakPreservesDeclarationOrder(t *testing.T) {
	engine := NewEngine()
	params := testParams(t, 0, 0.15)

	def, err := domain.NewScenarioDefinition("Empate", "", 2025, 1,
		[]decimal.Decimal{decimal.NewFromFloat(0.15)},
		[]decimal.Decimal{decimal.NewFromFloat(0.045)},
	)
	require.NoError(t, err)

	products := []domain.ProductRule{
		PolicyTracker("Primeiro"),
		PolicyTracker("Segundo"),
		PolicyTracker("Terceiro"),
	}

	report, err := engine.RunAll([]domain.ScenarioDefinition{def}, products, params, domain.GranularityMonthly, domain.TaxPolicyFlat)
	require.NoError(t, err)

	results := report.Scenarios[0].Results
	require.Len(t, results, 3)
	assert.Equal(t, []string{"Primeiro", "Segundo", "Terceiro"},
		[]string{results[0].Product, results[1].Product, results[2].Product})
	assert.True(t, results[0].FinalNet.Equal(results[1].FinalNet))
}

func TestRunAllRequiresInputs(t *testing.T) {
	engine := NewEngine()
	params := testParams(t, 0, 0.15)

	_, err := engine.RunAll(nil, []domain.ProductRule{PolicyTracker("Selic")}, params, domain.GranularityMonthly, domain.TaxPolicyFlat)
	assert.Error(t, err)

	def, err := domain.NewScenarioDefinition("Base", "", 2025, 1,
		[]decimal.Decimal{decimal.NewFromFloat(0.15)},
		[]decimal.Decimal{decimal.NewFromFloat(0.045)},
	)
	require.NoError(t, err)
	_, err = engine.RunAll([]domain.ScenarioDefinition{def}, nil, params, domain.GranularityMonthly, domain.TaxPolicyFlat)
	assert.Error(t, err)
}

// Re-running with identical inputs must produce identical figures.
func TestRunAllIsDeterministic(t *testing.T) {
	engine := NewEngine()
	params := testParams(t, 0.002, 0.15)

	def, err := domain.NewScenarioDefinition("Base", "", 2025, 2,
		[]decimal.Decimal{decimal.NewFromFloat(0.15), decimal.NewFromFloat(0.12)},
		[]decimal.Decimal{decimal.NewFromFloat(0.045), decimal.NewFromFloat(0.04)},
	)
	require.NoError(t, err)
	products := []domain.ProductRule{
		FixedNominal("Prefixado", decimal.NewFromFloat(0.14)),
		InflationLinked("IPCA+", decimal.NewFromFloat(0.07)),
	}

	first, err := engine.RunAll([]domain.ScenarioDefinition{def}, products, params, domain.GranularityMonthly, domain.TaxPolicyFlat)
	require.NoError(t, err)
	second, err := engine.RunAll([]domain.ScenarioDefinition{def}, products, params, domain.GranularityMonthly, domain.TaxPolicyFlat)
	require.NoError(t, err)

	for i := range first.Scenarios {
		for j := range first.Scenarios[i].Results {
			assert.True(t, first.Scenarios[i].Results[j].FinalNet.Equal(second.Scenarios[i].Results[j].FinalNet))
		}
	}
}
