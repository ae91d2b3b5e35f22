package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendago/fixedincome/internal/domain"
	"github.com/rendago/fixedincome/pkg/ratemath"
)

func testDefinition(t *testing.T) domain.ScenarioDefinition {
	t.Helper()
	def, err := domain.NewScenarioDefinition(
		"Teste",
		"three-year trajectory",
		2025,
		3,
		[]decimal.Decimal{decimal.NewFromFloat(0.15), decimal.NewFromFloat(0.12), decimal.NewFromFloat(0.10)},
		[]decimal.Decimal{decimal.NewFromFloat(0.05), decimal.NewFromFloat(0.045), decimal.NewFromFloat(0.04)},
	)
	require.NoError(t, err)
	return def
}

func TestScenarioDefinitionLengthMismatch(t *testing.T) {
	_, err := domain.NewScenarioDefinition("Curto", "", 2025, 3,
		[]decimal.Decimal{decimal.NewFromFloat(0.15)},
		[]decimal.Decimal{decimal.NewFromFloat(0.05), decimal.NewFromFloat(0.045), decimal.NewFromFloat(0.04)},
	)
	assert.Error(t, err, "policy trajectory shorter than the horizon must fail at construction")

	_, err = domain.NewScenarioDefinition("Curto", "", 2025, 2,
		[]decimal.Decimal{decimal.NewFromFloat(0.15), decimal.NewFromFloat(0.12)},
		[]decimal.Decimal{decimal.NewFromFloat(0.05)},
	)
	assert.Error(t, err, "inflation trajectory shorter than the horizon must fail at construction")
}

func TestExpandScenarioMonthly(t *testing.T) {
	def := testDefinition(t)
	proj, err := ExpandScenario(def, domain.GranularityMonthly, 0)
	require.NoError(t, err)

	require.Len(t, proj.Periods, 36)
	assert.Equal(t, 12, proj.PeriodsPerYear())

	// 1-based indexing and calendar-year tagging.
	assert.Equal(t, 1, proj.Periods[0].Index)
	assert.Equal(t, 2025, proj.Periods[0].Year)
	assert.Equal(t, 2025, proj.Periods[11].Year)
	assert.Equal(t, 2026, proj.Periods[12].Year)
	assert.Equal(t, 2027, proj.Periods[35].Year)

	// Each year carries its own annual value, converted once.
	assert.True(t, proj.Periods[5].PolicyAnnual.Equal(decimal.NewFromFloat(0.15)))
	assert.True(t, proj.Periods[20].PolicyAnnual.Equal(decimal.NewFromFloat(0.12)))

	expected, err := ratemath.AnnualToPeriodic(decimal.NewFromFloat(0.12), 12)
	require.NoError(t, err)
	assert.True(t, proj.Periods[20].PolicyPeriodic.Equal(expected))
}

func TestExpandScenarioTruncation(t *testing.T) {
	def := testDefinition(t)

	proj, err := ExpandScenario(def, domain.GranularityMonthly, 30)
	require.NoError(t, err)
	assert.Len(t, proj.Periods, 30)
	assert.Equal(t, 2027, proj.Periods[29].Year)

	// The series is never padded.
	_, err = ExpandScenario(def, domain.GranularityMonthly, 37)
	assert.Error(t, err)

	_, err = ExpandScenario(def, domain.GranularityMonthly, -1)
	assert.Error(t, err)
}

func TestExpandScenarioDaily(t *testing.T) {
	def := testDefinition(t)
	proj, err := ExpandScenario(def, domain.GranularityDaily, 0)
	require.NoError(t, err)

	require.Len(t, proj.Periods, 3*252)
	assert.Equal(t, 2025, proj.Periods[251].Year)
	assert.Equal(t, 2026, proj.Periods[252].Year)
}

// One canonical definition must be projectable at either granularity, and the
// two projections must agree on the annual values in force each year.
func TestMonthlyAndDailyAgreeOnAnnualValues(t *testing.T) {
	def := testDefinition(t)

	monthly, err := ExpandScenario(def, domain.GranularityMonthly, 0)
	require.NoError(t, err)
	daily, err := ExpandScenario(def, domain.GranularityDaily, 0)
	require.NoError(t, err)

	for y := 0; y < def.Years(); y++ {
		m := monthly.Periods[y*12]
		d := daily.Periods[y*252]
		assert.Equal(t, m.Year, d.Year)
		assert.True(t, m.PolicyAnnual.Equal(d.PolicyAnnual))
		assert.True(t, m.InflationAnnual.Equal(d.InflationAnnual))
		assert.False(t, m.PolicyPeriodic.Equal(d.PolicyPeriodic), "periodic conversions differ by granularity")
	}
}

func TestExpandScenarioUnsupportedGranularity(t *testing.T) {
	def := testDefinition(t)
	_, err := ExpandScenario(def, domain.Granularity("weekly"), 0)
	assert.Error(t, err)
}

func TestExpandScenarioIsDeterministic(t *testing.T) {
	def := testDefinition(t)
	first, err := ExpandScenario(def, domain.GranularityMonthly, 0)
	require.NoError(t, err)
	second, err := ExpandScenario(def, domain.GranularityMonthly, 0)
	require.NoError(t, err)
	assert.Equal(t, first.Periods, second.Periods)
}
