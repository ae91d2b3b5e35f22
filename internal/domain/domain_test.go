package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("monthly")
	require.NoError(t, err)
	assert.Equal(t, 12, g.PeriodsPerYear())

	g, err = ParseGranularity("daily")
	require.NoError(t, err)
	assert.Equal(t, 252, g.PeriodsPerYear())

	_, err = ParseGranularity("weekly")
	assert.Error(t, err)
	_, err = ParseGranularity("")
	assert.Error(t, err)
}

func TestParseTaxPolicy(t *testing.T) {
	p, err := ParseTaxPolicy("")
	require.NoError(t, err)
	assert.Equal(t, TaxPolicyFlat, p, "flat is the documented default")

	p, err = ParseTaxPolicy("regressive")
	require.NoError(t, err)
	assert.Equal(t, TaxPolicyRegressive, p)

	_, err = ParseTaxPolicy("progressive")
	assert.Error(t, err)
}

func TestNewSimulationParameters(t *testing.T) {
	params, err := NewSimulationParameters(
		decimal.NewFromInt(100000), decimal.NewFromFloat(0.002), decimal.NewFromFloat(0.15), 12)
	require.NoError(t, err)
	assert.Equal(t, 12, params.PeriodsPerYear)

	tests := []struct {
		name    string
		initial float64
		custody float64
		tax     float64
		ppy     int
	}{
		{"zero capital", 0, 0.002, 0.15, 12},
		{"negative capital", -100, 0.002, 0.15, 12},
		{"negative custody", 100000, -0.001, 0.15, 12},
		{"tax above one", 100000, 0.002, 1.01, 12},
		{"negative tax", 100000, 0.002, -0.1, 12},
		{"zero periods", 100000, 0.002, 0.15, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSimulationParameters(
				decimal.NewFromFloat(tt.initial), decimal.NewFromFloat(tt.custody), decimal.NewFromFloat(tt.tax), tt.ppy)
			assert.Error(t, err)
		})
	}
}

func TestNewScenarioDefinitionCopiesTrajectories(t *testing.T) {
	policy := []decimal.Decimal{decimal.NewFromFloat(0.15)}
	inflation := []decimal.Decimal{decimal.NewFromFloat(0.045)}
	def, err := NewScenarioDefinition("Base", "", 2025, 1, policy, inflation)
	require.NoError(t, err)

	// The definition owns its own copy of the input slices.
	policy[0] = decimal.NewFromFloat(0.99)
	assert.True(t, def.PolicyRateByYear[0].Equal(decimal.NewFromFloat(0.15)))
}

func TestNewScenarioDefinitionRejectsImpossibleRates(t *testing.T) {
	_, err := NewScenarioDefinition("Base", "", 2025, 1,
		[]decimal.Decimal{decimal.NewFromFloat(-1.5)},
		[]decimal.Decimal{decimal.NewFromFloat(0.045)})
	assert.Error(t, err)
}
