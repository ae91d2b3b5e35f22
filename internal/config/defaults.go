package config

// DefaultConfig returns the built-in configuration: three policy-rate
// trajectories over a three-year horizon starting in 2025, run monthly
// against the standard Brazilian fixed-income product set.
func DefaultConfig() *SimulationConfig {
	return &SimulationConfig{
		Simulation: SimulationSettings{
			InitialCapital:    100000.0,
			AnnualCustodyRate: 0.002,
			TaxRate:           0.15,
			Granularity:       "monthly",
			Years:             3,
			StartYear:         2025,
			TaxPolicy:         "flat",
		},
		Scenarios: []ScenarioConfig{
			{
				Name:             "Manutencao",
				Description:      "Policy rate held at the current plateau, inflation near target",
				PolicyRateByYear: []float64{0.15, 0.15, 0.15},
				InflationByYear:  []float64{0.048, 0.045, 0.042},
			},
			{
				Name:             "Aperto",
				Description:      "Further tightening against persistent inflation",
				PolicyRateByYear: []float64{0.16, 0.1675, 0.1675},
				InflationByYear:  []float64{0.055, 0.052, 0.048},
			},
			{
				Name:             "Afrouxamento",
				Description:      "Gradual easing as inflation converges",
				PolicyRateByYear: []float64{0.1375, 0.115, 0.095},
				InflationByYear:  []float64{0.042, 0.038, 0.035},
			},
		},
		Products: []ProductConfig{
			{Name: "Tesouro Prefixado", Type: ProductFixedNominal, AnnualRate: 0.14},
			{Name: "Tesouro IPCA+", Type: ProductInflationLinked, RealAnnualRate: 0.07},
			{Name: "Tesouro Selic", Type: ProductPolicyTracker},
			{Name: "CDB 100% CDI", Type: ProductSpreadAdjusted, AnnualSpread: 0.001},
			{Name: "LCI", Type: ProductFractional, Factor: 0.90},
			{Name: "Poupanca", Type: ProductTiered, ThresholdAnnual: 0.085, AdministeredRate: 0.005, Fraction: 0.70, Increment: 0.0017},
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}
