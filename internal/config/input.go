// Package config defines the YAML input schema for simulation runs and the
// conversion of parsed values into validated domain types.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rendago/fixedincome/internal/calculation"
	"github.com/rendago/fixedincome/internal/domain"
)

// Product rule type discriminators accepted in the products section.
const (
	ProductFixedNominal    = "fixed-nominal"
	ProductInflationLinked = "inflation-linked"
	ProductPolicyTracker   = "policy-tracker"
	ProductSpreadAdjusted  = "spread-adjusted"
	ProductFractional      = "fractional"
	ProductTiered          = "tiered"
)

// SimulationConfig is the root of the input file.
type SimulationConfig struct {
	Simulation SimulationSettings `yaml:"simulation"`
	Scenarios  []ScenarioConfig   `yaml:"scenarios"`
	Products   []ProductConfig    `yaml:"products"`
	Logging    LoggingConfig      `yaml:"logging,omitempty"`
}

// SimulationSettings holds the run-wide parameters.
type SimulationSettings struct {
	InitialCapital    float64 `yaml:"initialCapital"`
	AnnualCustodyRate float64 `yaml:"annualCustodyRate"`
	TaxRate           float64 `yaml:"taxRate"`
	Granularity       string  `yaml:"granularity"`
	Years             int     `yaml:"years"`
	StartYear         int     `yaml:"startYear"`
	TaxPolicy         string  `yaml:"taxPolicy,omitempty"` // flat (default) or regressive
}

// ScenarioConfig is one macro-economic trajectory; both per-year sequences
// must have exactly Years entries.
type ScenarioConfig struct {
	Name             string    `yaml:"name"`
	Description      string    `yaml:"description,omitempty"`
	PolicyRateByYear []float64 `yaml:"policyRateByYear"`
	InflationByYear  []float64 `yaml:"inflationByYear"`
}

// ProductConfig declares one product rule. Declaration order is significant:
// it breaks ties between products with equal final net value.
type ProductConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	AnnualRate     float64 `yaml:"annualRate,omitempty"`     // fixed-nominal
	RealAnnualRate float64 `yaml:"realAnnualRate,omitempty"` // inflation-linked
	AnnualSpread   float64 `yaml:"annualSpread,omitempty"`   // spread-adjusted
	Factor         float64 `yaml:"factor,omitempty"`         // fractional

	// tiered
	ThresholdAnnual  float64 `yaml:"thresholdAnnual,omitempty"`
	AdministeredRate float64 `yaml:"administeredRate,omitempty"`
	Fraction         float64 `yaml:"fraction,omitempty"`
	Increment        float64 `yaml:"increment,omitempty"`

	TaxExempt *bool  `yaml:"taxExempt,omitempty"` // overrides the rule default
	Custody   *bool  `yaml:"custody,omitempty"`   // overrides the rule default
	TaxPolicy string `yaml:"taxPolicy,omitempty"` // overrides the run policy
}

// LoggingConfig holds logging options consumed by the CLI.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // console, json
}

// InputParser handles parsing of input configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a YAML configuration file.
func (ip *InputParser) LoadFromFile(filename string) (*SimulationConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ValidateConfiguration checks the parsed configuration before any simulation
// runs. All configuration errors surface here, never mid-simulation.
func (ip *InputParser) ValidateConfiguration(cfg *SimulationConfig) error {
	if err := ip.validateSettings(&cfg.Simulation); err != nil {
		return fmt.Errorf("simulation settings: %w", err)
	}

	if len(cfg.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}
	seen := make(map[string]bool, len(cfg.Scenarios))
	for i, sc := range cfg.Scenarios {
		if err := ip.validateScenario(&sc, cfg.Simulation.Years); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		if seen[sc.Name] {
			return fmt.Errorf("duplicate scenario name %q", sc.Name)
		}
		seen[sc.Name] = true
	}

	if len(cfg.Products) == 0 {
		return fmt.Errorf("no products provided")
	}
	for i, p := range cfg.Products {
		if err := ip.validateProduct(&p); err != nil {
			return fmt.Errorf("product %d validation failed: %w", i, err)
		}
	}

	return nil
}

func (ip *InputParser) validateSettings(s *SimulationSettings) error {
	if s.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive, got %v", s.InitialCapital)
	}
	if s.AnnualCustodyRate < 0 {
		return fmt.Errorf("annual custody rate cannot be negative, got %v", s.AnnualCustodyRate)
	}
	if s.TaxRate < 0 || s.TaxRate > 1 {
		return fmt.Errorf("tax rate must be between 0 and 1, got %v", s.TaxRate)
	}
	if s.Years <= 0 {
		return fmt.Errorf("simulated years must be positive, got %d", s.Years)
	}
	if _, err := domain.ParseGranularity(s.Granularity); err != nil {
		return err
	}
	if _, err := domain.ParseTaxPolicy(s.TaxPolicy); err != nil {
		return err
	}
	return nil
}

func (ip *InputParser) validateScenario(sc *ScenarioConfig, years int) error {
	if sc.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(sc.PolicyRateByYear) != years {
		return fmt.Errorf("scenario %s: policy-rate trajectory has %d entries, expected %d", sc.Name, len(sc.PolicyRateByYear), years)
	}
	if len(sc.InflationByYear) != years {
		return fmt.Errorf("scenario %s: inflation trajectory has %d entries, expected %d", sc.Name, len(sc.InflationByYear), years)
	}
	return nil
}

func (ip *InputParser) validateProduct(p *ProductConfig) error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if _, err := domain.ParseTaxPolicy(p.TaxPolicy); err != nil {
		return fmt.Errorf("product %s: %w", p.Name, err)
	}
	switch p.Type {
	case ProductFixedNominal:
		if p.AnnualRate <= -1 {
			return fmt.Errorf("product %s: annual rate must be greater than -100%%", p.Name)
		}
	case ProductInflationLinked:
		if p.RealAnnualRate <= -1 {
			return fmt.Errorf("product %s: real annual rate must be greater than -100%%", p.Name)
		}
	case ProductPolicyTracker:
		// No parameters.
	case ProductSpreadAdjusted:
		if p.AnnualSpread < 0 {
			return fmt.Errorf("product %s: annual spread cannot be negative", p.Name)
		}
	case ProductFractional:
		if p.Factor <= 0 || p.Factor >= 1 {
			return fmt.Errorf("product %s: factor must be between 0 and 1 exclusive, got %v", p.Name, p.Factor)
		}
	case ProductTiered:
		if p.ThresholdAnnual <= 0 {
			return fmt.Errorf("product %s: threshold must be positive, got %v", p.Name, p.ThresholdAnnual)
		}
		if p.Fraction <= 0 || p.Fraction > 1 {
			return fmt.Errorf("product %s: fraction must be in (0, 1], got %v", p.Name, p.Fraction)
		}
	default:
		return fmt.Errorf("product %s: unknown type %q", p.Name, p.Type)
	}
	return nil
}

// Parameters converts the settings into validated simulation parameters.
func (cfg *SimulationConfig) Parameters() (domain.SimulationParameters, error) {
	granularity, err := domain.ParseGranularity(cfg.Simulation.Granularity)
	if err != nil {
		return domain.SimulationParameters{}, err
	}
	return domain.NewSimulationParameters(
		decimal.NewFromFloat(cfg.Simulation.InitialCapital),
		decimal.NewFromFloat(cfg.Simulation.AnnualCustodyRate),
		decimal.NewFromFloat(cfg.Simulation.TaxRate),
		granularity.PeriodsPerYear(),
	)
}

// Definitions converts the scenario section into validated domain
// definitions, preserving declaration order.
func (cfg *SimulationConfig) Definitions() ([]domain.ScenarioDefinition, error) {
	defs := make([]domain.ScenarioDefinition, 0, len(cfg.Scenarios))
	for _, sc := range cfg.Scenarios {
		def, err := domain.NewScenarioDefinition(
			sc.Name,
			sc.Description,
			cfg.Simulation.StartYear,
			cfg.Simulation.Years,
			toDecimals(sc.PolicyRateByYear),
			toDecimals(sc.InflationByYear),
		)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// ProductRules assembles the declared product rules in declaration order.
func (cfg *SimulationConfig) ProductRules() ([]domain.ProductRule, error) {
	rules := make([]domain.ProductRule, 0, len(cfg.Products))
	for _, p := range cfg.Products {
		var rule domain.ProductRule
		switch p.Type {
		case ProductFixedNominal:
			rule = calculation.FixedNominal(p.Name, decimal.NewFromFloat(p.AnnualRate))
		case ProductInflationLinked:
			rule = calculation.InflationLinked(p.Name, decimal.NewFromFloat(p.RealAnnualRate))
		case ProductPolicyTracker:
			rule = calculation.PolicyTracker(p.Name)
		case ProductSpreadAdjusted:
			rule = calculation.SpreadAdjusted(p.Name, decimal.NewFromFloat(p.AnnualSpread))
		case ProductFractional:
			taxExempt := true
			if p.TaxExempt != nil {
				taxExempt = *p.TaxExempt
			}
			rule = calculation.FractionalRate(p.Name, decimal.NewFromFloat(p.Factor), taxExempt)
		case ProductTiered:
			rule = calculation.TieredAdministered(p.Name, calculation.TieredConfig{
				ThresholdAnnual:      decimal.NewFromFloat(p.ThresholdAnnual),
				AdministeredRate:     decimal.NewFromFloat(p.AdministeredRate),
				Fraction:             decimal.NewFromFloat(p.Fraction),
				Increment:            decimal.NewFromFloat(p.Increment),
				NativePeriodsPerYear: 12,
			})
		default:
			return nil, fmt.Errorf("product %s: unknown type %q", p.Name, p.Type)
		}

		if p.TaxExempt != nil {
			rule.TaxExempt = *p.TaxExempt
		}
		if p.Custody != nil {
			rule.CustodyApplies = *p.Custody
		}
		if p.TaxPolicy != "" {
			policy, err := domain.ParseTaxPolicy(p.TaxPolicy)
			if err != nil {
				return nil, fmt.Errorf("product %s: %w", p.Name, err)
			}
			rule.TaxPolicy = policy
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Granularity returns the validated run granularity.
func (cfg *SimulationConfig) Granularity() (domain.Granularity, error) {
	return domain.ParseGranularity(cfg.Simulation.Granularity)
}

// TaxPolicy returns the validated run-wide tax policy (flat by default).
func (cfg *SimulationConfig) TaxPolicy() (domain.TaxPolicy, error) {
	return domain.ParseTaxPolicy(cfg.Simulation.TaxPolicy)
}

func toDecimals(values []float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}
