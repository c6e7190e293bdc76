package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of pension case files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a case from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a case document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration checks that a case is complete enough to calculate.
// Domain rules (negative age, minimum weeks, rate limits) are enforced by
// the calculator, not here.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validateCase(&config.Case); err != nil {
		return fmt.Errorf("case validation failed: %w", err)
	}
	if config.Rules != nil {
		if err := ValidateRules(config.EffectiveRules()); err != nil {
			return fmt.Errorf("rules validation failed: %w", err)
		}
	}
	return nil
}

func (ip *InputParser) validateCase(in *domain.PensionInput) error {
	if in.Sex == "" {
		return fmt.Errorf("sex is required")
	}
	return nil
}

// ValidateRules validates statutory rule overrides
func ValidateRules(rules domain.Rules) error {
	if rules.MinimumWeeks <= 0 {
		return fmt.Errorf("minimum weeks must be positive")
	}
	if rules.FemaleRetirementAge <= 0 || rules.FemaleRetirementAge > 100 {
		return fmt.Errorf("female retirement age must be between 1 and 100")
	}
	if rules.MaleRetirementAge <= 0 || rules.MaleRetirementAge > 100 {
		return fmt.Errorf("male retirement age must be between 1 and 100")
	}
	if rules.MaxRate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("max rate must be positive")
	}
	return nil
}
