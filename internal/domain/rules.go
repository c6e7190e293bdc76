package domain

import (
	"github.com/shopspring/decimal"
)

// Rules contains the statutory thresholds of the pension scheme.
// DefaultRules holds the values currently in force; a case file may override them.
type Rules struct {
	MinimumWeeks        int             `yaml:"minimum_weeks" json:"minimum_weeks"`
	FemaleRetirementAge int             `yaml:"female_retirement_age" json:"female_retirement_age"`
	MaleRetirementAge   int             `yaml:"male_retirement_age" json:"male_retirement_age"`
	MaxRate             decimal.Decimal `yaml:"max_rate" json:"max_rate"`
}

// Statutory defaults
const (
	DefaultMinimumWeeks        = 1150
	DefaultFemaleRetirementAge = 57
	DefaultMaleRetirementAge   = 62
	DefaultMaxRate             = 100
)

// DefaultRules returns the statutory rules
func DefaultRules() Rules {
	return Rules{
		MinimumWeeks:        DefaultMinimumWeeks,
		FemaleRetirementAge: DefaultFemaleRetirementAge,
		MaleRetirementAge:   DefaultMaleRetirementAge,
		MaxRate:             decimal.NewFromInt(DefaultMaxRate),
	}
}

// RetirementAge returns the retirement age for sex. Anything other than
// SexFemale falls back to the male age.
func (r Rules) RetirementAge(sex Sex) int {
	if sex == SexFemale {
		return r.FemaleRetirementAge
	}
	return r.MaleRetirementAge
}

// Merge overlays the non-zero fields of override on r
func (r Rules) Merge(override *Rules) Rules {
	if override == nil {
		return r
	}
	merged := r
	if override.MinimumWeeks != 0 {
		merged.MinimumWeeks = override.MinimumWeeks
	}
	if override.FemaleRetirementAge != 0 {
		merged.FemaleRetirementAge = override.FemaleRetirementAge
	}
	if override.MaleRetirementAge != 0 {
		merged.MaleRetirementAge = override.MaleRetirementAge
	}
	if !override.MaxRate.IsZero() {
		merged.MaxRate = override.MaxRate
	}
	return merged
}

// CaseOptions toggles calculator behavior for a case file
type CaseOptions struct {
	LenientSex bool `yaml:"lenient_sex" json:"lenient_sex"`
}

// Configuration represents a complete pension case file
type Configuration struct {
	Case    PensionInput `yaml:"case" json:"case"`
	Rules   *Rules       `yaml:"rules,omitempty" json:"rules,omitempty"`
	Options CaseOptions  `yaml:"options,omitempty" json:"options,omitempty"`
}

// EffectiveRules returns the statutory rules with any case-file override applied
func (c *Configuration) EffectiveRules() Rules {
	return DefaultRules().Merge(c.Rules)
}
