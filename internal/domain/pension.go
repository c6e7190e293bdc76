package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sex selects the statutory retirement age applied to a contributor
type Sex string

const (
	SexFemale Sex = "female"
	SexMale   Sex = "male"
)

// sexAliases maps accepted input labels to the canonical values
var sexAliases = map[string]Sex{
	"female": SexFemale,
	"f":      SexFemale,
	"woman":  SexFemale,
	"mujer":  SexFemale,
	"male":   SexMale,
	"m":      SexMale,
	"man":    SexMale,
	"hombre": SexMale,
}

// ParseSex normalizes a user-supplied label. Unknown labels are returned
// as-is so the calculator can reject them with InvalidSex.
func ParseSex(label string) Sex {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if sex, ok := sexAliases[normalized]; ok {
		return sex
	}
	return Sex(normalized)
}

// IsValid reports whether s is one of the canonical values
func (s Sex) IsValid() bool {
	return s == SexFemale || s == SexMale
}

func (s Sex) String() string { return string(s) }

// UnmarshalText lets the YAML and JSON decoders share the alias table
func (s *Sex) UnmarshalText(text []byte) error {
	*s = ParseSex(string(text))
	return nil
}

// PensionInput holds the seven scalar inputs of a single pension projection.
// Rates are expressed in percentage points (7.5 means 7.5%).
type PensionInput struct {
	Age              int             `yaml:"age" json:"age"`
	Sex              Sex             `yaml:"sex" json:"sex"`
	CurrentSalary    decimal.Decimal `yaml:"current_salary" json:"current_salary"` // accepted for compatibility, not used
	WeeksContributed int             `yaml:"weeks_contributed" json:"weeks_contributed"`
	CurrentSavings   decimal.Decimal `yaml:"current_savings" json:"current_savings"`
	FundReturnRate   decimal.Decimal `yaml:"fund_return_rate" json:"fund_return_rate"`
	AdminFeeRate     decimal.Decimal `yaml:"admin_fee_rate" json:"admin_fee_rate"`
}

// Advisory is a non-fatal condition noticed while projecting a pension
type Advisory struct {
	Kind    string `yaml:"kind" json:"kind"`
	Message string `yaml:"message" json:"message"`
}

// PensionProjection is the result of a pension calculation
type PensionProjection struct {
	ProjectedSavings decimal.Decimal `yaml:"projected_savings" json:"projected_savings"`
	AnnualPension    decimal.Decimal `yaml:"annual_pension" json:"annual_pension"`
	MonthlyPension   decimal.Decimal `yaml:"monthly_pension" json:"monthly_pension"`

	RetirementAge  int        `yaml:"retirement_age" json:"retirement_age"`
	YearsRemaining int        `yaml:"years_remaining" json:"years_remaining"` // negative once past retirement age
	Advisories     []Advisory `yaml:"advisories,omitempty" json:"advisories,omitempty"`
}

// HasAdvisories reports whether the calculation raised any warning
func (p *PensionProjection) HasAdvisories() bool {
	return len(p.Advisories) > 0
}

// PensionReport pairs an input with its projection for rendering
type PensionReport struct {
	Input      PensionInput      `yaml:"input" json:"input"`
	Projection PensionProjection `yaml:"projection" json:"projection"`
	Rules      Rules             `yaml:"rules" json:"rules"`
}
