package domain

import (
	"github.com/shopspring/decimal"
)

// Sweepable inputs
const (
	ParamFundReturnRate = "fund_return_rate"
	ParamAdminFeeRate   = "admin_fee_rate"
	ParamCurrentSavings = "current_savings"
)

// SensitivityParameter represents an input to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"baseValue"`
	Unit        string          `yaml:"unit" json:"unit"` // "percent" or "amount"
	Description string          `yaml:"description" json:"description"`
}

// Value returns the swept input's current value in in
func (p SensitivityParameter) Value(in PensionInput) decimal.Decimal {
	switch p.Name {
	case ParamFundReturnRate:
		return in.FundReturnRate
	case ParamAdminFeeRate:
		return in.AdminFeeRate
	default:
		return in.CurrentSavings
	}
}

// ParameterSensitivityAnalysis is the sweep of one parameter
type ParameterSensitivityAnalysis struct {
	Parameter   SensitivityParameter `json:"parameter"`
	BaseMonthly decimal.Decimal      `json:"baseMonthly"`
	Results     []SensitivityResult  `json:"results"`
	Summary     SensitivitySummary   `json:"summary"`
}

// MultiParameterSensitivity holds independent sweeps of several parameters
type MultiParameterSensitivity struct {
	Analyses               []ParameterSensitivityAnalysis `json:"analyses"`
	MostSensitiveParameter string                         `json:"mostSensitiveParameter"`
	Recommendations        []string                       `json:"recommendations"`
}

// SensitivityResult is the projection at one parameter value
type SensitivityResult struct {
	ParameterValue decimal.Decimal    `json:"parameterValue"`
	IsBase         bool               `json:"isBase"`
	Projection     *PensionProjection `json:"projection,omitempty"`
	Error          string             `json:"error,omitempty"`

	MonthlyChange      decimal.Decimal `json:"monthlyChange"`
	MonthlyChangePct   decimal.Decimal `json:"monthlyChangePct"`
	ParameterChangePct decimal.Decimal `json:"parameterChangePct"`
	// Score is the percent change in monthly pension per percent change
	// in the parameter.
	Score decimal.Decimal `json:"score"`
}

// SensitivitySummary provides overall analysis summary
type SensitivitySummary struct {
	MaxScore        decimal.Decimal `json:"maxScore"`
	RiskLevel       string          `json:"riskLevel"` // "LOW", "MEDIUM", "HIGH", "CRITICAL"
	Recommendations []string        `json:"recommendations"`
}

// DetermineRiskLevel classifies a sensitivity score. A score of 1 means the
// pension moves in proportion to the parameter.
func DetermineRiskLevel(score decimal.Decimal) string {
	switch {
	case score.LessThan(decimal.NewFromFloat(1.1)):
		return "LOW"
	case score.LessThan(decimal.NewFromInt(2)):
		return "MEDIUM"
	case score.LessThan(decimal.NewFromInt(5)):
		return "HIGH"
	default:
		return "CRITICAL"
	}
}

// GenerateRecommendations generates recommendations for a single sweep
func (ss *SensitivitySummary) GenerateRecommendations(parameter string) []string {
	var recommendations []string

	switch ss.RiskLevel {
	case "LOW":
		recommendations = append(recommendations, "Pension is robust to changes in "+parameter)
	case "MEDIUM":
		recommendations = append(recommendations, "Pension moves more than proportionally with "+parameter)
		recommendations = append(recommendations, "Consider conservative assumptions for "+parameter)
	case "HIGH":
		recommendations = append(recommendations, "Pension is sensitive to "+parameter)
		recommendations = append(recommendations, "Stress test with extreme values")
	case "CRITICAL":
		recommendations = append(recommendations, "⚠️ Pension is highly sensitive to "+parameter)
		recommendations = append(recommendations, "Review the assumption before relying on the projection")
	}

	switch parameter {
	case ParamFundReturnRate:
		recommendations = append(recommendations, "Returns both grow savings and set the payout ratio; test a lower return rate")
	case ParamAdminFeeRate:
		recommendations = append(recommendations, "Compare administration fees across funds")
	case ParamCurrentSavings:
		recommendations = append(recommendations, "Additional savings raise the pension proportionally")
	}

	return recommendations
}

// GetCommonParameters returns default sweeps centered on the inputs of base
func GetCommonParameters(base PensionInput) []SensitivityParameter {
	two := decimal.NewFromInt(2)
	half := decimal.NewFromFloat(0.5)
	return []SensitivityParameter{
		{
			Name:        ParamFundReturnRate,
			MinValue:    decimal.Max(decimal.Zero, base.FundReturnRate.Sub(two)),
			MaxValue:    base.FundReturnRate.Add(two),
			Steps:       5,
			BaseValue:   base.FundReturnRate,
			Unit:        "percent",
			Description: "Annual fund return rate",
		},
		{
			Name:        ParamAdminFeeRate,
			MinValue:    decimal.Max(decimal.Zero, base.AdminFeeRate.Sub(half)),
			MaxValue:    base.AdminFeeRate.Add(half),
			Steps:       5,
			BaseValue:   base.AdminFeeRate,
			Unit:        "percent",
			Description: "Administration fee rate",
		},
		{
			Name:        ParamCurrentSavings,
			MinValue:    base.CurrentSavings.Mul(decimal.NewFromFloat(0.8)),
			MaxValue:    base.CurrentSavings.Mul(decimal.NewFromFloat(1.2)),
			Steps:       5,
			BaseValue:   base.CurrentSavings,
			Unit:        "amount",
			Description: "Current accumulated savings",
		},
	}
}
