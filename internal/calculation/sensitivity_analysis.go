package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/rgehrsitz/pensioncalc/internal/transform"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	calculator *Calculator
}

// NewSensitivityAnalyzer creates a sensitivity analyzer. Sweeps run quietly:
// the calculator's logger is not used for per-step advisories.
func NewSensitivityAnalyzer(calc *Calculator) *SensitivityAnalyzer {
	if calc == nil {
		calc = NewCalculator()
	}
	quiet := *calc
	quiet.Logger = NopLogger{}
	quiet.Debug = false
	return &SensitivityAnalyzer{calculator: &quiet}
}

// AnalyzeSingleParameter sweeps one parameter and measures the monthly
// pension's response. Steps that fail validation are kept with Error set.
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	ctx context.Context,
	base domain.PensionInput,
	parameter domain.SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {

	if err := validateParameter(parameter); err != nil {
		return nil, err
	}

	baseProjection, err := sa.calculator.Calculate(base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base case: %w", err)
	}
	baseMonthly := baseProjection.MonthlyPension

	values := sa.generateParameterValues(parameter)
	results := make([]domain.SensitivityResult, 0, len(values))

	for _, value := range values {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := domain.SensitivityResult{
			ParameterValue: value,
			IsBase:         value.Equal(parameter.BaseValue),
		}

		modified, err := transform.ApplyTransforms(base, []transform.InputTransform{parameterTransform(parameter.Name, value)})
		if err == nil {
			result.Projection, err = sa.calculator.Calculate(modified)
		}
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.MonthlyChange = result.Projection.MonthlyPension.Sub(baseMonthly)
		if !baseMonthly.IsZero() {
			result.MonthlyChangePct = result.MonthlyChange.Div(baseMonthly).Mul(hundred)
		}
		if !parameter.BaseValue.IsZero() && !result.IsBase {
			result.ParameterChangePct = value.Sub(parameter.BaseValue).Div(parameter.BaseValue).Mul(hundred)
			result.Score = result.MonthlyChangePct.Abs().Div(result.ParameterChangePct.Abs()).Round(4)
		}
		results = append(results, result)
	}

	return &domain.ParameterSensitivityAnalysis{
		Parameter:   parameter,
		BaseMonthly: baseMonthly,
		Results:     results,
		Summary:     sa.calculateSensitivitySummary(results, parameter),
	}, nil
}

// AnalyzeMultipleParameters sweeps each parameter independently and names
// the one the pension responds to most.
func (sa *SensitivityAnalyzer) AnalyzeMultipleParameters(
	ctx context.Context,
	base domain.PensionInput,
	parameters []domain.SensitivityParameter,
) (*domain.MultiParameterSensitivity, error) {

	if len(parameters) == 0 {
		return nil, fmt.Errorf("no parameters to analyze")
	}

	multi := &domain.MultiParameterSensitivity{}
	maxScore := decimal.NewFromInt(-1)
	for _, parameter := range parameters {
		analysis, err := sa.AnalyzeSingleParameter(ctx, base, parameter)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze %s: %w", parameter.Name, err)
		}
		multi.Analyses = append(multi.Analyses, *analysis)
		if analysis.Summary.MaxScore.GreaterThan(maxScore) {
			maxScore = analysis.Summary.MaxScore
			multi.MostSensitiveParameter = parameter.Name
		}
	}

	for _, analysis := range multi.Analyses {
		multi.Recommendations = append(multi.Recommendations,
			fmt.Sprintf("%s: %s sensitivity (score %s)", analysis.Parameter.Name,
				analysis.Summary.RiskLevel, analysis.Summary.MaxScore.StringFixed(2)))
	}
	multi.Recommendations = append(multi.Recommendations,
		fmt.Sprintf("Most sensitive parameter: %s", multi.MostSensitiveParameter))

	return multi, nil
}

// generateParameterValues generates evenly spaced values from MinValue to MaxValue
func (sa *SensitivityAnalyzer) generateParameterValues(param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.BaseValue}
	}

	values := make([]decimal.Decimal, 0, param.Steps)
	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}

func (sa *SensitivityAnalyzer) calculateSensitivitySummary(results []domain.SensitivityResult, parameter domain.SensitivityParameter) domain.SensitivitySummary {
	maxScore := decimal.Zero
	for _, result := range results {
		if result.Error == "" && result.Score.GreaterThan(maxScore) {
			maxScore = result.Score
		}
	}

	summary := domain.SensitivitySummary{
		MaxScore:  maxScore,
		RiskLevel: domain.DetermineRiskLevel(maxScore),
	}
	summary.Recommendations = summary.GenerateRecommendations(parameter.Name)
	return summary
}

func validateParameter(p domain.SensitivityParameter) error {
	switch p.Name {
	case domain.ParamFundReturnRate, domain.ParamAdminFeeRate, domain.ParamCurrentSavings:
	default:
		return fmt.Errorf("unsupported sensitivity parameter: %s", p.Name)
	}
	if p.Steps > 1 && p.MinValue.GreaterThan(p.MaxValue) {
		return fmt.Errorf("invalid range for %s: min %s is greater than max %s", p.Name, p.MinValue, p.MaxValue)
	}
	return nil
}

func parameterTransform(name string, value decimal.Decimal) transform.InputTransform {
	switch name {
	case domain.ParamFundReturnRate:
		return &transform.SetReturnRate{Rate: value}
	case domain.ParamAdminFeeRate:
		return &transform.SetAdminFee{Rate: value}
	default:
		return &transform.SetSavings{Amount: value}
	}
}
