package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/pensioncalc/internal/calculation"
	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/rgehrsitz/pensioncalc/internal/output"
	"github.com/rgehrsitz/pensioncalc/internal/transform"
	"github.com/shopspring/decimal"
)

// CompareEngine orchestrates what-if comparison
type CompareEngine struct {
	Calculator        *calculation.Calculator
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calc *calculation.Calculator) *CompareEngine {
	if calc == nil {
		calc = calculation.NewCalculator()
	}
	return &CompareEngine{
		Calculator:        calc,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Display name of the base case
	Templates        []string // Template names to apply
	Transforms       []string // Ad hoc transform specs, e.g. "adjust_return_rate:delta=1"
}

// Compare calculates the base case and each alternative derived from it.
// An alternative that cannot be calculated is reported with Error set; only
// a failing base case or an unknown template aborts the comparison.
func (ce *CompareEngine) Compare(ctx context.Context, base domain.PensionInput, options CompareOptions) (*ComparisonSet, error) {
	baseName := options.BaseScenarioName
	if baseName == "" {
		baseName = "base"
	}

	baseProjection, err := ce.Calculator.Calculate(base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseName, base, baseProjection)

	type alternative struct {
		name, description string
		transforms        []transform.InputTransform
	}
	var pending []alternative

	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}
		pending = append(pending, alternative{template.Name, template.Description, template.Transforms})
	}
	for _, spec := range options.Transforms {
		t, err := ce.TransformRegistry.ParseTransformSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
		}
		pending = append(pending, alternative{spec, t.Description(), []transform.InputTransform{t}})
	}

	alternatives := make([]ComparisonResult, 0, len(pending))
	for _, alt := range pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := ComparisonResult{ScenarioName: alt.name, Description: alt.description}
		modified, err := transform.ApplyTransforms(base, alt.transforms)
		if err != nil {
			result.Input = base
			result.Error = err.Error()
			alternatives = append(alternatives, result)
			continue
		}

		projection, err := ce.Calculator.Calculate(modified)
		if err != nil {
			result.Input = modified
			result.Error = err.Error()
			alternatives = append(alternatives, result)
			continue
		}

		result = ce.MetricsCalculator.CalculateMetrics(alt.name, modified, projection)
		result.Description = alt.description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(result, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// MetricsCalculator extracts key metrics from projections
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics builds a comparison row from a projection
func (mc *MetricsCalculator) CalculateMetrics(name string, in domain.PensionInput, p *domain.PensionProjection) ComparisonResult {
	result := ComparisonResult{
		ScenarioName:     name,
		Input:            in,
		RetirementAge:    p.RetirementAge,
		YearsRemaining:   p.YearsRemaining,
		ProjectedSavings: p.ProjectedSavings,
		AnnualPension:    p.AnnualPension,
		MonthlyPension:   p.MonthlyPension,
	}
	for _, a := range p.Advisories {
		result.Advisories = append(result.Advisories, a.Message)
	}
	return result
}

// CalculateComparison computes deltas between a case and the base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.MonthlyDiffFromBase = scenario.MonthlyPension.Sub(base.MonthlyPension)
	scenario.SavingsDiffFromBase = scenario.ProjectedSavings.Sub(base.ProjectedSavings)

	if !base.MonthlyPension.IsZero() {
		scenario.MonthlyPctFromBase = scenario.MonthlyDiffFromBase.
			Div(base.MonthlyPension).
			Mul(decimal.NewFromInt(100))
	}

	return scenario
}

// GenerateRecommendations summarizes the upside and downside of the alternatives
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	best, worst := -1, -1
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Failed() {
			recommendations = append(recommendations,
				fmt.Sprintf("Not computable: %s (%s)", alt.ScenarioName, alt.Error))
			continue
		}
		if alt.MonthlyDiffFromBase.IsPositive() &&
			(best < 0 || alt.MonthlyPension.GreaterThan(compSet.AlternativeResults[best].MonthlyPension)) {
			best = i
		}
		if alt.MonthlyDiffFromBase.IsNegative() &&
			(worst < 0 || alt.MonthlyPension.LessThan(compSet.AlternativeResults[worst].MonthlyPension)) {
			worst = i
		}
	}

	if best >= 0 {
		alt := compSet.AlternativeResults[best]
		recommendations = append(recommendations,
			fmt.Sprintf("Best Pension: %s provides %s more monthly pension than the base (%s%%)",
				alt.ScenarioName, output.FormatAmount(alt.MonthlyDiffFromBase), alt.MonthlyPctFromBase.StringFixed(1)))
	}
	if worst >= 0 {
		alt := compSet.AlternativeResults[worst]
		recommendations = append(recommendations,
			fmt.Sprintf("Largest Risk: %s lowers monthly pension by %s (%s%%)",
				alt.ScenarioName, output.FormatAmount(alt.MonthlyDiffFromBase.Abs()), alt.MonthlyPctFromBase.StringFixed(1)))
	}

	return recommendations
}
