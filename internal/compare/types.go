package compare

import (
	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single what-if case with its metrics
type ComparisonResult struct {
	ScenarioName string              `json:"scenarioName"`
	Description  string              `json:"description"`
	Input        domain.PensionInput `json:"input"`
	// Error is set when the case could not be calculated; metrics are then zero.
	Error string `json:"error,omitempty"`

	// Key Metrics
	RetirementAge    int             `json:"retirementAge"`
	YearsRemaining   int             `json:"yearsRemaining"`
	ProjectedSavings decimal.Decimal `json:"projectedSavings"`
	AnnualPension    decimal.Decimal `json:"annualPension"`
	MonthlyPension   decimal.Decimal `json:"monthlyPension"`
	Advisories       []string        `json:"advisories,omitempty"`

	// Comparison to Base
	MonthlyDiffFromBase decimal.Decimal `json:"monthlyDiffFromBase"`
	MonthlyPctFromBase  decimal.Decimal `json:"monthlyPctFromBase"`
	SavingsDiffFromBase decimal.Decimal `json:"savingsDiffFromBase"`
}

// Failed reports whether the case could not be calculated
func (r *ComparisonResult) Failed() bool {
	return r.Error != ""
}

// ComparisonSet represents a base case and its alternatives
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
}
