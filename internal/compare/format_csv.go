package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Fund Return Rate",
		"Admin Fee Rate",
		"Current Savings",
		"Projected Savings",
		"Annual Pension",
		"Monthly Pension",
		"Monthly Diff from Base",
		"Monthly % Change",
		"Error",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	if result.Failed() {
		return []string{
			result.ScenarioName, scenarioType,
			result.Input.FundReturnRate.String(), result.Input.AdminFeeRate.String(),
			result.Input.CurrentSavings.StringFixed(2),
			"", "", "", "", "",
			result.Error,
		}
	}
	return []string{
		result.ScenarioName,
		scenarioType,
		result.Input.FundReturnRate.String(),
		result.Input.AdminFeeRate.String(),
		result.Input.CurrentSavings.StringFixed(2),
		result.ProjectedSavings.StringFixed(2),
		result.AnnualPension.StringFixed(2),
		result.MonthlyPension.StringFixed(2),
		result.MonthlyDiffFromBase.StringFixed(2),
		result.MonthlyPctFromBase.StringFixed(2),
		"",
	}
}
