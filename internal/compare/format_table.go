package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/pensioncalc/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing cases
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("PENSION WHAT-IF COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 22
	numWidth := 18

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Projected Savings",
		numWidth, "Annual Pension",
		numWidth, "Monthly Pension"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	// Deltas from base
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s: %s\n", alt.ScenarioName, alt.Description))
			if alt.Failed() {
				sb.WriteString(fmt.Sprintf("  Error:            %s\n", alt.Error))
				continue
			}
			sb.WriteString(fmt.Sprintf("  Monthly Pension:  %s%s (%s%%)\n",
				tf.deltaSymbol(alt.MonthlyDiffFromBase),
				output.FormatAmount(alt.MonthlyDiffFromBase),
				alt.MonthlyPctFromBase.StringFixed(1)))
			sb.WriteString(fmt.Sprintf("  Projected Savings: %s%s\n",
				tf.deltaSymbol(alt.SavingsDiffFromBase),
				output.FormatAmount(alt.SavingsDiffFromBase)))
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single case row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	if result.Failed() {
		return fmt.Sprintf("%-*s %*s\n", nameWidth, tf.truncate(name, nameWidth), numWidth, "not computable")
	}

	return fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, tf.formatDecimal(result.ProjectedSavings),
		numWidth, tf.formatDecimal(result.AnnualPension),
		numWidth, tf.formatDecimal(result.MonthlyPension))
}

// formatDecimal abbreviates large amounts (millions, thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns "+" for gains; losses carry their own minus sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a single-line summary of monthly pension changes
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		switch {
		case alt.Failed():
			change = "n/a"
		case alt.MonthlyDiffFromBase.IsPositive():
			change = "+" + tf.formatDecimal(alt.MonthlyDiffFromBase)
		case alt.MonthlyDiffFromBase.IsNegative():
			change = "-" + tf.formatDecimal(alt.MonthlyDiffFromBase.Abs())
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
