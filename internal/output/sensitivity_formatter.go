package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityFormatter defines a formatter for sensitivity analysis
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis interface{}) (string, error)
	Name() string
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis interface{}) (string, error) {
	var buf bytes.Buffer

	switch a := analysis.(type) {
	case *domain.ParameterSensitivityAnalysis:
		if err := scf.formatSingleAnalysis(&buf, a); err != nil {
			return "", err
		}
	case *domain.MultiParameterSensitivity:
		for i := range a.Analyses {
			if err := scf.formatSingleAnalysis(&buf, &a.Analyses[i]); err != nil {
				return "", err
			}
			fmt.Fprintln(&buf)
		}
		fmt.Fprintln(&buf, "OVERALL:")
		for _, rec := range a.Recommendations {
			fmt.Fprintf(&buf, "  • %s\n", rec)
		}
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}
	return buf.String(), nil
}

func (scf SensitivityConsoleFormatter) formatSingleAnalysis(buf *bytes.Buffer, analysis *domain.ParameterSensitivityAnalysis) error {
	if len(analysis.Results) == 0 {
		return fmt.Errorf("no results in analysis")
	}
	param := analysis.Parameter

	fmt.Fprintf(buf, "SENSITIVITY ANALYSIS: %s\n", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
	fmt.Fprintln(buf, strings.Repeat("=", 65))
	fmt.Fprintf(buf, "Base Case: %s = %s\n", param.Name, formatParameterValue(param, param.BaseValue))
	fmt.Fprintf(buf, "Range: %s to %s (%d steps)\n",
		formatParameterValue(param, param.MinValue), formatParameterValue(param, param.MaxValue), param.Steps)
	if param.Description != "" {
		fmt.Fprintf(buf, "Description: %s\n", param.Description)
	}
	fmt.Fprintf(buf, "Base Monthly Pension: %s\n", FormatAmount(analysis.BaseMonthly))
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "%-24s %-20s %-20s %-10s %-8s\n", param.Name, "Monthly Pension", "Change", "Change %", "Score")
	fmt.Fprintln(buf, strings.Repeat("-", 86))

	for _, result := range analysis.Results {
		valueStr := formatParameterValue(param, result.ParameterValue)
		if result.IsBase {
			valueStr += " ← BASE"
		}
		if result.Error != "" {
			fmt.Fprintf(buf, "%-24s ERROR: %s\n", valueStr, result.Error)
			continue
		}
		fmt.Fprintf(buf, "%-24s %-20s %-20s %-10s %-8s\n",
			valueStr,
			FormatAmount(result.Projection.MonthlyPension),
			signedAmount(result.MonthlyChange),
			result.MonthlyChangePct.StringFixed(1)+"%",
			result.Score.StringFixed(2))
	}

	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Max Score: %s  Risk Level: %s\n", analysis.Summary.MaxScore.StringFixed(2), analysis.Summary.RiskLevel)
	for _, rec := range analysis.Summary.Recommendations {
		fmt.Fprintf(buf, "  • %s\n", rec)
	}
	return nil
}

// SensitivityCSVFormatter formats sensitivity analysis output as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

var sensitivityCSVHeader = []string{
	"Parameter", "Value", "IsBase", "ProjectedSavings", "AnnualPension", "MonthlyPension",
	"MonthlyChange", "MonthlyChangePct", "ParameterChangePct", "Score", "Error",
}

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis interface{}) (string, error) {
	var analyses []domain.ParameterSensitivityAnalysis
	switch a := analysis.(type) {
	case *domain.ParameterSensitivityAnalysis:
		analyses = []domain.ParameterSensitivityAnalysis{*a}
	case *domain.MultiParameterSensitivity:
		analyses = a.Analyses
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(sensitivityCSVHeader); err != nil {
		return "", err
	}
	for _, a := range analyses {
		for _, r := range a.Results {
			row := []string{a.Parameter.Name, r.ParameterValue.String(), fmt.Sprint(r.IsBase), "", "", "", "", "", "", "", r.Error}
			if r.Projection != nil {
				row[3] = r.Projection.ProjectedSavings.StringFixed(2)
				row[4] = r.Projection.AnnualPension.StringFixed(2)
				row[5] = r.Projection.MonthlyPension.StringFixed(2)
				row[6] = r.MonthlyChange.StringFixed(2)
				row[7] = r.MonthlyChangePct.StringFixed(4)
				row[8] = r.ParameterChangePct.StringFixed(4)
				row[9] = r.Score.StringFixed(4)
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis interface{}) (string, error) {
	switch analysis.(type) {
	case *domain.ParameterSensitivityAnalysis, *domain.MultiParameterSensitivity:
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// NewSensitivityFormatter creates a sensitivity formatter by name, or nil
func NewSensitivityFormatter(format string) SensitivityFormatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "console", "table", "":
		return SensitivityConsoleFormatter{}
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return nil
	}
}

func formatParameterValue(param domain.SensitivityParameter, v decimal.Decimal) string {
	if param.Unit == "amount" {
		return FormatAmount(v)
	}
	return FormatRate(v)
}

func signedAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return FormatAmount(d)
	}
	return "+" + FormatAmount(d)
}
