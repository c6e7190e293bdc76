package breakeven

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/pensioncalc/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats solve results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a single solve
func (tf *TableFormatter) Format(result *SolveResult) string {
	var sb strings.Builder

	sb.WriteString("TARGET PENSION SOLVER\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Solve For:           %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Target Monthly:      %s\n", output.FormatAmount(result.Request.TargetMonthly)))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("REQUIRED VALUE\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	base := currentValue(result.Request.Base, result.Request.Target)
	sb.WriteString(fmt.Sprintf("Current:             %s\n", tf.formatValue(result.Request.Target, base)))
	sb.WriteString(fmt.Sprintf("Required:            %s\n", tf.formatValue(result.Request.Target, result.Value)))
	sb.WriteString(fmt.Sprintf("Change:              %s\n", describeChange(*result)))
	sb.WriteString("\n")

	if p := result.Projection; p != nil {
		sb.WriteString("PROJECTED RESULTS\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		sb.WriteString(fmt.Sprintf("Projected Savings:   %s\n", output.FormatAmount(p.ProjectedSavings)))
		sb.WriteString(fmt.Sprintf("Annual Pension:      %s\n", output.FormatAmount(p.AnnualPension)))
		sb.WriteString(fmt.Sprintf("Monthly Pension:     %s (base %s)\n",
			output.FormatAmount(p.MonthlyPension), output.FormatAmount(result.BaseMonthly)))
	}

	return sb.String()
}

// FormatMulti formats the results of SolveAll
func (tf *TableFormatter) FormatMulti(result *MultiTargetResult) string {
	var sb strings.Builder

	sb.WriteString("TARGET PENSION SOLVER - ALL INPUTS\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("%-18s %18s %18s\n", "Solve For", "Required", "Monthly Pension"))
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	for _, res := range result.Results {
		monthly := ""
		if res.Projection != nil {
			monthly = output.FormatAmount(res.Projection.MonthlyPension)
		}
		sb.WriteString(fmt.Sprintf("%-18s %18s %18s\n",
			res.Request.Target, tf.formatValue(res.Request.Target, res.Value), monthly))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		for i, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
	}

	return sb.String()
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "converged"
	}
	return "did not converge"
}

func (tf *TableFormatter) formatValue(target SolveTarget, v decimal.Decimal) string {
	if target == SolveSavings {
		return output.FormatAmount(v)
	}
	return v.StringFixed(4) + "%"
}

// JSONFormatter formats solve results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format encodes a single solve result
func (jf *JSONFormatter) Format(result *SolveResult) (string, error) {
	return jf.encode(result)
}

// FormatMulti encodes the results of SolveAll
func (jf *JSONFormatter) FormatMulti(result *MultiTargetResult) (string, error) {
	return jf.encode(result)
}

func (jf *JSONFormatter) encode(v interface{}) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal solve result: %w", err)
	}
	return string(data), nil
}
