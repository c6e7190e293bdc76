package breakeven

import (
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solveSavings(t *testing.T) *SolveResult {
	t.Helper()
	result, err := NewDefaultSolver(nil).Solve(context.Background(), SolveRequest{
		Base:          createBaseInput(),
		Target:        SolveSavings,
		TargetMonthly: decimal.NewFromInt(1070000),
	})
	require.NoError(t, err)
	return result
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format(solveSavings(t))

	assert.Contains(t, out, "TARGET PENSION SOLVER")
	assert.Contains(t, out, "Solve For:           current_savings")
	assert.Contains(t, out, "Target Monthly:      1,070,000.00")
	assert.Contains(t, out, "Status:              converged")
	assert.Contains(t, out, "Current:             250,000,000.00")
	assert.Contains(t, out, "Current savings: lower to")
	assert.Contains(t, out, "(base 1,337,500.00)")
}

func TestTableFormatter_FormatMulti(t *testing.T) {
	result, err := NewDefaultSolver(nil).SolveAll(context.Background(), createBaseInput(), decimal.NewFromInt(1575000))
	require.NoError(t, err)

	out := (&TableFormatter{}).FormatMulti(result)
	assert.Contains(t, out, "TARGET PENSION SOLVER - ALL INPUTS")
	assert.Contains(t, out, "fund_return_rate")
	assert.Contains(t, out, "8.0000%")
	assert.Contains(t, out, "RECOMMENDATIONS")
	assert.Contains(t, out, "3. admin_fee_rate cannot reach the target")
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := (&JSONFormatter{Pretty: true}).Format(solveSavings(t))
	require.NoError(t, err)
	assert.Contains(t, out, "\n  ")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Contains(t, decoded, "value")
	assert.Contains(t, decoded, "projection")
}
