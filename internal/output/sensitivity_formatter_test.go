package output

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/pensioncalc/internal/calculation"
	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRateSweep(t *testing.T) *domain.ParameterSensitivityAnalysis {
	t.Helper()
	report := createTestReport(t)
	analysis, err := calculation.NewSensitivityAnalyzer(nil).AnalyzeSingleParameter(context.Background(), report.Input,
		domain.SensitivityParameter{
			Name:      domain.ParamFundReturnRate,
			MinValue:  decimal.NewFromInt(5),
			MaxValue:  decimal.NewFromInt(9),
			Steps:     5,
			BaseValue: decimal.NewFromInt(7),
			Unit:      "percent",
		})
	require.NoError(t, err)
	return analysis
}

func TestNewSensitivityFormatter(t *testing.T) {
	for _, name := range []string{"console", "csv", "json"} {
		f := NewSensitivityFormatter(name)
		require.NotNil(t, f, name)
		assert.Equal(t, name, f.Name())
	}
	assert.Equal(t, "console", NewSensitivityFormatter("table").Name())
	assert.Nil(t, NewSensitivityFormatter("pdf"))
}

func TestSensitivityConsoleFormatter(t *testing.T) {
	out, err := SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(createRateSweep(t))
	require.NoError(t, err)

	assert.Contains(t, out, "SENSITIVITY ANALYSIS: FUND RETURN RATE")
	assert.Contains(t, out, "Range: 5.00% to 9.00% (5 steps)")
	assert.Contains(t, out, "Base Monthly Pension: 1,337,500.00")
	assert.Contains(t, out, "7.00% ← BASE")
	assert.Contains(t, out, "875,000.00")
	assert.Contains(t, out, "-462,500.00")
	assert.Contains(t, out, "Risk Level: MEDIUM")

	_, err = SensitivityConsoleFormatter{}.FormatSensitivityAnalysis("not an analysis")
	assert.Error(t, err)
}

func TestSensitivityConsoleFormatter_ErrorRows(t *testing.T) {
	analysis := createRateSweep(t)
	analysis.Results[4].Projection = nil
	analysis.Results[4].Error = "fund return rate cannot exceed the maximum rate"

	out, err := SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(analysis)
	require.NoError(t, err)
	assert.Contains(t, out, "ERROR: fund return rate cannot exceed the maximum rate")
}

func TestSensitivityConsoleFormatter_Multiple(t *testing.T) {
	report := createTestReport(t)
	multi, err := calculation.NewSensitivityAnalyzer(nil).AnalyzeMultipleParameters(context.Background(), report.Input,
		domain.GetCommonParameters(report.Input))
	require.NoError(t, err)

	out, err := SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(multi)
	require.NoError(t, err)
	assert.Contains(t, out, "SENSITIVITY ANALYSIS: ADMIN FEE RATE")
	assert.Contains(t, out, "SENSITIVITY ANALYSIS: CURRENT SAVINGS")
	assert.Contains(t, out, "250,000,000.00 ← BASE")
	assert.Contains(t, out, "Most sensitive parameter: fund_return_rate")
}

func TestSensitivityCSVFormatter(t *testing.T) {
	out, err := SensitivityCSVFormatter{}.FormatSensitivityAnalysis(createRateSweep(t))
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, sensitivityCSVHeader, records[0])
	assert.Equal(t, []string{"fund_return_rate", "5", "false"}, records[1][:3])
	assert.Equal(t, "875000.00", records[1][5])
	assert.Equal(t, "true", records[3][2])
	assert.Equal(t, "0.0000", records[3][9])
}

func TestSensitivityJSONFormatter(t *testing.T) {
	out, err := SensitivityJSONFormatter{}.FormatSensitivityAnalysis(createRateSweep(t))
	require.NoError(t, err)

	var decoded struct {
		Parameter struct {
			Name string `json:"name"`
		} `json:"parameter"`
		Results []struct {
			IsBase bool `json:"isBase"`
		} `json:"results"`
		Summary struct {
			RiskLevel string `json:"riskLevel"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "fund_return_rate", decoded.Parameter.Name)
	assert.Len(t, decoded.Results, 5)
	assert.True(t, decoded.Results[2].IsBase)
	assert.Equal(t, "MEDIUM", decoded.Summary.RiskLevel)

	_, err = SensitivityJSONFormatter{}.FormatSensitivityAnalysis(42)
	assert.Error(t, err)
}
