package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rgehrsitz/pensioncalc/internal/calculation"
	"github.com/rgehrsitz/pensioncalc/internal/config"
	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/rgehrsitz/pensioncalc/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [case-file]",
	Short: "Sweep inputs and show how the monthly pension responds",
	Long: `Sweep one or more inputs across a range and show how the monthly pension
responds. Without --parameter the common set is analyzed: return rate ±2 points,
admin fee ±0.5 points and savings ±20%.

Parameters: fund_return_rate, admin_fee_rate, current_savings

Examples:
  pensioncalc sensitivity case.yaml
  pensioncalc sensitivity case.yaml --parameter fund_return_rate --range 4-10 --steps 7
  pensioncalc sensitivity case.yaml --parameter admin_fee_rate:0.5-2:4 --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		formatter := output.NewSensitivityFormatter(format)
		if formatter == nil {
			return fmt.Errorf("unsupported format: %s (valid: console, csv, json)", format)
		}

		cfg, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}

		parameters, err := sensitivityParameters(cmd, cfg.Case)
		if err != nil {
			return err
		}

		lenient, _ := cmd.Flags().GetBool("lenient-sex")
		analyzer := calculation.NewSensitivityAnalyzer(newCalculator(cmd, cfg.EffectiveRules(), lenient || cfg.Options.LenientSex))
		logger.Debugf("analyzing %d parameter(s) for %s", len(parameters), args[0])

		var analysis interface{}
		if len(parameters) == 1 {
			analysis, err = analyzer.AnalyzeSingleParameter(cmd.Context(), cfg.Case, parameters[0])
		} else {
			analysis, err = analyzer.AnalyzeMultipleParameters(cmd.Context(), cfg.Case, parameters)
		}
		if err != nil {
			return fmt.Errorf("sensitivity analysis failed: %w", err)
		}

		out, err := formatter.FormatSensitivityAnalysis(analysis)
		if err != nil {
			return fmt.Errorf("format sensitivity analysis: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

// sensitivityParameters resolves the flags into sweeps centered on base
func sensitivityParameters(cmd *cobra.Command, base domain.PensionInput) ([]domain.SensitivityParameter, error) {
	specs, _ := cmd.Flags().GetStringArray("parameter")
	if len(specs) == 0 {
		set, _ := cmd.Flags().GetString("parameter-set")
		if set != "common" {
			return nil, fmt.Errorf("unknown parameter set: %s (valid: common)", set)
		}
		return domain.GetCommonParameters(base), nil
	}

	rangeStr, _ := cmd.Flags().GetString("range")
	steps, _ := cmd.Flags().GetInt("steps")
	if rangeStr != "" && len(specs) > 1 {
		return nil, fmt.Errorf("--range applies to a single --parameter")
	}

	parameters := make([]domain.SensitivityParameter, 0, len(specs))
	for _, spec := range specs {
		param, err := parseParameterString(spec, base)
		if err != nil {
			return nil, err
		}
		if !strings.Contains(spec, ":") {
			if rangeStr != "" {
				if param.MinValue, param.MaxValue, err = parseRange(rangeStr); err != nil {
					return nil, err
				}
			}
			if cmd.Flags().Changed("steps") {
				param.Steps = steps
			}
		}
		parameters = append(parameters, param)
	}
	return parameters, nil
}

// parseParameterString parses "name" or "name:min-max:steps"
func parseParameterString(spec string, base domain.PensionInput) (domain.SensitivityParameter, error) {
	parts := strings.Split(strings.TrimSpace(spec), ":")
	name := parts[0]

	var param domain.SensitivityParameter
	found := false
	for _, common := range domain.GetCommonParameters(base) {
		if common.Name == name {
			param, found = common, true
			break
		}
	}
	if !found {
		return param, fmt.Errorf("unknown parameter: %s (valid: %s, %s, %s)", name,
			domain.ParamFundReturnRate, domain.ParamAdminFeeRate, domain.ParamCurrentSavings)
	}

	switch len(parts) {
	case 1:
		return param, nil
	case 3:
		var err error
		if param.MinValue, param.MaxValue, err = parseRange(parts[1]); err != nil {
			return param, err
		}
		if param.Steps, err = strconv.Atoi(parts[2]); err != nil || param.Steps < 1 {
			return param, fmt.Errorf("invalid steps in %q", spec)
		}
		return param, nil
	default:
		return param, fmt.Errorf("invalid parameter %q (format: name or name:min-max:steps)", spec)
	}
}

func parseRange(s string) (decimal.Decimal, decimal.Decimal, error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid range %q (format: min-max)", s)
	}
	minValue, err := decimal.NewFromString(strings.TrimSpace(lo))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid range minimum %q: %w", lo, err)
	}
	maxValue, err := decimal.NewFromString(strings.TrimSpace(hi))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid range maximum %q: %w", hi, err)
	}
	if minValue.GreaterThan(maxValue) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid range %q: minimum exceeds maximum", s)
	}
	return minValue, maxValue, nil
}

func init() {
	sensitivityCmd.Flags().StringArray("parameter", nil, "Parameter to analyze (format: name or name:min-max:steps, repeatable)")
	sensitivityCmd.Flags().String("range", "", "Range for a single named parameter (format: min-max)")
	sensitivityCmd.Flags().Int("steps", 5, "Number of steps for a single named parameter")
	sensitivityCmd.Flags().String("parameter-set", "common", "Predefined parameter set used when no --parameter is given (common)")
	sensitivityCmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json)")
	sensitivityCmd.Flags().Bool("lenient-sex", false, "Treat an unrecognized sex as male with a warning instead of failing")
}
