package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/pensioncalc/internal/breakeven"
	"github.com/rgehrsitz/pensioncalc/internal/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve [case-file]",
	Short: "Find the input value that reaches a target monthly pension",
	Long: `Solve for the fund return rate, current savings or admin fee rate that makes
the case reach a target monthly pension. Without --for every input is solved.

Examples:
  pensioncalc solve case.yaml --target-monthly 1500000 --for savings
  pensioncalc solve case.yaml --target-monthly 1500000 --for rate --max 12
  pensioncalc solve case.yaml --target-monthly 1500000 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetStr, _ := cmd.Flags().GetString("target-monthly")
		targetMonthly, err := decimal.NewFromString(targetStr)
		if err != nil {
			return fmt.Errorf("invalid --target-monthly %q: %w", targetStr, err)
		}
		constraints, err := constraintsFromFlags(cmd)
		if err != nil {
			return err
		}

		cfg, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}

		lenient, _ := cmd.Flags().GetBool("lenient-sex")
		solver := breakeven.NewDefaultSolver(newCalculator(cmd, cfg.EffectiveRules(), lenient || cfg.Options.LenientSex))
		format, _ := cmd.Flags().GetString("format")
		format = strings.ToLower(format)
		if format != "table" && format != "json" {
			return fmt.Errorf("unsupported format: %s (valid: table, json)", format)
		}

		forStr, _ := cmd.Flags().GetString("for")
		if forStr == "" {
			result, err := solver.SolveAll(cmd.Context(), cfg.Case, targetMonthly)
			if err != nil {
				return fmt.Errorf("solve failed: %w", err)
			}
			return writeSolve(cmd, format,
				func() string { return (&breakeven.TableFormatter{}).FormatMulti(result) },
				func() (string, error) { return (&breakeven.JSONFormatter{Pretty: true}).FormatMulti(result) })
		}

		target, err := breakeven.ParseSolveTarget(forStr)
		if err != nil {
			return err
		}
		result, err := solver.Solve(cmd.Context(), breakeven.SolveRequest{
			Base:          cfg.Case,
			Target:        target,
			TargetMonthly: targetMonthly,
			Constraints:   constraints,
		})
		if err != nil {
			return fmt.Errorf("solve failed: %w", err)
		}
		if !result.Success {
			logger.Warnf("solver did not converge: %s", result.ConvergenceInfo)
		}
		return writeSolve(cmd, format,
			func() string { return (&breakeven.TableFormatter{}).Format(result) },
			func() (string, error) { return (&breakeven.JSONFormatter{Pretty: true}).Format(result) })
	},
}

func constraintsFromFlags(cmd *cobra.Command) (breakeven.Constraints, error) {
	var c breakeven.Constraints
	for _, name := range []string{"min", "max"} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		raw, _ := cmd.Flags().GetString(name)
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return c, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
		}
		if name == "min" {
			c.Min = &v
		} else {
			c.Max = &v
		}
	}
	return c, nil
}

func writeSolve(cmd *cobra.Command, format string, table func() string, jsonOut func() (string, error)) error {
	out := ""
	if format == "json" {
		var err error
		if out, err = jsonOut(); err != nil {
			return err
		}
		out += "\n"
	} else {
		out = table()
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func init() {
	solveCmd.Flags().String("target-monthly", "", "Monthly pension to reach (required)")
	solveCmd.Flags().String("for", "", "Input to solve for: rate, savings or fee (default: all)")
	solveCmd.Flags().String("min", "", "Lower bound for the solved value")
	solveCmd.Flags().String("max", "", "Upper bound for the solved value")
	solveCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	solveCmd.Flags().Bool("lenient-sex", false, "Treat an unrecognized sex as male with a warning instead of failing")
	_ = solveCmd.MarkFlagRequired("target-monthly")
}
