package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/pensioncalc/internal/compare"
	"github.com/rgehrsitz/pensioncalc/internal/config"
	"github.com/rgehrsitz/pensioncalc/internal/transform"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [case-file]",
	Short: "Compare a case against what-if variations",
	Long: `Compare the pension of a case file against variations built from templates
or ad hoc transforms.

Examples:
  pensioncalc compare case.yaml --with rate_up_1,pessimistic
  pensioncalc compare case.yaml --transform adjust_admin_fee:delta=-0.5
  pensioncalc compare --list-templates`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list-templates"); list {
			fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("case file required for comparison (use --list-templates to see available templates)")
		}

		templatesStr, _ := cmd.Flags().GetString("with")
		transforms, _ := cmd.Flags().GetStringArray("transform")
		templates := transform.ParseTemplateList(templatesStr)
		if len(templates) == 0 && len(transforms) == 0 {
			return fmt.Errorf("--with or --transform is required to describe the variations to compare")
		}

		cfg, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}

		lenient, _ := cmd.Flags().GetBool("lenient-sex")
		calc := newCalculator(cmd, cfg.EffectiveRules(), lenient || cfg.Options.LenientSex)
		baseName, _ := cmd.Flags().GetString("base")

		compSet, err := compare.NewCompareEngine(calc).Compare(cmd.Context(), cfg.Case, compare.CompareOptions{
			BaseScenarioName: baseName,
			Templates:        templates,
			Transforms:       transforms,
		})
		if err != nil {
			return fmt.Errorf("comparison failed: %w", err)
		}
		compSet.ConfigPath = args[0]

		format, _ := cmd.Flags().GetString("format")
		var out string
		switch strings.ToLower(format) {
		case "csv":
			out, err = (&compare.CSVFormatter{}).Format(compSet)
		case "json":
			out, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
		case "compact":
			out = (&compare.TableFormatter{}).FormatCompact(compSet)
		case "table", "console", "":
			out = (&compare.TableFormatter{}).Format(compSet)
		default:
			return fmt.Errorf("unsupported format: %s (valid: table, compact, csv, json)", format)
		}
		if err != nil {
			return fmt.Errorf("format comparison: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	compareCmd.Flags().String("base", "base", "Display name of the case being compared")
	compareCmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	compareCmd.Flags().StringArray("transform", nil, "Ad hoc transform, e.g. set_savings:amount=300000000 (repeatable)")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	compareCmd.Flags().Bool("list-templates", false, "List all available what-if templates")
	compareCmd.Flags().Bool("lenient-sex", false, "Treat an unrecognized sex as male with a warning instead of failing")
}
