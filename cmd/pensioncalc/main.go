package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/pensioncalc/internal/calculation"
	"github.com/rgehrsitz/pensioncalc/internal/config"
	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/rgehrsitz/pensioncalc/internal/output"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	settings = &config.Settings{LogLevel: "info", LogFormat: "text", Format: "console", Addr: ":8080"}
	logger   = log.New()
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pensioncalc %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "pensioncalc",
	Short: "Retirement pension calculator",
	Long: "Projects retirement savings at the statutory retirement age and derives the\n" +
		"annual and monthly pension from them.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// setup loads settings from the environment and configures the logger
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadSettings()
	if err != nil {
		return err
	}
	settings = loaded

	level := settings.LogLevel
	if cmd.Flags().Changed("log-level") {
		level, _ = cmd.Flags().GetString("log-level")
	}
	if debugFlag, _ := cmd.Flags().GetBool("debug"); debugFlag {
		level = "debug"
	}
	return configureLogger(logger, cmd.ErrOrStderr(), level, settings.LogFormat)
}

func configureLogger(l *log.Logger, w io.Writer, level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	l.SetLevel(lvl)
	l.SetOutput(w)
	if format == "json" {
		l.SetFormatter(&log.JSONFormatter{})
	} else {
		l.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	}
	return nil
}

// newCalculator builds a calculator wired to the CLI logger
func newCalculator(cmd *cobra.Command, rules domain.Rules, lenient bool) *calculation.Calculator {
	calc := calculation.NewCalculatorWithRules(rules)
	calc.SetLogger(logger)
	calc.Debug, _ = cmd.Flags().GetBool("debug")
	calc.LenientSex = lenient || settings.LenientSex
	return calc
}

// render prints report in the requested format, or saves it to a file
func render(cmd *cobra.Command, report *domain.PensionReport) error {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = settings.Format
	}
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s (valid: %s)", format, strings.Join(output.FormatNames(), ", "))
	}
	if save, _ := cmd.Flags().GetBool("save"); save {
		ext := f.Name()
		if ext == "console" {
			ext = "txt"
		}
		filename, err := output.WriteFormatted(f, report, ext)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", filename)
		return nil
	}

	// Colors only when printing; saved files stay plain.
	if _, ok := f.(output.ConsoleFormatter); ok {
		f = output.ConsoleFormatter{Out: cmd.OutOrStdout()}
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("format %s report: %w", f.Name(), err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "Output format (console, csv, html, json, yaml); defaults to PENSION_FORMAT")
	cmd.Flags().Bool("save", false, "Save the report to a timestamped file instead of printing it")
	cmd.Flags().Bool("lenient-sex", false, "Treat an unrecognized sex as male with a warning instead of failing")
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [case-file]",
	Short: "Calculate the pension for a YAML case file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}

		lenient, _ := cmd.Flags().GetBool("lenient-sex")
		calc := newCalculator(cmd, cfg.EffectiveRules(), lenient || cfg.Options.LenientSex)
		logger.Debugf("calculating case from %s", args[0])

		report, err := calc.Report(cfg.Case)
		if err != nil {
			return fmt.Errorf("calculation failed: %w", err)
		}
		return render(cmd, report)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [case-file]",
	Short: "Validate a case file without printing a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}

		calc := newCalculator(cmd, cfg.EffectiveRules(), cfg.Options.LenientSex)
		if _, err := calc.Calculate(cfg.Case); err != nil {
			return fmt.Errorf("case %s is invalid: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Case file %s is valid\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error); defaults to PENSION_LOG_LEVEL")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output for detailed calculations")

	addRenderFlags(calculateCmd)

	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(sensitivityCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
