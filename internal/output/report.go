package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Formatter renders a pension report in one output format
type Formatter interface {
	Name() string
	Format(report *domain.PensionReport) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(report *domain.PensionReport) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *domain.PensionReport) ([]byte, error) { return f.F(report) }

var formatters = map[string]Formatter{}

// Register makes a formatter available to GetFormatterByName
func Register(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	Register(ConsoleFormatter{})
	Register(CSVSummarizer{})
	Register(JSONFormatter{Pretty: true})
	Register(YAMLFormatter{})
	Register(HTMLFormatter{})
}

// GetFormatterByName returns the formatter registered under name, or nil
func GetFormatterByName(name string) Formatter {
	return formatters[strings.ToLower(strings.TrimSpace(name))]
}

// FormatNames lists the registered format names
func FormatNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateReport renders report in format and writes it to w
func GenerateReport(w io.Writer, report *domain.PensionReport, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s (valid: %s)", format, strings.Join(FormatNames(), ", "))
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("format %s report: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFormatted renders report and saves it to a timestamped file in the
// working directory, returning the file name
func WriteFormatted(f Formatter, report *domain.PensionReport, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("pension_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return filename, nil
}

// FormatAmount renders an amount with two decimals and thousands separators.
// No currency symbol is applied.
func FormatAmount(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sign + sb.String() + frac
}

// FormatRate renders a percentage-point rate
func FormatRate(rate decimal.Decimal) string {
	return rate.StringFixed(2) + "%"
}
