package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/pensioncalc/internal/domain"
)

// ConsoleFormatter renders a human-readable summary. Colors are only emitted
// when Out is a terminal.
type ConsoleFormatter struct {
	Out io.Writer
}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.PensionReport) ([]byte, error) {
	var buf bytes.Buffer

	target := c.Out
	if target == nil {
		target = &buf
	}
	r := lipgloss.NewRenderer(target)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	section := r.NewStyle().Bold(true)
	label := r.NewStyle().Foreground(lipgloss.Color("245"))
	value := r.NewStyle().Bold(true)
	warn := r.NewStyle().Foreground(lipgloss.Color("214"))

	in := report.Input
	p := report.Projection

	row := func(name, v string) {
		fmt.Fprintf(&buf, "  %s %s\n", label.Render(fmt.Sprintf("%-20s", name+":")), value.Render(v))
	}

	fmt.Fprintln(&buf, title.Render("PENSION PROJECTION"))
	fmt.Fprintln(&buf, strings.Repeat("=", 50))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, section.Render("INPUTS"))
	row("Age", fmt.Sprintf("%d", in.Age))
	row("Sex", in.Sex.String())
	row("Weeks contributed", fmt.Sprintf("%d (minimum %d)", in.WeeksContributed, report.Rules.MinimumWeeks))
	row("Current savings", FormatAmount(in.CurrentSavings))
	row("Fund return rate", FormatRate(in.FundReturnRate))
	row("Admin fee rate", FormatRate(in.AdminFeeRate))
	row("Current salary", FormatAmount(in.CurrentSalary)+" (not used)")
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, section.Render("RESULTS"))
	row("Retirement age", fmt.Sprintf("%d (%s)", p.RetirementAge, describeYears(p.YearsRemaining)))
	row("Projected savings", FormatAmount(p.ProjectedSavings))
	row("Annual pension", FormatAmount(p.AnnualPension))
	row("Monthly pension", FormatAmount(p.MonthlyPension))

	if p.HasAdvisories() {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, section.Render("ADVISORIES"))
		for _, a := range p.Advisories {
			fmt.Fprintf(&buf, "  %s\n", warn.Render("• "+a.Message))
		}
	}

	return buf.Bytes(), nil
}

func describeYears(years int) string {
	switch {
	case years == 0:
		return "retiring this year"
	case years == 1:
		return "1 year remaining"
	case years > 1:
		return fmt.Sprintf("%d years remaining", years)
	case years == -1:
		return "1 year past"
	default:
		return fmt.Sprintf("%d years past", -years)
	}
}
