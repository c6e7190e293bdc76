package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
)

// CSVSummarizer writes a header row and a single data row per report.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

var csvHeader = []string{
	"Age", "Sex", "WeeksContributed", "CurrentSavings", "FundReturnRate", "AdminFeeRate",
	"RetirementAge", "YearsRemaining", "ProjectedSavings", "AnnualPension", "MonthlyPension", "Advisories",
}

func (c CSVSummarizer) Format(report *domain.PensionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	in := report.Input
	p := report.Projection
	advisories := ""
	for i, a := range p.Advisories {
		if i > 0 {
			advisories += "; "
		}
		advisories += a.Message
	}
	row := []string{
		strconv.Itoa(in.Age),
		in.Sex.String(),
		strconv.Itoa(in.WeeksContributed),
		in.CurrentSavings.StringFixed(2),
		in.FundReturnRate.String(),
		in.AdminFeeRate.String(),
		strconv.Itoa(p.RetirementAge),
		strconv.Itoa(p.YearsRemaining),
		p.ProjectedSavings.StringFixed(2),
		p.AnnualPension.StringFixed(2),
		p.MonthlyPension.StringFixed(2),
		advisories,
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
