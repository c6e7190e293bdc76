package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"amount": FormatAmount,
	"rate":   FormatRate,
	"years":  describeYears,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.PensionReport) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.PensionReport
		Assumptions []string
	}{report, ReportAssumptions(report)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
