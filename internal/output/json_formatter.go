package output

import (
	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/pensioncalc/internal/domain"
)

// JSONFormatter emits the report as JSON. Decimal amounts are encoded as
// strings to keep full precision.
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.PensionReport) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}
