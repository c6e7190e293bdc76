package output

import (
	"fmt"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
)

// DefaultAssumptions lists the modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Savings compound annually at the fund return rate",
	"No further contributions are made between now and retirement",
	"Annual pension is projected savings × (return rate − admin fee) / 100, paid for life",
	"Monthly pension is the annual pension divided by 12",
	"Current salary is recorded but does not affect the projection",
	"Amounts are in a single unspecified currency, not inflation adjusted",
}

// ReportAssumptions returns DefaultAssumptions followed by the payout ratio
// actually applied to report.
func ReportAssumptions(report *domain.PensionReport) []string {
	in := report.Input
	ratio := in.FundReturnRate.Sub(in.AdminFeeRate)
	lines := append([]string(nil), DefaultAssumptions...)
	return append(lines, fmt.Sprintf("This projection pays %s of projected savings per year (%s return − %s admin fee)",
		FormatRate(ratio), FormatRate(in.FundReturnRate), FormatRate(in.AdminFeeRate)))
}
