package transform

import (
	"fmt"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
)

// AdjustReturnRate shifts the fund return rate by Delta percentage points.
type AdjustReturnRate struct {
	Delta decimal.Decimal
}

func (a *AdjustReturnRate) Name() string {
	return "adjust_return_rate"
}

func (a *AdjustReturnRate) Description() string {
	return fmt.Sprintf("Change the fund return rate by %s points", signed(a.Delta))
}

func (a *AdjustReturnRate) Validate(base domain.PensionInput) error {
	if base.FundReturnRate.Add(a.Delta).IsNegative() {
		return NewTransformError(a.Name(), "validate",
			fmt.Sprintf("return rate %s%% would become negative", base.FundReturnRate.String()), nil)
	}
	return nil
}

func (a *AdjustReturnRate) Apply(base domain.PensionInput) (domain.PensionInput, error) {
	base.FundReturnRate = base.FundReturnRate.Add(a.Delta)
	return base, nil
}

// SetReturnRate replaces the fund return rate.
type SetReturnRate struct {
	Rate decimal.Decimal
}

func (s *SetReturnRate) Name() string {
	return "set_return_rate"
}

func (s *SetReturnRate) Description() string {
	return fmt.Sprintf("Set the fund return rate to %s%%", s.Rate.String())
}

func (s *SetReturnRate) Validate(base domain.PensionInput) error {
	if s.Rate.IsNegative() {
		return NewTransformError(s.Name(), "validate", "return rate cannot be negative", nil)
	}
	return nil
}

func (s *SetReturnRate) Apply(base domain.PensionInput) (domain.PensionInput, error) {
	base.FundReturnRate = s.Rate
	return base, nil
}

// AdjustAdminFee shifts the administration fee rate by Delta percentage points.
type AdjustAdminFee struct {
	Delta decimal.Decimal
}

func (a *AdjustAdminFee) Name() string {
	return "adjust_admin_fee"
}

func (a *AdjustAdminFee) Description() string {
	return fmt.Sprintf("Change the administration fee by %s points", signed(a.Delta))
}

func (a *AdjustAdminFee) Validate(base domain.PensionInput) error {
	if base.AdminFeeRate.Add(a.Delta).IsNegative() {
		return NewTransformError(a.Name(), "validate",
			fmt.Sprintf("fee rate %s%% would become negative", base.AdminFeeRate.String()), nil)
	}
	return nil
}

func (a *AdjustAdminFee) Apply(base domain.PensionInput) (domain.PensionInput, error) {
	base.AdminFeeRate = base.AdminFeeRate.Add(a.Delta)
	return base, nil
}

// SetAdminFee replaces the administration fee rate.
type SetAdminFee struct {
	Rate decimal.Decimal
}

func (s *SetAdminFee) Name() string {
	return "set_admin_fee"
}

func (s *SetAdminFee) Description() string {
	return fmt.Sprintf("Set the administration fee to %s%%", s.Rate.String())
}

func (s *SetAdminFee) Validate(base domain.PensionInput) error {
	if s.Rate.IsNegative() {
		return NewTransformError(s.Name(), "validate", "fee rate cannot be negative", nil)
	}
	return nil
}

func (s *SetAdminFee) Apply(base domain.PensionInput) (domain.PensionInput, error) {
	base.AdminFeeRate = s.Rate
	return base, nil
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.String()
	}
	return "+" + d.String()
}
