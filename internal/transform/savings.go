package transform

import (
	"fmt"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
)

// ScaleSavings multiplies current savings by Factor (1.1 adds 10%).
type ScaleSavings struct {
	Factor decimal.Decimal
}

func (s *ScaleSavings) Name() string {
	return "scale_savings"
}

func (s *ScaleSavings) Description() string {
	pct := s.Factor.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("Change current savings by %s%%", signed(pct))
}

func (s *ScaleSavings) Validate(base domain.PensionInput) error {
	if s.Factor.IsNegative() {
		return NewTransformError(s.Name(), "validate", "factor cannot be negative", nil)
	}
	return nil
}

func (s *ScaleSavings) Apply(base domain.PensionInput) (domain.PensionInput, error) {
	base.CurrentSavings = base.CurrentSavings.Mul(s.Factor)
	return base, nil
}

// SetSavings replaces current savings.
type SetSavings struct {
	Amount decimal.Decimal
}

func (s *SetSavings) Name() string {
	return "set_savings"
}

func (s *SetSavings) Description() string {
	return fmt.Sprintf("Set current savings to %s", s.Amount.StringFixed(2))
}

func (s *SetSavings) Validate(base domain.PensionInput) error {
	if s.Amount.IsNegative() {
		return NewTransformError(s.Name(), "validate", "savings cannot be negative", nil)
	}
	return nil
}

func (s *SetSavings) Apply(base domain.PensionInput) (domain.PensionInput, error) {
	base.CurrentSavings = s.Amount
	return base, nil
}

// AddWeeks adds contribution weeks, e.g. to check eligibility after more work.
type AddWeeks struct {
	Weeks int
}

func (a *AddWeeks) Name() string {
	return "add_weeks"
}

func (a *AddWeeks) Description() string {
	return fmt.Sprintf("Add %d contribution weeks", a.Weeks)
}

func (a *AddWeeks) Validate(base domain.PensionInput) error {
	if base.WeeksContributed+a.Weeks < 0 {
		return NewTransformError(a.Name(), "validate",
			fmt.Sprintf("weeks contributed %d would become negative", base.WeeksContributed), nil)
	}
	return nil
}

func (a *AddWeeks) Apply(base domain.PensionInput) (domain.PensionInput, error) {
	base.WeeksContributed += a.Weeks
	return base, nil
}
