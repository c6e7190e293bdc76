package calculation

import (
	"fmt"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
)

// divisionPrecision is the number of decimal places kept when dividing by a
// compound growth factor
const divisionPrecision = 20

var (
	decimalOne    = decimal.NewFromInt(1)
	monthsPerYear = decimal.NewFromInt(12)
)

// Calculator projects pension payouts. It holds no per-call state and is
// safe for concurrent use once configured.
type Calculator struct {
	Rules domain.Rules
	// LenientSex downgrades InvalidSex to an advisory and applies the male
	// retirement age instead of failing.
	LenientSex bool
	Logger     Logger
	Debug      bool
}

// NewCalculator creates a calculator using the statutory rules
func NewCalculator() *Calculator {
	return NewCalculatorWithRules(domain.DefaultRules())
}

// NewCalculatorWithRules creates a calculator with custom rules
func NewCalculatorWithRules(rules domain.Rules) *Calculator {
	return &Calculator{
		Rules:  rules,
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger; nil installs a NopLogger
func (c *Calculator) SetLogger(l Logger) {
	if l == nil {
		c.Logger = NopLogger{}
		return
	}
	c.Logger = l
}

var defaultCalculator = NewCalculator()

// SetDefaultLogger sets the logger used by the package-level ComputePension.
// Call it during initialization; nil restores the no-op logger.
func SetDefaultLogger(l Logger) {
	defaultCalculator.SetLogger(l)
}

// ComputePension runs a projection with the statutory rules. Advisories go to
// the logger installed by SetDefaultLogger, which discards them by default.
func ComputePension(age int, sex domain.Sex, currentSalary decimal.Decimal, weeksContributed int,
	currentSavings, fundReturnRate, adminFeeRate decimal.Decimal) (*domain.PensionProjection, error) {
	return defaultCalculator.ComputePension(age, sex, currentSalary, weeksContributed, currentSavings, fundReturnRate, adminFeeRate)
}

// Calculate runs a projection for a bundled input
func (c *Calculator) Calculate(in domain.PensionInput) (*domain.PensionProjection, error) {
	return c.ComputePension(in.Age, in.Sex, in.CurrentSalary, in.WeeksContributed, in.CurrentSavings, in.FundReturnRate, in.AdminFeeRate)
}

// Report runs a projection and pairs it with its input and rules
func (c *Calculator) Report(in domain.PensionInput) (*domain.PensionReport, error) {
	projection, err := c.Calculate(in)
	if err != nil {
		return nil, err
	}
	return &domain.PensionReport{Input: in, Projection: *projection, Rules: c.Rules}, nil
}

// ComputePension validates the inputs and projects savings, annual pension and
// monthly pension. currentSalary is part of the contract but does not affect
// the result.
func (c *Calculator) ComputePension(age int, sex domain.Sex, currentSalary decimal.Decimal, weeksContributed int,
	currentSavings, fundReturnRate, adminFeeRate decimal.Decimal) (*domain.PensionProjection, error) {
	_ = currentSalary

	if err := c.validate(age, weeksContributed, currentSavings, fundReturnRate, adminFeeRate); err != nil {
		return nil, err
	}

	advisories, err := c.checkEligibility(age, sex)
	if err != nil {
		return nil, err
	}

	retirementAge := c.Rules.RetirementAge(sex)
	yearsRemaining := retirementAge - age

	rateFactor := decimalOne.Add(fundReturnRate.Div(c.Rules.MaxRate))
	projectedSavings := compound(currentSavings, rateFactor, yearsRemaining)
	annualPension := projectedSavings.Mul(fundReturnRate.Sub(adminFeeRate)).Div(c.Rules.MaxRate)
	monthlyPension := annualPension.Div(monthsPerYear)

	if c.Debug {
		c.Logger.Debugf("retirement age %d, years remaining %d, rate factor %s", retirementAge, yearsRemaining, rateFactor.String())
		c.Logger.Debugf("projected savings %s, annual pension %s, monthly pension %s",
			projectedSavings.StringFixed(2), annualPension.StringFixed(2), monthlyPension.StringFixed(2))
	}

	return &domain.PensionProjection{
		ProjectedSavings: projectedSavings,
		AnnualPension:    annualPension,
		MonthlyPension:   monthlyPension,
		RetirementAge:    retirementAge,
		YearsRemaining:   yearsRemaining,
		Advisories:       advisories,
	}, nil
}

// validate applies the fatal rules in order; the first violation wins
func (c *Calculator) validate(age, weeks int, savings, returnRate, adminFee decimal.Decimal) error {
	if age < 0 {
		return &ValidationError{Kind: NegativeAge, Field: "age", Value: fmt.Sprint(age)}
	}
	if weeks < 0 {
		return &ValidationError{Kind: NegativeWeeks, Field: "weeks_contributed", Value: fmt.Sprint(weeks)}
	}
	if weeks < c.Rules.MinimumWeeks {
		return &ValidationError{Kind: InsufficientWeeks, Field: "weeks_contributed", Value: fmt.Sprint(weeks), Limit: fmt.Sprint(c.Rules.MinimumWeeks)}
	}
	if savings.IsNegative() {
		return &ValidationError{Kind: NegativeSavings, Field: "current_savings", Value: savings.String()}
	}
	if returnRate.IsNegative() {
		return &ValidationError{Kind: NegativeReturnRate, Field: "fund_return_rate", Value: returnRate.String()}
	}
	if returnRate.GreaterThan(c.Rules.MaxRate) {
		return &ValidationError{Kind: ReturnRateExceedsMaximum, Field: "fund_return_rate", Value: returnRate.String(), Limit: c.Rules.MaxRate.String()}
	}
	if adminFee.IsNegative() {
		return &ValidationError{Kind: NegativeAdminFee, Field: "admin_fee_rate", Value: adminFee.String()}
	}
	return nil
}

// checkEligibility evaluates the post-validation checks. Only the first
// matching condition is reported.
func (c *Calculator) checkEligibility(age int, sex domain.Sex) ([]domain.Advisory, error) {
	var advisory *domain.Advisory

	switch {
	case sex == domain.SexFemale && age >= c.Rules.FemaleRetirementAge:
		advisory = &domain.Advisory{Kind: AgeBelowRetirementEligibility.String(), Message: "female " + ErrPastRetirementAge.Error()}
	case sex == domain.SexMale && age > c.Rules.MaleRetirementAge:
		advisory = &domain.Advisory{Kind: AgeBelowRetirementEligibility.String(), Message: "male " + ErrPastRetirementAge.Error()}
	case !sex.IsValid():
		err := &ValidationError{Kind: InvalidSex, Field: "sex", Value: fmt.Sprintf("%q", string(sex))}
		if !c.LenientSex {
			return nil, err
		}
		advisory = &domain.Advisory{Kind: InvalidSex.String(), Message: err.Error() + "; using male retirement age"}
	}

	if advisory == nil {
		return nil, nil
	}
	c.Logger.Warnf("Advisory: %s", advisory.Message)
	return []domain.Advisory{*advisory}, nil
}

// compound grows amount by factor^years. A negative exponent discounts instead.
func compound(amount, factor decimal.Decimal, years int) decimal.Decimal {
	switch {
	case years == 0:
		return amount
	case years > 0:
		return amount.Mul(factor.Pow(decimal.NewFromInt(int64(years))))
	default:
		return amount.DivRound(factor.Pow(decimal.NewFromInt(int64(-years))), divisionPrecision)
	}
}
