package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
)

// SolveTarget names the input the solver varies
type SolveTarget string

const (
	SolveReturnRate SolveTarget = "fund_return_rate"
	SolveSavings    SolveTarget = "current_savings"
	SolveAdminFee   SolveTarget = "admin_fee_rate"
)

// AllTargets lists every supported solve target
var AllTargets = []SolveTarget{SolveReturnRate, SolveSavings, SolveAdminFee}

// ParseSolveTarget accepts the field name or a short alias
func ParseSolveTarget(s string) (SolveTarget, error) {
	switch s {
	case string(SolveReturnRate), "return-rate", "rate":
		return SolveReturnRate, nil
	case string(SolveSavings), "savings":
		return SolveSavings, nil
	case string(SolveAdminFee), "admin-fee", "fee":
		return SolveAdminFee, nil
	}
	return "", fmt.Errorf("unsupported solve target: %s", s)
}

// Constraints bound the searched value. Nil bounds use the target's natural range.
type Constraints struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

// SolveRequest asks for the value of Target that yields TargetMonthly
type SolveRequest struct {
	Base          domain.PensionInput `json:"base"`
	Target        SolveTarget         `json:"target"`
	TargetMonthly decimal.Decimal     `json:"target_monthly"`
	Constraints   Constraints         `json:"constraints"`
	MaxIterations int                 `json:"-"`
	Tolerance     decimal.Decimal     `json:"-"` // accepted distance from TargetMonthly
}

// SolveResult contains the outcome of a solve run
type SolveResult struct {
	Request         SolveRequest `json:"request"`
	Success         bool         `json:"success"`
	Iterations      int          `json:"iterations"`
	ConvergenceInfo string       `json:"convergence_info"`

	Value      decimal.Decimal           `json:"value"`
	Input      domain.PensionInput       `json:"input"`
	Projection *domain.PensionProjection `json:"projection"`

	BaseMonthly       decimal.Decimal `json:"base_monthly"`
	ValueDiffFromBase decimal.Decimal `json:"value_diff_from_base"`
}

// MultiTargetResult holds one solve per target
type MultiTargetResult struct {
	Results         []SolveResult          `json:"results"`
	Failures        map[SolveTarget]string `json:"failures,omitempty"`
	Recommendations []string               `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Convergence tolerance on the monthly pension
	MaxIterations int             // Maximum bisection steps
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromFloat(0.01),
		MaxIterations: 200,
	}
}

// Validate checks that the request is internally consistent
func (r *SolveRequest) Validate() error {
	if _, err := ParseSolveTarget(string(r.Target)); err != nil {
		return &BreakEvenError{Operation: "validate_request", Message: err.Error()}
	}
	if !r.TargetMonthly.IsPositive() {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "target monthly pension must be positive",
		}
	}
	c := r.Constraints
	if c.Min != nil && c.Min.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "min cannot be negative",
		}
	}
	if c.Min != nil && c.Max != nil && c.Min.GreaterThan(*c.Max) {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "min cannot be greater than max",
		}
	}
	return nil
}

// BreakEvenError represents errors from the solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
