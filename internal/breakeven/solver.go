package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/pensioncalc/internal/calculation"
	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/rgehrsitz/pensioncalc/internal/transform"
	"github.com/shopspring/decimal"
)

var (
	two              = decimal.NewFromInt(2)
	minIntervalWidth = decimal.New(1, -12)
	maxDoublings     = 64
)

// Solver finds the input value that reaches a target monthly pension
type Solver struct {
	Calculator *calculation.Calculator
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calc *calculation.Calculator, options SolverOptions) *Solver {
	if calc == nil {
		calc = calculation.NewCalculator()
	}
	return &Solver{
		Calculator: calc,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calc *calculation.Calculator) *Solver {
	return NewSolver(calc, DefaultSolverOptions())
}

// Solve bisects the target input between its bounds until the monthly
// pension is within tolerance of the requested amount.
func (s *Solver) Solve(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	// Each evaluation would otherwise repeat the same advisories.
	calc := *s.Calculator
	calc.Logger = calculation.NopLogger{}
	calc.Debug = false

	base, err := calc.Calculate(req.Base)
	if err != nil {
		return nil, &BreakEvenError{Operation: "base_case", Message: "failed to calculate base case", Cause: err}
	}

	eval := func(value decimal.Decimal) (domain.PensionInput, *domain.PensionProjection, decimal.Decimal, error) {
		in, err := transform.ApplyTransforms(req.Base, []transform.InputTransform{setterFor(req.Target, value)})
		if err != nil {
			return in, nil, decimal.Zero, err
		}
		p, err := calc.Calculate(in)
		if err != nil {
			return in, nil, decimal.Zero, err
		}
		return in, p, p.MonthlyPension.Sub(req.TargetMonthly), nil
	}

	lo, hi, err := s.bounds(ctx, req, calc.Rules, eval)
	if err != nil {
		return nil, err
	}

	result := &SolveResult{Request: req, BaseMonthly: base.MonthlyPension}
	finish := func(value decimal.Decimal, in domain.PensionInput, p *domain.PensionProjection, info string) *SolveResult {
		result.Success = true
		result.Value = value
		result.Input = in
		result.Projection = p
		result.ValueDiffFromBase = value.Sub(currentValue(req.Base, req.Target))
		result.ConvergenceInfo = info
		return result
	}

	loIn, loP, fLo, err := eval(lo)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "failed to evaluate lower bound", Cause: err}
	}
	hiIn, hiP, fHi, err := eval(hi)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "failed to evaluate upper bound", Cause: err}
	}
	if fLo.Abs().LessThanOrEqual(req.Tolerance) {
		return finish(lo, loIn, loP, "Lower bound meets target"), nil
	}
	if fHi.Abs().LessThanOrEqual(req.Tolerance) {
		return finish(hi, hiIn, hiP, "Upper bound meets target"), nil
	}
	if fLo.Sign() == fHi.Sign() {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message: fmt.Sprintf("target monthly pension %s is not reachable with %s between %s and %s",
				req.TargetMonthly.StringFixed(2), req.Target, lo.String(), hi.String()),
		}
	}

	var midIn domain.PensionInput
	var midP *domain.PensionProjection
	mid := lo
	for result.Iterations < req.MaxIterations {
		result.Iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid = lo.Add(hi).Div(two)
		var fMid decimal.Decimal
		midIn, midP, fMid, err = eval(mid)
		if err != nil {
			return nil, &BreakEvenError{Operation: "solve", Message: "failed to calculate case", Cause: err}
		}

		if fMid.Abs().LessThanOrEqual(req.Tolerance) {
			return finish(mid, midIn, midP,
				fmt.Sprintf("Converged to target within %s", req.Tolerance.String())), nil
		}

		if fMid.Sign() == fLo.Sign() {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}

		if hi.Sub(lo).LessThan(minIntervalWidth) {
			return finish(mid, midIn, midP, "Bisection interval converged"), nil
		}
	}

	finish(mid, midIn, midP, fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations))
	result.Success = false
	return result, nil
}

// bounds returns the search interval for the request's target
func (s *Solver) bounds(ctx context.Context, req SolveRequest, rules domain.Rules,
	eval func(decimal.Decimal) (domain.PensionInput, *domain.PensionProjection, decimal.Decimal, error)) (decimal.Decimal, decimal.Decimal, error) {

	lo := decimal.Zero
	var hi decimal.Decimal
	switch req.Target {
	case SolveReturnRate:
		hi = rules.MaxRate
	case SolveAdminFee:
		hi = req.Base.FundReturnRate
	case SolveSavings:
		if req.Constraints.Max != nil {
			hi = *req.Constraints.Max
			break
		}
		// Grow the upper bound until it overshoots the target.
		hi = decimal.Max(req.Base.CurrentSavings, decimal.NewFromInt(1))
		for i := 0; ; i++ {
			if err := ctx.Err(); err != nil {
				return lo, hi, err
			}
			_, _, f, err := eval(hi)
			if err != nil {
				return lo, hi, &BreakEvenError{Operation: "bounds", Message: "failed to evaluate savings bound", Cause: err}
			}
			if !f.IsNegative() {
				break
			}
			if i == maxDoublings {
				return lo, hi, &BreakEvenError{
					Operation: "bounds",
					Message:   "target monthly pension is not reachable by increasing savings",
				}
			}
			hi = hi.Mul(two)
		}
	}

	if req.Constraints.Min != nil {
		lo = *req.Constraints.Min
	}
	if req.Constraints.Max != nil {
		hi = *req.Constraints.Max
	}
	if lo.GreaterThan(hi) {
		return lo, hi, &BreakEvenError{
			Operation: "bounds",
			Message:   fmt.Sprintf("empty search interval [%s, %s] for %s", lo.String(), hi.String(), req.Target),
		}
	}
	return lo, hi, nil
}

func setterFor(target SolveTarget, value decimal.Decimal) transform.InputTransform {
	switch target {
	case SolveReturnRate:
		return &transform.SetReturnRate{Rate: value}
	case SolveAdminFee:
		return &transform.SetAdminFee{Rate: value}
	default:
		return &transform.SetSavings{Amount: value}
	}
}

func currentValue(in domain.PensionInput, target SolveTarget) decimal.Decimal {
	switch target {
	case SolveReturnRate:
		return in.FundReturnRate
	case SolveAdminFee:
		return in.AdminFeeRate
	default:
		return in.CurrentSavings
	}
}
