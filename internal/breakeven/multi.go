package breakeven

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/rgehrsitz/pensioncalc/internal/output"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SolveAll runs the solver for every target against the same goal and
// reports which single change reaches it. Targets are solved concurrently;
// a failing base case cancels the rest.
func (s *Solver) SolveAll(ctx context.Context, base domain.PensionInput, targetMonthly decimal.Decimal) (*MultiTargetResult, error) {
	solved := make([]*SolveResult, len(AllTargets))
	failures := make([]string, len(AllTargets))

	g, gctx := errgroup.WithContext(ctx)
	for i, target := range AllTargets {
		g.Go(func() error {
			res, err := s.Solve(gctx, SolveRequest{
				Base:          base,
				Target:        target,
				TargetMonthly: targetMonthly,
				MaxIterations: s.Options.MaxIterations,
				Tolerance:     s.Options.Tolerance,
			})
			if err != nil {
				var be *BreakEvenError
				if errors.As(err, &be) && be.Operation == "base_case" {
					return err
				}
				if gctx.Err() != nil {
					return err
				}
				failures[i] = err.Error()
				return nil
			}
			if !res.Success {
				failures[i] = res.ConvergenceInfo
				return nil
			}
			solved[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &MultiTargetResult{Failures: map[SolveTarget]string{}}
	for i, target := range AllTargets {
		switch {
		case solved[i] != nil:
			result.Results = append(result.Results, *solved[i])
		case failures[i] != "":
			result.Failures[target] = failures[i]
		}
	}

	if len(result.Results) == 0 {
		return nil, &BreakEvenError{
			Operation: "solve_all",
			Message:   fmt.Sprintf("no single change reaches a monthly pension of %s", output.FormatAmount(targetMonthly)),
		}
	}

	result.Recommendations = recommendations(result)
	return result, nil
}

func recommendations(result *MultiTargetResult) []string {
	var recs []string
	for _, res := range result.Results {
		recs = append(recs, describeChange(res))
	}
	for _, target := range AllTargets {
		if reason, ok := result.Failures[target]; ok {
			recs = append(recs, fmt.Sprintf("%s cannot reach the target: %s", target, reason))
		}
	}
	return recs
}

// describeChange phrases the required change in the target's units
func describeChange(res SolveResult) string {
	diff := res.ValueDiffFromBase
	direction := "raise"
	if diff.IsNegative() {
		direction = "lower"
	}
	switch res.Request.Target {
	case SolveReturnRate:
		return fmt.Sprintf("Fund return rate: %s to %s (%s points)", direction, output.FormatRate(res.Value), signed(diff, 2))
	case SolveAdminFee:
		return fmt.Sprintf("Admin fee rate: %s to %s (%s points)", direction, output.FormatRate(res.Value), signed(diff, 2))
	default:
		return fmt.Sprintf("Current savings: %s to %s (%s)", direction, output.FormatAmount(res.Value), signedAmount(diff))
	}
}

func signed(d decimal.Decimal, places int32) string {
	if d.IsNegative() {
		return d.StringFixed(places)
	}
	return "+" + d.StringFixed(places)
}

func signedAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return output.FormatAmount(d)
	}
	return "+" + output.FormatAmount(d)
}
