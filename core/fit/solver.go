package fit

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/kilianp07/zipfit/core/model"
	"github.com/kilianp07/zipfit/core/zip"
)

// Supported solver names.
const (
	// SolverBFGS is the gradient-based default.
	SolverBFGS = "bfgs"
	// SolverNelderMead is a derivative-free alternative for noisy data.
	SolverNelderMead = "neldermead"
)

var methods = map[string]func() optimize.Method{
	SolverBFGS:       func() optimize.Method { return &optimize.BFGS{} },
	SolverNelderMead: func() optimize.Method { return &optimize.NelderMead{} },
}

// Solvers lists the supported solver names.
func Solvers() []string {
	return []string{SolverBFGS, SolverNelderMead}
}

// maxStallRestarts bounds how often a stalled line search is restarted from
// its iterate before falling back to the derivative-free polish.
const maxStallRestarts = 8

// solve minimizes the fit objective subject to the closure constraint using a
// quadratic-penalty outer loop around gonum's unconstrained minimizers. The
// equality constraint c(x) = 0 is folded into the objective as mu*c(x)^2 with
// mu increased each round until the residual is within tolerance.
//
// The last iterate is always returned, alongside the solver status and a nil
// error only when the inner minimizer terminated by its own convergence
// criterion and the iterate is feasible.
func (f *Fitter) solve(ctx context.Context, ns zip.NormalizedSamples, seed []float64, method func() optimize.Method) ([]float64, string, error) {
	x := append([]float64(nil), seed...)
	mu := f.cfg.PenaltyStart
	status := ""
	var solveErr error

	for round := 0; round < f.cfg.PenaltyRounds; round++ {
		if err := ctx.Err(); err != nil {
			return x, "canceled", err
		}

		problem := optimize.Problem{
			Func: func(v []float64) float64 {
				c, _ := model.CoefficientsFromSlice(v)
				r := zip.Constraint(c)
				return zip.Objective(c, ns) + mu*r*r
			},
			Grad: func(grad, v []float64) {
				c, _ := model.CoefficientsFromSlice(v)
				zip.ObjectiveGrad(grad, c, ns)
				r := zip.Constraint(c)
				cg := make([]float64, len(grad))
				zip.ConstraintGrad(cg, c)
				for i := range grad {
					grad[i] += 2 * mu * r * cg[i]
				}
			},
		}

		var err error
		x, status, err = f.minimize(problem, x, method)
		solveErr = err
		if err != nil {
			break
		}

		coeffs, _ := model.CoefficientsFromSlice(x)
		if math.Abs(zip.Constraint(coeffs)) <= f.cfg.ConstraintTol {
			return x, status, nil
		}
		mu *= f.cfg.PenaltyGrowth
	}

	if solveErr != nil {
		return x, status, solveErr
	}
	return x, status, errInfeasible
}

// minimize runs one inner unconstrained minimization. The penalized
// constraint has a gradient kink where a term's reactive coefficient crosses
// zero, which can stall the line search mid-descent; a stalled run is
// restarted from its iterate with fresh method state, and if that keeps
// stalling the iterate is polished derivative-free. A nil error is returned
// only when a run terminated by its convergence criterion, never for a stall.
func (f *Fitter) minimize(problem optimize.Problem, x []float64, method func() optimize.Method) ([]float64, string, error) {
	settings := &optimize.Settings{
		MajorIterations:   f.cfg.MaxIterations,
		GradientThreshold: 1e-8,
	}

	var status string
	var err error
	for attempt := 0; attempt < maxStallRestarts; attempt++ {
		var res *optimize.Result
		res, err = optimize.Minimize(problem, x, settings, method())
		if res != nil {
			x = res.X
			status = res.Status.String()
		}
		if err == nil || !errors.Is(err, optimize.ErrLinesearcherFailure) {
			return x, status, err
		}
	}

	res, err := optimize.Minimize(problem, x, settings, &optimize.NelderMead{})
	if res != nil {
		x = res.X
		status = res.Status.String()
	}
	return x, status, err
}
