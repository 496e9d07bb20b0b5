// Package fit turns raw (voltage, power) measurements into a validated ZIP
// load model by driving a constrained nonlinear solver over the objective and
// constraint functions of core/zip.
package fit

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/zipfit/core/logger"
	"github.com/kilianp07/zipfit/core/model"
	"github.com/kilianp07/zipfit/core/zip"
)

// ErrInvalidInput marks rejected inputs: empty sample sets, non-positive base
// quantities or an unknown solver name. It fails fast, before any numeric
// work, and is never coerced into a failed fit result.
var ErrInvalidInput = errors.New("invalid input")

// errInfeasible ends a solve whose iterate never satisfied the closure
// constraint. It is reported through FitResult.Success, not to the caller.
var errInfeasible = errors.New("constraint residual above tolerance")

// Options carries the optional inputs of a single fit call.
type Options struct {
	// NominalPower is the base apparent power S_n. Zero means estimate it
	// from the samples (median apparent power).
	NominalPower float64
	// InitialGuess seeds the solver. Nil means the built-in balanced seed.
	InitialGuess *model.Coefficients
	// Solver overrides the configured solver for this call.
	Solver string
}

// Fitter runs ZIP model fits. It holds only configuration, so a single Fitter
// is safe for concurrent use and fits may be dispatched across a worker pool.
type Fitter struct {
	cfg Config
	log logger.Logger
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

// New creates a Fitter. A nil logger disables logging.
func New(cfg Config, log logger.Logger) (*Fitter, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Fitter{cfg: cfg, log: log}, nil
}

// Fit fits a ZIP model to the sample set using the nominal voltage vn.
//
// The pipeline is Validate, Normalize, Seed, Optimize, Convert, Report. A
// solver that fails to converge is an expected outcome: the returned error is
// nil, Success is false and the result carries the last iterate so the caller
// can retry with another seed or solver. Only invalid inputs return an error.
// Cancelling ctx aborts between solver rounds and is reported as a failure.
func (f *Fitter) Fit(ctx context.Context, set model.SampleSet, vn float64, opts Options) (model.FitResult, error) {
	if err := set.Validate(); err != nil {
		return model.FitResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if vn <= 0 {
		return model.FitResult{}, fmt.Errorf("%w: nominal voltage must be positive, got %v", ErrInvalidInput, vn)
	}
	if opts.NominalPower < 0 {
		return model.FitResult{}, fmt.Errorf("%w: base apparent power must be positive, got %v", ErrInvalidInput, opts.NominalPower)
	}

	sn := opts.NominalPower
	if sn == 0 {
		var err error
		sn, err = zip.NominalPower(set)
		if err != nil {
			return model.FitResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if sn == 0 {
			return model.FitResult{}, fmt.Errorf("%w: samples carry no apparent power", ErrInvalidInput)
		}
	}

	ns, err := zip.Normalize(set, vn, sn)
	if err != nil {
		return model.FitResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	solverName := opts.Solver
	if solverName == "" {
		solverName = f.cfg.Solver
	}
	method, ok := methods[solverName]
	if !ok {
		return model.FitResult{}, fmt.Errorf("%w: unknown solver %q", ErrInvalidInput, solverName)
	}

	seed := zip.DefaultSeed()
	if opts.InitialGuess != nil {
		seed = *opts.InitialGuess
	}

	x, status, solveErr := f.solve(ctx, ns, seed.Slice(), method)
	coeffs, err := model.CoefficientsFromSlice(x)
	if err != nil {
		return model.FitResult{}, err
	}

	residual := zip.Constraint(coeffs)
	pbars, qbars := zip.PredictAll(coeffs, ns.VBar)
	predP := make([]float64, len(pbars))
	predQ := make([]float64, len(qbars))
	for i := range pbars {
		predP[i], predQ[i], _ = zip.ToPhysical(pbars[i], qbars[i], sn)
	}

	result := model.FitResult{
		Success:      solveErr == nil && math.Abs(residual) <= f.cfg.ConstraintTol,
		Coefficients: coeffs,
		ZIP:          zip.ZIPFromPoly(coeffs),
		PredictedP:   predP,
		PredictedQ:   predQ,
		Objective:    zip.Objective(coeffs, ns),
		Residual:     residual,
		Solver:       solverName,
		Status:       status,
	}

	if result.Success {
		f.log.Debugf("fit converged: solver=%s objective=%.3e residual=%.3e", solverName, result.Objective, residual)
	} else {
		f.log.Warnf("fit did not converge: solver=%s status=%s residual=%.3e err=%v", solverName, status, residual, solveErr)
	}
	return result, nil
}
