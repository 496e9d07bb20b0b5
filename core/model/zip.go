package model

import (
	"fmt"
	"math"
)

// Coefficients is the polynomial form of a ZIP load model. Per-unit active and
// reactive power are evaluated as
//
//	P(v) = A1*v^2 + A2*v + A3
//	Q(v) = B1*v^2 + B2*v + B3
//
// where v is the per-unit voltage. Indices 1, 2 and 3 correspond to the
// constant-impedance, constant-current and constant-power terms.
type Coefficients struct {
	A1, A2, A3 float64
	B1, B2, B3 float64
}

// Slice returns the coefficients as the ordered vector used by the solver.
func (c Coefficients) Slice() []float64 {
	return []float64{c.A1, c.A2, c.A3, c.B1, c.B2, c.B3}
}

// CoefficientsFromSlice builds Coefficients from a solver vector. The slice
// must have exactly six elements.
func CoefficientsFromSlice(x []float64) (Coefficients, error) {
	if len(x) != 6 {
		return Coefficients{}, fmt.Errorf("expected 6 coefficients, got %d", len(x))
	}
	return Coefficients{A1: x[0], A2: x[1], A3: x[2], B1: x[3], B2: x[4], B3: x[5]}, nil
}

// ZIPParams is the engineering notation of a ZIP model: one apparent-power
// fraction and one power factor per term. Fractions are signed, a negative
// fraction encodes reversed flow for that term. Power factor magnitudes are
// cos(theta); the sign encodes lagging versus leading behaviour. For a
// physically valid model the three fractions sum to 1.
//
// At |pf| = 1 the reactive sub-coefficient vanishes, so (fraction, pf) and
// (-fraction, -pf) describe the same polynomial. The notation is redundant at
// that point and conversions may return either sign.
type ZIPParams struct {
	ImpedanceFraction float64 `json:"impedance_fraction"`
	CurrentFraction   float64 `json:"current_fraction"`
	PowerFraction     float64 `json:"power_fraction"`
	ImpedancePF       float64 `json:"impedance_pf"`
	CurrentPF         float64 `json:"current_pf"`
	PowerPF           float64 `json:"power_pf"`
}

// Validate checks that all power factors are within [-1, 1].
func (z ZIPParams) Validate() error {
	for _, pf := range []float64{z.ImpedancePF, z.CurrentPF, z.PowerPF} {
		if math.Abs(pf) > 1 || math.IsNaN(pf) {
			return fmt.Errorf("power factor %v outside [-1, 1]", pf)
		}
	}
	return nil
}

// FractionSum returns the sum of the three fractions. It equals 1 for any
// model satisfying the closure invariant.
func (z ZIPParams) FractionSum() float64 {
	return z.ImpedanceFraction + z.CurrentFraction + z.PowerFraction
}

// Map returns the parameters keyed the way downstream consumers expect them.
func (z ZIPParams) Map() map[string]float64 {
	return map[string]float64{
		"impedance_fraction": z.ImpedanceFraction,
		"current_fraction":   z.CurrentFraction,
		"power_fraction":     z.PowerFraction,
		"impedance_pf":       z.ImpedancePF,
		"current_pf":         z.CurrentPF,
		"power_pf":           z.PowerPF,
	}
}

// FitResult is the outcome of one fit call. When the solver fails to converge
// Success is false and the remaining fields hold the last iterate, so callers
// can decide whether to retry with a different seed or solver.
type FitResult struct {
	Success      bool         `json:"success"`
	Coefficients Coefficients `json:"coefficients"`
	ZIP          ZIPParams    `json:"zip"`
	// PredictedP and PredictedQ are in physical units, aligned with the
	// input sample ordering.
	PredictedP []float64 `json:"predicted_p"`
	PredictedQ []float64 `json:"predicted_q"`
	Objective  float64   `json:"objective"`
	Residual   float64   `json:"constraint_residual"`
	Solver     string    `json:"solver"`
	Status     string    `json:"status"`
}
