// Package zip implements the numeric core of ZIP load-model fitting: the
// conversions between engineering ZIP notation and polynomial coefficients,
// model evaluation, and the objective and constraint functions driving the
// constrained solver. Everything here is a pure function over value types.
package zip

import (
	"fmt"
	"math"

	"github.com/kilianp07/zipfit/core/model"
)

// PolyFromZIP converts ZIP notation to polynomial coefficients. Each term's
// fraction is decomposed into an active sub-coefficient fraction*pf and a
// reactive sub-coefficient fraction*sin(acos(pf)).
func PolyFromZIP(z model.ZIPParams) (model.Coefficients, error) {
	if err := z.Validate(); err != nil {
		return model.Coefficients{}, err
	}
	a1, b1 := termCoefficients(z.ImpedanceFraction, z.ImpedancePF)
	a2, b2 := termCoefficients(z.CurrentFraction, z.CurrentPF)
	a3, b3 := termCoefficients(z.PowerFraction, z.PowerPF)
	return model.Coefficients{A1: a1, A2: a2, A3: a3, B1: b1, B2: b2, B3: b3}, nil
}

func termCoefficients(fraction, pf float64) (a, b float64) {
	return fraction * pf, fraction * math.Sin(math.Acos(pf))
}

// ZIPFromPoly recovers ZIP notation from polynomial coefficients, inverting
// PolyFromZIP: each fraction is the 2-vector length of its (a, b) pair
// carrying the sign of b, and the power factor is a divided by the fraction.
// The sign convention follows from the forward map, where the reactive
// sub-coefficient b = fraction*sin(acos(pf)) always takes the fraction's sign.
// When b is exactly zero (|pf| = 1) the positive fraction is chosen; a term
// with zero net fraction gets pf = 1 by convention.
func ZIPFromPoly(c model.Coefficients) model.ZIPParams {
	zf, zpf := termFromCoefficients(c.A1, c.B1)
	cf, cpf := termFromCoefficients(c.A2, c.B2)
	pf, ppf := termFromCoefficients(c.A3, c.B3)
	return model.ZIPParams{
		ImpedanceFraction: zf,
		CurrentFraction:   cf,
		PowerFraction:     pf,
		ImpedancePF:       zpf,
		CurrentPF:         cpf,
		PowerPF:           ppf,
	}
}

// Reactive coefficients within noise of zero keep the positive fraction, so
// solver iterates hovering at b = 0 do not flip the fraction sign.
const signEps = 1e-9

func termFromCoefficients(a, b float64) (fraction, pf float64) {
	fraction = math.Hypot(a, b)
	if b < -signEps {
		fraction = -fraction
	}
	if fraction == 0 {
		// Degenerate zero term; unity power factor by convention.
		return 0, 1
	}
	return fraction, a / fraction
}

// ToPhysical scales per-unit power back to physical units using the base
// apparent power sn.
func ToPhysical(pbar, qbar, sn float64) (p, q float64, err error) {
	if sn <= 0 {
		return 0, 0, fmt.Errorf("base apparent power must be positive, got %v", sn)
	}
	return pbar * sn, qbar * sn, nil
}

// ToPerUnit expresses physical power on the base apparent power sn.
func ToPerUnit(p, q, sn float64) (pbar, qbar float64, err error) {
	if sn <= 0 {
		return 0, 0, fmt.Errorf("base apparent power must be positive, got %v", sn)
	}
	return p / sn, q / sn, nil
}
