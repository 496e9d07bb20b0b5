package zip

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/zipfit/core/model"
)

// NormalizedSamples holds a sample batch expressed in per-unit quantities:
// voltage over the nominal voltage, power over the base apparent power.
type NormalizedSamples struct {
	VBar []float64
	PBar []float64
	QBar []float64
}

// Normalize converts a physical sample set to per-unit form.
func Normalize(set model.SampleSet, vn, sn float64) (NormalizedSamples, error) {
	if err := set.Validate(); err != nil {
		return NormalizedSamples{}, err
	}
	if vn <= 0 {
		return NormalizedSamples{}, fmt.Errorf("nominal voltage must be positive, got %v", vn)
	}
	if sn <= 0 {
		return NormalizedSamples{}, fmt.Errorf("base apparent power must be positive, got %v", sn)
	}
	ns := NormalizedSamples{
		VBar: make([]float64, len(set)),
		PBar: make([]float64, len(set)),
		QBar: make([]float64, len(set)),
	}
	for i, s := range set {
		ns.VBar[i] = s.V
		ns.PBar[i] = s.P
		ns.QBar[i] = s.Q
	}
	floats.Scale(1/vn, ns.VBar)
	floats.Scale(1/sn, ns.PBar)
	floats.Scale(1/sn, ns.QBar)
	return ns, nil
}

// Objective computes the fit error for a candidate coefficient vector: the
// sum of squared residuals over both power channels divided by the sample
// count. Zero exactly when predictions match every sample.
func Objective(c model.Coefficients, ns NormalizedSamples) float64 {
	var sum float64
	for i, v := range ns.VBar {
		p, q := Predict(c, v)
		dp := p - ns.PBar[i]
		dq := q - ns.QBar[i]
		sum += dp*dp + dq*dq
	}
	return sum / float64(len(ns.VBar))
}

// ObjectiveGrad accumulates the gradient of Objective with respect to the six
// coefficients into grad, which must have length 6.
func ObjectiveGrad(grad []float64, c model.Coefficients, ns NormalizedSamples) {
	for i := range grad {
		grad[i] = 0
	}
	n := float64(len(ns.VBar))
	for i, v := range ns.VBar {
		p, q := Predict(c, v)
		dp := 2 * (p - ns.PBar[i]) / n
		dq := 2 * (q - ns.QBar[i]) / n
		grad[0] += dp * v * v
		grad[1] += dp * v
		grad[2] += dp
		grad[3] += dq * v * v
		grad[4] += dq * v
		grad[5] += dq
	}
}

// Constraint returns the closure residual for a candidate coefficient vector:
// the sum of the recovered fractions minus one. A feasible model drives this
// to zero.
func Constraint(c model.Coefficients) float64 {
	z := ZIPFromPoly(c)
	return z.FractionSum() - 1
}

// ConstraintGrad accumulates the gradient of Constraint into grad, which must
// have length 6. The fraction magnitude is not differentiable where a term's
// (a, b) pair vanishes; zero is used there.
func ConstraintGrad(grad []float64, c model.Coefficients) {
	x := c.Slice()
	for i := 0; i < 3; i++ {
		a, b := x[i], x[i+3]
		fraction, _ := termFromCoefficients(a, b)
		if fraction == 0 {
			grad[i], grad[i+3] = 0, 0
			continue
		}
		grad[i] = a / fraction
		grad[i+3] = b / fraction
	}
}
