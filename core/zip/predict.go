package zip

import "github.com/kilianp07/zipfit/core/model"

// Predict evaluates the model polynomials at one per-unit voltage.
func Predict(c model.Coefficients, vbar float64) (pbar, qbar float64) {
	pbar = c.A1*vbar*vbar + c.A2*vbar + c.A3
	qbar = c.B1*vbar*vbar + c.B2*vbar + c.B3
	return pbar, qbar
}

// PredictAll evaluates the model over a voltage sweep, returning slices
// aligned with vbars.
func PredictAll(c model.Coefficients, vbars []float64) (pbars, qbars []float64) {
	pbars = make([]float64, len(vbars))
	qbars = make([]float64, len(vbars))
	for i, v := range vbars {
		pbars[i], qbars[i] = Predict(c, v)
	}
	return pbars, qbars
}
