package zip

import (
	"math"
	"testing"

	"github.com/kilianp07/zipfit/core/model"
)

func TestObjectiveValue(t *testing.T) {
	ns := NormalizedSamples{
		VBar: []float64{1, 1, 0},
		PBar: []float64{3, 3, 3},
		QBar: []float64{3, 3, 3},
	}
	c := model.Coefficients{A1: 1, A2: 1, A3: 1, B1: 1, B2: 1, B3: 1}
	got := Objective(c, ns)
	want := 8.0 / 3.0
	if math.Abs(got-want) > tol {
		t.Fatalf("objective = %v, want %v", got, want)
	}
}

func TestObjectiveZeroAtExactFit(t *testing.T) {
	c := model.Coefficients{A1: 0.2, A2: 0.3, A3: 0.5, B1: 0.1, B2: -0.1, B3: 0.05}
	vbars := []float64{0.9, 0.95, 1.0, 1.05, 1.1}
	ns := NormalizedSamples{VBar: vbars}
	for _, v := range vbars {
		p, q := Predict(c, v)
		ns.PBar = append(ns.PBar, p)
		ns.QBar = append(ns.QBar, q)
	}
	if got := Objective(c, ns); got > tol {
		t.Fatalf("objective at exact fit = %v, want 0", got)
	}
}

func TestObjectiveGradMatchesFiniteDifference(t *testing.T) {
	ns := NormalizedSamples{
		VBar: []float64{0.9, 1.0, 1.1},
		PBar: []float64{0.8, 1.0, 1.2},
		QBar: []float64{0.3, 0.4, 0.5},
	}
	x := []float64{0.4, 0.1, 0.5, 0.2, 0.1, 0.1}
	c, err := model.CoefficientsFromSlice(x)
	if err != nil {
		t.Fatal(err)
	}
	grad := make([]float64, 6)
	ObjectiveGrad(grad, c, ns)

	const h = 1e-6
	for i := range x {
		xp := append([]float64(nil), x...)
		xm := append([]float64(nil), x...)
		xp[i] += h
		xm[i] -= h
		cp, _ := model.CoefficientsFromSlice(xp)
		cm, _ := model.CoefficientsFromSlice(xm)
		fd := (Objective(cp, ns) - Objective(cm, ns)) / (2 * h)
		if math.Abs(grad[i]-fd) > 1e-5 {
			t.Errorf("grad[%d] = %v, finite difference %v", i, grad[i], fd)
		}
	}
}

func TestConstraintZeroForReferenceModels(t *testing.T) {
	// The published fractions are rounded to four decimals, so some models
	// sum to 1 +/- 1e-4 rather than exactly 1.
	for name, z := range ReferenceModels {
		poly, err := PolyFromZIP(z)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if r := Constraint(poly); math.Abs(r) > 1e-3 {
			t.Errorf("%s: constraint residual = %v, want 0", name, r)
		}
	}
	if r := Constraint(DefaultSeed()); math.Abs(r) > tol {
		t.Errorf("balanced seed: constraint residual = %v, want 0", r)
	}
}

func TestConstraintGradMatchesFiniteDifference(t *testing.T) {
	x := []float64{0.4, 0.1, 0.5, 0.2, 0.1, 0.1}
	c, _ := model.CoefficientsFromSlice(x)
	grad := make([]float64, 6)
	ConstraintGrad(grad, c)

	const h = 1e-7
	for i := range x {
		xp := append([]float64(nil), x...)
		xm := append([]float64(nil), x...)
		xp[i] += h
		xm[i] -= h
		cp, _ := model.CoefficientsFromSlice(xp)
		cm, _ := model.CoefficientsFromSlice(xm)
		fd := (Constraint(cp) - Constraint(cm)) / (2 * h)
		if math.Abs(grad[i]-fd) > 1e-4 {
			t.Errorf("grad[%d] = %v, finite difference %v", i, grad[i], fd)
		}
	}
}

func TestNormalize(t *testing.T) {
	set := model.SampleSet{
		{V: 120, P: 500, Q: 250},
		{V: 132, P: 600, Q: 300},
	}
	ns, err := Normalize(set, 120, 1000)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if math.Abs(ns.VBar[1]-1.1) > tol || math.Abs(ns.PBar[0]-0.5) > tol || math.Abs(ns.QBar[1]-0.3) > tol {
		t.Fatalf("unexpected normalized samples: %+v", ns)
	}

	if _, err := Normalize(model.SampleSet{}, 120, 1000); err == nil {
		t.Fatal("expected error for empty sample set")
	}
	if _, err := Normalize(set, 0, 1000); err == nil {
		t.Fatal("expected error for zero nominal voltage")
	}
	if _, err := Normalize(set, 120, 0); err == nil {
		t.Fatal("expected error for zero nominal power")
	}
}
