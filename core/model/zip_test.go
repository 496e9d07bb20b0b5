package model

import (
	"math"
	"testing"
)

func TestCoefficientsSliceRoundTrip(t *testing.T) {
	c := Coefficients{A1: 1, A2: 2, A3: 3, B1: 4, B2: 5, B3: 6}
	got, err := CoefficientsFromSlice(c.Slice())
	if err != nil {
		t.Fatalf("from slice: %v", err)
	}
	if got != c {
		t.Fatalf("got %+v, want %+v", got, c)
	}
}

func TestCoefficientsFromSliceLength(t *testing.T) {
	if _, err := CoefficientsFromSlice([]float64{1, 2, 3}); err == nil {
		t.Fatal("expected error for short slice")
	}
	if _, err := CoefficientsFromSlice(nil); err == nil {
		t.Fatal("expected error for nil slice")
	}
}

func TestZIPParamsValidate(t *testing.T) {
	z := ZIPParams{ImpedancePF: 1, CurrentPF: -0.5, PowerPF: 0}
	if err := z.Validate(); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}
	z.CurrentPF = -1.01
	if err := z.Validate(); err == nil {
		t.Fatal("expected error for power factor below -1")
	}
	z.CurrentPF = math.NaN()
	if err := z.Validate(); err == nil {
		t.Fatal("expected error for NaN power factor")
	}
}

func TestFractionSum(t *testing.T) {
	z := ZIPParams{ImpedanceFraction: 0.5, CurrentFraction: 0.3, PowerFraction: 0.2}
	if got := z.FractionSum(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("fraction sum = %v", got)
	}
}

func TestSampleSetValidate(t *testing.T) {
	if err := (SampleSet{}).Validate(); err == nil {
		t.Fatal("expected error for empty set")
	}
	set := SampleSet{{V: 120, P: 1, Q: 1}}
	if err := set.Validate(); err != nil {
		t.Fatalf("valid set rejected: %v", err)
	}
	if got := set.Voltages(); len(got) != 1 || got[0] != 120 {
		t.Fatalf("voltages = %v", got)
	}
}
