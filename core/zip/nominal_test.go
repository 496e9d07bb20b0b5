package zip

import (
	"math"
	"testing"

	"github.com/kilianp07/zipfit/core/model"
)

func TestNominalPowerOddCount(t *testing.T) {
	set := model.SampleSet{
		{V: 1, P: 2, Q: 2},
		{V: 2, P: 1, Q: 1},
		{V: 3, P: 3, Q: 3},
	}
	got, err := NominalPower(set)
	if err != nil {
		t.Fatalf("nominal power: %v", err)
	}
	want := math.Hypot(2, 2)
	if math.Abs(got-want) > tol {
		t.Fatalf("nominal power = %v, want %v", got, want)
	}
}

func TestNominalPowerEvenCount(t *testing.T) {
	set := model.SampleSet{
		{P: 3, Q: 4},  // 5
		{P: 6, Q: 8},  // 10
		{P: 0, Q: 20}, // 20
		{P: 30, Q: 0}, // 30
	}
	got, err := NominalPower(set)
	if err != nil {
		t.Fatalf("nominal power: %v", err)
	}
	if math.Abs(got-15) > tol {
		t.Fatalf("nominal power = %v, want 15", got)
	}
}

func TestNominalPowerNegativePower(t *testing.T) {
	set := model.SampleSet{{P: -3, Q: -4}}
	got, err := NominalPower(set)
	if err != nil {
		t.Fatalf("nominal power: %v", err)
	}
	if math.Abs(got-5) > tol {
		t.Fatalf("nominal power = %v, want 5", got)
	}
}

func TestNominalPowerEmptySet(t *testing.T) {
	if _, err := NominalPower(nil); err == nil {
		t.Fatal("expected error for empty sample set")
	}
}
