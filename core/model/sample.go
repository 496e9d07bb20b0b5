package model

import "fmt"

// Sample is a single (voltage, active power, reactive power) measurement in
// physical units: volts, watts and vars.
type Sample struct {
	V float64
	P float64
	Q float64
}

// SampleSet is an ordered batch of measurements for one load. The order is
// preserved through fitting so predictions can be aligned with the inputs.
type SampleSet []Sample

// Validate checks that the set contains at least one sample.
func (s SampleSet) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("sample set is empty")
	}
	return nil
}

// Voltages returns the voltage column of the set.
func (s SampleSet) Voltages() []float64 {
	out := make([]float64, len(s))
	for i, smp := range s {
		out[i] = smp.V
	}
	return out
}
