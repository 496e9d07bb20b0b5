package zip

import (
	"math"
	"sort"

	"github.com/kilianp07/zipfit/core/model"
)

// NominalPower estimates a base apparent power from raw samples as the median
// of |P + jQ| over the batch. The median is robust against the transient
// spikes common in measured load data.
func NominalPower(set model.SampleSet) (float64, error) {
	if err := set.Validate(); err != nil {
		return 0, err
	}
	mags := make([]float64, len(set))
	for i, s := range set {
		mags[i] = math.Hypot(s.P, s.Q)
	}
	sort.Float64s(mags)
	mid := len(mags) / 2
	if len(mags)%2 == 1 {
		return mags[mid], nil
	}
	return (mags[mid-1] + mags[mid]) / 2, nil
}
