package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/zipfit/core/metrics"
)

func TestPromSinkRecordFit(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	require.NoError(t, err)

	records := []coremetrics.FitRecord{
		{LoadID: "house-1", Solver: "bfgs", Converged: true, Residual: 1.5e-6, Duration: 30 * time.Millisecond},
		{LoadID: "house-1", Solver: "bfgs", Converged: true, Residual: 2.5e-6, Duration: 25 * time.Millisecond},
		{LoadID: "house-2", Solver: "neldermead", Converged: false, Residual: 0.3, Duration: 90 * time.Millisecond},
	}
	require.NoError(t, sink.RecordFit(records))

	expected := `
		# HELP zip_fits_total Total number of ZIP model fits
		# TYPE zip_fits_total counter
		zip_fits_total{converged="true",load_id="house-1",solver="bfgs"} 2
		zip_fits_total{converged="false",load_id="house-2",solver="neldermead"} 1
	`
	require.NoError(t, testutil.CollectAndCompare(sink.fits, strings.NewReader(expected)))

	expected = `
		# HELP zip_fit_constraint_residual Closure constraint residual of the latest fit
		# TYPE zip_fit_constraint_residual gauge
		zip_fit_constraint_residual{load_id="house-1"} 2.5e-06
		zip_fit_constraint_residual{load_id="house-2"} 0.3
	`
	require.NoError(t, testutil.CollectAndCompare(sink.residual, strings.NewReader(expected)))

	// Two (solver, converged) combinations across the three records.
	assert.Equal(t, 2, testutil.CollectAndCount(sink.duration, "zip_fit_duration_seconds"))
}

func TestPromSinkReusesExistingCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSink(reg)
	require.NoError(t, err)
	second, err := NewPromSink(reg)
	require.NoError(t, err)

	require.NoError(t, first.RecordFit([]coremetrics.FitRecord{{LoadID: "l1", Solver: "bfgs", Converged: true}}))
	require.NoError(t, second.RecordFit([]coremetrics.FitRecord{{LoadID: "l1", Solver: "bfgs", Converged: true}}))

	count := testutil.ToFloat64(first.fits.WithLabelValues("l1", "bfgs", "true"))
	assert.Equal(t, 2.0, count)
}
