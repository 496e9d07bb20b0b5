package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/zipfit/core/metrics"
)

// PromSink records fit outcomes in Prometheus metrics.
type PromSink struct {
	fits     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	residual *prometheus.GaugeVec
}

// NewPromSink registers fit metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are
// already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	fits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zip_fits_total",
		Help: "Total number of ZIP model fits",
	}, []string{"load_id", "solver", "converged"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zip_fit_duration_seconds",
		Help:    "Wall time of one fit call",
		Buckets: prometheus.DefBuckets,
	}, []string{"solver", "converged"})
	residual := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "zip_fit_constraint_residual",
		Help: "Closure constraint residual of the latest fit",
	}, []string{"load_id"})

	for _, c := range []prometheus.Collector{fits, duration, residual} {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch existing := are.ExistingCollector.(type) {
			case *prometheus.CounterVec:
				fits = existing
			case *prometheus.HistogramVec:
				duration = existing
			case *prometheus.GaugeVec:
				residual = existing
			}
		}
	}
	return &PromSink{fits: fits, duration: duration, residual: residual}, nil
}

// RecordFit increments the counters for each fit outcome.
func (s *PromSink) RecordFit(records []coremetrics.FitRecord) error {
	for _, r := range records {
		converged := strconv.FormatBool(r.Converged)
		s.fits.WithLabelValues(r.LoadID, r.Solver, converged).Inc()
		s.duration.WithLabelValues(r.Solver, converged).Observe(r.Duration.Seconds())
		s.residual.WithLabelValues(r.LoadID).Set(r.Residual)
	}
	return nil
}
