package metrics

import "time"

// FitRecord captures one fit outcome for observability sinks.
type FitRecord struct {
	LoadID    string
	Solver    string
	Converged bool
	Objective float64
	Residual  float64
	Duration  time.Duration
	Timestamp time.Time
}

// Sink records fit outcomes. Implementations must be safe for concurrent use;
// fits run in parallel across the worker pool.
type Sink interface {
	RecordFit(records []FitRecord) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordFit([]FitRecord) error { return nil }
