package metrics

import coremetrics "github.com/kilianp07/zipfit/core/metrics"

// MultiSink fans fit records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordFit forwards the records to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordFit(records []coremetrics.FitRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordFit(records); err != nil {
			return err
		}
	}
	return nil
}
