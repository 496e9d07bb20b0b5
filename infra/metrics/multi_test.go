package metrics

import (
	"errors"
	"testing"

	coremetrics "github.com/kilianp07/zipfit/core/metrics"
)

type recordSink struct {
	records []coremetrics.FitRecord
	err     error
}

func (s *recordSink) RecordFit(records []coremetrics.FitRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, records...)
	return nil
}

func TestMultiSinkFansOut(t *testing.T) {
	a := &recordSink{}
	b := &recordSink{}
	m := NewMultiSink(a, b)

	records := []coremetrics.FitRecord{{LoadID: "l1"}, {LoadID: "l2"}}
	if err := m.RecordFit(records); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(a.records) != 2 || len(b.records) != 2 {
		t.Fatalf("records not fanned out: a=%d b=%d", len(a.records), len(b.records))
	}
}

func TestMultiSinkReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	a := &recordSink{err: boom}
	b := &recordSink{}
	m := NewMultiSink(a, b)

	if err := m.RecordFit([]coremetrics.FitRecord{{LoadID: "l1"}}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestNopSink(t *testing.T) {
	var s coremetrics.NopSink
	if err := s.RecordFit([]coremetrics.FitRecord{{LoadID: "l1"}}); err != nil {
		t.Fatalf("nop sink returned %v", err)
	}
}
