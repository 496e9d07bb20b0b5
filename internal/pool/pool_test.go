package pool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kilianp07/zipfit/core/fit"
	"github.com/kilianp07/zipfit/core/model"
	"github.com/kilianp07/zipfit/core/zip"
)

func testJobs(t *testing.T, n int) []Job {
	t.Helper()
	poly, err := zip.PolyFromZIP(zip.RefIncandescent)
	if err != nil {
		t.Fatal(err)
	}
	var set model.SampleSet
	for vbar := 0.9; vbar <= 1.1+1e-12; vbar += 0.02 {
		pbar, qbar := zip.Predict(poly, vbar)
		set = append(set, model.Sample{V: vbar * 120, P: pbar * 1000, Q: qbar * 1000})
	}

	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{
			LoadID:  fmt.Sprintf("load-%d", i),
			Samples: set,
			Vn:      120,
			Options: fit.Options{NominalPower: 1000, InitialGuess: &poly},
		}
	}
	return jobs
}

func TestRunPreservesJobOrder(t *testing.T) {
	fitter, err := fit.New(fit.Config{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	jobs := testJobs(t, 7)

	results := Run(context.Background(), fitter, jobs, 3)
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for i, r := range results {
		if r.LoadID != jobs[i].LoadID {
			t.Errorf("result %d is for %s, want %s", i, r.LoadID, jobs[i].LoadID)
		}
		if r.Err != nil {
			t.Errorf("result %d: %v", i, r.Err)
		}
		if !r.Fit.Success {
			t.Errorf("result %d: fit failed, status=%s", i, r.Fit.Status)
		}
	}
}

func TestRunReportsInvalidJobs(t *testing.T) {
	fitter, err := fit.New(fit.Config{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	jobs := testJobs(t, 3)
	jobs[1].Samples = nil

	results := Run(context.Background(), fitter, jobs, 2)
	if !errors.Is(results[1].Err, fit.ErrInvalidInput) {
		t.Fatalf("result 1 err = %v, want ErrInvalidInput", results[1].Err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatal("valid jobs should not carry errors")
	}
}

func TestRunSequentialFallback(t *testing.T) {
	fitter, err := fit.New(fit.Config{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	results := Run(context.Background(), fitter, testJobs(t, 2), 0)
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
}

func TestRunNoJobs(t *testing.T) {
	fitter, err := fit.New(fit.Config{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results := Run(context.Background(), fitter, nil, 4); len(results) != 0 {
		t.Fatalf("got %d results for no jobs", len(results))
	}
}
