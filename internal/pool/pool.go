// Package pool dispatches independent fit jobs across a bounded worker pool.
// Fits share no state, so one fit per load and time window parallelizes
// without coordination.
package pool

import (
	"context"
	"sync"

	"github.com/kilianp07/zipfit/core/fit"
	"github.com/kilianp07/zipfit/core/model"
)

// Job is one fit request: a sample batch with its base quantities.
type Job struct {
	LoadID  string
	Samples model.SampleSet
	Vn      float64
	Options fit.Options
}

// Result pairs a job's outcome with its load. Err is non-nil only for
// invalid inputs; a non-converged fit is reported through Result.Fit.Success.
type Result struct {
	LoadID string
	Fit    model.FitResult
	Err    error
}

// Run fits all jobs using up to workers goroutines and returns results in
// job order. A workers value below 1 runs sequentially.
func Run(ctx context.Context, fitter *fit.Fitter, jobs []Job, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]Result, len(jobs))
	idx := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				job := jobs[i]
				res, err := fitter.Fit(ctx, job.Samples, job.Vn, job.Options)
				results[i] = Result{LoadID: job.LoadID, Fit: res, Err: err}
			}
		}()
	}

	for i := range jobs {
		idx <- i
	}
	close(idx)
	wg.Wait()
	return results
}
