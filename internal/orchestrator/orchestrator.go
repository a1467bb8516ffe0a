// Package orchestrator distributes scan jobs across a bounded worker pool.
// Each submitted locator yields exactly one result, completion order is
// unspecified, and no job failure can terminate the pool.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/secretsweep/secretsweep/internal/types"
)

// Orchestrator runs scan jobs with bounded concurrency.
type Orchestrator struct {
	job         *Job
	concurrency int
}

// New validates the concurrency limit and builds an orchestrator.
func New(job *Job, concurrency int) (*Orchestrator, error) {
	if concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	return &Orchestrator{job: job, concurrency: concurrency}, nil
}

// ScanAll scans every locator and returns one result per locator, in input
// order. At most the configured number of jobs hold a workspace at any time;
// as one finishes the next pending locator starts. Results are written into
// a pre-allocated slot per locator, exactly once, so no shared mutable
// aggregation is needed.
//
// On cancellation no new jobs start; in-flight jobs still run to completion
// (workspace cleanup always happens) and never-started locators are filled
// with a cancellation failure so the one-result-per-locator invariant holds.
func (o *Orchestrator) ScanAll(ctx context.Context, locators []types.Locator) []types.Result {
	results := make([]types.Result, len(locators))
	sem := make(chan struct{}, o.concurrency)
	var wg sync.WaitGroup

	for i, locator := range locators {
		if ctx.Err() != nil {
			results[i] = types.FailedResult(locator, fmt.Sprintf("scan canceled: %v", ctx.Err()))
			continue
		}
		select {
		case <-ctx.Done():
			results[i] = types.FailedResult(locator, fmt.Sprintf("scan canceled: %v", ctx.Err()))
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(slot int, locator types.Locator) {
			defer wg.Done()
			defer func() { <-sem }()
			results[slot] = o.execute(ctx, locator)
		}(i, locator)
	}

	wg.Wait()
	return results
}

// execute runs one job and converts anything that still escapes it into a
// synthetic failed result. Job.Execute recovers its own panics; this is the
// pool's last line of isolation.
func (o *Orchestrator) execute(ctx context.Context, locator types.Locator) (res types.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = types.FailedResult(locator, fmt.Sprintf("scan job crashed: %v", r))
		}
	}()
	return o.job.Execute(ctx, locator)
}
