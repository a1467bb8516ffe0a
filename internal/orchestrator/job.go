package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/secretsweep/secretsweep/internal/detect"
	"github.com/secretsweep/secretsweep/internal/types"
	"github.com/secretsweep/secretsweep/internal/workspace"
)

// Workspace is the slice of a workspace the job drives: a directory to scan
// and an idempotent release.
type Workspace interface {
	Dir() string
	Release()
}

// WorkspaceProvider acquires workspaces for jobs. *workspace.Manager is the
// production implementation; tests substitute fakes.
type WorkspaceProvider interface {
	Acquire(ctx context.Context, locator types.Locator) (Workspace, error)
	RemoteHead(ctx context.Context, locator types.Locator) (string, error)
}

// ResultCache remembers which repositories were clean at which remote head so
// unchanged repositories can skip the clone entirely.
type ResultCache interface {
	CleanAt(locator types.Locator, head string) bool
	MarkClean(locator types.Locator, head string)
}

// managerProvider adapts *workspace.Manager to the WorkspaceProvider
// interface (the concrete Acquire returns a concrete type).
type managerProvider struct{ m *workspace.Manager }

func (p managerProvider) Acquire(ctx context.Context, locator types.Locator) (Workspace, error) {
	return p.m.Acquire(ctx, locator)
}

func (p managerProvider) RemoteHead(ctx context.Context, locator types.Locator) (string, error) {
	return p.m.RemoteHead(ctx, locator)
}

// NewManagerProvider wraps a workspace manager for use by jobs.
func NewManagerProvider(m *workspace.Manager) WorkspaceProvider {
	return managerProvider{m: m}
}

// Job scans one repository with both detectors. It is stateless across
// executions and safe for concurrent use by multiple workers.
type Job struct {
	workspaces WorkspaceProvider
	secrets    detect.Detector
	leaks      detect.Detector
	cache      ResultCache // optional
}

// NewJob assembles the per-repository unit of work. cache may be nil.
func NewJob(workspaces WorkspaceProvider, secrets, leaks detect.Detector, cache ResultCache) *Job {
	return &Job{workspaces: workspaces, secrets: secrets, leaks: leaks, cache: cache}
}

// Execute scans one repository: acquire workspace, run both detectors,
// release, assemble the result. It never returns an error and never lets a
// panic escape; every exceptional condition degrades to a failure outcome so
// the orchestrator treats all jobs uniformly.
func (j *Job) Execute(ctx context.Context, locator types.Locator) (res types.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = types.FailedResult(locator, fmt.Sprintf("scan job panicked: %v", r))
		}
	}()

	head := ""
	if j.cache != nil {
		if h, err := j.workspaces.RemoteHead(ctx, locator); err == nil {
			head = h
			if j.cache.CleanAt(locator, head) {
				// unchanged since the last clean scan, nothing to do
				return types.Result{Locator: locator, Secrets: types.Success(nil), Leaks: types.Success(nil)}
			}
		}
		// head resolution failures are ignored, the scan proceeds
	}

	ws, err := j.workspaces.Acquire(ctx, locator)
	if err != nil {
		return types.FailedResult(locator, fmt.Sprintf("workspace unavailable: %v", err))
	}
	defer ws.Release()

	// The two detectors are independent, run them concurrently within the job.
	var secrets, leaks types.Outcome
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		secrets = runDetector(ctx, j.secrets, ws.Dir())
	}()
	go func() {
		defer wg.Done()
		leaks = runDetector(ctx, j.leaks, ws.Dir())
	}()
	wg.Wait()

	res = types.Result{Locator: locator, Secrets: secrets, Leaks: leaks}

	if head != "" && j.cache != nil && res.Clean() {
		j.cache.MarkClean(locator, head)
	}
	return res
}

// runDetector shields the job from a misbehaving adapter: a panic inside a
// detector becomes that detector's failure outcome, the sibling is unaffected.
func runDetector(ctx context.Context, d detect.Detector, dir string) (out types.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = types.Failure(fmt.Sprintf("%s panicked: %v", d.Name(), r))
		}
	}()
	return d.Run(ctx, dir)
}
