package core

import (
	"context"
	"time"

	"github.com/secretsweep/secretsweep/internal/config"
	"github.com/secretsweep/secretsweep/internal/detect/gitleaks"
	"github.com/secretsweep/secretsweep/internal/detect/trufflehog"
	"github.com/secretsweep/secretsweep/internal/orchestrator"
	"github.com/secretsweep/secretsweep/internal/source"
	"github.com/secretsweep/secretsweep/internal/types"
	"github.com/secretsweep/secretsweep/internal/workspace"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Locator = types.Locator
	Finding = types.Finding
	Outcome = types.Outcome
	Result  = types.Result
)

// Options configures one scan run.
type Options struct {
	// ListPath is the repository list file: one locator per line.
	ListPath string
	// Locators can be supplied directly instead of ListPath.
	Locators []Locator
	// Concurrency bounds simultaneous repository scans. Zero means the default.
	Concurrency int
	// CloneTimeout bounds each workspace acquisition. Zero means the default.
	CloneTimeout time.Duration
	// WorkDir is the base directory for temporary clones. Empty means the
	// system temp dir.
	WorkDir string
}

// ScanList is the stable entrypoint for other programs. It resolves both
// detector binaries, fans the locators out across a bounded worker pool and
// returns one Result per locator in input order. Per-repository problems are
// recorded inside the results; only orchestration-level failures return an
// error.
func ScanList(ctx context.Context, opts Options) ([]Result, error) {
	locs := opts.Locators
	if opts.ListPath != "" {
		loaded, err := source.Load(opts.ListPath, source.Filter{})
		if err != nil {
			return nil, err
		}
		locs = append(locs, loaded...)
	}

	secrets, err := trufflehog.NewScanner(config.ToolConfig{})
	if err != nil {
		return nil, err
	}
	leaks, err := gitleaks.NewScanner(config.ToolConfig{})
	if err != nil {
		return nil, err
	}

	mgr, err := workspace.NewManager(opts.WorkDir, opts.CloneTimeout)
	if err != nil {
		return nil, err
	}
	defer mgr.Cleanup()

	concurrency := opts.Concurrency
	if concurrency == 0 {
		concurrency = config.DefaultConcurrency
	}
	job := orchestrator.NewJob(orchestrator.NewManagerProvider(mgr), secrets, leaks, nil)
	orch, err := orchestrator.New(job, concurrency)
	if err != nil {
		return nil, err
	}
	return orch.ScanAll(ctx, locs), nil
}
