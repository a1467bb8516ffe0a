// Package workspace manages disposable local clones of remote repositories.
// Each acquisition materializes into a private, collision-free directory and
// is guaranteed to be removable exactly once on every exit path.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/google/uuid"

	"github.com/secretsweep/secretsweep/internal/types"
)

// Manager acquires and releases workspaces under a common base directory.
type Manager struct {
	baseDir      string
	cloneTimeout time.Duration
}

// NewManager creates a workspace manager. baseDir may be empty, in which case
// a fresh directory under the system temp dir is used for this run.
// cloneTimeout bounds each acquisition; zero means a conservative default.
func NewManager(baseDir string, cloneTimeout time.Duration) (*Manager, error) {
	if cloneTimeout <= 0 {
		cloneTimeout = 5 * time.Minute
	}
	if baseDir == "" {
		dir, err := os.MkdirTemp("", "secretsweep-*")
		if err != nil {
			return nil, fmt.Errorf("create workspace base dir: %w", err)
		}
		baseDir = dir
	} else if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create workspace base dir: %w", err)
	}
	return &Manager{baseDir: baseDir, cloneTimeout: cloneTimeout}, nil
}

// BaseDir returns the directory under which workspaces are materialized.
func (m *Manager) BaseDir() string { return m.baseDir }

// Workspace is one acquired clone. It is owned exclusively by the scan job
// that acquired it and must be released when the job finishes.
type Workspace struct {
	locator types.Locator
	dir     string

	releaseOnce sync.Once
}

// Locator returns the repository this workspace was cloned from.
func (w *Workspace) Locator() types.Locator { return w.locator }

// Dir returns the root of the cloned working copy.
func (w *Workspace) Dir() string { return w.dir }

// Release removes all workspace state. It is idempotent and never fails the
// caller: removal problems are swallowed, the directory is unique to this
// workspace and the base dir is reaped at the end of the run anyway.
func (w *Workspace) Release() {
	w.releaseOnce.Do(func() {
		_ = os.RemoveAll(w.dir)
	})
}

// Acquire clones the repository identified by locator into a fresh private
// directory. The clone is bounded by the manager's timeout so an unreachable
// or hung remote fails the job instead of stalling a worker.
func (m *Manager) Acquire(ctx context.Context, locator types.Locator) (*Workspace, error) {
	dir := filepath.Join(m.baseDir, uuid.NewString())

	cloneCtx, cancel := context.WithTimeout(ctx, m.cloneTimeout)
	defer cancel()

	_, err := git.PlainCloneContext(cloneCtx, dir, false, &git.CloneOptions{
		URL: string(locator),
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		if cloneCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("clone %s: timed out after %s", locator, m.cloneTimeout)
		}
		return nil, fmt.Errorf("clone %s: %w", locator, err)
	}

	return &Workspace{locator: locator, dir: dir}, nil
}

// RemoteHead resolves the commit hash the remote's HEAD points at without
// cloning. Used by the results cache to decide whether a previously clean
// repository changed since its last scan.
func (m *Manager) RemoteHead(ctx context.Context, locator types.Locator) (string, error) {
	rem := git.NewRemote(memory.NewStorage(), &gitcfg.RemoteConfig{
		Name: "origin",
		URLs: []string{string(locator)},
	})

	listCtx, cancel := context.WithTimeout(ctx, m.cloneTimeout)
	defer cancel()

	refs, err := rem.ListContext(listCtx, &git.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("list %s: %w", locator, err)
	}

	byName := make(map[plumbing.ReferenceName]*plumbing.Reference, len(refs))
	for _, ref := range refs {
		byName[ref.Name()] = ref
	}
	head, ok := byName[plumbing.HEAD]
	if !ok {
		return "", fmt.Errorf("list %s: no HEAD reference", locator)
	}
	if head.Type() == plumbing.SymbolicReference {
		target, ok := byName[head.Target()]
		if !ok {
			return "", fmt.Errorf("list %s: dangling HEAD %s", locator, head.Target())
		}
		head = target
	}
	return head.Hash().String(), nil
}

// Cleanup removes the base directory and anything left beneath it. Called
// once at the end of a run; individual jobs release their own workspaces.
func (m *Manager) Cleanup() {
	_ = os.RemoveAll(m.baseDir)
}
