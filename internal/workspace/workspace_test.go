package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretsweep/secretsweep/internal/types"
)

// initSourceRepo creates a local git repository with one commit so it can be
// cloned over the file transport.
func initSourceRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestAcquire_ClonesIntoPrivateDir(t *testing.T) {
	src := initSourceRepo(t)
	m, err := NewManager(t.TempDir(), time.Minute)
	require.NoError(t, err)

	ws, err := m.Acquire(context.Background(), types.Locator(src))
	require.NoError(t, err)
	defer ws.Release()

	assert.Equal(t, types.Locator(src), ws.Locator())
	assert.FileExists(t, filepath.Join(ws.Dir(), "README.md"))
	assert.True(t, strings.HasPrefix(ws.Dir(), m.BaseDir()))
}

func TestAcquire_DistinctDirsPerAcquisition(t *testing.T) {
	src := initSourceRepo(t)
	m, err := NewManager(t.TempDir(), time.Minute)
	require.NoError(t, err)

	a, err := m.Acquire(context.Background(), types.Locator(src))
	require.NoError(t, err)
	defer a.Release()
	b, err := m.Acquire(context.Background(), types.Locator(src))
	require.NoError(t, err)
	defer b.Release()

	assert.NotEqual(t, a.Dir(), b.Dir())
}

func TestAcquire_FailsFastOnBadLocator(t *testing.T) {
	m, err := NewManager(t.TempDir(), time.Minute)
	require.NoError(t, err)

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	_, err = m.Acquire(context.Background(), types.Locator(missing))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "clone")
}

func TestRelease_IdempotentAndRemovesState(t *testing.T) {
	src := initSourceRepo(t)
	m, err := NewManager(t.TempDir(), time.Minute)
	require.NoError(t, err)

	ws, err := m.Acquire(context.Background(), types.Locator(src))
	require.NoError(t, err)

	dir := ws.Dir()
	ws.Release()
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "workspace dir should be removed")

	// second release is a no-op
	ws.Release()
}

func TestRemoteHead_MatchesClonedHead(t *testing.T) {
	src := initSourceRepo(t)
	m, err := NewManager(t.TempDir(), time.Minute)
	require.NoError(t, err)

	head, err := m.RemoteHead(context.Background(), types.Locator(src))
	require.NoError(t, err)
	assert.Len(t, head, 40)

	repo, err := git.PlainOpen(src)
	require.NoError(t, err)
	ref, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, ref.Hash().String(), head)
}

func TestRemoteHead_BadLocator(t *testing.T) {
	m, err := NewManager(t.TempDir(), time.Minute)
	require.NoError(t, err)

	_, err = m.RemoteHead(context.Background(), types.Locator(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, err)
}
