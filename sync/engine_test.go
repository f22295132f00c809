package sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/notesync/git"
	"github.com/grovetools/notesync/testutil"
)

func TestEngineLifecycle(t *testing.T) {
	testutil.Chdir(t, t.TempDir())
	ctx := context.Background()
	dir := t.TempDir()

	m := &mockGit{
		hasCommits: boolPtr(false),
		status:     &git.RawStatus{Current: "main"},
	}
	e := NewEngineWithService(dir, m)
	t.Cleanup(e.Scheduler().Stop)

	// Fresh repository with untracked files: no commits wins.
	m.status.Files = []git.FileStatusEntry{
		{Path: "a.md", IndexState: '?', WorkingState: '?'},
		{Path: "b.md", IndexState: '?', WorkingState: '?'},
		{Path: "c.md", IndexState: '?', WorkingState: '?'},
	}
	snap, err := e.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateNoCommits, snap.State)
	assert.Equal(t, 3, snap.TotalUncommitted)

	// After the first commit with no remote branch.
	m.hasCommits = boolPtr(true)
	m.status.Files = nil
	snap, err = e.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateUnpublished, snap.State)

	// First publish creates the tracking branch and enables auto-sync.
	result, err := e.Push(ctx)
	require.NoError(t, err)
	assert.True(t, result.WasPublish)
	assert.True(t, e.Scheduler().Enabled(), "publish broadcast arms the scheduler")

	m.status.Tracking = "origin/main"
	snap, err = e.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Meta.HasRemoteBranch)
	assert.Equal(t, StateSynced, snap.State)

	// Local commits not yet pushed.
	m.status.Ahead = 2
	snap, err = e.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateUnpushed, snap.State)
}

func TestEngineInit(t *testing.T) {
	testutil.Chdir(t, t.TempDir())
	ctx := context.Background()
	dir := t.TempDir()

	m := &mockGit{repository: boolPtr(false)}
	e := NewEngineWithService(dir, m)
	t.Cleanup(e.Scheduler().Stop)

	require.NoError(t, e.Init(ctx))
	assert.Contains(t, m.calls, "init")

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".notesync/")

	// Already a repository: no-op.
	m2 := &mockGit{}
	e2 := NewEngineWithService(t.TempDir(), m2)
	t.Cleanup(e2.Scheduler().Stop)
	require.NoError(t, e2.Init(ctx))
	assert.NotContains(t, m2.calls, "init")
}
