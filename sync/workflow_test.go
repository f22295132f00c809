package sync

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/notesync/config"
	"github.com/grovetools/notesync/errors"
	"github.com/grovetools/notesync/git"
)

// testLogger returns a silent logger entry for tests.
func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "test")
}

func newTestWorkflow(t *testing.T, m *mockGit) (*Workflow, *config.Store) {
	t.Helper()
	store := config.NewStore(t.TempDir())
	return NewWorkflow(m, store, testLogger()), store
}

func TestWorkflowPublish(t *testing.T) {
	m := &mockGit{status: &git.RawStatus{Current: "main"}} // no tracking branch
	wf, store := newTestWorkflow(t, m)

	var changes []config.Change
	store.Notifier().Subscribe(func(c config.Change) {
		changes = append(changes, c)
	})

	result, err := wf.Push(context.Background())
	require.NoError(t, err)
	assert.True(t, result.WasPublish)
	assert.Contains(t, m.calls, "push(origin,main,upstream=true)")

	// First publish always enables auto-sync, with the default interval.
	cfg, err := config.LoadAutoSync(store)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, config.DefaultIntervalSeconds, cfg.IntervalSeconds)

	// The write was broadcast for independently-constructed schedulers.
	require.Len(t, changes, 1)
	assert.Equal(t, config.AutoSyncSection, changes[0].Key)
}

func TestWorkflowPublishOverridesUserPreference(t *testing.T) {
	m := &mockGit{status: &git.RawStatus{Current: "main"}}
	wf, store := newTestWorkflow(t, m)

	// The user had explicitly disabled auto-sync with a custom interval.
	require.NoError(t, config.SaveAutoSync(store, config.AutoSyncConfig{
		Enabled: false, IntervalSeconds: 300, HideGeneratedFiles: true,
	}))

	_, err := wf.Push(context.Background())
	require.NoError(t, err)

	cfg, err := config.LoadAutoSync(store)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled, "first publish overrides the disabled preference")
	assert.Equal(t, 300, cfg.IntervalSeconds, "interval is preserved")
}

func TestWorkflowPush(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing to push", func(t *testing.T) {
		m := &mockGit{status: &git.RawStatus{Current: "main", Tracking: "origin/main", Ahead: 0}}
		wf, _ := newTestWorkflow(t, m)

		_, err := wf.Push(ctx)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeNothingToPush, errors.GetCode(err))
	})

	t.Run("ordinary push", func(t *testing.T) {
		m := &mockGit{status: &git.RawStatus{Current: "main", Tracking: "origin/main", Ahead: 2}}
		wf, store := newTestWorkflow(t, m)

		result, err := wf.Push(ctx)
		require.NoError(t, err)
		assert.False(t, result.WasPublish)
		assert.Contains(t, m.calls, "push(origin,main,upstream=false)")

		// An ordinary push does not touch the auto-sync preference.
		cfg, err := config.LoadAutoSync(store)
		require.NoError(t, err)
		assert.False(t, cfg.Enabled)
	})

	t.Run("git not installed", func(t *testing.T) {
		m := &mockGit{installed: boolPtr(false)}
		wf, _ := newTestWorkflow(t, m)

		_, err := wf.Push(ctx)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeGitNotInstalled, errors.GetCode(err))
	})

	t.Run("not a repository", func(t *testing.T) {
		m := &mockGit{repository: boolPtr(false)}
		wf, _ := newTestWorkflow(t, m)

		_, err := wf.Push(ctx)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeNotARepository, errors.GetCode(err))
	})

	t.Run("network failure surfaces message", func(t *testing.T) {
		m := &mockGit{
			status:  &git.RawStatus{Current: "main", Tracking: "origin/main", Ahead: 1},
			pushErr: fmt.Errorf("fatal: could not read from remote repository"),
		}
		wf, _ := newTestWorkflow(t, m)

		_, err := wf.Push(ctx)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeNetworkOrAuth, errors.GetCode(err))
		assert.Contains(t, err.Error(), "could not read from remote repository")
	})
}

func TestWorkflowPull(t *testing.T) {
	ctx := context.Background()

	t.Run("content changed signals reload", func(t *testing.T) {
		m := &mockGit{statusQueue: []*git.RawStatus{
			{Current: "main", Tracking: "origin/main", Behind: 3},
			{Current: "main", Tracking: "origin/main", Behind: 0},
		}}
		wf, _ := newTestWorkflow(t, m)

		result, err := wf.Pull(ctx)
		require.NoError(t, err)
		assert.True(t, result.ContentChanged)
		assert.Contains(t, m.calls, "pull(origin,main)")
	})

	t.Run("already up to date", func(t *testing.T) {
		m := &mockGit{statusQueue: []*git.RawStatus{
			{Current: "main", Tracking: "origin/main", Behind: 0},
			{Current: "main", Tracking: "origin/main", Behind: 0},
		}}
		wf, _ := newTestWorkflow(t, m)

		result, err := wf.Pull(ctx)
		require.NoError(t, err)
		assert.False(t, result.ContentChanged)
	})

	t.Run("pull failure is surfaced verbatim", func(t *testing.T) {
		m := &mockGit{
			status:  &git.RawStatus{Current: "main", Tracking: "origin/main", Behind: 1},
			pullErr: fmt.Errorf("error: Your local changes would be overwritten"),
		}
		wf, _ := newTestWorkflow(t, m)

		_, err := wf.Pull(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Your local changes would be overwritten")
	})
}

func TestWorkflowMutualExclusion(t *testing.T) {
	ctx := context.Background()
	m := &mockGit{
		status:    &git.RawStatus{Current: "main", Tracking: "origin/main", Ahead: 1},
		blockPush: make(chan struct{}),
	}
	wf, _ := newTestWorkflow(t, m)

	pushDone := make(chan error, 1)
	go func() {
		_, err := wf.Push(ctx)
		pushDone <- err
	}()

	require.Eventually(t, wf.Busy, time.Second, time.Millisecond, "push should be in flight")

	// A second operation while busy fails fast rather than queuing.
	_, err := wf.Sync(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeOperationInProgress, errors.GetCode(err))

	_, err = wf.Pull(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeOperationInProgress, errors.GetCode(err))

	close(m.blockPush)
	require.NoError(t, <-pushDone)
	assert.False(t, wf.Busy())

	// After completion a subsequent operation succeeds on its own merits.
	m.status = &git.RawStatus{Current: "main", Tracking: "origin/main"}
	_, err = wf.Sync(ctx)
	require.NoError(t, err)
}

func TestWorkflowGuardReleasedOnFailure(t *testing.T) {
	ctx := context.Background()
	m := &mockGit{
		status:  &git.RawStatus{Current: "main", Tracking: "origin/main", Ahead: 1},
		pushErr: fmt.Errorf("network down"),
	}
	wf, _ := newTestWorkflow(t, m)

	_, err := wf.Push(ctx)
	require.Error(t, err)
	assert.False(t, wf.Busy(), "guard must be released on every exit path")

	m.pushErr = nil
	_, err = wf.Push(ctx)
	require.NoError(t, err)
}

func TestWorkflowSync(t *testing.T) {
	ctx := context.Background()

	t.Run("dirty tree commits and pushes", func(t *testing.T) {
		m := &mockGit{statusQueue: []*git.RawStatus{
			{Current: "main", Tracking: "origin/main", Files: []git.FileStatusEntry{
				{Path: "note.md", IndexState: ' ', WorkingState: 'M'},
			}},
			{Current: "main", Tracking: "origin/main", Ahead: 1},
		}}
		wf, _ := newTestWorkflow(t, m)

		outcome, err := wf.Sync(ctx)
		require.NoError(t, err)
		assert.True(t, outcome.Committed)
		assert.True(t, outcome.Pushed)
		assert.False(t, outcome.Pulled)
		assert.Contains(t, m.calls, "add")
		assert.Contains(t, m.calls, "commit")
	})

	t.Run("behind pulls before pushing", func(t *testing.T) {
		m := &mockGit{statusQueue: []*git.RawStatus{
			{Current: "main", Tracking: "origin/main", Behind: 2},
			{Current: "main", Tracking: "origin/main", Behind: 2},
		}}
		wf, _ := newTestWorkflow(t, m)

		outcome, err := wf.Sync(ctx)
		require.NoError(t, err)
		assert.True(t, outcome.Pulled)
		assert.True(t, outcome.ContentChanged)
		assert.False(t, outcome.Committed)
	})

	t.Run("clean and current is a no-op", func(t *testing.T) {
		m := &mockGit{status: &git.RawStatus{Current: "main", Tracking: "origin/main"}}
		wf, _ := newTestWorkflow(t, m)

		outcome, err := wf.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, &SyncOutcome{}, outcome)
	})
}
