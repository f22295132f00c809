package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/notesync/errors"
	"github.com/grovetools/notesync/git"
)

func TestRemoteManagerAddOrUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("add when absent", func(t *testing.T) {
		m := &mockGit{}
		mgr := NewRemoteManager(m, testLogger())

		result, err := mgr.AddOrUpdateRemote(ctx, "origin", "https://example.com/a.git")
		require.NoError(t, err)
		assert.False(t, result.WasUpdate)
		assert.Contains(t, m.calls, "addRemote(origin)")
	})

	t.Run("existing name becomes update, never a duplicate insert", func(t *testing.T) {
		m := &mockGit{remotes: []git.Remote{{Name: "origin", FetchURL: "https://example.com/a.git"}}}
		mgr := NewRemoteManager(m, testLogger())

		result, err := mgr.AddOrUpdateRemote(ctx, "origin", "https://example.com/b.git")
		require.NoError(t, err)
		assert.True(t, result.WasUpdate)
		assert.Contains(t, m.calls, "setRemoteURL(origin)")
		assert.NotContains(t, m.calls, "addRemote(origin)")
		assert.Equal(t, "https://example.com/b.git", m.remotes[0].FetchURL)
	})

	t.Run("blank url rejected", func(t *testing.T) {
		mgr := NewRemoteManager(&mockGit{}, testLogger())

		_, err := mgr.AddOrUpdateRemote(ctx, "origin", "   ")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidURL, errors.GetCode(err))
	})
}

func TestRemoteManagerRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes existing", func(t *testing.T) {
		m := &mockGit{remotes: []git.Remote{{Name: "origin"}}}
		mgr := NewRemoteManager(m, testLogger())

		require.NoError(t, mgr.RemoveRemote(ctx, "origin"))
		assert.Empty(t, m.remotes)
	})

	t.Run("absent fails with RemoteNotFound", func(t *testing.T) {
		mgr := NewRemoteManager(&mockGit{}, testLogger())

		err := mgr.RemoveRemote(ctx, "origin")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeRemoteNotFound, errors.GetCode(err))
	})
}

func TestRemoteManagerSetURL(t *testing.T) {
	ctx := context.Background()

	t.Run("absent fails with RemoteNotFound", func(t *testing.T) {
		mgr := NewRemoteManager(&mockGit{}, testLogger())

		err := mgr.SetRemoteURL(ctx, "origin", "https://example.com/a.git")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeRemoteNotFound, errors.GetCode(err))
	})

	t.Run("blank url fails with InvalidURL", func(t *testing.T) {
		m := &mockGit{remotes: []git.Remote{{Name: "origin"}}}
		mgr := NewRemoteManager(m, testLogger())

		err := mgr.SetRemoteURL(ctx, "origin", "")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidURL, errors.GetCode(err))
	})

	t.Run("updates existing", func(t *testing.T) {
		m := &mockGit{remotes: []git.Remote{{Name: "origin", FetchURL: "old"}}}
		mgr := NewRemoteManager(m, testLogger())

		require.NoError(t, mgr.SetRemoteURL(ctx, "origin", "https://example.com/new.git"))
		assert.Equal(t, "https://example.com/new.git", m.remotes[0].FetchURL)
	})
}

func TestRemoteManagerTestConnection(t *testing.T) {
	ctx := context.Background()

	t.Run("failure captured in result, not returned", func(t *testing.T) {
		m := &mockGit{probe: git.ProbeResult{Success: false, Message: "authentication failed"}}
		mgr := NewRemoteManager(m, testLogger())

		result := mgr.TestConnection(ctx, "origin")
		assert.False(t, result.Success)
		assert.Equal(t, "authentication failed", result.Message)
	})

	t.Run("success", func(t *testing.T) {
		m := &mockGit{probe: git.ProbeResult{Success: true, Message: "remote is reachable"}}
		mgr := NewRemoteManager(m, testLogger())

		result := mgr.TestConnection(ctx, "origin")
		assert.True(t, result.Success)
	})
}
