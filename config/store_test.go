package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	t.Run("missing file yields empty values", func(t *testing.T) {
		values, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set("notebook_name", "daily"))

		val, ok, err := store.Get("notebook_name")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "daily", val)
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := store.Get("nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAutoSyncSection(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	t.Run("defaults when unset", func(t *testing.T) {
		cfg, err := LoadAutoSync(store)
		require.NoError(t, err)
		assert.False(t, cfg.Enabled)
		assert.Equal(t, DefaultIntervalSeconds, cfg.IntervalSeconds)
		assert.True(t, cfg.HideGeneratedFiles)
	})

	t.Run("round trip", func(t *testing.T) {
		in := AutoSyncConfig{Enabled: true, IntervalSeconds: 120, HideGeneratedFiles: false}
		require.NoError(t, SaveAutoSync(store, in))

		out, err := LoadAutoSync(store)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("zero interval falls back to default", func(t *testing.T) {
		require.NoError(t, SaveAutoSync(store, AutoSyncConfig{Enabled: true}))

		out, err := LoadAutoSync(store)
		require.NoError(t, err)
		assert.Equal(t, DefaultIntervalSeconds, out.IntervalSeconds)
	})
}

func TestNotifier(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	var changes []Change
	store.Notifier().Subscribe(func(c Change) {
		changes = append(changes, c)
	})

	require.NoError(t, SaveAutoSync(store, AutoSyncConfig{Enabled: true, IntervalSeconds: 30, HideGeneratedFiles: true}))

	require.Len(t, changes, 1)
	assert.Equal(t, AutoSyncSection, changes[0].Key)

	// A second subscriber sees subsequent writes too.
	var second []Change
	store.Notifier().Subscribe(func(c Change) {
		second = append(second, c)
	})

	require.NoError(t, store.Set("other", 1))
	assert.Len(t, changes, 2)
	assert.Len(t, second, 1)
}
