package config

// AutoSyncSection is the store key for automatic synchronization settings.
const AutoSyncSection = "auto_sync"

// DefaultIntervalSeconds is the interval applied when auto-sync is enabled
// without a configured interval (e.g. on first publish).
const DefaultIntervalSeconds = 60

// AutoSyncConfig holds the automatic synchronization settings for a notebook.
type AutoSyncConfig struct {
	// Enabled arms the periodic sync timer.
	Enabled bool `yaml:"enabled"`

	// IntervalSeconds is the period between automatic sync attempts.
	IntervalSeconds int `yaml:"interval_seconds"`

	// HideGeneratedFiles hides sync-generated files from the visible
	// uncommitted count while auto-sync is enabled.
	HideGeneratedFiles bool `yaml:"hide_generated_files"`
}

// DefaultAutoSync returns the defaults: disabled, 60s interval, hiding on.
func DefaultAutoSync() AutoSyncConfig {
	return AutoSyncConfig{
		Enabled:            false,
		IntervalSeconds:    DefaultIntervalSeconds,
		HideGeneratedFiles: true,
	}
}

// LoadAutoSync reads the auto-sync section from the store, applying defaults
// for anything unset. An interval of zero or less falls back to the default.
func LoadAutoSync(store *Store) (AutoSyncConfig, error) {
	cfg := DefaultAutoSync()
	if err := store.UnmarshalSection(AutoSyncSection, &cfg); err != nil {
		return cfg, err
	}
	if cfg.IntervalSeconds <= 0 {
		cfg.IntervalSeconds = DefaultIntervalSeconds
	}
	return cfg, nil
}

// SaveAutoSync writes the auto-sync section and broadcasts the change.
func SaveAutoSync(store *Store, cfg AutoSyncConfig) error {
	return store.SetSection(AutoSyncSection, cfg)
}
