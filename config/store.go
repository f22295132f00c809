// Package config provides the persistent key-value configuration store for a
// synchronized notebook directory, plus the change notification channel other
// components subscribe to.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Values is the on-disk shape of the store: a generic map of sections.
type Values map[string]interface{}

// Store reads and writes the notebook-local configuration file at
// <dir>/.notesync/config.yml. Each notebook directory has its own
// independent store; nothing is read from ambient global state.
type Store struct {
	dir      string
	notifier *Notifier
	mu       sync.Mutex
}

// NewStore creates a store bound to the given notebook directory.
func NewStore(dir string) *Store {
	return &Store{
		dir:      dir,
		notifier: NewNotifier(),
	}
}

// Dir returns the notebook directory this store is bound to.
func (s *Store) Dir() string {
	return s.dir
}

// Notifier returns the change notifier for this store. Writes through
// Set and SetSection broadcast on it.
func (s *Store) Notifier() *Notifier {
	return s.notifier
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, ".notesync", "config.yml")
}

// Load loads the configuration from disk.
// Returns an empty map if the file doesn't exist.
func (s *Store) Load() (Values, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return make(Values), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var values Values
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if values == nil {
		values = make(Values)
	}

	return values, nil
}

// Save writes the configuration to disk, creating .notesync/ if needed.
func (s *Store) Save(values Values) error {
	path := s.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Get retrieves a value by key.
// Returns the value and true if found, nil and false otherwise.
func (s *Store) Get(key string) (interface{}, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.Load()
	if err != nil {
		return nil, false, err
	}

	val, ok := values[key]
	return val, ok, nil
}

// Set sets a value and broadcasts the change.
func (s *Store) Set(key string, value interface{}) error {
	s.mu.Lock()
	values, err := s.Load()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	values[key] = value
	err = s.Save(values)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notifier.Publish(Change{Key: key, Value: value})
	return nil
}

// UnmarshalSection decodes a named section of the configuration into the
// provided target struct. The target must be a pointer. Missing sections are
// not an error; the target simply keeps its current values.
func (s *Store) UnmarshalSection(key string, target interface{}) error {
	values, err := s.Load()
	if err != nil {
		return err
	}

	section, ok := values[key]
	if !ok {
		return nil
	}

	// Use mapstructure to decode the generic map[string]interface{}
	// into the strongly-typed target struct, keyed by yaml tags.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(section); err != nil {
		return fmt.Errorf("failed to decode config section '%s': %w", key, err)
	}

	return nil
}

// SetSection replaces a named section and broadcasts the change. The value is
// round-tripped through yaml so that struct values land on disk as plain maps.
func (s *Store) SetSection(key string, value interface{}) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal config section: %w", err)
	}

	var generic interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("normalize config section: %w", err)
	}

	return s.Set(key, generic)
}
