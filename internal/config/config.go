// Package config provides JSON-based preferences for the command line tool.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const prefsFile = "preferences.json"

// Store keeps preferences as a key-value map backed by a JSON file.
type Store struct {
	mu     sync.RWMutex
	values map[string]any
	path   string
}

// DefaultPath returns ~/.config/sketch-tracer/preferences.json.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "sketch-tracer", prefsFile)
}

// Load reads the preferences at DefaultPath.
func Load() (*Store, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads preferences from path. A missing file yields an empty
// store; a malformed one an error.
func LoadFrom(path string) (*Store, error) {
	s := &Store{values: make(map[string]any), path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return s, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Path returns the file the store saves to.
func (s *Store) Path() string { return s.path }

// Save writes the preferences to disk.
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.values, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Float returns a float preference, or fallback if not set.
func (s *Store) Float(key string, fallback float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// SetFloat stores a float preference.
func (s *Store) SetFloat(key string, val float64) {
	s.mu.Lock()
	s.values[key] = val
	s.mu.Unlock()
}

// Int returns an integer preference, or fallback if not set. JSON numbers
// are truncated.
func (s *Store) Int(key string, fallback int) int {
	return int(s.Float(key, float64(fallback)))
}

// SetInt stores an integer preference.
func (s *Store) SetInt(key string, val int) {
	s.SetFloat(key, float64(val))
}

// String returns a string preference, or fallback if not set.
func (s *Store) String(key, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return fallback
}

// SetString records a string value under key.
func (s *Store) SetString(key string, val string) {
	s.mu.Lock()
	s.values[key] = val
	s.mu.Unlock()
}

// Bool reads key as a bool. Missing or mistyped values yield fallback.
func (s *Store) Bool(key string, fallback bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.values[key].(bool); ok {
		return b
	}
	return fallback
}

// SetBool records a bool value under key.
func (s *Store) SetBool(key string, val bool) {
	s.mu.Lock()
	s.values[key] = val
	s.mu.Unlock()
}
