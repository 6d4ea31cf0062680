// Package settings persists process-wide preferences as one flat key-value
// JSON blob: loaded at startup (missing file means empty), saved whole on
// every change.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known keys.
const (
	KeyCentralHome = "central_home"
	KeyOpenAIModel = "openai_model"
	KeyOpenAIKey   = "openai_api_key"
)

// Store is a file-backed flat key-value store.
type Store struct {
	path string

	mu   sync.RWMutex
	data map[string]string
}

// NewStore creates a store backed by path and loads any existing blob. A
// missing file yields an empty store, not an error.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string]string),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultPath returns the per-user settings location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("settings: resolve home: %w", err)
	}
	return filepath.Join(home, ".centrallog", "settings.json"), nil
}

// Load reads the blob from disk, replacing the in-memory state.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]string)
			return nil
		}
		return fmt.Errorf("settings: read %s: %w", s.path, err)
	}

	blob := make(map[string]string)
	if err := json.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("settings: decode %s: %w", s.path, err)
	}
	s.data = blob
	return nil
}

// Save writes the whole blob atomically (tmp file then rename).
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("settings: mkdir %s: %w", dir, err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("settings: write temp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("settings: rename: %w", err)
	}
	return nil
}

// Get returns the value for key, or "" when absent.
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key]
}

// Set updates key in memory. Call Save to persist.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// All returns a copy of the whole blob.
func (s *Store) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Replace swaps in a whole new blob. Call Save to persist.
func (s *Store) Replace(blob map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string, len(blob))
	for k, v := range blob {
		s.data[k] = v
	}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }
