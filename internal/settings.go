package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Settings are the persisted search-form preferences. The browser reloads
// them so a returning user gets their last-used filters back.
type Settings struct {
	Query      string `json:"query"`
	DateRange  string `json:"dateRange"`
	Duration   string `json:"duration"`
	Topic      string `json:"topic"`
	MaxResults int64  `json:"maxResults"`
	Format     string `json:"format"`
}

// DefaultSettings returns the form defaults used when nothing was saved yet.
func DefaultSettings() Settings {
	return Settings{
		DateRange:  DefaultDateRange,
		Duration:   DefaultDuration,
		Topic:      DefaultTopic,
		MaxResults: DefaultMaxResults,
		Format:     "text",
	}
}

// SettingsStore persists Settings as a JSON file.
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a store backed by the file at path.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Load reads the saved settings. A missing file yields the defaults with a
// nil error; an unreadable or unparsable file also yields the defaults but
// returns the error so callers can log it and carry on.
func (s *SettingsStore) Load() (Settings, error) {
	defaults := DefaultSettings()
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return defaults, fmt.Errorf("read settings: %w", err)
	}
	if len(data) == 0 {
		return defaults, nil
	}
	loaded := defaults
	if err := json.Unmarshal(data, &loaded); err != nil {
		return defaults, fmt.Errorf("decode settings: %w", err)
	}
	return loaded, nil
}

// Save writes settings to the store atomically.
func (s *SettingsStore) Save(settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&settings); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}
