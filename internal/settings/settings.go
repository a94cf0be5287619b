// Package settings persists user preferences in a small TOML file.
package settings

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

type Settings struct {
	SelectedCameraID string `toml:"selected_camera_id"`
	LoggingEnabled   bool   `toml:"logging_enabled"`
}

func Defaults() Settings {
	return Settings{LoggingEnabled: true}
}

// Store reads and writes settings at a fixed path. A missing or unreadable
// file yields defaults; it is created on the first save.
type Store struct {
	path string

	mu      sync.Mutex
	current Settings
}

func NewStore(path string) *Store {
	s := &Store{path: path}
	s.current = s.load()
	return s
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() Settings {
	out := Defaults()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read settings, using defaults", "path", s.path, "error", err)
		}
		return out
	}
	if _, err := toml.Decode(string(data), &out); err != nil {
		slog.Warn("Failed to parse settings, using defaults", "path", s.path, "error", err)
		return Defaults()
	}
	return out
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Store) SelectedCameraID() string {
	return s.Get().SelectedCameraID
}

func (s *Store) LoggingEnabled() bool {
	return s.Get().LoggingEnabled
}

func (s *Store) SetSelectedCameraID(id string) error {
	return s.update(func(st *Settings) { st.SelectedCameraID = id })
}

func (s *Store) SetLoggingEnabled(enabled bool) error {
	return s.update(func(st *Settings) { st.LoggingEnabled = enabled })
}

func (s *Store) update(apply func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current
	apply(&next)
	if err := save(s.path, next); err != nil {
		return err
	}
	s.current = next
	return nil
}

func save(path string, st Settings) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(st); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
