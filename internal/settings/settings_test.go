package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStore_DefaultsWhenMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "settings.toml"))

	if !s.LoggingEnabled() {
		t.Error("logging should default to enabled")
	}
	if s.SelectedCameraID() != "" {
		t.Errorf("expected no camera, got %q", s.SelectedCameraID())
	}
}

func TestStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "settings.toml")
	s := NewStore(path)

	if err := s.SetSelectedCameraID("usb-cam-2"); err != nil {
		t.Fatalf("SetSelectedCameraID() error = %v", err)
	}
	if err := s.SetLoggingEnabled(false); err != nil {
		t.Fatalf("SetLoggingEnabled() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("settings file not written: %v", err)
	}
	if !strings.Contains(string(data), `selected_camera_id = "usb-cam-2"`) {
		t.Errorf("unexpected file contents:\n%s", data)
	}

	reloaded := NewStore(path)
	got := reloaded.Get()
	if got.SelectedCameraID != "usb-cam-2" || got.LoggingEnabled {
		t.Errorf("reloaded settings = %+v", got)
	}
}

func TestStore_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("logging_enabled = [oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path)
	if got := s.Get(); got != Defaults() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestStore_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte(`selected_camera_id = "front"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path)
	if s.SelectedCameraID() != "front" || !s.LoggingEnabled() {
		t.Errorf("unexpected settings %+v", s.Get())
	}
}
