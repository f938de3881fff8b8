package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.PollInterval() != 500*time.Millisecond {
		t.Fatalf("expected 500ms poll interval, got %v", cfg.PollInterval())
	}
	if cfg.ApplyDelay() != 100*time.Millisecond {
		t.Fatalf("expected 100ms apply delay, got %v", cfg.ApplyDelay())
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TaskbarHeight != 48 {
		t.Fatalf("expected taskbar_height 48, got %d", cfg.TaskbarHeight)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("# empty\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.WatchProfiles {
		t.Fatalf("expected watch_profiles default true")
	}
	if len(cfg.IgnoredTitles) == 0 {
		t.Fatalf("expected default ignored_titles")
	}
}

func TestLoadFromPath_OverridesKeepOtherDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"poll_interval_ms: 250",
		"watch_profiles: false",
		"ignored_titles:",
		"  - my launcher",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PollIntervalMS != 250 {
		t.Fatalf("expected poll_interval_ms 250, got %d", cfg.PollIntervalMS)
	}
	if cfg.WatchProfiles {
		t.Fatalf("expected watch_profiles false")
	}
	if len(cfg.IgnoredTitles) != 1 || cfg.IgnoredTitles[0] != "my launcher" {
		t.Fatalf("expected ignored_titles override, got %v", cfg.IgnoredTitles)
	}
	// Untouched fields keep their defaults.
	if cfg.ApplyDelayMS != 100 {
		t.Fatalf("expected apply_delay_ms default 100, got %d", cfg.ApplyDelayMS)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("unknown_key: 1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_BadLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for bad log_level")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "log_level" {
		t.Fatalf("expected path log_level, got %q", verr.Path)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero poll interval", func(c *Config) { c.PollIntervalMS = 0 }, "poll_interval_ms"},
		{"negative apply delay", func(c *Config) { c.ApplyDelayMS = -1 }, "apply_delay_ms"},
		{"negative taskbar", func(c *Config) { c.TaskbarHeight = -1 }, "taskbar_height"},
		{"blank ignored title", func(c *Config) { c.IgnoredTitles = []string{"  "} }, "ignored_titles[0]"},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)

		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Path != tc.path {
			t.Errorf("%s: got %v, want path %q", tc.name, err, tc.path)
		}
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.PollIntervalMS = 750
	cfg.Hotkeys.ToggleAOT = "Mod4-Mod1-x"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.PollIntervalMS != 750 {
		t.Fatalf("expected poll_interval_ms 750, got %d", loaded.PollIntervalMS)
	}
	if loaded.Hotkeys.ToggleAOT != "Mod4-Mod1-x" {
		t.Fatalf("expected hotkey override, got %q", loaded.Hotkeys.ToggleAOT)
	}
}

func TestSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s := Settings{Compact: true, Snap: true, Hotkey: "Mod4-Mod1-a"}
	if err := SaveSettings(path, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != s {
		t.Fatalf("round trip mismatch: %+v != %+v", loaded, s)
	}
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Hotkey == "" {
		t.Fatalf("expected default hotkey")
	}
}

func TestLoadSettings_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := LoadSettings(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if s != DefaultSettings() {
		t.Fatalf("expected defaults on corrupt file, got %+v", s)
	}
}
