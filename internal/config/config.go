// Package config loads and validates the daemon configuration.
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// ValidationError reports a config field that failed validation.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Hotkeys holds the global key bindings. An empty string disables a binding.
type Hotkeys struct {
	ToggleAOT string `yaml:"toggle_aot,omitempty"`
	// CycleLayout advances the preset cycle for the current window count
	// and applies it, without touching stored profiles.
	CycleLayout string `yaml:"cycle_layout,omitempty"`
}

// Config holds the daemon configuration.
type Config struct {
	// SocketPath overrides the runtime-dir IPC socket location.
	SocketPath string `yaml:"socket_path,omitempty"`
	// ProfileDir overrides where the profile INI files live.
	ProfileDir     string   `yaml:"profile_dir,omitempty"`
	PollIntervalMS int      `yaml:"poll_interval_ms"`
	ApplyDelayMS   int      `yaml:"apply_delay_ms"` // 0 keeps the built-in default
	TaskbarHeight  int      `yaml:"taskbar_height"`
	IgnoredTitles  []string `yaml:"ignored_titles"`
	LogLevel       string   `yaml:"log_level"`
	WatchProfiles  bool     `yaml:"watch_profiles"`
	DetectOnStart  bool     `yaml:"detect_on_start"`
	Hotkeys        Hotkeys  `yaml:"hotkeys"`
}

// DefaultIgnoredTitles lists windows no profile should ever manage: our own
// surfaces plus the usual shell windows that carry generic titles.
func DefaultIgnoredTitles() []string {
	return []string{
		"ultratile",
		"program manager",
		"windows input experience",
		"microsoft text input application",
		"settings",
		"windows shell experience host",
	}
}

func DefaultConfig() *Config {
	return &Config{
		PollIntervalMS: 500,
		ApplyDelayMS:   100,
		TaskbarHeight:  48,
		IgnoredTitles:  DefaultIgnoredTitles(),
		LogLevel:       "info",
		WatchProfiles:  true,
		Hotkeys: Hotkeys{
			ToggleAOT: "Mod4-Mod1-a", // Super+Alt+A
		},
	}
}

// DefaultConfigPath is where Load looks without an explicit path.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "ultratile", "config.yaml")
}

// DefaultProfileDir is where profiles live when profile_dir is unset.
func DefaultProfileDir() string {
	return filepath.Join(xdg.ConfigHome, "ultratile", "configs")
}

// DefaultPresetsPath is where layout cycle state persists.
func DefaultPresetsPath() string {
	return filepath.Join(xdg.ConfigHome, "ultratile", "presets.toml")
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	return LoadFromPath(DefaultConfigPath())
}

// LoadFromPath reads and validates a config file. Unknown keys are errors;
// fields left out keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := decodeStrictYAML(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

// Validate checks every field, reporting the first problem.
func (c *Config) Validate() error {
	if c.PollIntervalMS <= 0 {
		return &ValidationError{Path: "poll_interval_ms", Err: fmt.Errorf("poll_interval_ms must be > 0")}
	}
	if c.ApplyDelayMS < 0 {
		return &ValidationError{Path: "apply_delay_ms", Err: fmt.Errorf("apply_delay_ms must be >= 0")}
	}
	if c.TaskbarHeight < 0 {
		return &ValidationError{Path: "taskbar_height", Err: fmt.Errorf("taskbar_height must be >= 0")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	for i, title := range c.IgnoredTitles {
		if strings.TrimSpace(title) == "" {
			return &ValidationError{Path: fmt.Sprintf("ignored_titles[%d]", i), Err: fmt.Errorf("ignored title must not be blank")}
		}
	}
	return nil
}

// PollInterval returns poll_interval_ms as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// ApplyDelay returns apply_delay_ms as a duration.
func (c *Config) ApplyDelay() time.Duration {
	return time.Duration(c.ApplyDelayMS) * time.Millisecond
}

// EffectiveProfileDir resolves profile_dir, expanding a leading ~.
func (c *Config) EffectiveProfileDir() string {
	if strings.TrimSpace(c.ProfileDir) == "" {
		return DefaultProfileDir()
	}
	return expandHome(c.ProfileDir)
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Save validates and writes the config, creating directories as needed.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
