package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Settings is the companion settings blob shared with other front ends.
// Only the hotkey is interpreted here; the rest is carried through.
type Settings struct {
	Compact   bool   `json:"compact"`
	UseImages bool   `json:"use_images"`
	Snap      bool   `json:"snap"`
	Details   bool   `json:"details"`
	Hotkey    string `json:"hotkey"`
}

// DefaultSettings mirrors what a fresh install writes.
func DefaultSettings() Settings {
	return Settings{Hotkey: "Mod4-Mod1-a"}
}

// DefaultSettingsPath is where settings.json lives.
func DefaultSettingsPath() string {
	return filepath.Join(xdg.ConfigHome, "ultratile", "settings.json")
}

// LoadSettings reads settings.json. A missing file yields the defaults; a
// corrupt one yields the defaults along with the parse error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings file: %w", err)
	}
	return s, nil
}

// SaveSettings writes settings.json, creating directories as needed.
func SaveSettings(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
