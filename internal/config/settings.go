package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the user-editable config.toml.
type Settings struct {
	// TemplatesDir relocates the template directory.
	TemplatesDir string `toml:"templates_dir"`

	// DefaultRoot is used when a build does not pass --root.
	DefaultRoot string `toml:"default_root"`

	// LogLevel is the default log level.
	LogLevel string `toml:"log_level"`

	// HistoryLimit is the number of rows `history` prints by default.
	HistoryLimit int `toml:"history_limit"`

	// Tracking holds production-tracking credentials.
	Tracking TrackingSettings `toml:"tracking"`
}

// TrackingSettings configures the production-tracking integration.
type TrackingSettings struct {
	URL        string `toml:"url"`
	ScriptName string `toml:"script_name"`
	ScriptKey  string `toml:"script_key"`
	ProjectID  int    `toml:"project_id"`
}

// DefaultSettings returns the settings used when no config.toml exists.
func DefaultSettings() *Settings {
	return &Settings{
		LogLevel:     "warn",
		HistoryLimit: 20,
	}
}

// LoadSettings reads the TOML settings file at path. A missing file yields the
// defaults; a malformed one is an error.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read settings: %w", err)
	default:
		if err := toml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
	}

	if settings.HistoryLimit <= 0 {
		settings.HistoryLimit = DefaultSettings().HistoryLimit
	}
	if env := strings.TrimSpace(os.Getenv(EnvLogLevel)); env != "" {
		settings.LogLevel = env
	}

	return settings, nil
}

// SaveSettings writes settings to path as TOML.
func SaveSettings(path string, s *Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
