// Package jobconfig saves and loads the inputs of a build so it can be re-run.
package jobconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/studiofold/internal/clock"
	"github.com/danieljhkim/studiofold/internal/fsops"
	"github.com/danieljhkim/studiofold/internal/input"
	"github.com/danieljhkim/studiofold/internal/planner"
)

// Tool is the tool name recorded in job files.
const Tool = "studiofold"

// ErrInvalidJob is returned when a job file is malformed or inconsistent.
var ErrInvalidJob = errors.New("invalid job configuration")

var requiredKeys = []string{"tool", "version", "timestamp", "root", "project", "template_id", "mode", "overwrite"}

// Config is a saved job.
type Config struct {
	Tool       string         `json:"tool"`
	Version    string         `json:"version"`
	Timestamp  string         `json:"timestamp"`
	Root       string         `json:"root"`
	Project    string         `json:"project"`
	TemplateID string         `json:"template_id"`
	Mode       string         `json:"mode"`
	Overwrite  bool           `json:"overwrite"`
	Sequences  planner.Groups `json:"sequences"`
	Assets     planner.Groups `json:"assets"`
}

// Params are the user inputs captured by New.
type Params struct {
	Root       string
	Project    string
	TemplateID string
	Mode       string
	Overwrite  bool
	Sequences  planner.Groups
	Assets     planner.Groups

	// Version is the tool version recorded in the file.
	Version string
}

// New creates a Config stamped with the current time. Root is stored with
// forward slashes.
func New(p Params, clk clock.Clock) *Config {
	version := p.Version
	if version == "" {
		version = "dev"
	}
	return &Config{
		Tool:       Tool,
		Version:    version,
		Timestamp:  clock.Stamp(clk),
		Root:       filepath.ToSlash(p.Root),
		Project:    p.Project,
		TemplateID: p.TemplateID,
		Mode:       p.Mode,
		Overwrite:  p.Overwrite,
		Sequences:  p.Sequences,
		Assets:     p.Assets,
	}
}

// Check verifies that the mode is known and its groups are present.
func (c *Config) Check() error {
	switch c.Mode {
	case planner.ModeShots:
		if c.Sequences.Empty() {
			return fmt.Errorf("%w: mode is 'shots' but sequences are missing or empty", ErrInvalidJob)
		}
	case planner.ModeAssets:
		if c.Assets.Empty() {
			return fmt.Errorf("%w: mode is 'assets' but assets are missing or empty", ErrInvalidJob)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidJob, c.Mode)
	}
	return nil
}

// Groups returns the groups for the configured mode.
func (c *Config) Groups() planner.Groups {
	if c.Mode == planner.ModeAssets {
		return c.Assets
	}
	return c.Sequences
}

// Write saves cfg as indented JSON, creating parent directories.
func Write(fs fsops.FS, path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	data = append(data, '\n')

	if err := fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write job: %w", err)
	}
	return nil
}

// Read loads and checks a job file.
func Read(fs fsops.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, fmt.Errorf("%w: must be a JSON object", ErrInvalidJob)
	}
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("%w: missing required key %q", ErrInvalidJob, key)
		}
	}

	cfg := &Config{}
	aux := struct {
		*Config
		Sequences json.RawMessage `json:"sequences"`
		Assets    json.RawMessage `json:"assets"`
	}{Config: cfg}
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	if cfg.Sequences, err = decodeGroups(aux.Sequences); err != nil {
		return nil, err
	}
	if cfg.Assets, err = decodeGroups(aux.Assets); err != nil {
		return nil, err
	}

	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Text renders the groups of the configured mode in input-text format.
func Text(cfg *Config) string {
	return input.Format(cfg.Groups())
}

// decodeGroups decodes an object of groups. Any other value is treated as
// absent.
func decodeGroups(data json.RawMessage) (planner.Groups, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, nil
	}

	var groups planner.Groups
	if err := json.Unmarshal(trimmed, &groups); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	return groups, nil
}
