// Package config manages studiofold configuration and filesystem paths.
//
// Configuration includes the location of the studiofold home directory, the template
// directory handed to the template loader, the build history database and the
// settings file. Locations can be customized via environment variables (optionally
// supplied through a .env file) and the TOML settings file. The default home is
// ~/.studiofold/ containing templates/, history.db and config.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvHome overrides the studiofold home directory.
	EnvHome = "STUDIOFOLD_HOME"

	// EnvTemplates overrides the template directory.
	EnvTemplates = "STUDIOFOLD_TEMPLATES"

	// EnvLogLevel sets the default log level (debug, info, warn, error).
	EnvLogLevel = "STUDIOFOLD_LOG_LEVEL"
)

// Paths contains all the filesystem paths used by studiofold.
type Paths struct {
	// Root is the base directory for all studiofold data (default: ~/.studiofold)
	Root string

	// Templates is the directory scanned for template documents
	Templates string

	// History is the path to the build history database
	History string

	// Settings is the path to the TOML settings file
	Settings string
}

// LoadEnv loads KEY=value pairs from the given .env files (default: ./.env) into
// the process environment. Variables already set are never overridden and
// missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// DefaultPaths returns the default paths for studiofold.
// Paths can be overridden with environment variables:
//   - STUDIOFOLD_HOME: Override the root directory
//   - STUDIOFOLD_TEMPLATES: Override the template directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(EnvHome)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".studiofold")
	}

	templates := os.Getenv(EnvTemplates)
	if templates == "" {
		templates = filepath.Join(root, "templates")
	}

	return &Paths{
		Root:      root,
		Templates: templates,
		History:   filepath.Join(root, "history.db"),
		Settings:  filepath.Join(root, "config.toml"),
	}, nil
}

// ApplySettings lets the settings file relocate the template directory unless the
// environment already did.
func (p *Paths) ApplySettings(s *Settings) {
	if s == nil || strings.TrimSpace(s.TemplatesDir) == "" {
		return
	}
	if os.Getenv(EnvTemplates) != "" {
		return
	}
	p.Templates = expandHome(s.TemplatesDir)
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Templates,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func expandHome(p string) string {
	p = strings.TrimSpace(p)
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
