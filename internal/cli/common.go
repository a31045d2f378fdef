package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/danieljhkim/studiofold/internal/clock"
	"github.com/danieljhkim/studiofold/internal/config"
	"github.com/danieljhkim/studiofold/internal/engine"
	"github.com/danieljhkim/studiofold/internal/fsops"
	"github.com/danieljhkim/studiofold/internal/hash"
	"github.com/danieljhkim/studiofold/internal/history"
	"github.com/danieljhkim/studiofold/internal/template"
)

// runtimeEnv is the resolved configuration shared by all commands.
type runtimeEnv struct {
	paths    *config.Paths
	settings *config.Settings
	logger   *slog.Logger
}

// loadRuntime resolves paths and settings from .env, the environment,
// config.toml and the global flags, in increasing order of precedence.
func loadRuntime() (*runtimeEnv, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	settings, err := config.LoadSettings(paths.Settings)
	if err != nil {
		return nil, err
	}
	paths.ApplySettings(settings)
	if templatesDir != "" {
		paths.Templates = templatesDir
	}

	level := settings.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger, err := newLogger(os.Stderr, level)
	if err != nil {
		return nil, err
	}

	return &runtimeEnv{paths: paths, settings: settings, logger: logger}, nil
}

// newLogger creates a text logger at the named level. An empty level means warn.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "warn"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// newEngine creates a new engine with real implementations of all dependencies.
// The returned close function releases the history store.
func (r *runtimeEnv) newEngine() (*engine.Engine, func(), error) {
	fs := fsops.NewRealFS()
	loader, err := template.NewLoader(r.paths.Templates, fs, hash.NewSHA256Hasher(),
		template.WithLogger(r.logger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create template loader: %w", err)
	}

	// History is optional; a build still succeeds without it.
	var hist history.Store
	closeFn := func() {}
	store, err := history.Open(r.paths.History)
	if err != nil {
		r.logger.Warn("build history unavailable", "path", r.paths.History, "error", err)
	} else {
		hist = store
		closeFn = func() {
			if err := store.Close(); err != nil {
				r.logger.Warn("failed to close build history", "error", err)
			}
		}
	}

	eng := engine.New(loader, hist, fs, &clock.RealClock{}, r.logger, rootCmd.Version)
	return eng, closeFn, nil
}

// FormatError formats an error for display.
func FormatError(err error) string {
	initColors()
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
