// Package engine provides the core business logic for studiofold operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// lower-level operations. It coordinates template loading, planning, plan
// execution, manifest recording and build history.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Templates/Template: Template discovery and lookup
//   - Plan/Build: Plan generation, preflight and execution
//   - SaveJob/LoadJob: Persisted build inputs
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/studiofold/internal/builder"
	"github.com/danieljhkim/studiofold/internal/clock"
	"github.com/danieljhkim/studiofold/internal/fsops"
	"github.com/danieljhkim/studiofold/internal/history"
	"github.com/danieljhkim/studiofold/internal/template"
)

// Engine orchestrates all studiofold operations.
// It is the main API surface called by the CLI.
type Engine struct {
	loader  *template.Loader
	builder *builder.Builder
	history history.Store
	fs      fsops.FS
	clock   clock.Clock
	logger  *slog.Logger
	version string
}

// New creates a new Engine with the given dependencies. A nil history store
// disables build history; a nil logger discards log output.
func New(
	loader *template.Loader,
	hist history.Store,
	fs fsops.FS,
	clk clock.Clock,
	logger *slog.Logger,
	version string,
) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		loader:  loader,
		builder: builder.New(fs, logger),
		history: hist,
		fs:      fs,
		clock:   clk,
		logger:  logger,
		version: version,
	}
}

// TemplateDir returns the directory templates are loaded from.
func (e *Engine) TemplateDir() string {
	return e.loader.Dir()
}

// Templates loads every template in the template directory.
func (e *Engine) Templates() (*template.LoadResult, error) {
	res, err := e.loader.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	for file, issues := range res.Problems {
		e.logger.Debug("template rejected", "file", file, "issues", len(issues))
	}
	return res, nil
}

// Template returns the valid template with the given ID.
// Returns ErrInvalidTemplate if a file with that ID exists but has problems,
// and ErrNotFound otherwise.
func (e *Engine) Template(id string) (*template.Info, error) {
	res, err := e.Templates()
	if err != nil {
		return nil, err
	}
	if info, ok := res.Find(id); ok {
		return info, nil
	}
	for _, file := range res.ProblemFiles() {
		if strings.TrimSuffix(file, filepath.Ext(file)) != id {
			continue
		}
		msgs := make([]string, 0, len(res.Problems[file]))
		for _, issue := range res.Problems[file] {
			msgs = append(msgs, issue.String())
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidTemplate, file, strings.Join(msgs, "; "))
	}
	return nil, fmt.Errorf("%w: template %q in %s", ErrNotFound, id, e.loader.Dir())
}

// CheckTemplate loads and validates a single template file, which need not
// live in the template directory.
func (e *Engine) CheckTemplate(path string) (*template.Info, []template.Issue) {
	return e.loader.Load(path)
}
