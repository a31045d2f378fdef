// Package builder executes creation plans against the filesystem.
//
// Execution is sequential and never stops early: every action gets an Outcome,
// and a failing action only affects its own outcome. All directory actions run
// before any file action, which is what guarantees parents exist; the plan's
// sort order is not relied on.
package builder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/studiofold/internal/fsops"
	"github.com/danieljhkim/studiofold/internal/planner"
)

// Status is the result of executing one action.
type Status string

const (
	StatusCreated Status = "created"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Outcome messages.
const (
	MsgCreated     = "created"
	MsgOverwritten = "overwritten"
	MsgDirExists   = "already exists"
	MsgFileExists  = "file already exists, overwrite OFF"
)

// Banner is written into Markdown starter files.
const Banner = "Created by studiofold."

// Outcome records what happened to a single action.
type Outcome struct {
	Action  planner.Action `json:"action"`
	Status  Status         `json:"status"`
	Message string         `json:"message"`
}

// Result aggregates the outcomes of one execution.
type Result struct {
	CreatedDirs  int       `json:"created_dirs"`
	CreatedFiles int       `json:"created_files"`
	Skipped      int       `json:"skipped"`
	Errors       int       `json:"errors"`
	Overwrite    bool      `json:"overwrite"`
	Outcomes     []Outcome `json:"outcomes"`
}

// HasErrors returns true if any action failed.
func (r *Result) HasErrors() bool {
	return r.Errors > 0
}

// Builder executes plans.
type Builder struct {
	fs     fsops.FS
	logger *slog.Logger
}

// New creates a Builder. A nil logger discards output.
func New(fs fsops.FS, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{
		fs:     fs,
		logger: logger,
	}
}

// Execute runs every action and returns the outcomes in the order of actions.
// Directory actions run first, then file actions, each group in plan order.
func (b *Builder) Execute(actions []planner.Action, overwrite bool) *Result {
	result := &Result{
		Overwrite: overwrite,
		Outcomes:  make([]Outcome, len(actions)),
	}

	var dirs, files []int
	for i, a := range actions {
		if a.Kind == planner.KindDir {
			dirs = append(dirs, i)
		} else {
			files = append(files, i)
		}
	}

	for _, i := range append(dirs, files...) {
		a := actions[i]

		var (
			status  Status
			message string
			err     error
		)
		switch a.Kind {
		case planner.KindDir:
			status, message, err = b.makeDir(a.Path)
		case planner.KindFile:
			status, message, err = b.makeFile(a.Path, overwrite)
		default:
			err = fmt.Errorf("unknown action type %q", a.Kind)
		}
		if err != nil {
			status, message = StatusError, err.Error()
		}

		result.Outcomes[i] = Outcome{Action: a, Status: status, Message: message}
		b.record(result, a, status, message)
	}

	return result
}

func (b *Builder) record(result *Result, a planner.Action, status Status, message string) {
	switch status {
	case StatusCreated:
		if a.Kind == planner.KindDir {
			result.CreatedDirs++
		} else {
			result.CreatedFiles++
		}
		b.logger.Debug(message, "type", a.Kind, "path", a.Path)
	case StatusSkipped:
		result.Skipped++
		b.logger.Debug("skipped", "type", a.Kind, "path", a.Path, "reason", message)
	case StatusError:
		result.Errors++
		b.logger.Warn("action failed", "type", a.Kind, "path", a.Path, "error", message)
	}
}

func (b *Builder) makeDir(path string) (Status, string, error) {
	info, err := b.fs.Stat(path)
	if err == nil {
		if info.IsDir() {
			return StatusSkipped, MsgDirExists, nil
		}
		return "", "", fmt.Errorf("cannot create directory %s: a file exists at that path", path)
	}

	if err := b.fs.MkdirAll(path, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create directory: %w", err)
	}
	return StatusCreated, MsgCreated, nil
}

func (b *Builder) makeFile(path string, overwrite bool) (Status, string, error) {
	if err := b.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", "", fmt.Errorf("failed to create parent directory: %w", err)
	}

	message := MsgCreated
	info, err := b.fs.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return "", "", fmt.Errorf("cannot write file %s: a directory exists at that path", path)
	case err == nil && !overwrite:
		return StatusSkipped, MsgFileExists, nil
	case err == nil:
		message = MsgOverwritten
	case !errors.Is(err, os.ErrNotExist):
		return "", "", fmt.Errorf("failed to check file: %w", err)
	}

	if err := b.fs.AtomicWrite(path, StarterContent(path), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}
	return StatusCreated, message, nil
}

// StarterContent returns the initial content of a starter file by extension.
func StarterContent(path string) []byte {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return []byte("# Notes\n\n" + Banner + "\n")
	case ".json":
		return []byte("{}\n")
	default:
		return []byte{}
	}
}
