package planner

import (
	"fmt"
	"path/filepath"
)

// Kind is the kind of filesystem entry an action creates.
type Kind string

const (
	KindDir  Kind = "dir"
	KindFile Kind = "file"
)

// Project layouts.
const (
	ModeShots  = "shots"
	ModeAssets = "assets"
)

// Action is a single planned creation. Actions are values; two actions with the
// same kind and path are the same action.
type Action struct {
	Kind Kind   `json:"type"`
	Path string `json:"path"`
}

// Dir returns a directory action for path.
func Dir(path string) Action {
	return Action{Kind: KindDir, Path: path}
}

// File returns a file action for path.
func File(path string) Action {
	return Action{Kind: KindFile, Path: path}
}

// SlashPath returns the action path with forward slashes.
func (a Action) SlashPath() string {
	return filepath.ToSlash(a.Path)
}

func (a Action) String() string {
	return fmt.Sprintf("%-4s %s", a.Kind, a.Path)
}

// Plan is an ordered list of unique actions for one project.
type Plan struct {
	// Mode is the layout the plan was generated for.
	Mode string `json:"mode"`

	// ProjectRoot is root/project.
	ProjectRoot string `json:"project_root"`

	// Actions is the deduplicated, sorted list of actions.
	Actions []Action `json:"actions"`

	// Warnings records template branches skipped during expansion.
	Warnings []string `json:"warnings,omitempty"`
}

// Counts returns the number of directory and file actions.
func (p *Plan) Counts() (dirs, files int) {
	for _, a := range p.Actions {
		if a.Kind == KindDir {
			dirs++
		} else {
			files++
		}
	}
	return dirs, files
}

// HasWarnings returns true if any template branch was skipped.
func (p *Plan) HasWarnings() bool {
	return len(p.Warnings) > 0
}
