package planner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/studiofold/internal/fsops"
)

// Effects a pre-existing target has on an action.
const (
	EffectSkip      = "skip"
	EffectOverwrite = "overwrite"
	EffectError     = "error"
)

// Conflict describes an action whose target is already occupied.
type Conflict struct {
	// Path is the action target.
	Path string `json:"path"`

	// Effect is what executing the action will do: skip, overwrite or error.
	Effect string `json:"effect"`

	// Reason is a human-readable explanation of the conflict.
	Reason string `json:"reason"`

	// Existing describes what currently exists at the path.
	Existing string `json:"existing"`

	// Incoming describes what the plan wants to create.
	Incoming Kind `json:"incoming"`
}

// Blocking returns true if the action will fail.
func (c Conflict) Blocking() bool {
	return c.Effect == EffectError
}

// ConflictChecker inspects the filesystem for existing plan targets.
type ConflictChecker struct {
	fs        fsops.FS
	overwrite bool
}

// NewConflictChecker creates a new ConflictChecker.
func NewConflictChecker(fs fsops.FS, overwrite bool) *ConflictChecker {
	return &ConflictChecker{
		fs:        fs,
		overwrite: overwrite,
	}
}

// Preflight checks every action of plan and returns the conflicts in plan order.
func Preflight(fs fsops.FS, plan *Plan, overwrite bool) []Conflict {
	checker := NewConflictChecker(fs, overwrite)
	conflicts := []Conflict{}
	for _, a := range plan.Actions {
		if c := checker.CheckAction(a); c != nil {
			conflicts = append(conflicts, *c)
		}
	}
	return conflicts
}

// CheckAction checks the target of a single action.
// Returns a Conflict if the target or one of its ancestors is occupied, or nil
// if the action will create something new.
func (c *ConflictChecker) CheckAction(a Action) *Conflict {
	info, err := c.fs.Stat(a.Path)
	if err != nil {
		if blocked := c.checkAncestors(a); blocked != nil {
			return blocked
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &Conflict{
			Path:     a.Path,
			Effect:   EffectError,
			Reason:   fmt.Sprintf("failed to check path: %v", err),
			Existing: "unknown",
			Incoming: a.Kind,
		}
	}

	existing := KindFile
	if info.IsDir() {
		existing = KindDir
	}

	// Type check (file vs directory)
	if existing != a.Kind {
		return &Conflict{
			Path:     a.Path,
			Effect:   EffectError,
			Reason:   fmt.Sprintf("type mismatch: existing is %s, incoming is %s", existing, a.Kind),
			Existing: string(existing),
			Incoming: a.Kind,
		}
	}

	if a.Kind == KindFile && c.overwrite {
		return &Conflict{
			Path:     a.Path,
			Effect:   EffectOverwrite,
			Reason:   "file exists and will be overwritten",
			Existing: string(existing),
			Incoming: a.Kind,
		}
	}

	reason := "already exists"
	if a.Kind == KindFile {
		reason = "file already exists, overwrite OFF"
	}
	return &Conflict{
		Path:     a.Path,
		Effect:   EffectSkip,
		Reason:   reason,
		Existing: string(existing),
		Incoming: a.Kind,
	}
}

// checkAncestors walks up from a missing target to the nearest existing
// ancestor. Anything other than a directory there blocks creation.
func (c *ConflictChecker) checkAncestors(a Action) *Conflict {
	dir := filepath.Dir(a.Path)
	for {
		info, err := c.fs.Stat(dir)
		if err == nil {
			if info.IsDir() {
				return nil
			}
			return &Conflict{
				Path:     a.Path,
				Effect:   EffectError,
				Reason:   fmt.Sprintf("parent %s is not a directory", filepath.ToSlash(dir)),
				Existing: "missing",
				Incoming: a.Kind,
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}
