package engine

import (
	"github.com/danieljhkim/studiofold/internal/builder"
	"github.com/danieljhkim/studiofold/internal/manifest"
	"github.com/danieljhkim/studiofold/internal/planner"
	"github.com/danieljhkim/studiofold/internal/template"
)

// PlanResult represents a generated plan and what already exists on disk.
type PlanResult struct {
	// Template is the template the plan was generated from
	Template *template.Info `json:"template"`

	// Plan is the generated plan
	Plan *planner.Plan `json:"plan"`

	// Conflicts lists plan targets that already exist or are blocked
	Conflicts []planner.Conflict `json:"conflicts"`
}

// BuildResult represents the result of a build.
type BuildResult struct {
	PlanResult

	// DryRun is true if nothing was executed
	DryRun bool `json:"dry_run"`

	// Result holds the per-action outcomes (nil if DryRun)
	Result *builder.Result `json:"result,omitempty"`

	// Manifest is the recorded manifest (nil if DryRun)
	Manifest *manifest.Record `json:"manifest,omitempty"`

	// ManifestPath is where the manifest was written
	ManifestPath string `json:"manifest_path,omitempty"`
}

// HasErrors returns true if any action failed.
func (r *BuildResult) HasErrors() bool {
	return r.Result != nil && r.Result.HasErrors()
}
