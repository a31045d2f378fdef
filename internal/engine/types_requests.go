package engine

import "github.com/danieljhkim/studiofold/internal/planner"

// PlanRequest represents a request to plan a project.
type PlanRequest struct {
	// Root is the directory the project folder is created in
	Root string

	// Project is the project folder name
	Project string

	// TemplateID is the template filename without extension
	TemplateID string

	// Mode is the project layout ("shots" or "assets")
	Mode string

	// Groups are the sequences (shots mode) or asset categories (assets mode)
	Groups planner.Groups

	// Overwrite reports existing starter files as overwritten rather than skipped
	Overwrite bool
}

// BuildRequest represents a request to plan and execute a project.
type BuildRequest struct {
	PlanRequest

	// DryRun performs planning only without making changes
	DryRun bool
}

// SaveJobRequest represents a request to save build inputs as a job file.
type SaveJobRequest struct {
	PlanRequest

	// Path is where the job file is written
	Path string
}
