package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/studiofold/internal/history"
	"github.com/danieljhkim/studiofold/internal/manifest"
	"github.com/danieljhkim/studiofold/internal/planner"
)

// Build plans and executes req, writes the manifest and records the build in
// history. Per-action failures are reported in the result, not as an error.
//
// If req.DryRun is true, Build returns after planning.
func (e *Engine) Build(ctx context.Context, req *BuildRequest) (*BuildResult, error) {
	planned, err := e.Plan(ctx, &req.PlanRequest)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{PlanResult: *planned, DryRun: req.DryRun}
	if req.DryRun {
		return result, nil
	}

	plan := planned.Plan
	result.Result = e.builder.Execute(plan.Actions, req.Overwrite)

	in := manifest.BuildInput{
		ProjectRoot:     plan.ProjectRoot,
		TemplateName:    planned.Template.Name,
		TemplateVersion: planned.Template.Version,
		Mode:            plan.Mode,
		Result:          result.Result,
		Clock:           e.clock,
	}
	if plan.Mode == planner.ModeAssets {
		in.Assets = req.Groups
	} else {
		in.Sequences = req.Groups
	}
	rec := manifest.Build(in)
	result.Manifest = rec

	path, err := manifest.Write(e.fs, rec)
	if err != nil {
		return result, fmt.Errorf("failed to write manifest: %w", err)
	}
	result.ManifestPath = path

	e.logger.Info("build finished",
		"build_id", rec.BuildID,
		"project", plan.ProjectRoot,
		"created_dirs", rec.Results.CreatedDirs,
		"created_files", rec.Results.CreatedFiles,
		"skipped", rec.Results.Skipped,
		"errors", rec.Results.Errors,
	)

	if e.history != nil {
		if err := e.history.Record(ctx, entryFromManifest(rec)); err != nil {
			// The project and manifest are already on disk.
			e.logger.Warn("failed to record build history", "build_id", rec.BuildID, "error", err)
		}
	}

	return result, nil
}

func entryFromManifest(rec *manifest.Record) history.Entry {
	return history.Entry{
		ID:              rec.BuildID,
		ExecutedAt:      rec.Timestamp,
		Root:            rec.Root,
		Project:         rec.Project,
		Template:        rec.Template,
		TemplateVersion: rec.TemplateVersion,
		Mode:            rec.Mode,
		Overwrite:       rec.Overwrite,
		CreatedDirs:     rec.Results.CreatedDirs,
		CreatedFiles:    rec.Results.CreatedFiles,
		Skipped:         rec.Results.Skipped,
		Errors:          rec.Results.Errors,
		ManifestPath:    rec.ManifestPath,
	}
}
