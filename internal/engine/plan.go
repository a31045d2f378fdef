package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/studiofold/internal/planner"
)

// Plan resolves the template and generates the plan for req, along with the
// preflight conflicts against what is already on disk. Nothing is modified.
func (e *Engine) Plan(ctx context.Context, req *PlanRequest) (*PlanResult, error) {
	if err := e.validate(req); err != nil {
		return nil, err
	}

	info, err := e.Template(req.TemplateID)
	if err != nil {
		return nil, err
	}

	var plan *planner.Plan
	switch req.Mode {
	case planner.ModeShots:
		plan = planner.PlanShots(req.Root, req.Project, info.Template, req.Groups)
	case planner.ModeAssets:
		plan = planner.PlanAssets(req.Root, req.Project, info.Template, req.Groups)
	}
	for _, w := range plan.Warnings {
		e.logger.Warn("plan warning", "template", info.ID, "warning", w)
	}

	dirs, files := plan.Counts()
	e.logger.Debug("plan generated", "template", info.ID, "mode", plan.Mode, "dirs", dirs, "files", files)

	return &PlanResult{
		Template:  info,
		Plan:      plan,
		Conflicts: planner.Preflight(e.fs, plan, req.Overwrite),
	}, nil
}

// validate checks a request before any template is read. Every user-supplied
// name must be a single path segment.
func (e *Engine) validate(req *PlanRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrValidation)
	}
	if strings.TrimSpace(req.Root) == "" {
		return fmt.Errorf("%w: root directory is required", ErrValidation)
	}
	if !filepath.IsAbs(req.Root) {
		abs, err := filepath.Abs(req.Root)
		if err != nil {
			return fmt.Errorf("failed to resolve root: %w", err)
		}
		req.Root = abs
	}
	if err := e.fs.ValidateName(req.Project); err != nil {
		return fmt.Errorf("%w: project: %v", ErrValidation, err)
	}
	if strings.TrimSpace(req.TemplateID) == "" {
		return fmt.Errorf("%w: template is required", ErrValidation)
	}

	switch req.Mode {
	case planner.ModeShots:
		if req.Groups.Empty() {
			return fmt.Errorf("%w: mode is 'shots' but no sequences were given", ErrValidation)
		}
	case planner.ModeAssets:
		if req.Groups.Empty() {
			return fmt.Errorf("%w: mode is 'assets' but no asset categories were given", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrValidation, req.Mode)
	}

	for _, g := range req.Groups {
		if err := e.fs.ValidateName(g.Name); err != nil {
			return fmt.Errorf("%w: group %q: %v", ErrValidation, g.Name, err)
		}
		for _, item := range g.Items {
			if err := e.fs.ValidateName(item); err != nil {
				return fmt.Errorf("%w: %s/%s: %v", ErrValidation, g.Name, item, err)
			}
		}
	}
	return nil
}
