package engine

import (
	"fmt"

	"github.com/danieljhkim/studiofold/internal/jobconfig"
	"github.com/danieljhkim/studiofold/internal/planner"
)

// SaveJob validates the build inputs in req and writes them as a job file.
// The template is not resolved; a job may name a template that is added later.
func (e *Engine) SaveJob(req *SaveJobRequest) (*jobconfig.Config, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("%w: job path is required", ErrValidation)
	}
	if err := e.validate(&req.PlanRequest); err != nil {
		return nil, err
	}

	p := jobconfig.Params{
		Root:       req.Root,
		Project:    req.Project,
		TemplateID: req.TemplateID,
		Mode:       req.Mode,
		Overwrite:  req.Overwrite,
		Version:    e.version,
	}
	if req.Mode == planner.ModeAssets {
		p.Assets = req.Groups
	} else {
		p.Sequences = req.Groups
	}
	cfg := jobconfig.New(p, e.clock)

	if err := jobconfig.Write(e.fs, req.Path, cfg); err != nil {
		return nil, err
	}
	e.logger.Debug("job saved", "path", req.Path, "mode", cfg.Mode)
	return cfg, nil
}

// LoadJob reads and checks a job file.
func (e *Engine) LoadJob(path string) (*jobconfig.Config, error) {
	cfg, err := jobconfig.Read(e.fs, path)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("job loaded", "path", path, "mode", cfg.Mode)
	return cfg, nil
}

// RequestFromJob converts a job into a build request.
func RequestFromJob(cfg *jobconfig.Config) *BuildRequest {
	return &BuildRequest{
		PlanRequest: PlanRequest{
			Root:       cfg.Root,
			Project:    cfg.Project,
			TemplateID: cfg.TemplateID,
			Mode:       cfg.Mode,
			Groups:     cfg.Groups(),
			Overwrite:  cfg.Overwrite,
		},
	}
}
