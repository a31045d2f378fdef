// Package manifest records a JSON audit snapshot of each build.
//
// The manifest is always written to <project>/production/manifest.json. It is
// a one-way record: building or writing it never modifies the plan or the
// build result it describes.
package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/danieljhkim/studiofold/internal/builder"
	"github.com/danieljhkim/studiofold/internal/clock"
	"github.com/danieljhkim/studiofold/internal/fsops"
	"github.com/danieljhkim/studiofold/internal/planner"
)

// Tool is the tool name recorded in manifests.
const Tool = "studiofold"

// Path returns the manifest location for a project root.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, "production", "manifest.json")
}

// Results holds the aggregate counts of a build.
type Results struct {
	CreatedDirs  int `json:"created_dirs"`
	CreatedFiles int `json:"created_files"`
	Skipped      int `json:"skipped"`
	Errors       int `json:"errors"`
}

// ActionRecord is one flattened build outcome.
type ActionRecord struct {
	Type    string `json:"type"`
	Path    string `json:"path"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Record is the manifest document.
type Record struct {
	Tool            string         `json:"tool"`
	BuildID         string         `json:"build_id"`
	Template        string         `json:"template"`
	TemplateVersion string         `json:"template_version"`
	Timestamp       string         `json:"timestamp"`
	Root            string         `json:"root"`
	Project         string         `json:"project"`
	Overwrite       bool           `json:"overwrite"`
	Mode            string         `json:"mode"`
	Sequences       planner.Groups `json:"sequences"`
	Assets          planner.Groups `json:"assets"`
	Results         Results        `json:"results"`
	Actions         []ActionRecord `json:"actions"`
	ManifestPath    string         `json:"manifest_path"`
}

// BuildInput carries everything a manifest describes.
type BuildInput struct {
	ProjectRoot     string
	TemplateName    string
	TemplateVersion string
	Mode            string
	Sequences       planner.Groups
	Assets          planner.Groups
	Result          *builder.Result

	// BuildID identifies the build. A random UUID is used when empty.
	BuildID string

	// Clock supplies the timestamp. The real clock is used when nil.
	Clock clock.Clock
}

// Build creates the manifest record for a build. Only the groups matching the
// mode are recorded; the other is null.
func Build(in BuildInput) *Record {
	clk := in.Clock
	if clk == nil {
		clk = &clock.RealClock{}
	}
	buildID := in.BuildID
	if buildID == "" {
		buildID = uuid.NewString()
	}

	rec := &Record{
		Tool:            Tool,
		BuildID:         buildID,
		Template:        in.TemplateName,
		TemplateVersion: in.TemplateVersion,
		Timestamp:       clock.Stamp(clk),
		Root:            filepath.ToSlash(filepath.Dir(in.ProjectRoot)),
		Project:         filepath.Base(in.ProjectRoot),
		Mode:            in.Mode,
		Actions:         []ActionRecord{},
		ManifestPath:    filepath.ToSlash(Path(in.ProjectRoot)),
	}

	switch in.Mode {
	case planner.ModeShots:
		rec.Sequences = cloneGroups(in.Sequences)
	case planner.ModeAssets:
		rec.Assets = cloneGroups(in.Assets)
	}

	if r := in.Result; r != nil {
		rec.Overwrite = r.Overwrite
		rec.Results = Results{
			CreatedDirs:  r.CreatedDirs,
			CreatedFiles: r.CreatedFiles,
			Skipped:      r.Skipped,
			Errors:       r.Errors,
		}
		for _, o := range r.Outcomes {
			rec.Actions = append(rec.Actions, ActionRecord{
				Type:    string(o.Action.Kind),
				Path:    o.Action.SlashPath(),
				Status:  string(o.Status),
				Message: o.Message,
			})
		}
	}
	return rec
}

// Write persists rec at rec.ManifestPath as indented JSON and returns the
// native path it wrote to.
func Write(fs fsops.FS, rec *Record) (string, error) {
	if rec.ManifestPath == "" {
		return "", fmt.Errorf("manifest has no path")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	data = append(data, '\n')

	path := filepath.FromSlash(rec.ManifestPath)
	if err := fs.AtomicWrite(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

// Read loads a manifest document.
func Read(fs fsops.FS, path string) (*Record, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &rec, nil
}

func cloneGroups(g planner.Groups) planner.Groups {
	if g == nil {
		return planner.Groups{}
	}
	out := make(planner.Groups, len(g))
	for i, group := range g {
		out[i] = planner.Group{Name: group.Name, Items: append([]string(nil), group.Items...)}
	}
	return out
}
