package planner

import (
	"path/filepath"

	"github.com/danieljhkim/studiofold/internal/template"
)

// PlanShots plans a shots-mode project:
//
//	<root>/<project>/<project_folders...>
//	<root>/<project>/sequences/<seq>/<shot>/<shot_tree...>
//
// Sequences and shots are visited in input order before DedupeSort runs.
func PlanShots(root, project string, tmpl *template.Template, sequences Groups) *Plan {
	projectRoot := filepath.Join(root, project)
	actions, warnings := projectFolders(projectRoot, tmpl)

	sequencesRoot := filepath.Join(projectRoot, "sequences")
	actions = append(actions, Dir(sequencesRoot))

	for _, seq := range sequences {
		seqRoot := filepath.Join(sequencesRoot, seq.Name)
		actions = append(actions, Dir(seqRoot))

		for _, shot := range seq.Items {
			shotRoot := filepath.Join(seqRoot, shot)
			actions = append(actions, Dir(shotRoot))

			expanded, warns := ExpandTree(shotRoot, tmpl.ShotTree)
			actions = append(actions, expanded...)
			warnings = append(warnings, warns...)
		}
	}

	return &Plan{
		Mode:        ModeShots,
		ProjectRoot: projectRoot,
		Actions:     DedupeSort(actions),
		Warnings:    warnings,
	}
}

func projectFolders(projectRoot string, tmpl *template.Template) ([]Action, []string) {
	actions := make([]Action, 0, len(tmpl.ProjectFolders)+1)
	for _, name := range tmpl.ProjectFolders {
		actions = append(actions, Dir(filepath.Join(projectRoot, name)))
	}
	var warnings []string
	if tmpl.DroppedFolders > 0 {
		warnings = append(warnings, droppedWarning(tmpl.DroppedFolders, "project_folders"))
	}
	return actions, warnings
}
