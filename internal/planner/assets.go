package planner

import (
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/studiofold/internal/template"
)

// fallbackCategory is used for categories the template does not define, so
// ad-hoc categories still get a usable skeleton.
var fallbackCategory = template.Tree{
	{Folder: "work"},
	{Folder: "publish"},
	{Folder: "docs", Children: []string{"notes.md"}},
}

// PlanAssets plans an assets-mode project:
//
//	<root>/<project>/<project_folders...>
//	<root>/<project>/assets/<category>/<asset>/<asset_tree[category]...>
//
// A list category creates its entries directly under each asset. A mapping
// category is expanded as a two-level tree. A category missing from the
// template gets work/, publish/ and docs/notes.md.
func PlanAssets(root, project string, tmpl *template.Template, assets Groups) *Plan {
	projectRoot := filepath.Join(root, project)
	actions, warnings := projectFolders(projectRoot, tmpl)

	assetsRoot := filepath.Join(projectRoot, "assets")
	actions = append(actions, Dir(assetsRoot))

	for _, group := range assets {
		categoryRoot := filepath.Join(assetsRoot, group.Name)
		actions = append(actions, Dir(categoryRoot))

		category, defined := tmpl.Category(group.Name)
		if defined && category.Shape == template.ShapeInvalid && len(group.Items) > 0 {
			warnings = append(warnings, fmt.Sprintf("skipped contents of category %s: asset_tree value is neither a list nor an object", group.Name))
		}
		if defined && category.Shape == template.ShapeList && category.Dropped > 0 && len(group.Items) > 0 {
			warnings = append(warnings, droppedWarning(category.Dropped, "category "+group.Name))
		}

		for _, asset := range group.Items {
			assetRoot := filepath.Join(categoryRoot, asset)
			actions = append(actions, Dir(assetRoot))

			switch {
			case !defined:
				expanded, _ := ExpandTree(assetRoot, fallbackCategory)
				actions = append(actions, expanded...)
			case category.Shape == template.ShapeList:
				for _, name := range category.Items {
					actions = append(actions, entry(assetRoot, name))
				}
			case category.Shape == template.ShapeTree:
				expanded, warns := ExpandTree(assetRoot, category.Tree)
				actions = append(actions, expanded...)
				warnings = append(warnings, warns...)
			}
		}
	}

	return &Plan{
		Mode:        ModeAssets,
		ProjectRoot: projectRoot,
		Actions:     DedupeSort(actions),
		Warnings:    warnings,
	}
}
