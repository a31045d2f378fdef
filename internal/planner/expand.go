package planner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danieljhkim/studiofold/internal/template"
)

// ExpandTree expands a two-level folder -> children tree under base. Each
// folder becomes a directory; each child becomes a file or a directory by the
// starter-file rule. A malformed branch still creates its folder, but its
// children are skipped and a warning is returned for it. Children dropped at
// load time are also reported.
func ExpandTree(base string, tree template.Tree) ([]Action, []string) {
	var (
		actions  []Action
		warnings []string
	)
	for _, branch := range tree {
		folder := filepath.Join(base, branch.Folder)
		actions = append(actions, Dir(folder))

		if branch.Malformed {
			warnings = append(warnings, fmt.Sprintf("skipped children of %s: tree value is not a list", filepath.ToSlash(folder)))
			continue
		}
		for _, child := range branch.Children {
			actions = append(actions, entry(folder, child))
		}
		if branch.Dropped > 0 {
			warnings = append(warnings, droppedWarning(branch.Dropped, filepath.ToSlash(folder)))
		}
	}
	return actions, warnings
}

func droppedWarning(n int, where string) string {
	return fmt.Sprintf("skipped %d invalid entries of %s: entries must be non-empty strings", n, where)
}

// entry classifies name as a file or directory under dir.
func entry(dir, name string) Action {
	path := filepath.Join(dir, name)
	if template.IsStarterFile(name) {
		return File(path)
	}
	return Dir(path)
}

// DedupeSort drops repeated (kind, path) actions, keeping the first, and sorts
// the rest by case-insensitive path with directories before files. The sort
// makes plans deterministic; it does not guarantee parents precede children.
func DedupeSort(actions []Action) []Action {
	seen := make(map[Action]bool, len(actions))
	unique := make([]Action, 0, len(actions))
	for _, a := range actions {
		if seen[a] {
			continue
		}
		seen[a] = true
		unique = append(unique, a)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		a, b := unique[i], unique[j]
		ap, bp := strings.ToLower(a.Path), strings.ToLower(b.Path)
		if ap != bp {
			return ap < bp
		}
		if ar, br := kindRank(a.Kind), kindRank(b.Kind); ar != br {
			return ar < br
		}
		return a.Kind < b.Kind
	})
	return unique
}

func kindRank(k Kind) int {
	if k == KindDir {
		return 0
	}
	return 1
}
