package tracking

import (
	"sort"

	"github.com/danieljhkim/studiofold/internal/input"
	"github.com/danieljhkim/studiofold/internal/planner"
)

// FormatText renders groups as "SEQ: SH, SH" lines sorted by sequence, ready to
// be saved as build input. Empty groups are left out.
func FormatText(groups planner.Groups) string {
	sorted := make(planner.Groups, 0, len(groups))
	for _, g := range groups {
		if len(g.Items) > 0 {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return input.Format(sorted)
}
