// Package input parses free-text group lists such as
//
//	SQ010: SH010, SH020
//	SQ020
//	SH010
//	SH030 SH040
//
// into ordered planner.Groups. The same format is used for sequences of shots
// and for asset categories.
package input

import (
	"regexp"
	"strings"

	"github.com/danieljhkim/studiofold/internal/planner"
)

var (
	groupLine = regexp.MustCompile(`^\s*([A-Za-z0-9_\-]+)\s*:\s*(.+?)\s*$`)
	separator = regexp.MustCompile(`[,\s]+`)
)

// ParseGroups parses text into groups.
//
// A "NAME: a, b c" line names a group and lists its items. Any other line
// starts a group when no group is open, and otherwise adds items to the open
// group. Items are split on commas and whitespace. Group and item order is
// preserved, repeated items are dropped, and groups with no items are pruned.
func ParseGroups(text string) planner.Groups {
	var (
		groups  planner.Groups
		current = -1
	)

	index := func(name string) int {
		for i := range groups {
			if groups[i].Name == name {
				return i
			}
		}
		groups = append(groups, planner.Group{Name: name})
		return len(groups) - 1
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := groupLine.FindStringSubmatch(line); m != nil {
			current = index(m[1])
			groups[current].Items = appendUnique(groups[current].Items, splitTokens(m[2]))
			continue
		}

		if current < 0 {
			current = index(line)
			continue
		}
		groups[current].Items = appendUnique(groups[current].Items, splitTokens(line))
	}

	pruned := planner.Groups{}
	for _, g := range groups {
		if g.Name != "" && len(g.Items) > 0 {
			pruned = append(pruned, g)
		}
	}
	return pruned
}

// Format renders groups back into "NAME: a, b" lines.
func Format(groups planner.Groups) string {
	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, g.Name+": "+strings.Join(g.Items, ", "))
	}
	return strings.Join(lines, "\n")
}

func splitTokens(s string) []string {
	var tokens []string
	for _, t := range separator.Split(strings.TrimSpace(s), -1) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func appendUnique(dst, items []string) []string {
	for _, item := range items {
		dup := false
		for _, existing := range dst {
			if existing == item {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, item)
		}
	}
	return dst
}
