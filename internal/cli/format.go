package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/danieljhkim/studiofold/internal/builder"
	"github.com/danieljhkim/studiofold/internal/engine"
	"github.com/danieljhkim/studiofold/internal/planner"
)

var (
	// Color functions - will be nil if output is not a TTY
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	dimColor     = color.New(color.FgHiBlack)
)

// initColors initializes color output - fatih/color handles TTY detection automatically
// This is a no-op but kept for potential future initialization needs
func initColors() {
	// fatih/color automatically detects TTY and disables colors when needed
	// No explicit initialization required
}

// PrintSection prints a section header
func PrintSection(title string) {
	initColors()
	fmt.Println()
	_, _ = headerColor.Printf("▸ %s\n", title)
	fmt.Println()
}

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(msg string) {
	initColors()
	_, _ = successColor.Printf("✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol
func PrintWarning(msg string) {
	initColors()
	_, _ = warningColor.Printf("⚠ %s\n", msg)
}

// PrintError prints an error message to stderr
func PrintError(msg string) {
	initColors()
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// PrintInfo prints an informational message
func PrintInfo(msg string) {
	initColors()
	fmt.Println(msg)
}

// PrintLabelValue prints a label-value pair with proper formatting
func PrintLabelValue(label, value string) {
	initColors()
	_, _ = labelColor.Printf("  %s: ", label)
	_, _ = valueColor.Println(value)
}

// PrintList prints a list of items with bullet points
func PrintList(items []string, indent int) {
	initColors()
	indentStr := strings.Repeat("  ", indent)
	for _, item := range items {
		_, _ = infoColor.Printf("%s• %s\n", indentStr, item)
	}
}

// PrintTable prints a simple two-column table
func PrintTable(headers []string, rows [][]string) {
	initColors()
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	// Calculate column widths
	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	// Print header
	_, _ = headerColor.Print("  ")
	for i, header := range headers {
		if i > 0 {
			fmt.Print("  ")
		}
		_, _ = headerColor.Printf("%-*s", colWidths[i], header)
	}
	fmt.Println()

	// Print separator
	fmt.Print("  ")
	for i, width := range colWidths {
		if i > 0 {
			fmt.Print("  ")
		}
		fmt.Print(strings.Repeat("-", width))
	}
	fmt.Println()

	// Print rows
	for _, row := range rows {
		fmt.Print("  ")
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			if i > 0 {
				fmt.Print("  ")
			}
			_, _ = valueColor.Printf("%-*s", colWidths[i], cell)
		}
		fmt.Println()
	}
}

// PrintEmptyState prints a message when there's no data to show
func PrintEmptyState(msg string) {
	initColors()
	_, _ = dimColor.Printf("  %s\n", msg)
}

// PrintCount prints a count with proper formatting
func PrintCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// PrintPlan prints the planned actions, marking those that already exist.
func PrintPlan(res *engine.PlanResult) {
	plan := res.Plan
	conflicts := make(map[string]planner.Conflict, len(res.Conflicts))
	for _, c := range res.Conflicts {
		conflicts[c.Path] = c
	}

	PrintSection(fmt.Sprintf("Plan: %s", plan.ProjectRoot))
	PrintLabelValue("Template", fmt.Sprintf("%s (v%s)", res.Template.Name, res.Template.Version))
	PrintLabelValue("Mode", plan.Mode)
	dirs, files := plan.Counts()
	PrintLabelValue("Actions", fmt.Sprintf("%s, %s", PrintCount(dirs, "dir", "dirs"), PrintCount(files, "file", "files")))
	fmt.Println()

	for _, a := range plan.Actions {
		line := fmt.Sprintf("  %-4s %s", a.Kind, a.Path)
		c, ok := conflicts[a.Path]
		switch {
		case !ok:
			fmt.Println(line)
		case c.Blocking():
			_, _ = errorColor.Printf("%s  (%s)\n", line, c.Reason)
		default:
			_, _ = dimColor.Printf("%s  (%s)\n", line, c.Effect)
		}
	}

	for _, w := range plan.Warnings {
		PrintWarning(w)
	}
	PrintConflictSummary(res.Conflicts)
}

// PrintConflictSummary prints how many planned actions target existing paths.
func PrintConflictSummary(conflicts []planner.Conflict) {
	if len(conflicts) == 0 {
		return
	}
	var skip, overwrite, blocked int
	for _, c := range conflicts {
		switch c.Effect {
		case planner.EffectSkip:
			skip++
		case planner.EffectOverwrite:
			overwrite++
		case planner.EffectError:
			blocked++
		}
	}
	fmt.Println()
	if skip > 0 {
		PrintInfo(fmt.Sprintf("%s already exist and will be skipped", PrintCount(skip, "path", "paths")))
	}
	if overwrite > 0 {
		PrintWarning(fmt.Sprintf("%s will be overwritten", PrintCount(overwrite, "file", "files")))
	}
	if blocked > 0 {
		PrintWarning(fmt.Sprintf("%s will fail", PrintCount(blocked, "action", "actions")))
	}
}

// PrintBuildSummary prints the aggregate counts of a build and any failures.
func PrintBuildSummary(res *engine.BuildResult) {
	r := res.Result
	PrintSection("Build Summary")
	PrintLabelValue("Created dirs", fmt.Sprint(r.CreatedDirs))
	PrintLabelValue("Created files", fmt.Sprint(r.CreatedFiles))
	PrintLabelValue("Skipped", fmt.Sprint(r.Skipped))
	if r.Errors > 0 {
		_, _ = labelColor.Printf("  %s: ", "Errors")
		_, _ = errorColor.Println(r.Errors)
	} else {
		PrintLabelValue("Errors", "0")
	}
	if res.ManifestPath != "" {
		PrintLabelValue("Manifest", res.ManifestPath)
	}

	if r.Errors == 0 {
		fmt.Println()
		PrintSuccess(fmt.Sprintf("Project ready at %s", res.Plan.ProjectRoot))
		return
	}
	fmt.Println()
	for _, o := range r.Outcomes {
		if o.Status == builder.StatusError {
			PrintError(fmt.Sprintf("%s: %s", o.Action.Path, o.Message))
		}
	}
}
