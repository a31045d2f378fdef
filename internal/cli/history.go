package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent builds",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Number of builds to show (default: config history_limit)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	eng, closeFn, err := rt.newEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	limit := historyLimit
	if limit <= 0 {
		limit = rt.settings.HistoryLimit
	}

	entries, err := eng.History(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), entries)
	}

	PrintSection("Build History")
	if len(entries) == 0 {
		PrintEmptyState("No builds recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ExecutedAt,
			e.Project,
			fmt.Sprintf("%s (v%s)", e.Template, e.TemplateVersion),
			e.Mode,
			fmt.Sprint(e.CreatedDirs),
			fmt.Sprint(e.CreatedFiles),
			fmt.Sprint(e.Skipped),
			fmt.Sprint(e.Errors),
			e.Root,
		})
	}
	PrintTable([]string{"EXECUTED", "PROJECT", "TEMPLATE", "MODE", "DIRS", "FILES", "SKIPPED", "ERRORS", "ROOT"}, rows)
	return nil
}
