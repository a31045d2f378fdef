package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/studiofold/internal/fsops"
	"github.com/danieljhkim/studiofold/internal/tracking"
)

var (
	fetchOutput   string
	fetchPageSize int
	fetchTimeout  time.Duration
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch build inputs from a tracking server",
}

var fetchShotsCmd = &cobra.Command{
	Use:   "shots",
	Short: "Fetch a project's sequences and shots",
	Long: `Fetch the shots of a tracking project grouped by sequence.

Credentials come from FLOW_URL, FLOW_SCRIPT_NAME, FLOW_SCRIPT_KEY and
FLOW_PROJECT_ID (a .env file is read) or from the [tracking] table of
config.toml. The output uses the same "SEQ: shot, shot" format accepted by
'studiofold build --input'.`,
	Example: `  studiofold fetch shots --output shots.txt
  studiofold build --project DEMO --template vfx --input shots.txt`,
	Args: cobra.NoArgs,
	RunE: runFetchShots,
}

func init() {
	fetchShotsCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Write the shot list to a file instead of stdout")
	fetchShotsCmd.Flags().IntVar(&fetchPageSize, "page-size", tracking.DefaultPageSize, "Records requested per page")
	fetchShotsCmd.Flags().DurationVar(&fetchTimeout, "timeout", 60*time.Second, "HTTP timeout")
	fetchCmd.AddCommand(fetchShotsCmd)
}

func runFetchShots(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	creds, err := tracking.LoadCredentials(rt.settings.Tracking)
	if err != nil {
		return err
	}
	client, err := tracking.NewClient(&http.Client{Timeout: fetchTimeout}, creds)
	if err != nil {
		return err
	}

	rt.logger.Debug("fetching shots", "url", creds.URL, "project_id", creds.ProjectID)
	groups, err := client.WithPageSize(fetchPageSize).FetchSequences(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), groups)
	}

	text := tracking.FormatText(groups)
	if text != "" {
		text += "\n"
	}
	if fetchOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}

	if err := fsops.NewRealFS().AtomicWrite(fetchOutput, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write shot list: %w", err)
	}
	PrintSuccess(fmt.Sprintf("Wrote %s in %s to %s",
		PrintCount(groups.ItemCount(), "shot", "shots"),
		PrintCount(len(groups), "sequence", "sequences"),
		fetchOutput))
	return nil
}
