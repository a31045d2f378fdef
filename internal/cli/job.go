package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/studiofold/internal/engine"
	"github.com/danieljhkim/studiofold/internal/jobconfig"
)

var jobSaveOpts buildFlags

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Save and inspect job files",
	Long: `Job files capture the inputs of a build (root, project, template, mode and
groups) as JSON so the same build can be repeated with 'studiofold build --job'.`,
}

var jobSaveCmd = &cobra.Command{
	Use:     "save <path>",
	Short:   "Save build inputs to a job file",
	Example: `  studiofold job save demo.json --project DEMO --template vfx --group "SQ010: sh010"`,
	Args:    cobra.ExactArgs(1),
	RunE:    runJobSave,
}

var jobShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show the contents of a job file",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobShow,
}

func init() {
	addRequestFlags(jobSaveCmd, &jobSaveOpts)
	jobCmd.AddCommand(jobSaveCmd)
	jobCmd.AddCommand(jobShowCmd)
}

func runJobSave(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	eng, closeFn, err := rt.newEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	req, err := requestFromFlags(rt, &jobSaveOpts)
	if err != nil {
		return err
	}

	cfg, err := eng.SaveJob(&engine.SaveJobRequest{PlanRequest: *req, Path: args[0]})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), cfg)
	}
	PrintSuccess(fmt.Sprintf("Saved job to %s", args[0]))
	return nil
}

func runJobShow(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	eng, closeFn, err := rt.newEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	cfg, err := eng.LoadJob(args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), cfg)
	}
	printJob(cfg)
	return nil
}

func printJob(cfg *jobconfig.Config) {
	PrintSection(fmt.Sprintf("Job: %s", cfg.Project))
	PrintLabelValue("Root", cfg.Root)
	PrintLabelValue("Template", cfg.TemplateID)
	PrintLabelValue("Mode", cfg.Mode)
	PrintLabelValue("Overwrite", fmt.Sprint(cfg.Overwrite))
	PrintLabelValue("Saved", cfg.Timestamp)
	PrintLabelValue("Version", cfg.Version)
	fmt.Println()
	fmt.Println(jobconfig.Text(cfg))
}
