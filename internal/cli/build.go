package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/studiofold/internal/engine"
	"github.com/danieljhkim/studiofold/internal/input"
	"github.com/danieljhkim/studiofold/internal/planner"
)

// buildFlags holds the flags that describe a build.
type buildFlags struct {
	root      string
	project   string
	template  string
	mode      string
	groups    []string
	input     string
	overwrite bool
	job       string
	dryRun    bool
}

var (
	planOpts  buildFlags
	buildOpts buildFlags
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a build would create",
	Long: `Generate the plan for a build without touching the filesystem.

Paths that already exist are marked as skipped, overwritten or failing.`,
	Example: `  studiofold plan --project DEMO --template vfx --group "SQ010: sh010, sh020"`,
	Args:    cobra.NoArgs,
	RunE:    runPlan,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Create a project folder structure",
	Long: `Create a project folder structure from a template.

In shots mode each --group line names a sequence and its shots. In assets mode
each line names an asset category and its assets. Lines look like

  SQ010: sh010, sh020, sh030

and can also be read from a text file with --input. Existing folders are
left alone and existing starter files are only replaced with --overwrite.
A manifest is written to production/manifest.json in the project folder.`,
	Example: `  studiofold build --root /jobs --project DEMO --template vfx --group "SQ010: sh010, sh020"
  studiofold build --project DEMO --template vfx --mode assets --group "characters: hero, villain"
  studiofold build --job demo.json --dry-run`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	addRequestFlags(planCmd, &planOpts)
	planCmd.Flags().StringVar(&planOpts.job, "job", "", "Read build inputs from a job file")

	addRequestFlags(buildCmd, &buildOpts)
	buildCmd.Flags().StringVar(&buildOpts.job, "job", "", "Read build inputs from a job file")
	buildCmd.Flags().BoolVar(&buildOpts.dryRun, "dry-run", false, "Plan only, do not create anything")
}

// addRequestFlags registers the flags shared by plan, build and job save.
func addRequestFlags(cmd *cobra.Command, f *buildFlags) {
	cmd.Flags().StringVar(&f.root, "root", "", "Directory the project folder is created in (default: config default_root or current directory)")
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "Project folder name")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "Template ID")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", planner.ModeShots, "Layout mode: shots or assets")
	cmd.Flags().StringArrayVarP(&f.groups, "group", "g", nil, `Group line "NAME: item, item" (repeatable)`)
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Text file with one group line per row")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "Replace existing starter files")
}

// jobExclusiveFlags cannot be combined with --job.
var jobExclusiveFlags = []string{"root", "project", "template", "mode", "group", "input"}

// resolveRequest builds a plan request from a job file or from flags.
func resolveRequest(cmd *cobra.Command, rt *runtimeEnv, eng *engine.Engine, f *buildFlags) (*engine.PlanRequest, error) {
	if f.job != "" {
		for _, name := range jobExclusiveFlags {
			if cmd.Flags().Changed(name) {
				return nil, fmt.Errorf("%w: --%s cannot be combined with --job", engine.ErrValidation, name)
			}
		}
		cfg, err := eng.LoadJob(f.job)
		if err != nil {
			return nil, err
		}
		req := engine.RequestFromJob(cfg).PlanRequest
		if cmd.Flags().Changed("overwrite") {
			req.Overwrite = f.overwrite
		}
		return &req, nil
	}
	return requestFromFlags(rt, f)
}

func requestFromFlags(rt *runtimeEnv, f *buildFlags) (*engine.PlanRequest, error) {
	root := f.root
	if root == "" {
		root = rt.settings.DefaultRoot
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		root = cwd
	}

	var text strings.Builder
	if f.input != "" {
		data, err := os.ReadFile(f.input)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		text.Write(data)
		text.WriteString("\n")
	}
	for _, line := range f.groups {
		text.WriteString(line)
		text.WriteString("\n")
	}

	return &engine.PlanRequest{
		Root:       root,
		Project:    strings.TrimSpace(f.project),
		TemplateID: strings.TrimSpace(f.template),
		Mode:       strings.ToLower(strings.TrimSpace(f.mode)),
		Groups:     input.ParseGroups(text.String()),
		Overwrite:  f.overwrite,
	}, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	eng, closeFn, err := rt.newEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	req, err := resolveRequest(cmd, rt, eng, &planOpts)
	if err != nil {
		return err
	}

	res, err := eng.Plan(cmd.Context(), req)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), res)
	}
	PrintPlan(res)
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	eng, closeFn, err := rt.newEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	req, err := resolveRequest(cmd, rt, eng, &buildOpts)
	if err != nil {
		return err
	}

	res, err := eng.Build(cmd.Context(), &engine.BuildRequest{
		PlanRequest: *req,
		DryRun:      buildOpts.dryRun,
	})
	if err != nil {
		if res != nil && res.Result != nil && !jsonOutput {
			PrintBuildSummary(res)
		}
		return err
	}

	if jsonOutput {
		if err := outputJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	} else if res.DryRun {
		PrintPlan(&res.PlanResult)
		fmt.Println()
		PrintInfo("Dry run: nothing was created.")
	} else {
		for _, w := range res.Plan.Warnings {
			PrintWarning(w)
		}
		PrintBuildSummary(res)
	}

	if res.HasErrors() {
		return fmt.Errorf("build finished with %s", PrintCount(res.Result.Errors, "error", "errors"))
	}
	return nil
}
