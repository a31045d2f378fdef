package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/studiofold/internal/config"
	"github.com/danieljhkim/studiofold/internal/fsops"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the studiofold home with settings and a sample template",
	Long: `Initialize the studiofold home directory (~/.studiofold or STUDIOFOLD_HOME).

This creates config.toml with default settings and a sample template
(vfx.json) in the template directory. Existing files are kept unless
--force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false,
		"Overwrite existing config.toml and sample template")
}

const sampleTemplateID = "vfx"

const sampleTemplate = `{
  "name": "VFX Default",
  "version": "1.0",
  "project_folders": [
    "production",
    "editorial",
    "reference",
    "deliveries"
  ],
  "shot_tree": {
    "plates": [],
    "anim": ["notes.md"],
    "fx": [],
    "lighting": [],
    "comp": ["notes.md"],
    "renders": []
  },
  "asset_tree": {
    "characters": ["model", "rig", "lookdev", "notes.md"],
    "props": ["model", "lookdev"],
    "environments": {
      "layout": ["notes.md"],
      "model": [],
      "lookdev": []
    }
  }
}
`

type initOutput struct {
	Home     string   `json:"home"`
	Created  []string `json:"created"`
	Existing []string `json:"existing"`
}

func runInit(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	if err := rt.paths.EnsureDirectories(); err != nil {
		return err
	}

	out := initOutput{Home: rt.paths.Root, Created: []string{}, Existing: []string{}}
	fs := fsops.NewRealFS()

	// 1. Settings
	exists, err := fs.Exists(rt.paths.Settings)
	if err != nil {
		return fmt.Errorf("failed to check settings: %w", err)
	}
	if exists && !initForce {
		out.Existing = append(out.Existing, rt.paths.Settings)
	} else {
		settings := config.DefaultSettings()
		settings.TemplatesDir = rt.paths.Templates
		if err := config.SaveSettings(rt.paths.Settings, settings); err != nil {
			return err
		}
		out.Created = append(out.Created, rt.paths.Settings)
	}

	// 2. Sample template
	samplePath := filepath.Join(rt.paths.Templates, sampleTemplateID+".json")
	exists, err = fs.Exists(samplePath)
	if err != nil {
		return fmt.Errorf("failed to check sample template: %w", err)
	}
	if exists && !initForce {
		out.Existing = append(out.Existing, samplePath)
	} else {
		if err := fs.AtomicWrite(samplePath, []byte(sampleTemplate), 0644); err != nil {
			return fmt.Errorf("failed to write sample template: %w", err)
		}
		out.Created = append(out.Created, samplePath)
	}
	rt.logger.Debug("initialized", "home", rt.paths.Root, "created", len(out.Created))

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), out)
	}

	PrintSuccess(fmt.Sprintf("Initialized studiofold at %s", rt.paths.Root))
	for _, p := range out.Created {
		PrintLabelValue("Created", p)
	}
	for _, p := range out.Existing {
		PrintLabelValue("Kept", p)
	}
	fmt.Println()
	PrintInfo("Next steps:")
	fmt.Println("  1. Check templates:   studiofold templates ls")
	fmt.Println("  2. Preview a plan:    studiofold plan -p DEMO -t vfx -g \"SQ010: sh010, sh020\"")
	fmt.Println("  3. Build it:          studiofold build -p DEMO -t vfx -g \"SQ010: sh010, sh020\"")
	fmt.Fprintf(os.Stdout, "\nTemplates are read from %s\n", rt.paths.Templates)

	return nil
}
