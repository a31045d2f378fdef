package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/studiofold/internal/template"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List, validate and preview templates",
	Long: `Manage project templates.

Templates are JSON or YAML documents in the template directory. The filename
without extension is the template ID used by build and plan.`,
}

var templatesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List valid templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesLs,
}

var templatesValidateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate template files",
	Long: `Validate template files and report every issue found.

With no arguments, every template in the template directory is validated.`,
	RunE: runTemplatesValidate,
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Preview a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesShow,
}

func init() {
	templatesCmd.AddCommand(templatesLsCmd)
	templatesCmd.AddCommand(templatesValidateCmd)
	templatesCmd.AddCommand(templatesShowCmd)
}

type templateListOutput struct {
	Dir       string                      `json:"dir"`
	Templates []template.Info             `json:"templates"`
	Problems  map[string][]template.Issue `json:"problems"`
}

func runTemplatesLs(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	eng, closeFn, err := rt.newEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := eng.Templates()
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), templateListOutput{
			Dir:       eng.TemplateDir(),
			Templates: res.Templates,
			Problems:  res.Problems,
		})
	}

	PrintSection(fmt.Sprintf("Templates in %s", eng.TemplateDir()))
	if len(res.Templates) == 0 {
		PrintEmptyState("No valid templates found. Run 'studiofold init' to create a sample.")
	} else {
		rows := make([][]string, 0, len(res.Templates))
		for _, info := range res.Templates {
			rows = append(rows, []string{info.ID, info.Name, info.Version, filepath.Base(info.SourcePath)})
		}
		PrintTable([]string{"ID", "NAME", "VERSION", "FILE"}, rows)
	}

	if files := res.ProblemFiles(); len(files) > 0 {
		fmt.Println()
		PrintWarning(fmt.Sprintf("%s skipped (run 'studiofold templates validate' for details)",
			PrintCount(len(files), "file", "files")))
		PrintList(files, 1)
	}
	return nil
}

type validationOutput struct {
	File   string           `json:"file"`
	Valid  bool             `json:"valid"`
	Issues []template.Issue `json:"issues"`
}

func runTemplatesValidate(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	eng, closeFn, err := rt.newEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	var results []validationOutput
	if len(args) == 0 {
		res, err := eng.Templates()
		if err != nil {
			return err
		}
		for _, info := range res.Templates {
			results = append(results, validationOutput{File: filepath.Base(info.SourcePath), Valid: true, Issues: []template.Issue{}})
		}
		for _, file := range res.ProblemFiles() {
			results = append(results, validationOutput{File: file, Issues: res.Problems[file]})
		}
	} else {
		for _, path := range args {
			_, issues := eng.CheckTemplate(path)
			if issues == nil {
				issues = []template.Issue{}
			}
			results = append(results, validationOutput{File: path, Valid: len(issues) == 0, Issues: issues})
		}
	}

	invalid := 0
	for _, r := range results {
		if !r.Valid {
			invalid++
		}
	}

	if jsonOutput {
		if err := outputJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		if len(results) == 0 {
			PrintEmptyState(fmt.Sprintf("No template files in %s", eng.TemplateDir()))
		}
		for _, r := range results {
			if r.Valid {
				PrintSuccess(r.File)
				continue
			}
			PrintError(r.File)
			for _, issue := range r.Issues {
				_, _ = dimColor.Printf("    %s\n", issue.String())
			}
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%s failed validation", PrintCount(invalid, "template", "templates"))
	}
	return nil
}

func runTemplatesShow(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	eng, closeFn, err := rt.newEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	info, err := eng.Template(args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), info.Document)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), template.Preview(info.Document))
	return err
}
