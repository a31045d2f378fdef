package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/studiofold/internal/config"
	"github.com/danieljhkim/studiofold/internal/engine"
	"github.com/danieljhkim/studiofold/internal/fsops"
	"github.com/danieljhkim/studiofold/internal/history"
	"github.com/danieljhkim/studiofold/internal/manifest"
	"github.com/danieljhkim/studiofold/internal/tracking"
)

const featureTemplate = `{
  "name": "Feature",
  "version": "2.0",
  "project_folders": ["production", "editorial"],
  "shot_tree": {"comp": ["notes.md"], "plates": []},
  "asset_tree": {"chars": ["model", "rig"]}
}`

type testEnv struct {
	dir       string
	home      string
	templates string
	projects  string
}

// setupTestEnv points studiofold at a temporary home with one template and
// resets command flags left over from earlier executions.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	env := &testEnv{
		dir:       dir,
		home:      filepath.Join(dir, "home"),
		templates: filepath.Join(dir, "home", "templates"),
		projects:  filepath.Join(dir, "projects"),
	}

	t.Setenv(config.EnvHome, env.home)
	t.Setenv(config.EnvTemplates, "")
	t.Setenv(config.EnvLogLevel, "")
	for _, key := range []string{tracking.EnvURL, tracking.EnvScriptName, tracking.EnvScriptKey, tracking.EnvProjectID} {
		t.Setenv(key, "")
	}
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	require.NoError(t, os.MkdirAll(env.templates, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(env.templates, "feature.json"), []byte(featureTemplate), 0644))

	resetFlags()
	return env
}

func resetFlags() {
	jsonOutput, templatesDir, logLevel = false, "", ""
	planOpts, buildOpts, jobSaveOpts = buildFlags{}, buildFlags{}, buildFlags{}
	historyLimit, initForce = 0, false
	fetchOutput = ""

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		reset := func(f *pflag.Flag) {
			// String arrays append to the zeroed slice on the next Set.
			if f.Value.Type() != "stringArray" {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		}
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	env := setupTestEnv(t)

	out, err := execute(t, "init", "--json")
	require.NoError(t, err)

	var first initOutput
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Equal(t, env.home, first.Home)
	assert.Len(t, first.Created, 2)
	assert.FileExists(t, filepath.Join(env.home, "config.toml"))
	assert.FileExists(t, filepath.Join(env.templates, "vfx.json"))

	settings, err := config.LoadSettings(filepath.Join(env.home, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, env.templates, settings.TemplatesDir)

	resetFlags()
	out, err = execute(t, "init", "--json")
	require.NoError(t, err)
	var second initOutput
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.Empty(t, second.Created)
	assert.Len(t, second.Existing, 2)
}

func TestTemplatesCommands(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.templates, "broken.json"), []byte(`{"name": "Broken"}`), 0644))

	out, err := execute(t, "templates", "ls", "--json")
	require.NoError(t, err)
	var listing templateListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	require.Len(t, listing.Templates, 1)
	assert.Equal(t, "feature", listing.Templates[0].ID)
	assert.Contains(t, listing.Problems, "broken.json")

	resetFlags()
	out, err = execute(t, "templates", "validate", "--json")
	require.Error(t, err)
	var results []validationOutput
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.True(t, results[0].Valid)
	assert.False(t, results[1].Valid)

	resetFlags()
	_, err = execute(t, "templates", "validate", filepath.Join(env.templates, "feature.json"))
	require.NoError(t, err)

	resetFlags()
	out, err = execute(t, "templates", "show", "feature", "--json")
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Feature", doc["name"])

	resetFlags()
	out, err = execute(t, "templates", "show", "feature")
	require.NoError(t, err)
	assert.Contains(t, out, "Feature (v2.0)")

	resetFlags()
	_, err = execute(t, "templates", "show", "broken")
	assert.ErrorIs(t, err, engine.ErrInvalidTemplate)
}

func TestTemplatesFlagOverridesDirectory(t *testing.T) {
	env := setupTestEnv(t)
	other := filepath.Join(env.dir, "other")
	require.NoError(t, os.MkdirAll(other, 0755))

	out, err := execute(t, "templates", "ls", "--json", "--templates", other)
	require.NoError(t, err)
	var listing templateListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	assert.Equal(t, other, listing.Dir)
	assert.Empty(t, listing.Templates)
}

type buildOutput struct {
	DryRun       bool             `json:"dry_run"`
	ManifestPath string           `json:"manifest_path"`
	Result       *json.RawMessage `json:"result"`
	Plan         struct {
		ProjectRoot string            `json:"project_root"`
		Actions     []json.RawMessage `json:"actions"`
	} `json:"plan"`
}

func TestBuildCommand(t *testing.T) {
	env := setupTestEnv(t)

	out, err := execute(t, "build", "--json",
		"--root", env.projects, "-p", "DEMO", "-t", "feature",
		"-g", "SQ010: sh010, sh020", "-g", "SQ020: sh010")
	require.NoError(t, err)

	var res buildOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.DryRun)
	assert.Len(t, res.Plan.Actions, 17)

	project := filepath.Join(env.projects, "DEMO")
	assert.Equal(t, manifest.Path(project), res.ManifestPath)
	assert.FileExists(t, filepath.Join(project, "sequences", "SQ020", "sh010", "comp", "notes.md"))

	rec, err := manifest.Read(fsops.NewRealFS(), res.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, "Feature", rec.Template)
	assert.Equal(t, []string{"SQ010", "SQ020"}, rec.Sequences.Names())

	resetFlags()
	out, err = execute(t, "history", "--json")
	require.NoError(t, err)
	var entries []history.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "DEMO", entries[0].Project)
	assert.Equal(t, 17, entries[0].CreatedDirs+entries[0].CreatedFiles)
}

func TestBuildCommand_InputFileAndDryRun(t *testing.T) {
	env := setupTestEnv(t)
	inputPath := filepath.Join(env.dir, "assets.txt")
	require.NoError(t, os.WriteFile(inputPath, []byte("chars: hero villain\nprops:\n"), 0644))

	out, err := execute(t, "build", "--json", "--dry-run",
		"--root", env.projects, "-p", "DEMO", "-t", "feature", "-m", "assets", "-i", inputPath)
	require.NoError(t, err)

	var res buildOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.DryRun)
	assert.Nil(t, res.Result)
	assert.NotEmpty(t, res.Plan.Actions)
	assert.NoDirExists(t, filepath.Join(env.projects, "DEMO"))
}

func TestBuildCommand_Validation(t *testing.T) {
	env := setupTestEnv(t)

	_, err := execute(t, "build", "--root", env.projects, "-p", "DEMO", "-t", "feature", "-m", "assets")
	assert.ErrorIs(t, err, engine.ErrValidation)

	resetFlags()
	_, err = execute(t, "build", "--root", env.projects, "-p", "DEMO", "-t", "missing", "-g", "SQ010: sh010")
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestBuildCommand_ErrorsExitNonZero(t *testing.T) {
	env := setupTestEnv(t)

	// A file where a shot directory belongs fails that action.
	seq := filepath.Join(env.projects, "DEMO", "sequences", "SQ010")
	require.NoError(t, os.MkdirAll(seq, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(seq, "sh010"), []byte("x"), 0644))

	out, err := execute(t, "build", "--json", "--root", env.projects, "-p", "DEMO", "-t", "feature", "-g", "SQ010: sh010")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build finished with")
	assert.Contains(t, out, `"errors"`)
	assert.FileExists(t, manifest.Path(filepath.Join(env.projects, "DEMO")))
}

func TestPlanCommand_ReportsExisting(t *testing.T) {
	env := setupTestEnv(t)

	_, err := execute(t, "build", "--root", env.projects, "-p", "DEMO", "-t", "feature", "-g", "SQ010: sh010")
	require.NoError(t, err)

	resetFlags()
	out, err := execute(t, "plan", "--json", "--root", env.projects, "-p", "DEMO", "-t", "feature", "-g", "SQ010: sh010, sh020")
	require.NoError(t, err)

	var res struct {
		Conflicts []struct {
			Path   string `json:"path"`
			Effect string `json:"effect"`
		} `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Conflicts, 8)
	for _, c := range res.Conflicts {
		assert.Equal(t, "skip", c.Effect, c.Path)
	}
}

func TestJobCommands(t *testing.T) {
	env := setupTestEnv(t)
	jobPath := filepath.Join(env.dir, "jobs", "demo.json")

	_, err := execute(t, "job", "save", jobPath,
		"--root", env.projects, "-p", "DEMO", "-t", "feature", "-g", "SQ010: sh010")
	require.NoError(t, err)
	require.FileExists(t, jobPath)

	resetFlags()
	out, err := execute(t, "job", "show", jobPath, "--json")
	require.NoError(t, err)
	var job map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &job))
	assert.Equal(t, "studiofold", job["tool"])
	assert.Equal(t, "shots", job["mode"])
	assert.Nil(t, job["assets"])

	resetFlags()
	_, err = execute(t, "build", "--job", jobPath, "-p", "OTHER")
	assert.ErrorIs(t, err, engine.ErrValidation)

	resetFlags()
	_, err = execute(t, "build", "--job", jobPath)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(env.projects, "DEMO", "sequences", "SQ010", "sh010", "plates"))
}

func TestFetchShots_NoCredentials(t *testing.T) {
	setupTestEnv(t)

	_, err := execute(t, "fetch", "shots")
	assert.True(t, errors.Is(err, tracking.ErrNoCredentials), "got %v", err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "info")
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = newLogger(&buf, "loud")
	assert.Error(t, err)
}
