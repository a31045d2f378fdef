package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/studiofold/internal/fsops"
	"github.com/danieljhkim/studiofold/internal/hash"
)

func newTestLoader(t *testing.T, dir string, opts ...Option) *Loader {
	t.Helper()
	loader, err := NewLoader(dir, fsops.NewRealFS(), hash.NewSHA256Hasher(), opts...)
	require.NoError(t, err)
	return loader
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoader_DiscoverMissingDirectory(t *testing.T) {
	loader := newTestLoader(t, filepath.Join(t.TempDir(), "nope"))

	paths, err := loader.Discover()
	require.NoError(t, err)
	assert.Empty(t, paths)

	result, err := loader.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, result.Templates)
	assert.Empty(t, result.Problems)
}

func TestLoader_DiscoverFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.yaml", "c.yml", "notes.txt", "D.JSON"} {
		writeFile(t, dir, name, "{}")
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))

	paths, err := newTestLoader(t, dir).Discover()
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"D.JSON", "a.yaml", "b.json", "c.yml"}, names)
}

func TestLoader_LoadValidTemplate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vfx.json", validTemplateJSON)

	result, err := newTestLoader(t, dir).LoadAll()
	require.NoError(t, err)
	require.Len(t, result.Templates, 1)
	assert.Empty(t, result.Problems)

	info := result.Templates[0]
	assert.Equal(t, "vfx", info.ID)
	assert.Equal(t, "VFX Default", info.Name)
	assert.Equal(t, "1.0", info.Version)
	assert.Equal(t, filepath.Join(dir, "vfx.json"), info.SourcePath)
	assert.Len(t, info.Checksum, 64)
	require.NotNil(t, info.Template)
	assert.Equal(t, []string{"assets", "sequences", "production"}, info.Template.ProjectFolders)

	found, ok := result.Find("vfx")
	require.True(t, ok)
	assert.Equal(t, "VFX Default", found.Name)
	_, ok = result.Find("missing")
	assert.False(t, ok)
}

func TestLoader_Problems(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", validTemplateJSON)
	writeFile(t, dir, "bad.json", `{"name": "Bad", "version": "1.0"}`)
	writeFile(t, dir, "broken.json", `{ this is not json`)
	writeFile(t, dir, "list.json", `["a"]`)
	writeFile(t, dir, "broken.yaml", "name: [unclosed\n")

	result, err := newTestLoader(t, dir).LoadAll()
	require.NoError(t, err)

	require.Len(t, result.Templates, 1)
	assert.Equal(t, "good", result.Templates[0].ID)
	assert.Equal(t, []string{"bad.json", "broken.json", "broken.yaml", "list.json"}, result.ProblemFiles())

	bad := result.Problems["bad.json"]
	require.Len(t, bad, 3)
	for _, issue := range bad {
		assert.Equal(t, CodeMissingKey, issue.Code)
	}

	for _, file := range []string{"broken.json", "broken.yaml", "list.json"} {
		issues := result.Problems[file]
		require.Len(t, issues, 1, file)
		assert.Equal(t, CodeLoadFail, issues[0].Code, file)
	}
	assert.Contains(t, result.Problems["broken.json"][0].Message, "invalid JSON (line 1")
	assert.Contains(t, result.Problems["list.json"][0].Message, ErrNotObject.Error())
}

func TestLoader_SortsByNameThenID(t *testing.T) {
	dir := t.TempDir()
	doc := func(name string) string {
		return `{"name": "` + name + `", "version": "1", "project_folders": [], "shot_tree": {}, "asset_tree": {}}`
	}
	writeFile(t, dir, "a.json", doc("beta"))
	writeFile(t, dir, "b.json", doc("Alpha"))
	writeFile(t, dir, "C.json", doc("alpha"))

	result, err := newTestLoader(t, dir).LoadAll()
	require.NoError(t, err)

	var ids []string
	for _, info := range result.Templates {
		ids = append(ids, info.ID)
	}
	assert.Equal(t, []string{"b", "C", "a"}, ids)
}

func TestLoader_YAMLTemplate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "games.yaml", `
name: Games
version: "2.1"
project_folders: [assets, docs]
shot_tree: {}
asset_tree:
  characters:
    work: [maya]
    publish: [model.json]
  props: [work, notes.md]
`)

	result, err := newTestLoader(t, dir).LoadAll()
	require.NoError(t, err)
	require.Len(t, result.Templates, 1)

	info := result.Templates[0]
	assert.Equal(t, "games", info.ID)
	assert.Equal(t, "2.1", info.Version)
	require.Len(t, info.Template.AssetTree, 2)
	assert.Equal(t, "characters", info.Template.AssetTree[0].Name)
	assert.Equal(t, "props", info.Template.AssetTree[1].Name)
}

func TestLoader_DuplicateID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vfx.json", validTemplateJSON)
	writeFile(t, dir, "vfx.yaml", "name: Other\nversion: \"1\"\nproject_folders: []\nshot_tree: {}\nasset_tree: {}\n")

	result, err := newTestLoader(t, dir).LoadAll()
	require.NoError(t, err)

	require.Len(t, result.Templates, 1)
	assert.Equal(t, "VFX Default", result.Templates[0].Name)
	require.Len(t, result.Problems["vfx.yaml"], 1)
	assert.Contains(t, result.Problems["vfx.yaml"][0].Message, "already defined by vfx.json")
}

func TestLoader_CacheReusesParsedDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vfx.json", validTemplateJSON)
	writeFile(t, dir, "copy.json", validTemplateJSON)

	loader := newTestLoader(t, dir)
	first, err := loader.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, 1, loader.CacheLen(), "identical content is parsed once")

	second, err := loader.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Same(t, first.Templates[0].Document, second.Templates[0].Document)

	writeFile(t, dir, "vfx.json", `{"name": "Changed", "version": "2", "project_folders": [], "shot_tree": {}, "asset_tree": {}}`)
	third, err := loader.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, 2, loader.CacheLen())

	info, ok := third.Find("vfx")
	require.True(t, ok)
	assert.Equal(t, "Changed", info.Name)
}

func TestLoader_CacheEviction(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"name": "A", "version": "1", "project_folders": [], "shot_tree": {}, "asset_tree": {}}`)
	writeFile(t, dir, "b.json", `{"name": "B", "version": "1", "project_folders": [], "shot_tree": {}, "asset_tree": {}}`)

	loader := newTestLoader(t, dir, WithCacheSize(1))
	result, err := loader.LoadAll()
	require.NoError(t, err)
	assert.Len(t, result.Templates, 2)
	assert.Equal(t, 1, loader.CacheLen())
}

func TestNewLoader_InvalidCacheSize(t *testing.T) {
	_, err := NewLoader(t.TempDir(), fsops.NewRealFS(), hash.NewSHA256Hasher(), WithCacheSize(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create template cache")
}
