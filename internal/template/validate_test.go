package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTemplateJSON = `{
  "name": "VFX Default",
  "version": "1.0",
  "project_folders": ["assets", "sequences", "production"],
  "shot_tree": {"work": ["maya", "houdini"], "docs": ["notes.md"]},
  "asset_tree": {
    "props": ["model", "readme.txt"],
    "characters": {"work": ["zbrush", "maya"], "publish": []}
  }
}`

func mustDecode(t *testing.T, src string) *Node {
	t.Helper()
	doc, err := DecodeJSON([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestValidate_ValidTemplate(t *testing.T) {
	issues, err := Validate(mustDecode(t, validTemplateJSON))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidate_NotObject(t *testing.T) {
	for _, src := range []string{`[]`, `"x"`, `null`, `3`} {
		_, err := Validate(mustDecode(t, src))
		assert.ErrorIs(t, err, ErrNotObject, src)
	}
	_, err := Validate(nil)
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestValidate_MissingKeysShortCircuit(t *testing.T) {
	// version has the wrong type too, but only missing keys are reported.
	issues, err := Validate(mustDecode(t, `{"name": "Bad", "version": 3, "shot_tree": {}}`))
	require.NoError(t, err)

	require.Len(t, issues, 2)
	assert.Equal(t, Issue{Code: CodeMissingKey, Message: "missing required key 'project_folders'", Path: "project_folders"}, issues[0])
	assert.Equal(t, CodeMissingKey, issues[1].Code)
	assert.Equal(t, "asset_tree", issues[1].Path)
}

func TestValidate_Issues(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		codes []string
		paths []string
	}{
		{
			name:  "blank name and non-string version",
			src:   `{"name": "  ", "version": 1, "project_folders": [], "shot_tree": {}, "asset_tree": {}}`,
			codes: []string{CodeBadType, CodeBadType},
			paths: []string{"name", "version"},
		},
		{
			name:  "project_folders not a list",
			src:   `{"name": "n", "version": "1", "project_folders": "assets", "shot_tree": {}, "asset_tree": {}}`,
			codes: []string{CodeBadType},
			paths: []string{"project_folders"},
		},
		{
			name:  "project_folders bad items",
			src:   `{"name": "n", "version": "1", "project_folders": ["ok", "", 4, "README.MD"], "shot_tree": {}, "asset_tree": {}}`,
			codes: []string{CodeBadItem, CodeBadItem, CodeBadItem},
			paths: []string{"project_folders[1]", "project_folders[2]", "project_folders[3]"},
		},
		{
			name:  "shot_tree shapes",
			src:   `{"name": "n", "version": "1", "project_folders": [], "shot_tree": {"": ["a"], "work": "maya", "docs": ["notes.md", " "]}, "asset_tree": {}}`,
			codes: []string{CodeBadKey, CodeBadType, CodeBadItem},
			paths: []string{"shot_tree", "shot_tree.work", "shot_tree.docs[1]"},
		},
		{
			name:  "shot_tree not an object",
			src:   `{"name": "n", "version": "1", "project_folders": [], "shot_tree": [], "asset_tree": []}`,
			codes: []string{CodeBadType, CodeBadType},
			paths: []string{"shot_tree", "asset_tree"},
		},
		{
			name:  "asset_tree shapes",
			src:   `{"name": "n", "version": "1", "project_folders": [], "shot_tree": {}, "asset_tree": {"props": [1], "characters": {"work": ["a", null]}, "fx": 7}}`,
			codes: []string{CodeBadItem, CodeBadItem, CodeBadType},
			paths: []string{"asset_tree.props[0]", "asset_tree.characters.work[1]", "asset_tree.fx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := Validate(mustDecode(t, tt.src))
			require.NoError(t, err)

			var codes, paths []string
			for _, issue := range issues {
				codes = append(codes, issue.Code)
				paths = append(paths, issue.Path)
			}
			assert.Equal(t, tt.codes, codes)
			assert.Equal(t, tt.paths, paths)
		})
	}
}

func TestValidate_Deterministic(t *testing.T) {
	src := `{"name": "", "version": "", "project_folders": [1, 2], "shot_tree": {"a": 1, "b": [2]}, "asset_tree": {"x": 3}}`
	first, err := Validate(mustDecode(t, src))
	require.NoError(t, err)
	second, err := Validate(mustDecode(t, src))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIssueString(t *testing.T) {
	assert.Equal(t, "[BAD_ITEM] (shot_tree.docs[0]) tree list items must be non-empty strings",
		Issue{Code: CodeBadItem, Message: "tree list items must be non-empty strings", Path: "shot_tree.docs[0]"}.String())
	assert.Equal(t, "[LOAD_FAIL] invalid JSON", Issue{Code: CodeLoadFail, Message: "invalid JSON"}.String())
}

func TestIsStarterFile(t *testing.T) {
	tests := map[string]bool{
		"notes.md":        true,
		"README.MD":       true,
		"meta.json":       true,
		"todo.Txt":        true,
		"maya":            false,
		"notes.mdx":       false,
		"scene.ma":        false,
		"json":            false,
		"archive.txt.bak": false,
	}
	for name, want := range tests {
		assert.Equal(t, want, IsStarterFile(name), name)
	}
}

func TestFromDocument(t *testing.T) {
	tmpl := FromDocument(mustDecode(t, validTemplateJSON))

	assert.Equal(t, "VFX Default", tmpl.Name)
	assert.Equal(t, "1.0", tmpl.Version)
	assert.Equal(t, []string{"assets", "sequences", "production"}, tmpl.ProjectFolders)
	assert.Equal(t, Tree{
		{Folder: "work", Children: []string{"maya", "houdini"}},
		{Folder: "docs", Children: []string{"notes.md"}},
	}, tmpl.ShotTree)

	props, ok := tmpl.Category("props")
	require.True(t, ok)
	assert.Equal(t, ShapeList, props.Shape)
	assert.Equal(t, []string{"model", "readme.txt"}, props.Items)

	chars, ok := tmpl.Category("characters")
	require.True(t, ok)
	assert.Equal(t, ShapeTree, chars.Shape)
	assert.Equal(t, Tree{
		{Folder: "work", Children: []string{"zbrush", "maya"}},
		{Folder: "publish"},
	}, chars.Tree)

	_, ok = tmpl.Category("vehicles")
	assert.False(t, ok)
}

func TestFromDocument_Tolerant(t *testing.T) {
	tmpl := FromDocument(mustDecode(t, `{"shot_tree": {"work": "maya", "docs": ["", 3, "a.md"]}, "asset_tree": {"fx": 1}}`))

	assert.Empty(t, tmpl.Name)
	assert.Equal(t, Tree{
		{Folder: "work", Malformed: true},
		{Folder: "docs", Children: []string{"a.md"}, Dropped: 2},
	}, tmpl.ShotTree)

	fx, ok := tmpl.Category("fx")
	require.True(t, ok)
	assert.Equal(t, ShapeInvalid, fx.Shape)
}

func TestFromDocument_CountsDroppedItems(t *testing.T) {
	tmpl := FromDocument(mustDecode(t, `{
		"project_folders": ["editorial", null, "  "],
		"asset_tree": {"props": ["work", {"x": 1}, "notes.md"], "chars": ["work"]}
	}`))

	assert.Equal(t, []string{"editorial"}, tmpl.ProjectFolders)
	assert.Equal(t, 2, tmpl.DroppedFolders)

	props, ok := tmpl.Category("props")
	require.True(t, ok)
	assert.Equal(t, []string{"work", "notes.md"}, props.Items)
	assert.Equal(t, 1, props.Dropped)

	chars, ok := tmpl.Category("chars")
	require.True(t, ok)
	assert.Zero(t, chars.Dropped)
}
