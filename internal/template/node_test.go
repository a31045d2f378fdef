package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_PreservesKeyOrder(t *testing.T) {
	doc, err := DecodeJSON([]byte(`{"zeta": 1, "alpha": [true, null, "x"], "mid": {"b": 2.5, "a": "y"}}`))
	require.NoError(t, err)
	require.Equal(t, MapNode, doc.Kind)

	var keys []string
	for _, f := range doc.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	alpha, ok := doc.Get("alpha")
	require.True(t, ok)
	require.Len(t, alpha.Items, 3)
	assert.Equal(t, BoolNode, alpha.Items[0].Kind)
	assert.Equal(t, NullNode, alpha.Items[1].Kind)
	assert.Equal(t, StringNode, alpha.Items[2].Kind)

	out, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":[true,null,"x"],"mid":{"b":2.5,"a":"y"}}`, string(out))
}

func TestDecodeJSON_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	doc, err := DecodeJSON([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)
	require.Len(t, doc.Fields, 2)
	assert.Equal(t, "a", doc.Fields[0].Key)
	assert.Equal(t, "3", doc.Fields[0].Value.Scalar)
}

func TestDecodeJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "empty document"},
		{name: "whitespace only", input: "  \n ", want: "empty document"},
		{name: "garbage", input: "{ this is not json", want: "invalid JSON (line 1"},
		{name: "truncated", input: "{\"a\": [1, 2", want: "unexpected end of document"},
		{name: "trailing data", input: "{} {}", want: "unexpected data after top-level value"},
		{name: "second line", input: "{\n  \"a\": ,\n}", want: "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeYAML_MatchesJSON(t *testing.T) {
	jsonDoc, err := DecodeJSON([]byte(`{
  "name": "VFX",
  "version": "1.0",
  "project_folders": ["assets", "sequences"],
  "shot_tree": {"work": ["maya", "nuke"], "docs": ["notes.md"]},
  "asset_tree": {"props": ["model"], "characters": {"work": ["zbrush"]}}
}`))
	require.NoError(t, err)

	yamlDoc, err := DecodeYAML([]byte(`
name: VFX
version: "1.0"
project_folders: [assets, sequences]
shot_tree:
  work: [maya, nuke]
  docs:
    - notes.md
asset_tree:
  props: [model]
  characters:
    work: [zbrush]
`))
	require.NoError(t, err)

	a, err := jsonDoc.MarshalJSON()
	require.NoError(t, err)
	b, err := yamlDoc.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
	assert.Equal(t, string(a), string(b), "key order must match too")
}

func TestDecodeYAML_ScalarKinds(t *testing.T) {
	doc, err := DecodeYAML([]byte("a: 1\nb: 1.5\nc: true\nd: ~\ne: text\n"))
	require.NoError(t, err)

	want := map[string]NodeKind{"a": NumberNode, "b": NumberNode, "c": BoolNode, "d": NullNode, "e": StringNode}
	for key, kind := range want {
		v, ok := doc.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, kind, v.Kind, key)
	}
}

func TestDecodeYAML_Errors(t *testing.T) {
	_, err := DecodeYAML([]byte(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")

	_, err = DecodeYAML([]byte("a: [1, 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YAML")
}

func TestNodeGet_NonMapping(t *testing.T) {
	var n *Node
	_, ok := n.Get("x")
	assert.False(t, ok)

	list := &Node{Kind: ListNode}
	_, ok = list.Get("x")
	assert.False(t, ok)
}
