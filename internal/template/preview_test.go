package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	doc := mustDecode(t, `{
  "name": "VFX",
  "version": "1.0",
  "project_folders": ["assets"],
  "shot_tree": {"work": ["maya"], "tmp": []},
  "asset_tree": {"props": ["model"], "characters": {"work": ["zbrush"]}, "fx": 3}
}`)

	want := `VFX (v1.0)
----------------------------------------
Project folders:
  - assets

Shot tree:
  work/
    - maya
  tmp/
    (empty)

Asset tree:
  props/
    - model
  characters/
    work/
      - zbrush
  fx/
    (invalid)`

	assert.Equal(t, want, Preview(doc))
}

func TestPreview_EmptySections(t *testing.T) {
	doc := mustDecode(t, `{"name": "Bare", "version": "0.1", "project_folders": [], "shot_tree": {}, "asset_tree": {}}`)

	want := `Bare (v0.1)
----------------------------------------
Project folders:
  (none)

Shot tree:
  (none)

Asset tree:
  (none)`

	assert.Equal(t, want, Preview(doc))
}
