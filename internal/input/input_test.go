package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danieljhkim/studiofold/internal/planner"
)

func TestParseGroups(t *testing.T) {
	tests := []struct {
		name string
		text string
		want planner.Groups
	}{
		{
			name: "inline lists",
			text: "SQ010: SH010, SH020\nSQ020: SH010 SH030",
			want: planner.Groups{
				{Name: "SQ010", Items: []string{"SH010", "SH020"}},
				{Name: "SQ020", Items: []string{"SH010", "SH030"}},
			},
		},
		{
			name: "bare group then item lines",
			text: "SQ010\n  SH010\n  SH020, SH030\n",
			want: planner.Groups{
				{Name: "SQ010", Items: []string{"SH010", "SH020", "SH030"}},
			},
		},
		{
			name: "repeated group merges and dedupes",
			text: "characters: Hero, Villain\nprops: Sword\ncharacters: Hero, Sidekick,,",
			want: planner.Groups{
				{Name: "characters", Items: []string{"Hero", "Villain", "Sidekick"}},
				{Name: "props", Items: []string{"Sword"}},
			},
		},
		{
			name: "item lines follow the last named group",
			text: "SQ010: SH010\nSH020\n\n\nSQ020: SH100",
			want: planner.Groups{
				{Name: "SQ010", Items: []string{"SH010", "SH020"}},
				{Name: "SQ020", Items: []string{"SH100"}},
			},
		},
		{
			name: "empty groups are pruned",
			text: "SQ010\n",
			want: planner.Groups{},
		},
		{
			name: "windows line endings",
			text: "SQ010: SH010\r\nSQ020: SH020\r\n",
			want: planner.Groups{
				{Name: "SQ010", Items: []string{"SH010"}},
				{Name: "SQ020", Items: []string{"SH020"}},
			},
		},
		{
			name: "blank input",
			text: "  \n\t\n",
			want: planner.Groups{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGroups(tt.text))
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	groups := planner.Groups{
		{Name: "SQ020", Items: []string{"SH020", "SH010"}},
		{Name: "SQ010", Items: []string{"SH100"}},
	}
	text := Format(groups)
	assert.Equal(t, "SQ020: SH020, SH010\nSQ010: SH100", text)
	assert.Equal(t, groups, ParseGroups(text))
}
