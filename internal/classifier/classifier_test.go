package classifier

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftlog/workout-tracker/internal/domain"
)

func TestParseMuscleList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []domain.DetailedMuscle
	}{
		{
			name: "plain array",
			text: `["Upper Chest", "Anterior Deltoids", "Triceps"]`,
			want: []domain.DetailedMuscle{domain.UpperChest, domain.AnteriorDeltoids, domain.Triceps},
		},
		{
			name: "json fence",
			text: "```json\n[\"Lats\", \"Biceps\"]\n```",
			want: []domain.DetailedMuscle{domain.Lats, domain.Biceps},
		},
		{
			name: "bare fence",
			text: "```\n[\"Quads\"]\n```",
			want: []domain.DetailedMuscle{domain.Quads},
		},
		{
			name: "surrounding prose",
			text: `Sure! The muscles are ["Glutes", "Hamstrings"] as requested.`,
			want: []domain.DetailedMuscle{domain.Glutes, domain.Hamstrings},
		},
		{
			name: "unknown and wrong-case labels dropped",
			text: `["Upper Chest", "upper chest", "Neck", "Traps"]`,
			want: []domain.DetailedMuscle{domain.UpperChest, domain.Traps},
		},
		{
			name: "empty array is valid",
			text: `[]`,
			want: []domain.DetailedMuscle{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMuscleList(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMuscleList_Unparseable(t *testing.T) {
	for _, text := range []string{"", "no array here", `{"muscles": 1}`, `[1, 2]`, "null", "```json\nnull\n```"} {
		_, err := ParseMuscleList(text)
		assert.True(t, errors.Is(err, ErrUnparseableList), "text %q", text)
	}
}

func TestBuildPromptListsEveryLabel(t *testing.T) {
	prompt := BuildPrompt("Cable Row")
	assert.Contains(t, prompt, `"Cable Row"`)
	for _, m := range domain.AllDetailedMuscles() {
		assert.True(t, strings.Contains(prompt, `"`+string(m)+`"`), "missing %q", m)
	}
}

func TestStatusErrorUnwrapsToRequestFailed(t *testing.T) {
	var err error = &StatusError{Code: 429}
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "429")
}
