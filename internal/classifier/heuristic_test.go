package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftlog/workout-tracker/internal/domain"
)

func TestHeuristic_InclineBenchPressPrefersUpperChest(t *testing.T) {
	got := NewHeuristic().ClassifyName("Incline Bench Press")

	assert.ElementsMatch(t, []domain.DetailedMuscle{domain.UpperChest, domain.AnteriorDeltoids, domain.Triceps}, got)
	assert.NotContains(t, got, domain.MidChest)
	assert.NotContains(t, got, domain.LowerChest)
}

func TestHeuristic_Deadlift(t *testing.T) {
	got := NewHeuristic().ClassifyName("Deadlift")

	assert.Subset(t, got, []domain.DetailedMuscle{domain.Hamstrings, domain.Glutes, domain.LowerBack, domain.Traps})
}

func TestHeuristic_Table(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []domain.DetailedMuscle
		without []domain.DetailedMuscle
	}{
		{
			name:  "flat bench",
			input: "Bench Press",
			want:  []domain.DetailedMuscle{domain.MidChest, domain.AnteriorDeltoids, domain.Triceps},
		},
		{
			name:    "shoulder press is not chest",
			input:   "Seated Shoulder Press",
			want:    []domain.DetailedMuscle{domain.AnteriorDeltoids, domain.LateralDeltoids, domain.Triceps},
			without: []domain.DetailedMuscle{domain.MidChest},
		},
		{
			name:    "leg press is not chest",
			input:   "Leg Press",
			want:    []domain.DetailedMuscle{domain.Quads, domain.Glutes},
			without: []domain.DetailedMuscle{domain.MidChest},
		},
		{
			name:    "leg curl is not biceps",
			input:   "Lying Leg Curl",
			want:    []domain.DetailedMuscle{domain.Hamstrings},
			without: []domain.DetailedMuscle{domain.Biceps},
		},
		{
			name:  "hammer curl",
			input: "Hammer Curl",
			want:  []domain.DetailedMuscle{domain.Biceps, domain.Forearms},
		},
		{
			name:  "pull ups",
			input: "Pull-ups",
			want:  []domain.DetailedMuscle{domain.Lats, domain.UpperBack, domain.Biceps},
		},
		{
			name:    "lateral raise is not lats",
			input:   "Dumbbell Lateral Raise",
			want:    []domain.DetailedMuscle{domain.LateralDeltoids},
			without: []domain.DetailedMuscle{domain.Lats},
		},
		{
			name:    "upright row is shoulders not back",
			input:   "Upright Row",
			want:    []domain.DetailedMuscle{domain.LateralDeltoids, domain.Traps},
			without: []domain.DetailedMuscle{domain.MidBack},
		},
		{
			name:    "hanging leg raise",
			input:   "Hanging Leg Raise",
			want:    []domain.DetailedMuscle{domain.LowerAbs},
			without: []domain.DetailedMuscle{domain.Quads},
		},
		{
			name:  "abbreviation rdl",
			input: "DB RDL",
			want:  []domain.DetailedMuscle{domain.Hamstrings, domain.Glutes, domain.LowerBack},
		},
		{
			name:  "abbreviation ohp",
			input: "OHP",
			want:  []domain.DetailedMuscle{domain.AnteriorDeltoids, domain.LateralDeltoids, domain.Triceps},
		},
		{
			name:  "back squat",
			input: "Back Squat",
			want:  []domain.DetailedMuscle{domain.Quads, domain.Glutes},
			without: []domain.DetailedMuscle{domain.UpperBack, domain.MidBack},
		},
		{
			name:  "dips hit chest and arms regions",
			input: "Dips",
			want:  []domain.DetailedMuscle{domain.LowerChest, domain.Triceps},
		},
		{
			name:    "narrow grip is neither back nor forearms",
			input:   "Narrow Grip Bench Press",
			want:    []domain.DetailedMuscle{domain.MidChest, domain.Triceps},
			without: []domain.DetailedMuscle{domain.MidBack, domain.Lats, domain.Forearms, domain.Biceps},
		},
		{
			name:    "narrow-grip hyphenated",
			input:   "Narrow-Grip Bench Press",
			want:    []domain.DetailedMuscle{domain.MidChest},
			without: []domain.DetailedMuscle{domain.Forearms, domain.Lats},
		},
		{
			name:    "row inside another word",
			input:   "Medicine Ball Throw",
			without: []domain.DetailedMuscle{domain.MidBack, domain.Lats, domain.PosteriorDeltoids, domain.Biceps},
		},
		{
			name:  "plural rows still match",
			input: "Cable Rows",
			want:  []domain.DetailedMuscle{domain.MidBack, domain.Lats},
		},
		{
			name:  "hyphenated compound",
			input: "Lat-Pulldown",
			want:  []domain.DetailedMuscle{domain.Lats},
		},
	}

	h := NewHeuristic()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.ClassifyName(tt.input)
			assert.Subset(t, got, tt.want)
			for _, m := range tt.without {
				assert.NotContains(t, got, m)
			}
		})
	}
}

func TestHeuristic_CaseInsensitive(t *testing.T) {
	h := NewHeuristic()
	assert.Equal(t, h.ClassifyName("incline bench press"), h.ClassifyName("INCLINE BENCH PRESS"))
}

func TestHeuristic_NoMatchIsEmptyNotNil(t *testing.T) {
	got, err := NewHeuristic().Classify(context.Background(), "Zumba")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHeuristic_ResultIsDuplicateFree(t *testing.T) {
	got := NewHeuristic().ClassifyName("Close Grip Bench Press Dips")
	seen := map[domain.DetailedMuscle]bool{}
	for _, m := range got {
		assert.False(t, seen[m], "duplicate %q", m)
		seen[m] = true
	}
}
