package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkoutRejectsEmptyName(t *testing.T) {
	_, err := NewWorkout("   ", nil)
	assert.ErrorIs(t, err, ErrEmptyName)

	w, err := NewWorkout(" Push ", &Color{Red: 1, Alpha: 1})
	require.NoError(t, err)
	assert.Equal(t, "Push", w.Name)
	assert.NotEqual(t, uuid.Nil, w.ID)
	assert.NotNil(t, w.Exercises)
}

func TestNewExerciseNormalisesWithoutReconciling(t *testing.T) {
	_, err := NewExercise("", nil, nil)
	assert.ErrorIs(t, err, ErrEmptyName)

	e, err := NewExercise("Pull-ups", []MuscleGroup{GroupBack, GroupBack}, []DetailedMuscle{Lats, Biceps})
	require.NoError(t, err)
	assert.Equal(t, []MuscleGroup{GroupBack}, e.MuscleGroups)
	assert.Equal(t, []DetailedMuscle{Lats, Biceps}, e.DetailedMuscles)
	assert.Equal(t, []MuscleGroup{GroupBiceps}, e.MissingGroups())
}

func TestWorkoutExerciseOrdering(t *testing.T) {
	w, err := NewWorkout("Pull", nil)
	require.NoError(t, err)
	a, _ := NewExercise("Pull-ups", nil, nil)
	b, _ := NewExercise("Cable Row", nil, nil)
	c, _ := NewExercise("Curl", nil, nil)
	w.AddExercise(*a)
	w.AddExercise(*b)
	w.AddExercise(*c)

	assert.True(t, w.RemoveExercise(b.ID))
	assert.False(t, w.RemoveExercise(b.ID))
	require.Len(t, w.Exercises, 2)
	assert.Equal(t, a.ID, w.Exercises[0].ID)
	assert.Equal(t, c.ID, w.Exercises[1].ID)
}

func TestWorkoutCloneIsDeep(t *testing.T) {
	w, _ := NewWorkout("Legs", &Color{Green: 0.5, Alpha: 1})
	e, _ := NewExercise("Squat", []MuscleGroup{GroupQuads}, []DetailedMuscle{Quads})
	w.AddExercise(*e)

	clone := w.Clone()
	clone.Exercises[0].DetailedMuscles[0] = Glutes
	clone.Color.Green = 1

	assert.Equal(t, Quads, w.Exercises[0].DetailedMuscles[0])
	assert.Equal(t, 0.5, w.Color.Green)
}

func TestNewWorkoutLogValidation(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name    string
		sets    int
		reps    int
		weight  float64
		exID    uuid.UUID
		wantErr bool
	}{
		{"valid", 3, 10, 60, id, false},
		{"bodyweight", 3, 10, 0, id, false},
		{"zero sets", 0, 10, 60, id, true},
		{"zero reps", 3, 0, 60, id, true},
		{"negative weight", 3, 10, -1, id, true},
		{"missing exercise", 3, 10, 60, uuid.Nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewWorkoutLog(tt.exID, "Bench", tt.sets, tt.reps, tt.weight, time.Time{})
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidLog))
				return
			}
			require.NoError(t, err)
			assert.False(t, log.Date.IsZero())
		})
	}
}

func TestExerciseTargets(t *testing.T) {
	e, err := NewExercise("Row", nil, []DetailedMuscle{Lats, Biceps})
	require.NoError(t, err)

	assert.True(t, e.Targets(Lats))
	assert.False(t, e.Targets(Quads))
}
