// internal/domain/workout.go
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Color is an RGBA display colour, each channel in [0,1]. Opaque to the core.
type Color struct {
	Red   float64 `json:"red" binding:"gte=0,lte=1"`
	Green float64 `json:"green" binding:"gte=0,lte=1"`
	Blue  float64 `json:"blue" binding:"gte=0,lte=1"`
	Alpha float64 `json:"alpha" binding:"gte=0,lte=1"`
}

// Workout is the aggregate root: it owns its exercises.
type Workout struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
	Color     *Color     `json:"color,omitempty"`
}

// NewWorkout builds an empty workout with a fresh id.
func NewWorkout(name string, color *Color) (*Workout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Workout{
		ID:        uuid.New(),
		Name:      name,
		Exercises: []Exercise{},
		Color:     color,
	}, nil
}

// ExerciseIndex returns the position of the exercise or -1.
func (w *Workout) ExerciseIndex(id uuid.UUID) int {
	for i := range w.Exercises {
		if w.Exercises[i].ID == id {
			return i
		}
	}
	return -1
}

// AddExercise appends, preserving insertion order.
func (w *Workout) AddExercise(e Exercise) {
	w.Exercises = append(w.Exercises, e)
}

// RemoveExercise drops the exercise and reports whether it was present.
func (w *Workout) RemoveExercise(id uuid.UUID) bool {
	i := w.ExerciseIndex(id)
	if i < 0 {
		return false
	}
	w.Exercises = append(w.Exercises[:i], w.Exercises[i+1:]...)
	return true
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (w Workout) Clone() Workout {
	exercises := make([]Exercise, len(w.Exercises))
	for i, e := range w.Exercises {
		exercises[i] = e.Clone()
	}
	w.Exercises = exercises
	if w.Color != nil {
		c := *w.Color
		w.Color = &c
	}
	return w
}
