// internal/domain/exercise.go
package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyName is returned when a workout or exercise would be created without a name.
var ErrEmptyName = errors.New("name cannot be empty")

// Exercise is a single movement inside a workout. It has no lifecycle of its own.
type Exercise struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	// MuscleGroups is the coarse tagging, possibly edited by hand after classification.
	MuscleGroups []MuscleGroup `json:"muscleGroups"`
	// DetailedMuscles is classifier output. Empty when classification never ran or found nothing.
	DetailedMuscles []DetailedMuscle `json:"detailedMuscles"`
}

// NewExercise builds an exercise with a fresh id. Groups and muscles are normalised;
// no reconciliation between the two is attempted.
func NewExercise(name string, groups []MuscleGroup, muscles []DetailedMuscle) (*Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Exercise{
		ID:              uuid.New(),
		Name:            name,
		MuscleGroups:    NormalizeGroups(groups),
		DetailedMuscles: NormalizeMuscles(muscles),
	}, nil
}

// Targets reports whether the exercise's detailed muscles include m.
func (e *Exercise) Targets(m DetailedMuscle) bool {
	for _, dm := range e.DetailedMuscles {
		if dm == m {
			return true
		}
	}
	return false
}

// MissingGroups lists groups derivable from DetailedMuscles that MuscleGroups does not carry.
// Divergence is allowed; this only reports it.
func (e *Exercise) MissingGroups() []MuscleGroup {
	have := make(map[MuscleGroup]struct{}, len(e.MuscleGroups))
	for _, g := range e.MuscleGroups {
		have[g] = struct{}{}
	}
	var missing []MuscleGroup
	for _, g := range GroupsOf(e.DetailedMuscles) {
		if _, ok := have[g]; !ok {
			missing = append(missing, g)
		}
	}
	return missing
}

// Clone returns a deep copy.
func (e Exercise) Clone() Exercise {
	e.MuscleGroups = append([]MuscleGroup{}, e.MuscleGroups...)
	e.DetailedMuscles = append([]DetailedMuscle{}, e.DetailedMuscles...)
	return e
}
