// internal/domain/workout_log.go
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrInvalidLog wraps every WorkoutLog validation failure.
var ErrInvalidLog = errors.New("invalid workout log")

// Default prescription shown when an exercise has never been logged.
const (
	DefaultSets = 3
	DefaultReps = 10
)

var validate = validator.New()

// WorkoutLog records one logged set-group. ExerciseID is a weak reference:
// the exercise may be deleted later and the log stays behind.
type WorkoutLog struct {
	ID           uuid.UUID `json:"id"`
	Date         time.Time `json:"date"`
	ExerciseID   uuid.UUID `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName" validate:"required"`
	Sets         int       `json:"sets" validate:"gt=0"`
	Reps         int       `json:"reps" validate:"gt=0"`
	Weight       float64   `json:"weight" validate:"gte=0"`
}

// NewWorkoutLog validates and builds a log. A zero date means now.
func NewWorkoutLog(exerciseID uuid.UUID, exerciseName string, sets, reps int, weight float64, date time.Time) (*WorkoutLog, error) {
	if date.IsZero() {
		date = time.Now().UTC()
	}
	log := &WorkoutLog{
		ID:           uuid.New(),
		Date:         date,
		ExerciseID:   exerciseID,
		ExerciseName: exerciseName,
		Sets:         sets,
		Reps:         reps,
		Weight:       weight,
	}
	if err := log.Validate(); err != nil {
		return nil, err
	}
	return log, nil
}

func (l *WorkoutLog) Validate() error {
	if l.ExerciseID == uuid.Nil {
		return fmt.Errorf("%w: exercise id is required", ErrInvalidLog)
	}
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLog, err)
	}
	return nil
}
