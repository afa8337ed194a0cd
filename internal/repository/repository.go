package repository

import (
	"context"

	"liftlog/workout-tracker/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound    = RepositoryError("not found")
	ErrWriteFailed = RepositoryError("write failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Default storage keys for the two persisted records.
const (
	DefaultWorkoutsKey = "saved_workouts"
	DefaultLogsKey     = "saved_workout_logs"
)

// StateStore is a byte-oriented named-record store. Backends: badger, mongo, s3.
type StateStore interface {
	// Get returns ErrNotFound when the key has never been written or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
}

// WorkoutRepository persists the two independent top-level collections.
type WorkoutRepository interface {
	// Load never fails on undecodable records; those degrade to empty collections.
	// Errors are returned only when the underlying store cannot be read.
	Load(ctx context.Context) ([]domain.Workout, []domain.WorkoutLog, error)
	SaveWorkouts(ctx context.Context, workouts []domain.Workout) error
	SaveLogs(ctx context.Context, logs []domain.WorkoutLog) error
}
