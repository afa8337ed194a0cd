package service

import (
	"context"
	"sync"

	"liftlog/workout-tracker/internal/domain"
)

type classifierFunc func(ctx context.Context, name string) ([]domain.DetailedMuscle, error)

func (f classifierFunc) Classify(ctx context.Context, name string) ([]domain.DetailedMuscle, error) {
	return f(ctx, name)
}

// memRepo is an in-memory repository.WorkoutRepository.
type memRepo struct {
	mu        sync.Mutex
	workouts  []domain.Workout
	logs      []domain.WorkoutLog
	saveErr   error
	loadErr   error
	saveCalls int
}

func (r *memRepo) Load(context.Context) ([]domain.Workout, []domain.WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, nil, r.loadErr
	}
	return cloneWorkouts(r.workouts), append([]domain.WorkoutLog{}, r.logs...), nil
}

func (r *memRepo) SaveWorkouts(_ context.Context, workouts []domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.workouts = cloneWorkouts(workouts)
	return nil
}

func (r *memRepo) SaveLogs(_ context.Context, logs []domain.WorkoutLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.logs = append([]domain.WorkoutLog{}, logs...)
	return nil
}
