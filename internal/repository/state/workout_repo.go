// Package state implements repository.WorkoutRepository on top of any
// repository.StateStore, with schema-tolerant decoding.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"liftlog/workout-tracker/internal/domain"
	"liftlog/workout-tracker/internal/metrics"
	"liftlog/workout-tracker/internal/repository"
)

// CorruptPolicy decides what happens to stored bytes that fail to decode.
// Both policies load an empty collection.
type CorruptPolicy string

const (
	// PolicyDiscard deletes the corrupted record so the next load starts clean.
	PolicyDiscard CorruptPolicy = "discard"
	// PolicyRetain leaves the stored bytes untouched (legacy behaviour).
	PolicyRetain CorruptPolicy = "retain"
)

// Options configures the repository. Zero values use the default keys and PolicyDiscard.
type Options struct {
	WorkoutsKey string
	LogsKey     string
	Policy      CorruptPolicy
	Logger      *slog.Logger
}

type workoutRepository struct {
	store       repository.StateStore
	workoutsKey string
	logsKey     string
	policy      CorruptPolicy
	logger      *slog.Logger
}

// NewWorkoutRepository wraps a state store.
func NewWorkoutRepository(store repository.StateStore, opts Options) repository.WorkoutRepository {
	if opts.WorkoutsKey == "" {
		opts.WorkoutsKey = repository.DefaultWorkoutsKey
	}
	if opts.LogsKey == "" {
		opts.LogsKey = repository.DefaultLogsKey
	}
	if opts.Policy == "" {
		opts.Policy = PolicyDiscard
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &workoutRepository{
		store:       store,
		workoutsKey: opts.WorkoutsKey,
		logsKey:     opts.LogsKey,
		policy:      opts.Policy,
		logger:      opts.Logger,
	}
}

func (r *workoutRepository) Load(ctx context.Context) ([]domain.Workout, []domain.WorkoutLog, error) {
	workouts, err := r.loadWorkouts(ctx)
	if err != nil {
		return nil, nil, err
	}
	logs, err := r.loadLogs(ctx)
	if err != nil {
		return nil, nil, err
	}
	return workouts, logs, nil
}

func (r *workoutRepository) loadWorkouts(ctx context.Context) ([]domain.Workout, error) {
	data, ok, err := r.read(ctx, r.workoutsKey)
	if err != nil || !ok {
		return []domain.Workout{}, err
	}

	var records []workoutRecord
	if err := json.Unmarshal(data, &records); err != nil {
		r.handleCorrupt(ctx, r.workoutsKey, err)
		return []domain.Workout{}, nil
	}

	workouts := make([]domain.Workout, 0, len(records))
	for i := range records {
		w, droppedExercises, ok := records[i].toDomain()
		if !ok {
			r.logger.Warn("skipping stored workout without a name", "index", i)
			continue
		}
		if droppedExercises > 0 {
			r.logger.Warn("skipped stored exercises without a name", "workout", w.ID, "count", droppedExercises)
		}
		workouts = append(workouts, w)
	}
	return workouts, nil
}

func (r *workoutRepository) loadLogs(ctx context.Context) ([]domain.WorkoutLog, error) {
	data, ok, err := r.read(ctx, r.logsKey)
	if err != nil || !ok {
		return []domain.WorkoutLog{}, err
	}

	var records []logRecord
	if err := json.Unmarshal(data, &records); err != nil {
		r.handleCorrupt(ctx, r.logsKey, err)
		return []domain.WorkoutLog{}, nil
	}

	logs := make([]domain.WorkoutLog, 0, len(records))
	for i := range records {
		l, ok := records[i].toDomain()
		if !ok {
			r.logger.Warn("skipping invalid stored workout log", "index", i)
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// read reports ok=false when the key has never been written.
func (r *workoutRepository) read(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

func (r *workoutRepository) handleCorrupt(ctx context.Context, key string, decodeErr error) {
	metrics.StateDecodeFailuresTotal.WithLabelValues(key).Inc()
	r.logger.Error("stored collection is corrupted, starting empty", "key", key, "policy", r.policy, "error", decodeErr)
	if r.policy != PolicyDiscard {
		return
	}
	if err := r.store.Delete(ctx, key); err != nil {
		r.logger.Error("failed to clear corrupted collection", "key", key, "error", err)
	}
}

func (r *workoutRepository) SaveWorkouts(ctx context.Context, workouts []domain.Workout) error {
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	return r.write(ctx, r.workoutsKey, workouts)
}

func (r *workoutRepository) SaveLogs(ctx context.Context, logs []domain.WorkoutLog) error {
	if logs == nil {
		logs = []domain.WorkoutLog{}
	}
	return r.write(ctx, r.logsKey, logs)
}

func (r *workoutRepository) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
