package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftlog/workout-tracker/internal/aggregate"
	"liftlog/workout-tracker/internal/domain"
	badgerstore "liftlog/workout-tracker/internal/repository/badger"
	"liftlog/workout-tracker/internal/repository/state"
)

func newLoadedService(t *testing.T, repo *memRepo) WorkoutService {
	t.Helper()
	svc := NewWorkoutService(repo, NewClassificationService(nil, nil, nil), WorkoutServiceOptions{})
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestWorkoutService_RequiresLoad(t *testing.T) {
	svc := NewWorkoutService(&memRepo{}, NewClassificationService(nil, nil, nil), WorkoutServiceOptions{})

	_, err := svc.Workouts()
	assert.ErrorIs(t, err, ErrStoreNotLoaded)
	_, err = svc.CreateWorkout(context.Background(), "Push", nil)
	assert.ErrorIs(t, err, ErrStoreNotLoaded)
}

func TestWorkoutService_LoadFailure(t *testing.T) {
	svc := NewWorkoutService(&memRepo{loadErr: errors.New("io")}, NewClassificationService(nil, nil, nil), WorkoutServiceOptions{})

	assert.Error(t, svc.Load(context.Background()))
	_, err := svc.Workouts()
	assert.ErrorIs(t, err, ErrStoreNotLoaded)
}

func TestCreateWorkout(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	svc := newLoadedService(t, repo)

	w, err := svc.CreateWorkout(ctx, "  Push Day ", &domain.Color{Red: 1, Alpha: 1})
	require.NoError(t, err)
	assert.Equal(t, "Push Day", w.Name)
	assert.Empty(t, w.Exercises)

	_, err = svc.CreateWorkout(ctx, "   ", nil)
	assert.ErrorIs(t, err, ErrValidationFailed)

	require.Len(t, repo.workouts, 1)
	assert.Equal(t, w.ID, repo.workouts[0].ID)
}

func TestUpdateWorkout(t *testing.T) {
	ctx := context.Background()
	svc := newLoadedService(t, &memRepo{})
	w, err := svc.CreateWorkout(ctx, "Push", &domain.Color{Red: 1, Alpha: 1})
	require.NoError(t, err)

	updated, err := svc.UpdateWorkout(ctx, w.ID, "Push A", nil)
	require.NoError(t, err)
	assert.Equal(t, "Push A", updated.Name)
	assert.Nil(t, updated.Color)

	_, err = svc.UpdateWorkout(ctx, w.ID, "", nil)
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = svc.UpdateWorkout(ctx, uuid.New(), "Other", nil)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestSaveFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	svc := newLoadedService(t, repo)
	w, err := svc.CreateWorkout(ctx, "Push", nil)
	require.NoError(t, err)

	repo.saveErr = errors.New("disk full")
	_, err = svc.UpdateWorkout(ctx, w.ID, "Renamed", nil)
	require.Error(t, err)

	got, err := svc.Workout(w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push", got.Name)
}

func TestAddExercise_ClassifiesAndPersists(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	svc := newLoadedService(t, repo)
	w, err := svc.CreateWorkout(ctx, "Push", nil)
	require.NoError(t, err)

	e, result, err := svc.AddExercise(ctx, w.ID, "Incline Bench Press", nil)

	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, result.Source)
	assert.Equal(t, []domain.DetailedMuscle{domain.UpperChest, domain.AnteriorDeltoids, domain.Triceps}, e.DetailedMuscles)
	assert.Equal(t, []domain.MuscleGroup{domain.GroupChest, domain.GroupShoulders, domain.GroupTriceps}, e.MuscleGroups)
	require.Len(t, repo.workouts[0].Exercises, 1)
	assert.Equal(t, e.ID, repo.workouts[0].Exercises[0].ID)
}

func TestAddExercise_Validation(t *testing.T) {
	ctx := context.Background()
	calls := int32(0)
	remote := classifierFunc(func(context.Context, string) ([]domain.DetailedMuscle, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	})
	svc := NewWorkoutService(&memRepo{}, NewClassificationService(remote, nil, nil), WorkoutServiceOptions{})
	require.NoError(t, svc.Load(ctx))
	w, err := svc.CreateWorkout(ctx, "Push", nil)
	require.NoError(t, err)

	_, _, err = svc.AddExercise(ctx, w.ID, " ", nil)
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, _, err = svc.AddExercise(ctx, w.ID, "Bench", []domain.MuscleGroup{"Neck"})
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, _, err = svc.AddExercise(ctx, uuid.New(), "Bench", nil)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
	assert.Zero(t, atomic.LoadInt32(&calls), "rejected input must not reach the classifier")
}

func TestSetExerciseMuscleGroups_NoReconciliation(t *testing.T) {
	ctx := context.Background()
	svc := newLoadedService(t, &memRepo{})
	w, _ := svc.CreateWorkout(ctx, "Pull", nil)
	e, _, err := svc.AddExercise(ctx, w.ID, "Pull-up", nil)
	require.NoError(t, err)

	updated, err := svc.SetExerciseMuscleGroups(ctx, w.ID, e.ID, []domain.MuscleGroup{domain.GroupBiceps})

	require.NoError(t, err)
	assert.Equal(t, []domain.MuscleGroup{domain.GroupBiceps}, updated.MuscleGroups)
	assert.Equal(t, e.DetailedMuscles, updated.DetailedMuscles)
	assert.Contains(t, updated.MissingGroups(), domain.GroupBack)

	_, err = svc.SetExerciseMuscleGroups(ctx, w.ID, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestRemoveExercise(t *testing.T) {
	ctx := context.Background()
	svc := newLoadedService(t, &memRepo{})
	w, _ := svc.CreateWorkout(ctx, "Legs", nil)
	e1, _, _ := svc.AddExercise(ctx, w.ID, "Squat", nil)
	e2, _, _ := svc.AddExercise(ctx, w.ID, "Leg Curl", nil)

	require.NoError(t, svc.RemoveExercise(ctx, w.ID, e1.ID))
	assert.ErrorIs(t, svc.RemoveExercise(ctx, w.ID, e1.ID), ErrExerciseNotFound)

	got, err := svc.Workout(w.ID)
	require.NoError(t, err)
	require.Len(t, got.Exercises, 1)
	assert.Equal(t, e2.ID, got.Exercises[0].ID)
}

func TestReclassify(t *testing.T) {
	ctx := context.Background()
	online := atomic.Bool{}
	remote := classifierFunc(func(_ context.Context, name string) ([]domain.DetailedMuscle, error) {
		if !online.Load() {
			return nil, errors.New("offline")
		}
		if name == "Mystery Machine" {
			return []domain.DetailedMuscle{domain.Obliques}, nil
		}
		return []domain.DetailedMuscle{domain.Quads}, nil
	})
	svc := NewWorkoutService(&memRepo{}, NewClassificationService(remote, nil, nil), WorkoutServiceOptions{ReclassifyConcurrency: 2})
	require.NoError(t, svc.Load(ctx))
	w, _ := svc.CreateWorkout(ctx, "Mixed", nil)
	squat, _, _ := svc.AddExercise(ctx, w.ID, "Squat", nil)
	mystery, result, _ := svc.AddExercise(ctx, w.ID, "Mystery Machine", nil)
	assert.Equal(t, AdvisoryManualSelection, result.Advisory)
	assert.Empty(t, mystery.DetailedMuscles)

	online.Store(true)
	updated, n, err := svc.ReclassifyWorkout(ctx, w.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, squat.DetailedMuscles, updated.Exercises[0].DetailedMuscles, "classified exercises are left alone")
	assert.Equal(t, []domain.DetailedMuscle{domain.Obliques}, updated.Exercises[1].DetailedMuscles)
	assert.Equal(t, []domain.MuscleGroup{domain.GroupAbs}, updated.Exercises[1].MuscleGroups)

	e, result, err := svc.ReclassifyExercise(ctx, w.ID, squat.ID)
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, result.Source)
	assert.Equal(t, []domain.DetailedMuscle{domain.Quads}, e.DetailedMuscles)
	assert.Equal(t, squat.MuscleGroups, e.MuscleGroups, "existing groups are kept as a manual choice")
}

func TestLogs(t *testing.T) {
	ctx := context.Background()
	svc := newLoadedService(t, &memRepo{})
	w, _ := svc.CreateWorkout(ctx, "Push", nil)
	e, _, _ := svc.AddExercise(ctx, w.ID, "Bench Press", nil)

	p, err := svc.LatestLog(e.ID)
	require.NoError(t, err)
	assert.Equal(t, Prescription{Sets: 3, Reps: 10}, p)

	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err = svc.LogExercise(ctx, e.ID, LogInput{Sets: 5, Reps: 5, Weight: 100, Date: day.Add(48 * time.Hour)})
	require.NoError(t, err)
	first, err := svc.LogExercise(ctx, e.ID, LogInput{Sets: 3, Reps: 8, Weight: 90, Date: day})
	require.NoError(t, err)
	assert.Equal(t, "Bench Press", first.ExerciseName)

	_, err = svc.LogExercise(ctx, e.ID, LogInput{Sets: 0, Reps: 8, Weight: 90})
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = svc.LogExercise(ctx, uuid.New(), LogInput{Sets: 1, Reps: 1})
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	logs, err := svc.LogsForExercise(e.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, day, logs[0].Date)

	progress, err := svc.Progress(e.ID)
	require.NoError(t, err)
	assert.Equal(t, []ProgressPoint{{Date: day, Weight: 90}, {Date: day.Add(48 * time.Hour), Weight: 100}}, progress)

	p, err = svc.LatestLog(e.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Sets)
	assert.Equal(t, 100.0, p.Weight)
	require.NotNil(t, p.Last)
}

func TestDeleteWorkout_OrphansLogsUntilReset(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	svc := newLoadedService(t, repo)
	keep, _ := svc.CreateWorkout(ctx, "Keep", nil)
	doomed, _ := svc.CreateWorkout(ctx, "Doomed", nil)
	e, _, _ := svc.AddExercise(ctx, doomed.ID, "Curl", nil)
	other, _, _ := svc.AddExercise(ctx, keep.ID, "Squat", nil)
	_, err := svc.LogExercise(ctx, e.ID, LogInput{Sets: 3, Reps: 12, Weight: 15})
	require.NoError(t, err)
	_, err = svc.LogExercise(ctx, other.ID, LogInput{Sets: 3, Reps: 5, Weight: 120})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWorkout(ctx, doomed.ID))
	assert.ErrorIs(t, svc.DeleteWorkout(ctx, doomed.ID), ErrWorkoutNotFound)

	require.Len(t, repo.workouts, 1)
	assert.Equal(t, keep.ID, repo.workouts[0].ID)
	assert.Len(t, repo.logs, 2)
	orphaned, err := svc.LogsForExercise(e.ID)
	require.NoError(t, err)
	assert.Len(t, orphaned, 1)

	removed, err := svc.ResetLogsForExercise(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, other.ID, repo.logs[0].ExerciseID)

	removed, err = svc.ResetLogsForExercise(ctx, e.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestIntensity(t *testing.T) {
	ctx := context.Background()
	svc := newLoadedService(t, &memRepo{})
	w, _ := svc.CreateWorkout(ctx, "Pull", nil)
	_, _, _ = svc.AddExercise(ctx, w.ID, "Pull-up", nil)
	_, _, _ = svc.AddExercise(ctx, w.ID, "Barbell Row", nil)

	s, err := svc.Intensity(w.ID)
	require.NoError(t, err)

	counts := map[domain.DetailedMuscle]int{}
	for _, row := range s.Muscles {
		counts[row.Muscle] = row.Count
	}
	assert.Equal(t, 2, counts[domain.Lats])
	assert.Equal(t, 2, counts[domain.Biceps])
	assert.Equal(t, 1, counts[domain.MidBack])
	assert.Equal(t, aggregate.LevelHeavy, aggregate.LevelOf(counts[domain.Lats]))

	_, err = svc.Intensity(uuid.New())
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestStatePersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	db, err := badgerstore.Open(badgerstore.Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := state.NewWorkoutRepository(badgerstore.NewStateStore(db), state.Options{})
	classifications := NewClassificationService(nil, nil, nil)

	first := NewWorkoutService(repo, classifications, WorkoutServiceOptions{})
	require.NoError(t, first.Load(ctx))
	w, err := first.CreateWorkout(ctx, "Legs", &domain.Color{Green: 1, Alpha: 1})
	require.NoError(t, err)
	e, _, err := first.AddExercise(ctx, w.ID, "Romanian Deadlift", nil)
	require.NoError(t, err)
	_, err = first.LogExercise(ctx, e.ID, LogInput{Sets: 4, Reps: 8, Weight: 80})
	require.NoError(t, err)

	second := NewWorkoutService(repo, classifications, WorkoutServiceOptions{})
	require.NoError(t, second.Load(ctx))

	got, err := second.Workout(w.ID)
	require.NoError(t, err)
	require.Len(t, got.Exercises, 1)
	assert.Equal(t, *e, got.Exercises[0])
	assert.Equal(t, w.Color, got.Color)
	logs, err := second.LogsForExercise(e.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
