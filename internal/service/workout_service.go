package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"liftlog/workout-tracker/internal/aggregate"
	"liftlog/workout-tracker/internal/domain"
	"liftlog/workout-tracker/internal/repository"
)

// --- Error Definitions ---
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrStoreNotLoaded   = errors.New("workout store not loaded")
)

// DefaultReclassifyConcurrency bounds parallel remote calls in ReclassifyWorkout.
const DefaultReclassifyConcurrency = 4

// Prescription is what to perform next for an exercise: the latest log's
// numbers, or the default 3x10 when nothing was logged yet.
type Prescription struct {
	Sets   int                `json:"sets"`
	Reps   int                `json:"reps"`
	Weight float64            `json:"weight"`
	Last   *domain.WorkoutLog `json:"last,omitempty"`
}

// ProgressPoint is one sample of the weight chart.
type ProgressPoint struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

// LogInput carries one logged set-group. A zero Date means now.
type LogInput struct {
	Sets   int
	Reps   int
	Weight float64
	Date   time.Time
}

// --- Service Interface ---
type WorkoutService interface {
	Load(ctx context.Context) error
	Workouts() ([]domain.Workout, error)
	Workout(id uuid.UUID) (*domain.Workout, error)
	CreateWorkout(ctx context.Context, name string, color *domain.Color) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, id uuid.UUID, name string, color *domain.Color) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, id uuid.UUID) error

	AddExercise(ctx context.Context, workoutID uuid.UUID, name string, groups []domain.MuscleGroup) (*domain.Exercise, Classification, error)
	RemoveExercise(ctx context.Context, workoutID, exerciseID uuid.UUID) error
	SetExerciseMuscleGroups(ctx context.Context, workoutID, exerciseID uuid.UUID, groups []domain.MuscleGroup) (*domain.Exercise, error)
	ReclassifyExercise(ctx context.Context, workoutID, exerciseID uuid.UUID) (*domain.Exercise, Classification, error)
	ReclassifyWorkout(ctx context.Context, workoutID uuid.UUID) (*domain.Workout, int, error)

	LogExercise(ctx context.Context, exerciseID uuid.UUID, in LogInput) (*domain.WorkoutLog, error)
	LogsForExercise(exerciseID uuid.UUID) ([]domain.WorkoutLog, error)
	LatestLog(exerciseID uuid.UUID) (Prescription, error)
	ResetLogsForExercise(ctx context.Context, exerciseID uuid.UUID) (int, error)
	Progress(exerciseID uuid.UUID) ([]ProgressPoint, error)

	Intensity(workoutID uuid.UUID) (aggregate.Summary, error)
	Snapshot() ([]domain.Workout, []domain.WorkoutLog, error)
}

// --- Service Implementation ---

// workoutService keeps both collections in memory and writes the whole
// collection back on every mutation. State changes only after a successful save.
type workoutService struct {
	repo        repository.WorkoutRepository
	classifier  ClassificationService
	concurrency int
	logger      *slog.Logger

	mu       sync.RWMutex
	loaded   bool
	workouts []domain.Workout
	logs     []domain.WorkoutLog
}

// WorkoutServiceOptions tunes NewWorkoutService. Zero values use defaults.
type WorkoutServiceOptions struct {
	ReclassifyConcurrency int
	Logger                *slog.Logger
}

// NewWorkoutService creates a new instance of workoutService. Call Load before use.
func NewWorkoutService(repo repository.WorkoutRepository, classifier ClassificationService, opts WorkoutServiceOptions) WorkoutService {
	if opts.ReclassifyConcurrency < 1 {
		opts.ReclassifyConcurrency = DefaultReclassifyConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &workoutService{
		repo:        repo,
		classifier:  classifier,
		concurrency: opts.ReclassifyConcurrency,
		logger:      opts.Logger,
	}
}

// Load replaces the in-memory collections with the persisted ones.
func (s *workoutService) Load(ctx context.Context) error {
	workouts, logs, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	sortLogs(logs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workouts = workouts
	s.logs = logs
	s.loaded = true
	s.logger.Info("workout state loaded", "workouts", len(workouts), "logs", len(logs))
	return nil
}

// --- Workouts ---

func (s *workoutService) Workouts() ([]domain.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrStoreNotLoaded
	}
	return cloneWorkouts(s.workouts), nil
}

func (s *workoutService) Workout(id uuid.UUID) (*domain.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrStoreNotLoaded
	}
	i := s.workoutIndex(id)
	if i < 0 {
		return nil, ErrWorkoutNotFound
	}
	w := s.workouts[i].Clone()
	return &w, nil
}

func (s *workoutService) CreateWorkout(ctx context.Context, name string, color *domain.Color) (*domain.Workout, error) {
	w, err := domain.NewWorkout(name, copyColor(color))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrStoreNotLoaded
	}
	next := append(cloneWorkouts(s.workouts), *w)
	if err := s.commitWorkouts(ctx, next); err != nil {
		return nil, err
	}
	created := w.Clone()
	return &created, nil
}

// UpdateWorkout renames the workout and replaces its colour. A nil colour clears it.
func (s *workoutService) UpdateWorkout(ctx context.Context, id uuid.UUID, name string, color *domain.Color) (*domain.Workout, error) {
	probe, err := domain.NewWorkout(name, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	return s.mutateWorkout(ctx, id, func(w *domain.Workout) error {
		w.Name = probe.Name
		w.Color = copyColor(color)
		return nil
	})
}

// DeleteWorkout removes the workout. Logs that reference its exercises are kept.
func (s *workoutService) DeleteWorkout(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrStoreNotLoaded
	}
	i := s.workoutIndex(id)
	if i < 0 {
		return ErrWorkoutNotFound
	}
	next := cloneWorkouts(s.workouts)
	next = append(next[:i], next[i+1:]...)
	return s.commitWorkouts(ctx, next)
}

// --- Exercises ---

// AddExercise classifies the name and appends the new exercise. The remote call
// runs without holding the lock.
func (s *workoutService) AddExercise(ctx context.Context, workoutID uuid.UUID, name string, groups []domain.MuscleGroup) (*domain.Exercise, Classification, error) {
	if err := validateGroups(groups); err != nil {
		return nil, Classification{}, err
	}
	// Reject before spending a classification call.
	if _, err := domain.NewExercise(name, nil, nil); err != nil {
		return nil, Classification{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if _, err := s.Workout(workoutID); err != nil {
		return nil, Classification{}, err
	}

	result := s.classifier.Classify(ctx, name, groups)
	exercise, err := domain.NewExercise(name, result.MuscleGroups, result.DetailedMuscles)
	if err != nil {
		return nil, Classification{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if _, err := s.mutateWorkout(ctx, workoutID, func(w *domain.Workout) error {
		w.AddExercise(*exercise)
		return nil
	}); err != nil {
		return nil, Classification{}, err
	}
	return exercise, result, nil
}

func (s *workoutService) RemoveExercise(ctx context.Context, workoutID, exerciseID uuid.UUID) error {
	_, err := s.mutateWorkout(ctx, workoutID, func(w *domain.Workout) error {
		if !w.RemoveExercise(exerciseID) {
			return ErrExerciseNotFound
		}
		return nil
	})
	return err
}

// SetExerciseMuscleGroups is the manual override. Detailed muscles are left as they are.
func (s *workoutService) SetExerciseMuscleGroups(ctx context.Context, workoutID, exerciseID uuid.UUID, groups []domain.MuscleGroup) (*domain.Exercise, error) {
	if err := validateGroups(groups); err != nil {
		return nil, err
	}
	var updated domain.Exercise
	_, err := s.mutateWorkout(ctx, workoutID, func(w *domain.Workout) error {
		i := w.ExerciseIndex(exerciseID)
		if i < 0 {
			return ErrExerciseNotFound
		}
		w.Exercises[i].MuscleGroups = domain.NormalizeGroups(groups)
		updated = w.Exercises[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ReclassifyExercise reruns classification. Existing groups count as a manual
// choice and are kept; empty groups are re-derived.
func (s *workoutService) ReclassifyExercise(ctx context.Context, workoutID, exerciseID uuid.UUID) (*domain.Exercise, Classification, error) {
	w, err := s.Workout(workoutID)
	if err != nil {
		return nil, Classification{}, err
	}
	i := w.ExerciseIndex(exerciseID)
	if i < 0 {
		return nil, Classification{}, ErrExerciseNotFound
	}
	current := w.Exercises[i]

	result := s.classifier.Classify(ctx, current.Name, current.MuscleGroups)

	var updated domain.Exercise
	_, err = s.mutateWorkout(ctx, workoutID, func(w *domain.Workout) error {
		i := w.ExerciseIndex(exerciseID)
		if i < 0 {
			return ErrExerciseNotFound
		}
		w.Exercises[i].DetailedMuscles = domain.NormalizeMuscles(result.DetailedMuscles)
		w.Exercises[i].MuscleGroups = domain.NormalizeGroups(result.MuscleGroups)
		updated = w.Exercises[i].Clone()
		return nil
	})
	if err != nil {
		return nil, Classification{}, err
	}
	return &updated, result, nil
}

// ReclassifyWorkout classifies every exercise that has no detailed muscles yet.
// It returns the updated workout and how many exercises gained muscles.
func (s *workoutService) ReclassifyWorkout(ctx context.Context, workoutID uuid.UUID) (*domain.Workout, int, error) {
	w, err := s.Workout(workoutID)
	if err != nil {
		return nil, 0, err
	}

	type pending struct {
		exercise domain.Exercise
		result   Classification
	}
	var todo []*pending
	for _, e := range w.Exercises {
		if len(e.DetailedMuscles) == 0 {
			todo = append(todo, &pending{exercise: e})
		}
	}
	if len(todo) == 0 {
		return w, 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, p := range todo {
		p := p
		g.Go(func() error {
			p.result = s.classifier.Classify(gctx, p.exercise.Name, p.exercise.MuscleGroups)
			return nil
		})
	}
	_ = g.Wait() // Classify never fails

	updatedCount := 0
	updated, err := s.mutateWorkout(ctx, workoutID, func(w *domain.Workout) error {
		for _, p := range todo {
			i := w.ExerciseIndex(p.exercise.ID)
			if i < 0 || len(p.result.DetailedMuscles) == 0 {
				continue
			}
			w.Exercises[i].DetailedMuscles = domain.NormalizeMuscles(p.result.DetailedMuscles)
			w.Exercises[i].MuscleGroups = domain.NormalizeGroups(p.result.MuscleGroups)
			updatedCount++
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	s.logger.Info("workout reclassified", "workout", workoutID, "candidates", len(todo), "updated", updatedCount)
	return updated, updatedCount, nil
}

// --- Logs ---

// LogExercise records a set-group and snapshots the exercise's current name.
func (s *workoutService) LogExercise(ctx context.Context, exerciseID uuid.UUID, in LogInput) (*domain.WorkoutLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrStoreNotLoaded
	}
	exercise, ok := s.findExercise(exerciseID)
	if !ok {
		return nil, ErrExerciseNotFound
	}
	entry, err := domain.NewWorkoutLog(exerciseID, exercise.Name, in.Sets, in.Reps, in.Weight, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	next := append(append([]domain.WorkoutLog{}, s.logs...), *entry)
	sortLogs(next)
	if err := s.commitLogs(ctx, next); err != nil {
		return nil, err
	}
	return entry, nil
}

// LogsForExercise returns the exercise's logs oldest first. Orphaned logs are included.
func (s *workoutService) LogsForExercise(exerciseID uuid.UUID) ([]domain.WorkoutLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrStoreNotLoaded
	}
	return s.logsFor(exerciseID), nil
}

func (s *workoutService) LatestLog(exerciseID uuid.UUID) (Prescription, error) {
	logs, err := s.LogsForExercise(exerciseID)
	if err != nil {
		return Prescription{}, err
	}
	if len(logs) == 0 {
		return Prescription{Sets: domain.DefaultSets, Reps: domain.DefaultReps}, nil
	}
	last := logs[len(logs)-1]
	return Prescription{Sets: last.Sets, Reps: last.Reps, Weight: last.Weight, Last: &last}, nil
}

// ResetLogsForExercise deletes every log of the exercise and returns how many were removed.
func (s *workoutService) ResetLogsForExercise(ctx context.Context, exerciseID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return 0, ErrStoreNotLoaded
	}
	next := make([]domain.WorkoutLog, 0, len(s.logs))
	for _, l := range s.logs {
		if l.ExerciseID != exerciseID {
			next = append(next, l)
		}
	}
	removed := len(s.logs) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := s.commitLogs(ctx, next); err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *workoutService) Progress(exerciseID uuid.UUID) ([]ProgressPoint, error) {
	logs, err := s.LogsForExercise(exerciseID)
	if err != nil {
		return nil, err
	}
	points := make([]ProgressPoint, len(logs))
	for i, l := range logs {
		points[i] = ProgressPoint{Date: l.Date, Weight: l.Weight}
	}
	return points, nil
}

// --- Aggregation ---

func (s *workoutService) Intensity(workoutID uuid.UUID) (aggregate.Summary, error) {
	w, err := s.Workout(workoutID)
	if err != nil {
		return aggregate.Summary{}, err
	}
	return aggregate.Summarize(*w), nil
}

// Snapshot returns deep copies of both collections.
func (s *workoutService) Snapshot() ([]domain.Workout, []domain.WorkoutLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, nil, ErrStoreNotLoaded
	}
	return cloneWorkouts(s.workouts), append([]domain.WorkoutLog{}, s.logs...), nil
}

// --- helpers ---

// mutateWorkout applies fn to a copy of the workout under the write lock and persists the result.
func (s *workoutService) mutateWorkout(ctx context.Context, id uuid.UUID, fn func(w *domain.Workout) error) (*domain.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrStoreNotLoaded
	}
	i := s.workoutIndex(id)
	if i < 0 {
		return nil, ErrWorkoutNotFound
	}
	next := cloneWorkouts(s.workouts)
	if err := fn(&next[i]); err != nil {
		return nil, err
	}
	if err := s.commitWorkouts(ctx, next); err != nil {
		return nil, err
	}
	w := next[i].Clone()
	return &w, nil
}

// The helpers below expect s.mu to be held.

func (s *workoutService) commitWorkouts(ctx context.Context, next []domain.Workout) error {
	if err := s.repo.SaveWorkouts(ctx, next); err != nil {
		s.logger.Error("failed to save workouts", "error", err)
		return fmt.Errorf("save workouts: %w", err)
	}
	s.workouts = next
	return nil
}

func (s *workoutService) commitLogs(ctx context.Context, next []domain.WorkoutLog) error {
	if err := s.repo.SaveLogs(ctx, next); err != nil {
		s.logger.Error("failed to save workout logs", "error", err)
		return fmt.Errorf("save logs: %w", err)
	}
	s.logs = next
	return nil
}

func (s *workoutService) workoutIndex(id uuid.UUID) int {
	for i := range s.workouts {
		if s.workouts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *workoutService) findExercise(id uuid.UUID) (domain.Exercise, bool) {
	for i := range s.workouts {
		if j := s.workouts[i].ExerciseIndex(id); j >= 0 {
			return s.workouts[i].Exercises[j], true
		}
	}
	return domain.Exercise{}, false
}

func (s *workoutService) logsFor(exerciseID uuid.UUID) []domain.WorkoutLog {
	out := []domain.WorkoutLog{}
	for _, l := range s.logs {
		if l.ExerciseID == exerciseID {
			out = append(out, l)
		}
	}
	return out
}

func sortLogs(logs []domain.WorkoutLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Date.Before(logs[j].Date)
	})
}

func cloneWorkouts(in []domain.Workout) []domain.Workout {
	out := make([]domain.Workout, len(in))
	for i, w := range in {
		out[i] = w.Clone()
	}
	return out
}

func copyColor(c *domain.Color) *domain.Color {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func validateGroups(groups []domain.MuscleGroup) error {
	for _, g := range groups {
		if !g.IsValid() {
			return fmt.Errorf("%w: unknown muscle group %q", ErrValidationFailed, g)
		}
	}
	return nil
}
