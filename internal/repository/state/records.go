package state

import (
	"time"

	"github.com/google/uuid"

	"liftlog/workout-tracker/internal/domain"
)

// The record types mirror the persisted JSON. Every field added after the
// first schema is optional and has a defined default when absent.

type colorRecord struct {
	Red   *float64 `json:"red"`
	Green *float64 `json:"green"`
	Blue  *float64 `json:"blue"`
	Alpha *float64 `json:"alpha"`
}

type exerciseRecord struct {
	ID              *uuid.UUID `json:"id"`
	Name            string     `json:"name"`
	MuscleGroups    []string   `json:"muscleGroups"`
	DetailedMuscles []string   `json:"detailedMuscles"` // absent before classification existed
}

type workoutRecord struct {
	ID        *uuid.UUID       `json:"id"`
	Name      string           `json:"name"`
	Exercises []exerciseRecord `json:"exercises"`
	Color     *colorRecord     `json:"color"` // absent before colours existed
}

type logRecord struct {
	ID           *uuid.UUID `json:"id"`
	Date         time.Time  `json:"date"`
	ExerciseID   uuid.UUID  `json:"exerciseId"`
	ExerciseName string     `json:"exerciseName"`
	Sets         int        `json:"sets"`
	Reps         int        `json:"reps"`
	Weight       float64    `json:"weight"`
}

func orNewID(id *uuid.UUID) uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return uuid.New()
	}
	return *id
}

func channel(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func (c *colorRecord) toDomain() *domain.Color {
	if c == nil {
		return nil
	}
	return &domain.Color{
		Red:   channel(c.Red, 0),
		Green: channel(c.Green, 0),
		Blue:  channel(c.Blue, 0),
		Alpha: channel(c.Alpha, 1),
	}
}

// toDomain drops unknown labels and duplicates, keeping stored order.
func (r *exerciseRecord) toDomain() (domain.Exercise, bool) {
	if r.Name == "" {
		return domain.Exercise{}, false
	}
	groups := make([]domain.MuscleGroup, 0, len(r.MuscleGroups))
	seen := make(map[domain.MuscleGroup]bool, len(r.MuscleGroups))
	for _, label := range r.MuscleGroups {
		if g, ok := domain.ParseMuscleGroup(label); ok && !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	muscles := make([]domain.DetailedMuscle, 0, len(r.DetailedMuscles))
	for _, label := range r.DetailedMuscles {
		if m, ok := domain.ParseDetailedMuscle(label); ok {
			muscles = append(muscles, m)
		}
	}
	return domain.Exercise{
		ID:              orNewID(r.ID),
		Name:            r.Name,
		MuscleGroups:    groups,
		DetailedMuscles: domain.NormalizeMuscles(muscles),
	}, true
}

func (r *workoutRecord) toDomain() (domain.Workout, int, bool) {
	if r.Name == "" {
		return domain.Workout{}, 0, false
	}
	w := domain.Workout{
		ID:        orNewID(r.ID),
		Name:      r.Name,
		Exercises: make([]domain.Exercise, 0, len(r.Exercises)),
		Color:     r.Color.toDomain(),
	}
	dropped := 0
	for i := range r.Exercises {
		e, ok := r.Exercises[i].toDomain()
		if !ok {
			dropped++
			continue
		}
		w.Exercises = append(w.Exercises, e)
	}
	return w, dropped, true
}

func (r *logRecord) toDomain() (domain.WorkoutLog, bool) {
	l := domain.WorkoutLog{
		ID:           orNewID(r.ID),
		Date:         r.Date,
		ExerciseID:   r.ExerciseID,
		ExerciseName: r.ExerciseName,
		Sets:         r.Sets,
		Reps:         r.Reps,
		Weight:       r.Weight,
	}
	if err := l.Validate(); err != nil {
		return domain.WorkoutLog{}, false
	}
	return l, true
}
