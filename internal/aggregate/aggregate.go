// Package aggregate derives per-muscle summaries from workouts.
// Every function here is pure.
package aggregate

import "liftlog/workout-tracker/internal/domain"

// Level buckets an intensity count for display.
type Level string

const (
	LevelNone  Level = "none"
	LevelLight Level = "light"
	LevelHeavy Level = "heavy"
)

// LevelOf maps a count to its bucket: 0 none, 1 light, 2 or more heavy.
func LevelOf(count int) Level {
	switch {
	case count <= 0:
		return LevelNone
	case count == 1:
		return LevelLight
	default:
		return LevelHeavy
	}
}

// Intensity counts, per detailed muscle, the exercises that target it.
// Untouched muscles are absent from the map.
func Intensity(w domain.Workout) map[domain.DetailedMuscle]int {
	counts := make(map[domain.DetailedMuscle]int)
	for i := range w.Exercises {
		for _, m := range domain.AllDetailedMuscles() {
			if w.Exercises[i].Targets(m) {
				counts[m]++
			}
		}
	}
	return counts
}

// TargetedGroups is the union of every exercise's muscle groups, in listing order.
func TargetedGroups(w domain.Workout) []domain.MuscleGroup {
	var all []domain.MuscleGroup
	for _, e := range w.Exercises {
		all = append(all, e.MuscleGroups...)
	}
	return domain.NormalizeGroups(all)
}

// MuscleIntensity is one row of a summary.
type MuscleIntensity struct {
	Muscle    domain.DetailedMuscle `json:"muscle"`
	Group     domain.MuscleGroup    `json:"group"`
	Count     int                   `json:"count"`
	Level     Level                 `json:"level"`
	FrontView bool                  `json:"frontView"`
}

// Summary is the full aggregation of one workout.
type Summary struct {
	Muscles        []MuscleIntensity    `json:"muscles"`
	Front          []MuscleIntensity    `json:"front"`
	Back           []MuscleIntensity    `json:"back"`
	TargetedGroups []domain.MuscleGroup `json:"targetedGroups"`
	// Unclassified lists exercises with no detailed muscles.
	Unclassified []string `json:"unclassified"`
}

// Summarize lists targeted muscles in listing order and splits them by body view.
func Summarize(w domain.Workout) Summary {
	counts := Intensity(w)
	s := Summary{
		Muscles:        []MuscleIntensity{},
		Front:          []MuscleIntensity{},
		Back:           []MuscleIntensity{},
		TargetedGroups: TargetedGroups(w),
		Unclassified:   []string{},
	}
	for _, m := range domain.AllDetailedMuscles() {
		n, ok := counts[m]
		if !ok {
			continue
		}
		row := MuscleIntensity{
			Muscle:    m,
			Group:     m.Group(),
			Count:     n,
			Level:     LevelOf(n),
			FrontView: m.IsFrontView(),
		}
		s.Muscles = append(s.Muscles, row)
		if row.FrontView {
			s.Front = append(s.Front, row)
		} else {
			s.Back = append(s.Back, row)
		}
	}
	for _, e := range w.Exercises {
		if len(e.DetailedMuscles) == 0 {
			s.Unclassified = append(s.Unclassified, e.Name)
		}
	}
	return s
}
