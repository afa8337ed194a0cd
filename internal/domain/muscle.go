// internal/domain/muscle.go
package domain

// MuscleGroup is a coarse anatomical region used for broad tagging.
// The string value is the canonical label, which is also the persisted form.
type MuscleGroup string

const (
	GroupChest      MuscleGroup = "Chest"
	GroupBack       MuscleGroup = "Back"
	GroupShoulders  MuscleGroup = "Shoulders"
	GroupBiceps     MuscleGroup = "Biceps"
	GroupTriceps    MuscleGroup = "Triceps"
	GroupForearms   MuscleGroup = "Forearms"
	GroupAbs        MuscleGroup = "Abs"
	GroupQuads      MuscleGroup = "Quads"
	GroupHamstrings MuscleGroup = "Hamstrings"
	GroupGlutes     MuscleGroup = "Glutes"
	GroupCalves     MuscleGroup = "Calves"
)

// DetailedMuscle is a fine-grained region produced by the classifiers.
// The string value is the exact label the remote classifier must return.
type DetailedMuscle string

const (
	UpperChest        DetailedMuscle = "Upper Chest"
	MidChest          DetailedMuscle = "Mid Chest"
	LowerChest        DetailedMuscle = "Lower Chest"
	UpperBack         DetailedMuscle = "Upper Back"
	MidBack           DetailedMuscle = "Mid Back"
	LowerBack         DetailedMuscle = "Lower Back"
	Lats              DetailedMuscle = "Lats"
	Traps             DetailedMuscle = "Traps"
	AnteriorDeltoids  DetailedMuscle = "Anterior Deltoids"
	LateralDeltoids   DetailedMuscle = "Lateral Deltoids"
	PosteriorDeltoids DetailedMuscle = "Posterior Deltoids"
	Biceps            DetailedMuscle = "Biceps"
	Triceps           DetailedMuscle = "Triceps"
	Forearms          DetailedMuscle = "Forearms"
	UpperAbs          DetailedMuscle = "Upper Abs"
	LowerAbs          DetailedMuscle = "Lower Abs"
	Obliques          DetailedMuscle = "Obliques"
	Quads             DetailedMuscle = "Quads"
	Hamstrings        DetailedMuscle = "Hamstrings"
	Glutes            DetailedMuscle = "Glutes"
	Calves            DetailedMuscle = "Calves"
)

var muscleGroups = []MuscleGroup{
	GroupChest, GroupBack, GroupShoulders, GroupBiceps, GroupTriceps, GroupForearms,
	GroupAbs, GroupQuads, GroupHamstrings, GroupGlutes, GroupCalves,
}

type muscleInfo struct {
	muscle    DetailedMuscle
	group     MuscleGroup
	frontView bool
}

// taxonomy is the single source of truth for the detailed -> group mapping.
// Its order is the listing order.
var taxonomy = []muscleInfo{
	{UpperChest, GroupChest, true},
	{MidChest, GroupChest, true},
	{LowerChest, GroupChest, true},
	{UpperBack, GroupBack, false},
	{MidBack, GroupBack, false},
	{LowerBack, GroupBack, false},
	{Lats, GroupBack, false},
	{Traps, GroupBack, false},
	{AnteriorDeltoids, GroupShoulders, true},
	{LateralDeltoids, GroupShoulders, true},
	{PosteriorDeltoids, GroupShoulders, false},
	{Biceps, GroupBiceps, true},
	{Triceps, GroupTriceps, false},
	{Forearms, GroupForearms, true},
	{UpperAbs, GroupAbs, true},
	{LowerAbs, GroupAbs, true},
	{Obliques, GroupAbs, true},
	{Quads, GroupQuads, true},
	{Hamstrings, GroupHamstrings, false},
	{Glutes, GroupGlutes, false},
	{Calves, GroupCalves, false},
}

var (
	muscleIndex = make(map[DetailedMuscle]int, len(taxonomy))
	groupIndex  = make(map[MuscleGroup]int, len(muscleGroups))
)

func init() {
	for i, info := range taxonomy {
		muscleIndex[info.muscle] = i
	}
	for i, g := range muscleGroups {
		groupIndex[g] = i
	}
}

// AllGroups returns every muscle group in listing order.
func AllGroups() []MuscleGroup {
	out := make([]MuscleGroup, len(muscleGroups))
	copy(out, muscleGroups)
	return out
}

// AllDetailedMuscles returns every detailed muscle in listing order.
func AllDetailedMuscles() []DetailedMuscle {
	out := make([]DetailedMuscle, len(taxonomy))
	for i, info := range taxonomy {
		out[i] = info.muscle
	}
	return out
}

// Group returns the coarse group the muscle belongs to.
// Unknown values return the empty group.
func (m DetailedMuscle) Group() MuscleGroup {
	i, ok := muscleIndex[m]
	if !ok {
		return ""
	}
	return taxonomy[i].group
}

// IsFrontView reports whether the muscle is drawn on the front silhouette.
func (m DetailedMuscle) IsFrontView() bool {
	i, ok := muscleIndex[m]
	return ok && taxonomy[i].frontView
}

func (m DetailedMuscle) IsValid() bool {
	_, ok := muscleIndex[m]
	return ok
}

func (g MuscleGroup) IsValid() bool {
	_, ok := groupIndex[g]
	return ok
}

// Muscles returns the detailed muscles of the group in listing order.
func (g MuscleGroup) Muscles() []DetailedMuscle {
	var out []DetailedMuscle
	for _, info := range taxonomy {
		if info.group == g {
			out = append(out, info.muscle)
		}
	}
	return out
}

// GroupOf is the package-level form of DetailedMuscle.Group.
func GroupOf(m DetailedMuscle) MuscleGroup {
	return m.Group()
}

// ParseDetailedMuscle matches a label exactly (case-sensitive) against the taxonomy.
func ParseDetailedMuscle(label string) (DetailedMuscle, bool) {
	m := DetailedMuscle(label)
	return m, m.IsValid()
}

// ParseMuscleGroup matches a label exactly (case-sensitive) against the taxonomy.
func ParseMuscleGroup(label string) (MuscleGroup, bool) {
	g := MuscleGroup(label)
	return g, g.IsValid()
}

// GroupsOf derives the union of groups for the given muscles, in listing order.
func GroupsOf(muscles []DetailedMuscle) []MuscleGroup {
	groups := make([]MuscleGroup, 0, len(muscles))
	for _, m := range muscles {
		if g := m.Group(); g != "" {
			groups = append(groups, g)
		}
	}
	return NormalizeGroups(groups)
}

// NormalizeGroups drops unknown and duplicate groups and sorts the rest into listing order.
func NormalizeGroups(groups []MuscleGroup) []MuscleGroup {
	seen := make([]bool, len(muscleGroups))
	for _, g := range groups {
		if i, ok := groupIndex[g]; ok {
			seen[i] = true
		}
	}
	out := make([]MuscleGroup, 0, len(groups))
	for i, present := range seen {
		if present {
			out = append(out, muscleGroups[i])
		}
	}
	return out
}

// NormalizeMuscles drops unknown and duplicate muscles while keeping first-seen order.
func NormalizeMuscles(muscles []DetailedMuscle) []DetailedMuscle {
	out := make([]DetailedMuscle, 0, len(muscles))
	seen := make(map[DetailedMuscle]struct{}, len(muscles))
	for _, m := range muscles {
		if !m.IsValid() {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// SortMuscles orders a duplicate-free set of muscles by listing order.
func SortMuscles(set map[DetailedMuscle]struct{}) []DetailedMuscle {
	out := make([]DetailedMuscle, 0, len(set))
	for _, info := range taxonomy {
		if _, ok := set[info.muscle]; ok {
			out = append(out, info.muscle)
		}
	}
	return out
}
