package classifier

import (
	"context"
	"strings"
	"unicode"

	"liftlog/workout-tracker/internal/domain"
)

// rule matches when every `all` keyword is present, at least one `any`
// keyword is present (if any are listed), and no `none` keyword is present.
type rule struct {
	all     []string
	any     []string
	none    []string
	muscles []domain.DetailedMuscle
}

func (r rule) matches(name string) bool {
	for _, k := range r.all {
		if !containsWord(name, k) {
			return false
		}
	}
	for _, k := range r.none {
		if containsWord(name, k) {
			return false
		}
	}
	if len(r.any) == 0 {
		return true
	}
	for _, k := range r.any {
		if containsWord(name, k) {
			return true
		}
	}
	return false
}

// containsWord reports whether k occurs in name starting at a word boundary.
// Only the start is anchored so plurals still match ("row" in "rows" but not "narrow").
func containsWord(name, k string) bool {
	for offset := 0; offset <= len(name); {
		i := strings.Index(name[offset:], k)
		if i < 0 {
			return false
		}
		i += offset
		if i == 0 || name[i-1] == ' ' || name[i-1] == '-' {
			return true
		}
		offset = i + 1
	}
	return false
}

type region struct {
	name  string
	rules []rule
}

// Rule order inside a region is significant: the first match wins.
// Changing it changes classification output for stored exercises.
var regions = []region{
	{
		name: "chest",
		rules: []rule{
			{all: []string{"incline", "press"}, muscles: []domain.DetailedMuscle{domain.UpperChest, domain.AnteriorDeltoids, domain.Triceps}},
			{all: []string{"incline"}, any: []string{"fly", "flye"}, muscles: []domain.DetailedMuscle{domain.UpperChest, domain.AnteriorDeltoids}},
			{all: []string{"incline"}, muscles: []domain.DetailedMuscle{domain.UpperChest}},
			{all: []string{"decline"}, muscles: []domain.DetailedMuscle{domain.LowerChest, domain.Triceps}},
			{any: []string{"dip"}, none: []string{"bench dip"}, muscles: []domain.DetailedMuscle{domain.LowerChest, domain.Triceps}},
			{any: []string{"fly", "flye", "crossover", "pec deck"}, none: []string{"reverse", "rear"}, muscles: []domain.DetailedMuscle{domain.MidChest}},
			{any: []string{"push up", "pushup", "push-up", "press up"}, muscles: []domain.DetailedMuscle{domain.MidChest, domain.Triceps, domain.AnteriorDeltoids}},
			{any: []string{"bench"}, none: []string{"bench dip"}, muscles: []domain.DetailedMuscle{domain.MidChest, domain.AnteriorDeltoids, domain.Triceps}},
			{any: []string{"chest", "pec"}, muscles: []domain.DetailedMuscle{domain.MidChest}},
			{any: []string{"press"}, none: []string{"shoulder", "overhead", "military", "arnold", "push press", "leg", "calf", "french"}, muscles: []domain.DetailedMuscle{domain.MidChest, domain.Triceps}},
		},
	},
	{
		name: "back",
		rules: []rule{
			{any: []string{"romanian", "stiff leg", "stiff-leg", "good morning"}, muscles: []domain.DetailedMuscle{domain.Hamstrings, domain.Glutes, domain.LowerBack}},
			{any: []string{"deadlift"}, muscles: []domain.DetailedMuscle{domain.LowerBack, domain.Hamstrings, domain.Glutes, domain.Traps}},
			{any: []string{"shrug"}, muscles: []domain.DetailedMuscle{domain.Traps}},
			{any: []string{"pull up", "pullup", "pull-up", "chin up", "chinup", "chin-up", "pulldown", "pull down", "pull-down", "lat pull", "lats"}, muscles: []domain.DetailedMuscle{domain.Lats, domain.UpperBack, domain.Biceps}},
			{any: []string{"row"}, none: []string{"upright"}, muscles: []domain.DetailedMuscle{domain.MidBack, domain.Lats, domain.PosteriorDeltoids, domain.Biceps}},
			{any: []string{"hyperextension", "back extension", "superman"}, muscles: []domain.DetailedMuscle{domain.LowerBack, domain.Glutes}},
			{any: []string{"back"}, none: []string{"squat"}, muscles: []domain.DetailedMuscle{domain.UpperBack, domain.MidBack}},
		},
	},
	{
		name: "shoulders",
		rules: []rule{
			{any: []string{"face pull", "rear delt", "reverse fly", "reverse flye"}, muscles: []domain.DetailedMuscle{domain.PosteriorDeltoids, domain.UpperBack}},
			{any: []string{"lateral raise", "side raise", "lat raise"}, muscles: []domain.DetailedMuscle{domain.LateralDeltoids}},
			{any: []string{"front raise"}, muscles: []domain.DetailedMuscle{domain.AnteriorDeltoids}},
			{any: []string{"upright row"}, muscles: []domain.DetailedMuscle{domain.LateralDeltoids, domain.Traps}},
			{any: []string{"overhead press", "shoulder press", "military press", "arnold", "push press"}, muscles: []domain.DetailedMuscle{domain.AnteriorDeltoids, domain.LateralDeltoids, domain.Triceps}},
			{any: []string{"shoulder", "delt"}, muscles: []domain.DetailedMuscle{domain.AnteriorDeltoids, domain.LateralDeltoids, domain.PosteriorDeltoids}},
		},
	},
	{
		name: "arms",
		rules: []rule{
			{any: []string{"hammer curl", "reverse curl"}, muscles: []domain.DetailedMuscle{domain.Biceps, domain.Forearms}},
			{any: []string{"wrist", "forearm", "farmer", "grip"}, none: []string{"close grip", "close-grip", "wide grip", "wide-grip", "narrow grip", "narrow-grip"}, muscles: []domain.DetailedMuscle{domain.Forearms}},
			{any: []string{"curl", "bicep"}, none: []string{"leg curl", "hamstring", "nordic", "lying curl", "seated curl"}, muscles: []domain.DetailedMuscle{domain.Biceps}},
			{any: []string{"tricep", "pushdown", "push down", "push-down", "skull", "kickback", "close grip", "close-grip", "french press", "dip"}, none: []string{"glute"}, muscles: []domain.DetailedMuscle{domain.Triceps}},
		},
	},
	{
		name: "legs",
		rules: []rule{
			{any: []string{"leg curl", "hamstring", "nordic", "lying curl", "seated curl"}, muscles: []domain.DetailedMuscle{domain.Hamstrings}},
			{any: []string{"calf", "calves", "heel raise"}, muscles: []domain.DetailedMuscle{domain.Calves}},
			{any: []string{"hip thrust", "glute", "bridge"}, muscles: []domain.DetailedMuscle{domain.Glutes, domain.Hamstrings}},
			{any: []string{"lunge", "split squat", "step up", "step-up"}, muscles: []domain.DetailedMuscle{domain.Quads, domain.Glutes, domain.Hamstrings}},
			{any: []string{"squat", "leg press", "hack"}, muscles: []domain.DetailedMuscle{domain.Quads, domain.Glutes}},
			{any: []string{"leg extension", "quad"}, muscles: []domain.DetailedMuscle{domain.Quads}},
			{any: []string{"leg"}, none: []string{"raise", "stiff leg", "stiff-leg"}, muscles: []domain.DetailedMuscle{domain.Quads, domain.Hamstrings}},
		},
	},
	{
		name: "core",
		rules: []rule{
			{any: []string{"leg raise", "knee raise", "reverse crunch", "hanging", "flutter kick", "scissor"}, muscles: []domain.DetailedMuscle{domain.LowerAbs}},
			{any: []string{"russian twist", "woodchop", "wood chop", "side plank", "oblique", "bicycle"}, muscles: []domain.DetailedMuscle{domain.Obliques}},
			{any: []string{"crunch", "sit up", "situp", "sit-up"}, muscles: []domain.DetailedMuscle{domain.UpperAbs}},
			{any: []string{"plank", "ab wheel", "rollout", "dead bug", "hollow"}, muscles: []domain.DetailedMuscle{domain.UpperAbs, domain.LowerAbs}},
			{any: []string{"abs", "abdominal", "core"}, muscles: []domain.DetailedMuscle{domain.UpperAbs, domain.LowerAbs}},
		},
	},
}

// abbreviations are expanded token by token before matching.
var abbreviations = map[string]string{
	"db":   "dumbbell",
	"bb":   "barbell",
	"kb":   "kettlebell",
	"ohp":  "overhead press",
	"rdl":  "romanian deadlift",
	"sldl": "stiff leg deadlift",
	"incl": "incline",
	"decl": "decline",
	"ext":  "extension",
}

// Heuristic is the offline keyword classifier. The zero value is ready to use.
type Heuristic struct{}

// NewHeuristic returns the keyword classifier.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Classify never fails; ctx is ignored.
func (h *Heuristic) Classify(_ context.Context, name string) ([]domain.DetailedMuscle, error) {
	return h.ClassifyName(name), nil
}

// ClassifyName returns the matched muscles in taxonomy order, or an empty slice.
func (h *Heuristic) ClassifyName(name string) []domain.DetailedMuscle {
	normalized := normalizeName(name)
	found := make(map[domain.DetailedMuscle]struct{})
	for _, reg := range regions {
		for _, r := range reg.rules {
			if r.matches(normalized) {
				for _, m := range r.muscles {
					found[m] = struct{}{}
				}
				break
			}
		}
	}
	return domain.SortMuscles(found)
}

func normalizeName(name string) string {
	tokens := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return unicode.IsSpace(r) || r == '(' || r == ')' || r == ',' || r == '/' || r == '_'
	})
	for i, tok := range tokens {
		if full, ok := abbreviations[tok]; ok {
			tokens[i] = full
		}
	}
	return strings.Join(tokens, " ")
}
