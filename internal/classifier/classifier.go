// Package classifier maps free-text exercise names to detailed muscles.
//
// Two strategies implement Classifier: a deterministic keyword Heuristic that
// never fails, and remote text-generation backends (Gemini REST contract or an
// OpenAI-compatible chat endpoint) that fail closed on any malformed response.
// Composition with fallback lives in the service layer.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"liftlog/workout-tracker/internal/domain"
)

// Classifier maps an exercise name to detailed muscles.
type Classifier interface {
	Classify(ctx context.Context, name string) ([]domain.DetailedMuscle, error)
}

// Remote failure kinds. Callers fall back on any of them.
var (
	ErrInvalidURL      = errors.New("classifier: invalid request url")
	ErrRequestFailed   = errors.New("classifier: request failed")
	ErrMalformedBody   = errors.New("classifier: response body is not valid json")
	ErrMissingContent  = errors.New("classifier: response has no candidate text")
	ErrUnparseableList = errors.New("classifier: candidate text is not a json string array")
)

// StatusError carries the HTTP status of a non-200 response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("classifier: unexpected status %d", e.Code)
}

func (e *StatusError) Unwrap() error { return ErrRequestFailed }

// BuildPrompt renders the instruction sent to remote backends.
func BuildPrompt(exerciseName string) string {
	labels := domain.AllDetailedMuscles()
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = fmt.Sprintf("%q", string(l))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a fitness expert. Analyze the exercise %q and determine which specific muscles it targets.\n\n", exerciseName)
	b.WriteString("Return ONLY a valid JSON array of muscle names from this exact list (use exact spelling):\n")
	b.WriteString("[" + strings.Join(quoted, ", ") + "]\n\n")
	b.WriteString("Be precise: if an exercise targets upper chest, only include \"Upper Chest\", not \"Mid Chest\" or \"Lower Chest\".\n")
	b.WriteString("If it targets multiple specific regions, include all of them.\n")
	b.WriteString("Return ONLY the JSON array, no other text, no explanations, no markdown.\n\n")
	b.WriteString(`Example response: ["Upper Chest", "Anterior Deltoids", "Triceps"]`)
	return b.String()
}

// ParseMuscleList turns candidate text into muscles. It strips an optional
// markdown fence, keeps the first bracketed array, and drops labels that do not
// exactly match the taxonomy. An empty result is valid.
func ParseMuscleList(text string) ([]domain.DetailedMuscle, error) {
	cleaned := stripFence(text)

	if start := strings.Index(cleaned, "["); start >= 0 {
		if end := strings.Index(cleaned[start:], "]"); end >= 0 {
			cleaned = cleaned[start : start+end+1]
		}
	}

	var labels []string
	if err := json.Unmarshal([]byte(cleaned), &labels); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableList, err)
	}
	if labels == nil {
		return nil, fmt.Errorf("%w: not an array", ErrUnparseableList)
	}

	muscles := make([]domain.DetailedMuscle, 0, len(labels))
	for _, label := range labels {
		if m, ok := domain.ParseDetailedMuscle(label); ok {
			muscles = append(muscles, m)
		}
	}
	return domain.NormalizeMuscles(muscles), nil
}

func stripFence(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
