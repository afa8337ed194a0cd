package service

import (
	"context"
	"log/slog"
	"time"

	"liftlog/workout-tracker/internal/classifier"
	"liftlog/workout-tracker/internal/domain"
	"liftlog/workout-tracker/internal/metrics"
)

// AdvisoryManualSelection is surfaced when neither classifier recognised the exercise.
const AdvisoryManualSelection = "Analysis failed, please select manually"

// Source names the classifier that produced a result.
type Source string

const (
	SourceRemote    Source = metrics.SourceRemote
	SourceHeuristic Source = metrics.SourceHeuristic
)

// Classification is the outcome of classifying one exercise name.
type Classification struct {
	DetailedMuscles []domain.DetailedMuscle `json:"detailedMuscles"`
	MuscleGroups    []domain.MuscleGroup    `json:"muscleGroups"`
	Source          Source                  `json:"source"`
	// RemoteError is set when the remote classifier failed and the heuristic answered instead.
	RemoteError string `json:"remoteError,omitempty"`
	Advisory    string `json:"advisory,omitempty"`
}

// ClassificationService turns an exercise name into detailed muscles and groups.
type ClassificationService interface {
	// Classify never fails. Non-empty explicitGroups take precedence over the derived groups.
	Classify(ctx context.Context, name string, explicitGroups []domain.MuscleGroup) Classification
}

type classificationService struct {
	remote    classifier.Classifier
	heuristic *classifier.Heuristic
	logger    *slog.Logger
}

// NewClassificationService composes a remote classifier with the heuristic fallback.
// A nil remote runs the heuristic only.
func NewClassificationService(remote classifier.Classifier, heuristic *classifier.Heuristic, logger *slog.Logger) ClassificationService {
	if heuristic == nil {
		heuristic = classifier.NewHeuristic()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &classificationService{
		remote:    remote,
		heuristic: heuristic,
		logger:    logger,
	}
}

func (s *classificationService) Classify(ctx context.Context, name string, explicitGroups []domain.MuscleGroup) Classification {
	result := s.detect(ctx, name)

	if groups := domain.NormalizeGroups(explicitGroups); len(groups) > 0 {
		result.MuscleGroups = groups
	} else {
		result.MuscleGroups = domain.GroupsOf(result.DetailedMuscles)
	}
	return result
}

func (s *classificationService) detect(ctx context.Context, name string) Classification {
	var remoteErr error
	if s.remote != nil {
		start := time.Now()
		muscles, err := s.remote.Classify(ctx, name)
		metrics.RemoteDurationSeconds.Observe(time.Since(start).Seconds())
		if err == nil {
			outcome := metrics.OutcomeSuccess
			if len(muscles) == 0 {
				outcome = metrics.OutcomeEmpty
			}
			metrics.ClassificationsTotal.WithLabelValues(metrics.SourceRemote, outcome).Inc()
			return Classification{DetailedMuscles: domain.NormalizeMuscles(muscles), Source: SourceRemote}
		}
		remoteErr = err
		metrics.ClassificationsTotal.WithLabelValues(metrics.SourceRemote, metrics.OutcomeFailure).Inc()
		s.logger.Warn("remote classification failed, using heuristic", "exercise", name, "error", err)
	} else {
		metrics.ClassificationsTotal.WithLabelValues(metrics.SourceRemote, metrics.OutcomeSkipped).Inc()
	}

	result := Classification{
		DetailedMuscles: s.heuristic.ClassifyName(name),
		Source:          SourceHeuristic,
	}
	if remoteErr != nil {
		result.RemoteError = remoteErr.Error()
	}
	if len(result.DetailedMuscles) == 0 {
		metrics.ClassificationsTotal.WithLabelValues(metrics.SourceHeuristic, metrics.OutcomeEmpty).Inc()
		result.Advisory = AdvisoryManualSelection
	} else {
		metrics.ClassificationsTotal.WithLabelValues(metrics.SourceHeuristic, metrics.OutcomeSuccess).Inc()
	}
	return result
}
