package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"liftlog/workout-tracker/internal/classifier"
	"liftlog/workout-tracker/internal/config"
	"liftlog/workout-tracker/internal/repository"
	badgerstore "liftlog/workout-tracker/internal/repository/badger"
	"liftlog/workout-tracker/internal/repository/mongo"
	"liftlog/workout-tracker/internal/repository/state"
	"liftlog/workout-tracker/internal/service"
	"liftlog/workout-tracker/internal/storage"
)

// app bundles the wired services and a function releasing the store.
type app struct {
	workouts        service.WorkoutService
	classifications service.ClassificationService
	close           func()
}

// newStateStore opens the configured backend. The returned func releases it.
func newStateStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.StateStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendBadger:
		db, err := badgerstore.Open(badgerstore.Config{
			Path:       cfg.Badger.Path,
			InMemory:   cfg.Badger.InMemory,
			SyncWrites: cfg.Badger.SyncWrites,
			Logger:     logger.With("component", "badger"),
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("badger state store opened", "path", cfg.Badger.Path, "in_memory", cfg.Badger.InMemory)
		return badgerstore.NewStateStore(db), func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close badger", "error", err)
			}
		}, nil

	case config.BackendMongo:
		client, err := mongo.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		logger.Info("mongo state store connected", "database", cfg.Database.Name, "collection", cfg.Database.Collection)
		store := mongo.NewMongoStateStoreFromDB(client.Database(cfg.Database.Name), cfg.Database.Collection)
		return store, func() {
			logger.Info("disconnecting mongo")
			if err := mongo.DisconnectDB(client); err != nil {
				logger.Error("failed to disconnect mongo", "error", err)
			}
		}, nil

	case config.BackendS3:
		store, err := storage.NewS3StateStore(ctx, cfg.S3, logger.With("component", "s3"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// newLimiter spreads requests_per_minute evenly. Zero disables limiting.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// newRemoteClassifier returns nil for the "none" provider or when no API key is set.
func newRemoteClassifier(cfg config.ClassifierConfig, logger *slog.Logger) classifier.Classifier {
	if cfg.Provider == config.ProviderNone {
		return nil
	}
	if cfg.APIKey == "" {
		logger.Warn("classifier api key not set, using heuristic classification only", "provider", cfg.Provider)
		return nil
	}
	limiter := newLimiter(cfg.RequestsPerMinute)
	logger = logger.With("component", "classifier", "provider", cfg.Provider)

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return classifier.NewOpenAI(classifier.OpenAIConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
			Limiter: limiter,
			Logger:  logger,
		})
	default:
		return classifier.NewGemini(classifier.GeminiConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
			Limiter: limiter,
			Logger:  logger,
		})
	}
}

// newClassificationService pairs the configured remote classifier with the heuristic.
func newClassificationService(cfg config.Config, logger *slog.Logger) service.ClassificationService {
	remote := newRemoteClassifier(cfg.Classifier, logger)
	return service.NewClassificationService(remote, classifier.NewHeuristic(), logger.With("component", "classification"))
}

// buildApp wires store, repository, classifiers and services, and loads state.
func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	store, closeStore, err := newStateStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	repo := state.NewWorkoutRepository(store, state.Options{
		WorkoutsKey: cfg.Storage.WorkoutsKey,
		LogsKey:     cfg.Storage.LogsKey,
		Policy:      state.CorruptPolicy(cfg.Storage.CorruptPolicy),
		Logger:      logger.With("component", "repository"),
	})

	classifications := newClassificationService(cfg, logger)
	workouts := service.NewWorkoutService(repo, classifications, service.WorkoutServiceOptions{
		ReclassifyConcurrency: cfg.Classifier.ReclassifyConcurrency,
		Logger:                logger.With("component", "workouts"),
	})

	if err := workouts.Load(ctx); err != nil {
		closeStore()
		return nil, err
	}
	return &app{workouts: workouts, classifications: classifications, close: closeStore}, nil
}
