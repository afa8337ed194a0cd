package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"liftlog/workout-tracker/internal/api"
	"liftlog/workout-tracker/internal/config"
	"liftlog/workout-tracker/internal/domain"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "workout-tracker",
		Short: "Workout tracker with muscle classification",
		Long:  `Stores workouts and performance logs and classifies exercises into targeted muscles.`,
		RunE:  runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}

	classifyCmd = &cobra.Command{
		Use:   "classify <exercise name...>",
		Short: "Classify an exercise name into detailed muscles and groups",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runClassify,
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Dump stored workouts and logs as YAML",
		RunE:  runExport,
	}

	taxonomyCmd = &cobra.Command{
		Use:   "taxonomy",
		Short: "List muscle groups and their detailed muscles",
		Run:   runTaxonomy,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(taxonomyCmd)
}

// bootstrap loads the config and builds the process logger.
func bootstrap() (*config.Loader, config.Config, *slog.Logger, *slog.LevelVar, error) {
	loader := config.NewLoader(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return nil, config.Config{}, nil, nil, fmt.Errorf("could not load config: %w", err)
	}
	logger, level, err := config.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, config.Config{}, nil, nil, err
	}
	slog.SetDefault(logger)
	return loader, cfg, logger, level, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	loader, cfg, logger, level, err := bootstrap()
	if err != nil {
		return err
	}

	loader.Watch(func(next config.Config) {
		if lvl, err := config.ParseLevel(next.Log.Level); err == nil {
			level.Set(lvl)
			logger.Info("config reloaded", "log_level", next.Log.Level)
		}
	}, func(err error) {
		logger.Warn("ignoring invalid config change", "error", err)
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	a, err := buildApp(ctx, cfg, logger)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	defer a.close()

	router := api.NewRouter(logger, a.workouts, a.classifications)
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exiting")
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	_, cfg, logger, _, err := bootstrap()
	if err != nil {
		return err
	}
	svc := newClassificationService(cfg, logger)

	name := strings.Join(args, " ")
	result := svc.Classify(cmd.Context(), name, nil)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "exercise: %s\n", name)
	fmt.Fprintf(out, "source:   %s\n", result.Source)
	fmt.Fprintf(out, "muscles:  %s\n", joinLabels(result.DetailedMuscles))
	fmt.Fprintf(out, "groups:   %s\n", joinLabels(result.MuscleGroups))
	if result.RemoteError != "" {
		fmt.Fprintf(out, "remote error: %s\n", result.RemoteError)
	}
	if result.Advisory != "" {
		fmt.Fprintf(out, "advisory: %s\n", result.Advisory)
	}
	return nil
}

// exportDocument is the YAML layout written by the export command.
type exportDocument struct {
	ExportedAt time.Time           `yaml:"exportedAt"`
	Workouts   []domain.Workout    `yaml:"workouts"`
	Logs       []domain.WorkoutLog `yaml:"logs"`
}

func runExport(cmd *cobra.Command, args []string) error {
	_, cfg, logger, _, err := bootstrap()
	if err != nil {
		return err
	}
	// Export never calls a remote classifier.
	cfg.Classifier.Provider = config.ProviderNone

	a, err := buildApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	workouts, logs, err := a.workouts.Snapshot()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(exportDocument{ExportedAt: time.Now().UTC(), Workouts: workouts, Logs: logs}); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return enc.Close()
}

func runTaxonomy(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	for _, group := range api.Taxonomy() {
		fmt.Fprintf(out, "%s\n", group.Name)
		for _, m := range group.Muscles {
			view := "back"
			if m.FrontView {
				view = "front"
			}
			fmt.Fprintf(out, "  %-16s %s\n", m.Name, view)
		}
	}
}

func joinLabels[T ~string](labels []T) string {
	if len(labels) == 0 {
		return "-"
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}
