package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"liftlog/workout-tracker/internal/service"
)

// NewRouter builds the engine with logging and metrics middleware and all routes.
func NewRouter(logger *slog.Logger, workoutService service.WorkoutService, classificationService service.ClassificationService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), Metrics())
	SetupRoutes(router, workoutService, classificationService)
	return router
}

func SetupRoutes(
	router *gin.Engine,
	workoutService service.WorkoutService,
	classificationService service.ClassificationService,
) {
	workoutHandler := NewWorkoutHandler(workoutService)
	exerciseHandler := NewExerciseHandler(workoutService)
	taxonomyHandler := NewTaxonomyHandler(classificationService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/muscles", taxonomyHandler.ListMuscles)
		apiV1.POST("/classify", taxonomyHandler.Classify)

		// --- Workout Routes ---
		workoutGroup := apiV1.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("/:workoutId", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:workoutId", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:workoutId", workoutHandler.DeleteWorkout)
			workoutGroup.GET("/:workoutId/intensity", workoutHandler.GetIntensity)
			workoutGroup.POST("/:workoutId/reclassify", workoutHandler.ReclassifyWorkout)

			// --- Exercises inside a workout ---
			workoutGroup.POST("/:workoutId/exercises", workoutHandler.AddExercise)
			workoutGroup.DELETE("/:workoutId/exercises/:exerciseId", workoutHandler.RemoveExercise)
			workoutGroup.PUT("/:workoutId/exercises/:exerciseId/muscle-groups", workoutHandler.SetMuscleGroups)
			workoutGroup.POST("/:workoutId/exercises/:exerciseId/reclassify", workoutHandler.ReclassifyExercise)
		}

		// --- Log Routes (keyed by exercise id; logs outlive their exercise) ---
		exerciseGroup := apiV1.Group("/exercises/:exerciseId")
		{
			exerciseGroup.GET("/logs", exerciseHandler.ListLogs)
			exerciseGroup.POST("/logs", exerciseHandler.CreateLog)
			exerciseGroup.DELETE("/logs", exerciseHandler.ResetLogs)
			exerciseGroup.GET("/logs/latest", exerciseHandler.GetLatestLog)
			exerciseGroup.GET("/progress", exerciseHandler.GetProgress)
		}
	}
}
