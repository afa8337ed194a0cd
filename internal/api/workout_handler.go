package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"liftlog/workout-tracker/internal/domain"
	"liftlog/workout-tracker/internal/service"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs for API (Data Transfer Objects) ---

// WorkoutRequest defines the expected JSON for creating or updating a workout.
type WorkoutRequest struct {
	Name  string        `json:"name" binding:"required"`
	Color *domain.Color `json:"color"`
}

// AddExerciseRequest defines the expected JSON for adding an exercise.
// MuscleGroups, when given, override the groups derived from classification.
type AddExerciseRequest struct {
	Name         string   `json:"name" binding:"required"`
	MuscleGroups []string `json:"muscleGroups"`
}

// MuscleGroupsRequest replaces an exercise's muscle groups.
type MuscleGroupsRequest struct {
	MuscleGroups []string `json:"muscleGroups"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	MuscleGroups    []domain.MuscleGroup    `json:"muscleGroups"`
	DetailedMuscles []domain.DetailedMuscle `json:"detailedMuscles"`
	// MissingGroups lists groups implied by DetailedMuscles but not tagged.
	MissingGroups []domain.MuscleGroup `json:"missingGroups,omitempty"`
}

// WorkoutResponse is the DTO for returning workout details.
type WorkoutResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Color     *domain.Color      `json:"color,omitempty"`
	Exercises []ExerciseResponse `json:"exercises"`
}

// AddExerciseResponse returns the new exercise with the classification that produced it.
type AddExerciseResponse struct {
	Exercise       ExerciseResponse       `json:"exercise"`
	Classification service.Classification `json:"classification"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:              ex.ID.String(),
		Name:            ex.Name,
		MuscleGroups:    nonNil(ex.MuscleGroups),
		DetailedMuscles: nonNil(ex.DetailedMuscles),
		MissingGroups:   ex.MissingGroups(),
	}
}

// MapWorkoutToResponse converts a domain.Workout to WorkoutResponse DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	exercises := make([]ExerciseResponse, len(w.Exercises))
	for i := range w.Exercises {
		exercises[i] = MapExerciseToResponse(&w.Exercises[i])
	}
	return WorkoutResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		Color:     w.Color,
		Exercises: exercises,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// parseGroups maps labels to muscle groups, rejecting unknown labels.
func parseGroups(labels []string) ([]domain.MuscleGroup, error) {
	groups := make([]domain.MuscleGroup, 0, len(labels))
	for _, label := range labels {
		g, ok := domain.ParseMuscleGroup(label)
		if !ok {
			return nil, fmt.Errorf("unknown muscle group %q", label)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// --- Handler Methods ---

// ListWorkouts godoc
// @Summary List workouts
// @Tags Workouts
// @Produce json
// @Success 200 {array} WorkoutResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.Workouts()
	if err != nil {
		respondServiceError(c, err, "Failed to list workouts.")
		return
	}
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	c.JSON(http.StatusOK, responses)
}

// CreateWorkout godoc
// @Summary Create a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body WorkoutRequest true "Workout details"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), req.Name, req.Color)
	if err != nil {
		respondServiceError(c, err, "Failed to create workout.")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// GetWorkout godoc
// @Summary Get a workout
// @Tags Workouts
// @Produce json
// @Param workoutId path string true "Workout ID"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{workoutId} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	workoutID, ok := uuidParam(c, "workoutId")
	if !ok {
		return
	}
	workout, err := h.workoutService.Workout(workoutID)
	if err != nil {
		respondServiceError(c, err, "Failed to get workout.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// UpdateWorkout godoc
// @Summary Rename a workout and replace its colour
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workoutId path string true "Workout ID"
// @Param workout body WorkoutRequest true "Workout details"
// @Success 200 {object} WorkoutResponse
// @Router /workouts/{workoutId} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	workoutID, ok := uuidParam(c, "workoutId")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), workoutID, req.Name, req.Color)
	if err != nil {
		respondServiceError(c, err, "Failed to update workout.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Description Logs recorded for its exercises are kept.
// @Tags Workouts
// @Param workoutId path string true "Workout ID"
// @Success 204 "Deleted"
// @Router /workouts/{workoutId} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	workoutID, ok := uuidParam(c, "workoutId")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), workoutID); err != nil {
		respondServiceError(c, err, "Failed to delete workout.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetIntensity godoc
// @Summary Per-muscle intensity of a workout
// @Tags Workouts
// @Produce json
// @Param workoutId path string true "Workout ID"
// @Success 200 {object} aggregate.Summary
// @Router /workouts/{workoutId}/intensity [get]
func (h *WorkoutHandler) GetIntensity(c *gin.Context) {
	workoutID, ok := uuidParam(c, "workoutId")
	if !ok {
		return
	}
	summary, err := h.workoutService.Intensity(workoutID)
	if err != nil {
		respondServiceError(c, err, "Failed to compute intensity.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AddExercise godoc
// @Summary Add an exercise to a workout
// @Description The name is classified into detailed muscles before the exercise is stored.
// @Tags Exercises
// @Accept json
// @Produce json
// @Param workoutId path string true "Workout ID"
// @Param exercise body AddExerciseRequest true "Exercise details"
// @Success 201 {object} AddExerciseResponse
// @Router /workouts/{workoutId}/exercises [post]
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	workoutID, ok := uuidParam(c, "workoutId")
	if !ok {
		return
	}
	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	groups, err := parseGroups(req.MuscleGroups)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, result, err := h.workoutService.AddExercise(c.Request.Context(), workoutID, req.Name, groups)
	if err != nil {
		respondServiceError(c, err, "Failed to add exercise.")
		return
	}
	c.JSON(http.StatusCreated, AddExerciseResponse{
		Exercise:       MapExerciseToResponse(exercise),
		Classification: result,
	})
}

// RemoveExercise godoc
// @Summary Remove an exercise from a workout
// @Tags Exercises
// @Param workoutId path string true "Workout ID"
// @Param exerciseId path string true "Exercise ID"
// @Success 204 "Removed"
// @Router /workouts/{workoutId}/exercises/{exerciseId} [delete]
func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	workoutID, ok := uuidParam(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := uuidParam(c, "exerciseId")
	if !ok {
		return
	}
	if err := h.workoutService.RemoveExercise(c.Request.Context(), workoutID, exerciseID); err != nil {
		respondServiceError(c, err, "Failed to remove exercise.")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetMuscleGroups godoc
// @Summary Manually set an exercise's muscle groups
// @Description Detailed muscles are not changed.
// @Tags Exercises
// @Accept json
// @Produce json
// @Param workoutId path string true "Workout ID"
// @Param exerciseId path string true "Exercise ID"
// @Param groups body MuscleGroupsRequest true "Muscle groups"
// @Success 200 {object} ExerciseResponse
// @Router /workouts/{workoutId}/exercises/{exerciseId}/muscle-groups [put]
func (h *WorkoutHandler) SetMuscleGroups(c *gin.Context) {
	workoutID, ok := uuidParam(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := uuidParam(c, "exerciseId")
	if !ok {
		return
	}
	var req MuscleGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	groups, err := parseGroups(req.MuscleGroups)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.workoutService.SetExerciseMuscleGroups(c.Request.Context(), workoutID, exerciseID, groups)
	if err != nil {
		respondServiceError(c, err, "Failed to update muscle groups.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// ReclassifyExercise godoc
// @Summary Run classification again for one exercise
// @Tags Exercises
// @Produce json
// @Param workoutId path string true "Workout ID"
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} AddExerciseResponse
// @Router /workouts/{workoutId}/exercises/{exerciseId}/reclassify [post]
func (h *WorkoutHandler) ReclassifyExercise(c *gin.Context) {
	workoutID, ok := uuidParam(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := uuidParam(c, "exerciseId")
	if !ok {
		return
	}
	exercise, result, err := h.workoutService.ReclassifyExercise(c.Request.Context(), workoutID, exerciseID)
	if err != nil {
		respondServiceError(c, err, "Failed to reclassify exercise.")
		return
	}
	c.JSON(http.StatusOK, AddExerciseResponse{
		Exercise:       MapExerciseToResponse(exercise),
		Classification: result,
	})
}

// ReclassifyWorkout godoc
// @Summary Classify every exercise of a workout that has no detailed muscles
// @Tags Workouts
// @Produce json
// @Param workoutId path string true "Workout ID"
// @Success 200 {object} gin.H "workout and number of exercises updated"
// @Router /workouts/{workoutId}/reclassify [post]
func (h *WorkoutHandler) ReclassifyWorkout(c *gin.Context) {
	workoutID, ok := uuidParam(c, "workoutId")
	if !ok {
		return
	}
	workout, updated, err := h.workoutService.ReclassifyWorkout(c.Request.Context(), workoutID)
	if err != nil {
		respondServiceError(c, err, "Failed to reclassify workout.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout": MapWorkoutToResponse(workout), "updated": updated})
}
