package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"liftlog/workout-tracker/internal/service"
)

// ExerciseHandler serves the per-exercise log endpoints.
type ExerciseHandler struct {
	workoutService service.WorkoutService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(workoutService service.WorkoutService) *ExerciseHandler {
	return &ExerciseHandler{workoutService: workoutService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateLogRequest defines the expected JSON for logging a set-group.
type CreateLogRequest struct {
	Sets   int        `json:"sets" binding:"required,gt=0"`
	Reps   int        `json:"reps" binding:"required,gt=0"`
	Weight float64    `json:"weight" binding:"gte=0"`
	Date   *time.Time `json:"date"` // Optional, defaults to now
}

// --- Handler Methods ---

// CreateLog godoc
// @Summary Log a set-group for an exercise
// @Tags Logs
// @Accept json
// @Produce json
// @Param exerciseId path string true "Exercise ID"
// @Param log body CreateLogRequest true "Sets, reps and weight"
// @Success 201 {object} domain.WorkoutLog
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{exerciseId}/logs [post]
func (h *ExerciseHandler) CreateLog(c *gin.Context) {
	exerciseID, ok := uuidParam(c, "exerciseId")
	if !ok {
		return
	}
	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in := service.LogInput{Sets: req.Sets, Reps: req.Reps, Weight: req.Weight}
	if req.Date != nil {
		in.Date = req.Date.UTC()
	}

	entry, err := h.workoutService.LogExercise(c.Request.Context(), exerciseID, in)
	if err != nil {
		respondServiceError(c, err, "Failed to log exercise.")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListLogs godoc
// @Summary List an exercise's logs, oldest first
// @Tags Logs
// @Produce json
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {array} domain.WorkoutLog
// @Router /exercises/{exerciseId}/logs [get]
func (h *ExerciseHandler) ListLogs(c *gin.Context) {
	exerciseID, ok := uuidParam(c, "exerciseId")
	if !ok {
		return
	}
	logs, err := h.workoutService.LogsForExercise(exerciseID)
	if err != nil {
		respondServiceError(c, err, "Failed to list logs.")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// ResetLogs godoc
// @Summary Delete every log of an exercise
// @Tags Logs
// @Produce json
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} gin.H "number of logs removed"
// @Router /exercises/{exerciseId}/logs [delete]
func (h *ExerciseHandler) ResetLogs(c *gin.Context) {
	exerciseID, ok := uuidParam(c, "exerciseId")
	if !ok {
		return
	}
	removed, err := h.workoutService.ResetLogsForExercise(c.Request.Context(), exerciseID)
	if err != nil {
		respondServiceError(c, err, "Failed to reset logs.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// GetLatestLog godoc
// @Summary Latest log of an exercise, or the default 3x10 prescription
// @Tags Logs
// @Produce json
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} service.Prescription
// @Router /exercises/{exerciseId}/logs/latest [get]
func (h *ExerciseHandler) GetLatestLog(c *gin.Context) {
	exerciseID, ok := uuidParam(c, "exerciseId")
	if !ok {
		return
	}
	prescription, err := h.workoutService.LatestLog(exerciseID)
	if err != nil {
		respondServiceError(c, err, "Failed to get latest log.")
		return
	}
	c.JSON(http.StatusOK, prescription)
}

// GetProgress godoc
// @Summary Weight over time for an exercise
// @Tags Logs
// @Produce json
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {array} service.ProgressPoint
// @Router /exercises/{exerciseId}/progress [get]
func (h *ExerciseHandler) GetProgress(c *gin.Context) {
	exerciseID, ok := uuidParam(c, "exerciseId")
	if !ok {
		return
	}
	points, err := h.workoutService.Progress(exerciseID)
	if err != nil {
		respondServiceError(c, err, "Failed to get progress.")
		return
	}
	c.JSON(http.StatusOK, points)
}
