package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"liftlog/workout-tracker/internal/domain"
	"liftlog/workout-tracker/internal/service"
)

// TaxonomyHandler serves the muscle vocabulary and ad-hoc classification.
type TaxonomyHandler struct {
	classificationService service.ClassificationService
}

// NewTaxonomyHandler creates a new TaxonomyHandler.
func NewTaxonomyHandler(classificationService service.ClassificationService) *TaxonomyHandler {
	return &TaxonomyHandler{classificationService: classificationService}
}

// MuscleResponse describes one detailed muscle.
type MuscleResponse struct {
	Name      domain.DetailedMuscle `json:"name"`
	FrontView bool                  `json:"frontView"`
}

// MuscleGroupResponse describes a group and its detailed muscles.
type MuscleGroupResponse struct {
	Name    domain.MuscleGroup `json:"name"`
	Muscles []MuscleResponse   `json:"muscles"`
}

// ClassifyRequest defines the expected JSON for classifying a name.
type ClassifyRequest struct {
	Name         string   `json:"name" binding:"required"`
	MuscleGroups []string `json:"muscleGroups"`
}

// Taxonomy lists every group with its muscles in listing order.
func Taxonomy() []MuscleGroupResponse {
	groups := domain.AllGroups()
	out := make([]MuscleGroupResponse, len(groups))
	for i, g := range groups {
		muscles := g.Muscles()
		rows := make([]MuscleResponse, len(muscles))
		for j, m := range muscles {
			rows[j] = MuscleResponse{Name: m, FrontView: m.IsFrontView()}
		}
		out[i] = MuscleGroupResponse{Name: g, Muscles: rows}
	}
	return out
}

// ListMuscles godoc
// @Summary List muscle groups and detailed muscles
// @Tags Taxonomy
// @Produce json
// @Success 200 {array} MuscleGroupResponse
// @Router /muscles [get]
func (h *TaxonomyHandler) ListMuscles(c *gin.Context) {
	c.JSON(http.StatusOK, Taxonomy())
}

// Classify godoc
// @Summary Classify an exercise name without storing it
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param request body ClassifyRequest true "Exercise name"
// @Success 200 {object} service.Classification
// @Router /classify [post]
func (h *TaxonomyHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	groups, err := parseGroups(req.MuscleGroups)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.classificationService.Classify(c.Request.Context(), req.Name, groups))
}
