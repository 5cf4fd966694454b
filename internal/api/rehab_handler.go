package api

import (
	"net/http"
	"time"

	"gymbros/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// RehabHandler holds the rehab service dependency.
type RehabHandler struct {
	rehabService service.RehabService
}

func NewRehabHandler(rehabService service.RehabService) *RehabHandler {
	return &RehabHandler{rehabService: rehabService}
}

// RehabRequest defines the expected JSON for creating or replacing a rehab exercise.
type RehabRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Category    string `json:"category" binding:"max=50"`
	Sets        *int   `json:"sets" binding:"omitempty,min=0,max=1000"`
	Reps        *int   `json:"reps" binding:"omitempty,min=0,max=1000"`
	PerSideSets *int   `json:"perSideSets" binding:"omitempty,min=0,max=1000"`
	HoldSeconds *int   `json:"holdSeconds" binding:"omitempty,min=0,max=1000"`
	Load        string `json:"load"`
	BandColor   string `json:"bandColor"`
	Time        string `json:"time"` // free form, e.g. "2 min"
	Cues        string `json:"cues"`
}

func (r RehabRequest) toInput() service.RehabInput {
	return service.RehabInput{
		Name:        r.Name,
		Category:    r.Category,
		Sets:        r.Sets,
		Reps:        r.Reps,
		PerSideSets: r.PerSideSets,
		HoldSeconds: r.HoldSeconds,
		Load:        r.Load,
		BandColor:   r.BandColor,
		Time:        r.Time,
		Cues:        r.Cues,
	}
}

type CompleteRehabRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type ReorderRehabRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// EnableRehab godoc
// @Summary Turn on rehab for the account
// @Description Creates the default regimen when the user has none.
// @Tags Rehab
// @Produce json
// @Security SessionCookie
// @Success 200 {array} domain.RehabExercise
// @Router /rehab/enable [post]
func (h *RehabHandler) EnableRehab(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	exercises, err := h.rehabService.Enable(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// ListRehab godoc
// @Summary Today's rehab regimen in order
// @Tags Rehab
// @Produce json
// @Security SessionCookie
// @Success 200 {array} domain.RehabExercise
// @Failure 403 {object} gin.H "Rehab not enabled"
// @Router /rehab [get]
func (h *RehabHandler) ListRehab(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	exercises, err := h.rehabService.List(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// CreateRehab godoc
// @Summary Add a rehab exercise
// @Tags Rehab
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param exercise body RehabRequest true "Exercise details"
// @Success 201 {object} domain.RehabExercise
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Router /rehab [post]
func (h *RehabHandler) CreateRehab(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req RehabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	exercise, err := h.rehabService.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// UpdateRehab godoc
// @Summary Replace a rehab exercise
// @Tags Rehab
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param id path string true "Rehab exercise ID"
// @Param exercise body RehabRequest true "Exercise details"
// @Success 200 {object} domain.RehabExercise
// @Router /rehab/{id} [put]
func (h *RehabHandler) UpdateRehab(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req RehabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	exercise, err := h.rehabService.Update(c.Request.Context(), userID, c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteRehab godoc
// @Summary Delete a rehab exercise
// @Tags Rehab
// @Security SessionCookie
// @Param id path string true "Rehab exercise ID"
// @Success 204 "Deleted"
// @Router /rehab/{id} [delete]
func (h *RehabHandler) DeleteRehab(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.rehabService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompleteRehab godoc
// @Summary Check or uncheck a rehab exercise for today
// @Tags Rehab
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param id path string true "Rehab exercise ID"
// @Param request body CompleteRehabRequest true "New state"
// @Success 200 {object} domain.RehabExercise
// @Router /rehab/{id}/complete [patch]
func (h *RehabHandler) CompleteRehab(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CompleteRehabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	exercise, err := h.rehabService.SetCompleted(c.Request.Context(), userID, c.Param("id"), *req.Completed, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// ReorderRehab godoc
// @Summary Reorder the regimen
// @Description ids must list every rehab exercise of the user exactly once.
// @Tags Rehab
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body ReorderRehabRequest true "New order"
// @Success 200 {array} domain.RehabExercise
// @Router /rehab/reorder [post]
func (h *RehabHandler) ReorderRehab(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req ReorderRehabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	exercises, err := h.rehabService.Reorder(c.Request.Context(), userID, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// FixRehab godoc
// @Summary Reset the regimen to the defaults
// @Tags Rehab
// @Produce json
// @Security SessionCookie
// @Success 200 {array} domain.RehabExercise
// @Router /rehab/fix [post]
func (h *RehabHandler) FixRehab(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	exercises, err := h.rehabService.Fix(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}
