package api

import (
	"net/http"

	"gymbros/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type PrivacyHandler struct {
	privacyService service.PrivacyService
}

func NewPrivacyHandler(privacyService service.PrivacyService) *PrivacyHandler {
	return &PrivacyHandler{privacyService: privacyService}
}

// PrivacyRequest carries a partial update. Omitted flags keep their value.
type PrivacyRequest struct {
	ShowWorkoutDetails    *bool `json:"showWorkoutDetails"`
	ShowExerciseNames     *bool `json:"showExerciseNames"`
	ShowPerformanceTrends *bool `json:"showPerformanceTrends"`
	ShowWorkoutSchedule   *bool `json:"showWorkoutSchedule"`
}

// GetPrivacy godoc
// @Summary Current privacy settings
// @Tags Privacy
// @Produce json
// @Security SessionCookie
// @Success 200 {object} domain.PrivacySettings
// @Router /privacy [get]
func (h *PrivacyHandler) GetPrivacy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	settings, err := h.privacyService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdatePrivacy godoc
// @Summary Change what friends can see
// @Tags Privacy
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body PrivacyRequest true "Flags to change"
// @Success 200 {object} domain.PrivacySettings
// @Router /privacy [put]
func (h *PrivacyHandler) UpdatePrivacy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req PrivacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	settings, err := h.privacyService.Update(c.Request.Context(), userID, service.PrivacyUpdate{
		ShowWorkoutDetails:    req.ShowWorkoutDetails,
		ShowExerciseNames:     req.ShowExerciseNames,
		ShowPerformanceTrends: req.ShowPerformanceTrends,
		ShowWorkoutSchedule:   req.ShowWorkoutSchedule,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
