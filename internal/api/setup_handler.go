package api

import (
	"net/http"

	"gymbros/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type SetupHandler struct {
	setupService service.SetupService
}

func NewSetupHandler(setupService service.SetupService) *SetupHandler {
	return &SetupHandler{setupService: setupService}
}

type StartSetupRequest struct {
	Program string `json:"program" binding:"omitempty,oneof=strength foundation"`
}

// StartSetup godoc
// @Summary Queue demo data setup
// @Description Starts generating the demo workout history. Returns the job to poll.
// @Tags Setup
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body StartSetupRequest false "Program choice"
// @Success 202 {object} jobs.Job
// @Failure 409 {object} gin.H "Setup already complete"
// @Failure 503 {object} gin.H "Queue busy"
// @Router /setup [post]
func (h *SetupHandler) StartSetup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req StartSetupRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	job, err := h.setupService.StartSetup(c.Request.Context(), userID, req.Program)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// JobStatus godoc
// @Summary Poll a setup job
// @Tags Setup
// @Produce json
// @Security SessionCookie
// @Param jobId path string true "Job ID"
// @Success 200 {object} jobs.Job
// @Failure 404 {object} gin.H "Unknown or expired job"
// @Router /setup/jobs/{jobId} [get]
func (h *SetupHandler) JobStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	job, err := h.setupService.JobStatus(c.Request.Context(), userID, c.Param("jobId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
