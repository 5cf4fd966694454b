package api

import (
	"net/http"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/planner"
	"gymbros/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService service.GymPlanService
}

func NewPlanHandler(planService service.GymPlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type GeneratePlanRequest struct {
	FitnessGoal     string `json:"fitnessGoal" binding:"required,max=200"`
	FitnessLevel    string `json:"fitnessLevel" binding:"required,oneof=beginner intermediate advanced"`
	DaysPerWeek     int    `json:"daysPerWeek" binding:"required,min=1,max=7"`
	EquipmentAccess string `json:"equipmentAccess" binding:"required,oneof=none home gym"`
}

type PlanStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=completed archived"`
}

// GeneratePlan godoc
// @Summary Generate a new gym plan
// @Description The new plan becomes active and the previous active plan is archived.
// @Tags Plans
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body GeneratePlanRequest true "Goals"
// @Success 201 {object} domain.GymPlan
// @Failure 400 {object} gin.H "Invalid input"
// @Router /plans/generate [post]
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	plan, err := h.planService.Generate(c.Request.Context(), userID, planner.Request{
		FitnessGoal:     req.FitnessGoal,
		FitnessLevel:    domain.FitnessLevel(req.FitnessLevel),
		DaysPerWeek:     req.DaysPerWeek,
		EquipmentAccess: domain.EquipmentAccess(req.EquipmentAccess),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// ListPlans godoc
// @Summary All plans, newest first
// @Tags Plans
// @Produce json
// @Security SessionCookie
// @Success 200 {array} domain.GymPlan
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plans, err := h.planService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// ActivePlan godoc
// @Summary The active plan
// @Tags Plans
// @Produce json
// @Security SessionCookie
// @Success 200 {object} domain.GymPlan
// @Failure 404 {object} gin.H "No active plan"
// @Router /plans/active [get]
func (h *PlanHandler) ActivePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plan, err := h.planService.Active(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// UpdatePlanStatus godoc
// @Summary Change a plan's status
// @Tags Plans
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param id path string true "Plan ID"
// @Param request body PlanStatusRequest true "New status"
// @Success 200 {object} domain.GymPlan
// @Router /plans/{id}/status [patch]
func (h *PlanHandler) UpdatePlanStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req PlanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	plan, err := h.planService.UpdateStatus(c.Request.Context(), userID, c.Param("id"), domain.PlanStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
