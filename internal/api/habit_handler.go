package api

import (
	"net/http"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultHistoryDays = 7

type HabitHandler struct {
	habitService service.HabitService
}

func NewHabitHandler(habitService service.HabitService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

type HabitRequest struct {
	Type domain.HabitType `json:"type" binding:"required"`
}

// LogHabit godoc
// @Summary Record one occurrence of a habit
// @Tags Habits
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body HabitRequest true "Habit type (smoking or nicotine)"
// @Success 201 {object} domain.HabitLog
// @Failure 400 {object} gin.H "Unknown habit type"
// @Router /habits [post]
func (h *HabitHandler) LogHabit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req HabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	entry, err := h.habitService.Log(c.Request.Context(), userID, req.Type, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// UndoHabit godoc
// @Summary Remove today's most recent log of a habit
// @Tags Habits
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body HabitRequest true "Habit type"
// @Success 200 {object} domain.HabitLog "The removed entry"
// @Failure 404 {object} gin.H "Nothing logged today"
// @Router /habits/undo [post]
func (h *HabitHandler) UndoHabit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req HabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	entry, err := h.habitService.UndoLast(c.Request.Context(), userID, req.Type, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// TodayHabits godoc
// @Summary Today's counts per habit
// @Tags Habits
// @Produce json
// @Security SessionCookie
// @Success 200 {object} service.HabitCounts
// @Router /habits/today [get]
func (h *HabitHandler) TodayHabits(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	counts, err := h.habitService.Today(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// HabitHistory godoc
// @Summary Daily counts for the last N days
// @Tags Habits
// @Produce json
// @Security SessionCookie
// @Param days query int false "Number of days, 1 to 90" default(7)
// @Success 200 {array} service.HabitDay
// @Router /habits/history [get]
func (h *HabitHandler) HabitHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	days, ok := queryInt(c, "days", defaultHistoryDays)
	if !ok {
		return
	}
	history, err := h.habitService.History(c.Request.Context(), userID, days, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
