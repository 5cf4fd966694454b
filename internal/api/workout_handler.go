package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/metrics"
	"gymbros/fitness-tracker/internal/service"
	"gymbros/fitness-tracker/internal/stats"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// WorkoutHandler serves workouts, set toggles and the stats summary.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	statsService   service.StatsService
	metrics        *metrics.Manager
}

func NewWorkoutHandler(workoutService service.WorkoutService, statsService service.StatsService, metricsManager *metrics.Manager) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		statsService:   statsService,
		metrics:        metricsManager,
	}
}

// --- DTOs ---

type ToggleSetRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type UpdateSetRequest struct {
	Reps   *int     `json:"reps" binding:"required,min=0"`
	Weight *float64 `json:"weight" binding:"required,min=0"`
}

type ImportSetRequest struct {
	Reps      int     `json:"reps" binding:"min=0"`
	Weight    float64 `json:"weight" binding:"min=0"`
	Completed bool    `json:"completed"`
}

type ImportExerciseRequest struct {
	Name string             `json:"name" binding:"required"`
	Sets []ImportSetRequest `json:"sets" binding:"dive"`
}

type ImportWorkoutRequest struct {
	Name      string                  `json:"name" binding:"required"`
	Date      string                  `json:"date" binding:"required"` // YYYY-MM-DD or RFC 3339
	Completed bool                    `json:"completed"`
	Exercises []ImportExerciseRequest `json:"exercises" binding:"dive"`
}

type ImportRequest struct {
	Workouts []ImportWorkoutRequest `json:"workouts" binding:"required,min=1,max=500,dive"`
}

type ImportResponse struct {
	Imported int          `json:"imported"`
	Deltas   stats.Deltas `json:"deltas"`
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (r ImportRequest) toService() ([]service.ImportWorkout, error) {
	out := make([]service.ImportWorkout, 0, len(r.Workouts))
	for i, w := range r.Workouts {
		date, err := parseDate(w.Date)
		if err != nil {
			return nil, &service.ValidationError{Fields: map[string]string{
				fmt.Sprintf("workouts[%d].date", i): "must be YYYY-MM-DD or RFC 3339",
			}}
		}
		iw := service.ImportWorkout{Name: w.Name, Date: date, Completed: w.Completed}
		for _, e := range w.Exercises {
			ie := service.ImportExercise{Name: e.Name}
			for _, s := range e.Sets {
				ie.Sets = append(ie.Sets, service.ImportSet{Reps: s.Reps, Weight: s.Weight, Completed: s.Completed})
			}
			iw.Exercises = append(iw.Exercises, ie)
		}
		out = append(out, iw)
	}
	return out, nil
}

// --- Handler Methods ---

// ListWorkouts godoc
// @Summary List workouts in a date range
// @Description Defaults to the current week. `to` is exclusive.
// @Tags Workouts
// @Produce json
// @Security SessionCookie
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date, exclusive (YYYY-MM-DD)"
// @Success 200 {array} domain.Workout
// @Failure 400 {object} gin.H "Invalid range"
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	from := service.WeekStart(time.Now())
	to := from.AddDate(0, 0, 7)
	fields := map[string]string{}
	if v := c.Query("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			fields["from"] = "must be YYYY-MM-DD"
		}
		from = domain.DateOnly(t)
		if c.Query("to") == "" {
			to = from.AddDate(0, 0, 7)
		}
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			fields["to"] = "must be YYYY-MM-DD"
		}
		to = domain.DateOnly(t)
	}
	if len(fields) > 0 {
		respondError(c, &service.ValidationError{Fields: fields})
		return
	}

	workouts, err := h.workoutService.List(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// Today godoc
// @Summary Today's workouts
// @Tags Workouts
// @Produce json
// @Security SessionCookie
// @Success 200 {array} domain.Workout
// @Router /workouts/today [get]
func (h *WorkoutHandler) Today(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	workouts, err := h.workoutService.Today(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetWorkout godoc
// @Summary Get one workout with its exercises and sets
// @Tags Workouts
// @Produce json
// @Security SessionCookie
// @Param workoutId path string true "Workout ID"
// @Success 200 {object} domain.Workout
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{workoutId} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	workout, err := h.workoutService.Get(c.Request.Context(), userID, c.Param("workoutId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// ToggleSet godoc
// @Summary Mark a set completed or not completed
// @Description Responds with the set, the stats deltas and the updated totals.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param workoutId path string true "Workout ID"
// @Param setId path string true "Set ID"
// @Param request body ToggleSetRequest true "New state"
// @Success 200 {object} service.ToggleResult
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{workoutId}/sets/{setId} [patch]
func (h *WorkoutHandler) ToggleSet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req ToggleSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.workoutService.ToggleSet(c.Request.Context(), userID, c.Param("workoutId"), c.Param("setId"), *req.Completed)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CounterSetToggles.WithLabelValues(strconv.FormatBool(result.Changed)).Inc()
	}
	c.JSON(http.StatusOK, result)
}

// UpdateSet godoc
// @Summary Edit reps and weight of a set
// @Tags Workouts
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param workoutId path string true "Workout ID"
// @Param setId path string true "Set ID"
// @Param request body UpdateSetRequest true "Reps and weight"
// @Success 200 {object} domain.Set
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workouts/{workoutId}/sets/{setId} [put]
func (h *WorkoutHandler) UpdateSet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req UpdateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	set, err := h.workoutService.UpdateSet(c.Request.Context(), userID, c.Param("workoutId"), c.Param("setId"), *req.Reps, *req.Weight)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// FinishWorkout godoc
// @Summary Finish a workout
// @Description Marks the workout completed and shares it with friends.
// @Tags Workouts
// @Produce json
// @Security SessionCookie
// @Param workoutId path string true "Workout ID"
// @Success 200 {object} domain.Workout
// @Router /workouts/{workoutId}/finish [post]
func (h *WorkoutHandler) FinishWorkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	workout, err := h.workoutService.Finish(c.Request.Context(), userID, c.Param("workoutId"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// ImportWorkouts godoc
// @Summary Import recorded workouts
// @Tags Workouts
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body ImportRequest true "Workouts"
// @Success 201 {object} ImportResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workouts/import [post]
func (h *WorkoutHandler) ImportWorkouts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	workouts, err := req.toService()
	if err != nil {
		respondError(c, err)
		return
	}

	n, deltas, err := h.workoutService.Import(c.Request.Context(), userID, workouts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ImportResponse{Imported: n, Deltas: deltas})
}

// GetStats godoc
// @Summary Lifetime totals and this week's numbers
// @Tags Stats
// @Produce json
// @Security SessionCookie
// @Success 200 {object} service.StatsSummary
// @Router /stats [get]
func (h *WorkoutHandler) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	summary, err := h.statsService.Summary(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
