package api

import (
	"net/http"
	"testing"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHabits(t *testing.T) {
	s := newTestServer(t, nil)
	acc := s.signUp(t, "", false)

	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodPost, "/api/v1/habits", gin.H{"type": "smoking"}, acc.Token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w := s.do(t, http.MethodPost, "/api/v1/habits/undo", gin.H{"type": "smoking"}, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/habits/today", nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var counts service.HabitCounts
	decode(t, w, &counts)
	assert.Equal(t, 1, counts[domain.HabitSmoking])
	assert.Equal(t, 0, counts[domain.HabitNicotine])

	w = s.do(t, http.MethodGet, "/api/v1/habits/history", nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var history []service.HabitDay
	decode(t, w, &history)
	assert.Len(t, history, 7)

	w = s.do(t, http.MethodGet, "/api/v1/habits/history?days=3", nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &history)
	assert.Len(t, history, 3)

	w = s.do(t, http.MethodGet, "/api/v1/habits/history?days=many", nil, acc.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/habits", gin.H{"type": "coffee"}, acc.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/habits/undo", gin.H{"type": "nicotine"}, acc.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrivacy(t *testing.T) {
	s := newTestServer(t, nil)
	acc := s.signUp(t, "", false)

	w := s.do(t, http.MethodGet, "/api/v1/privacy", nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var settings domain.PrivacySettings
	decode(t, w, &settings)
	assert.True(t, settings.ShowWorkoutDetails)
	assert.True(t, settings.ShowWorkoutSchedule)

	w = s.do(t, http.MethodPut, "/api/v1/privacy", gin.H{"showWorkoutSchedule": false}, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &settings)
	assert.False(t, settings.ShowWorkoutSchedule)
	assert.True(t, settings.ShowWorkoutDetails)
}

func TestGymPlans(t *testing.T) {
	s := newTestServer(t, nil)
	acc := s.signUp(t, "", false)

	w := s.do(t, http.MethodGet, "/api/v1/plans/active", nil, acc.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := gin.H{"fitnessGoal": "get stronger", "fitnessLevel": "beginner", "daysPerWeek": 3, "equipmentAccess": "gym"}
	w = s.do(t, http.MethodPost, "/api/v1/plans/generate", req, acc.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first domain.GymPlan
	decode(t, w, &first)
	assert.Equal(t, domain.PlanActive, first.Status)
	assert.Equal(t, domain.PlanSourceFallback, first.Source)

	w = s.do(t, http.MethodPost, "/api/v1/plans/generate", req, acc.Token)
	require.Equal(t, http.StatusCreated, w.Code)
	var second domain.GymPlan
	decode(t, w, &second)

	w = s.do(t, http.MethodGet, "/api/v1/plans/active", nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var active domain.GymPlan
	decode(t, w, &active)
	assert.Equal(t, second.ID, active.ID)

	w = s.do(t, http.MethodGet, "/api/v1/plans", nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var plans []domain.GymPlan
	decode(t, w, &plans)
	assert.Len(t, plans, 2)

	w = s.do(t, http.MethodPatch, "/api/v1/plans/"+second.ID+"/status", gin.H{"status": "completed"}, acc.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	bad := gin.H{"fitnessGoal": "x", "fitnessLevel": "elite", "daysPerWeek": 9, "equipmentAccess": "gym"}
	w = s.do(t, http.MethodPost, "/api/v1/plans/generate", bad, acc.Token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "fitnessLevel")
	assert.Contains(t, w.Body.String(), "daysPerWeek")
}

func TestWallpaper_StorageDisabled(t *testing.T) {
	s := newTestServer(t, nil)
	acc := s.signUp(t, "", false)

	w := s.do(t, http.MethodPost, "/api/v1/me/wallpaper/upload-url", gin.H{"contentType": "image/png"}, acc.Token)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/me/wallpaper/upload-url", gin.H{}, acc.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetup_AlreadyComplete(t *testing.T) {
	s := newTestServer(t, nil)
	acc := s.signUp(t, "", false)

	// registration already queued a job; asking again returns it
	w := s.do(t, http.MethodPost, "/api/v1/setup", nil, acc.Token)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/setup", gin.H{"program": "cardio"}, acc.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/setup/jobs/unknown", nil, acc.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
