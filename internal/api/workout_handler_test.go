package api

import (
	"net/http"
	"testing"

	"gymbros/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleSet(t *testing.T) {
	s := newTestServer(t, nil)
	acc := s.signUp(t, "", false)
	workout := s.addWorkout(t, acc.ID, 2)
	sets := workout.Exercises[0].Sets
	path := "/api/v1/workouts/" + workout.ID + "/sets/"

	w := s.do(t, http.MethodPatch, path+sets[0].ID, gin.H{"completed": true}, acc.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first service.ToggleResult
	decode(t, w, &first)
	assert.True(t, first.Changed)
	assert.True(t, first.Set.Completed)
	assert.Equal(t, 1, first.Deltas.Sets)
	assert.Equal(t, 0, first.Deltas.Exercises)

	// repeating the same state is a no-op
	w = s.do(t, http.MethodPatch, path+sets[0].ID, gin.H{"completed": true}, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var repeat service.ToggleResult
	decode(t, w, &repeat)
	assert.False(t, repeat.Changed)
	assert.Equal(t, 1, repeat.Stats.TotalSetsCompleted)

	w = s.do(t, http.MethodPatch, path+sets[1].ID, gin.H{"completed": true}, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var last service.ToggleResult
	decode(t, w, &last)
	assert.Equal(t, 1, last.Deltas.Exercises)
	assert.Equal(t, 1, last.Stats.TotalExercisesCompleted)

	assert.Equal(t, 2.0, counterValue(t, s.registry, "gymbros_test_server_set_toggles", map[string]string{"changed": "true"}))
	assert.Equal(t, 1.0, counterValue(t, s.registry, "gymbros_test_server_set_toggles", map[string]string{"changed": "false"}))

	w = s.do(t, http.MethodGet, "/api/v1/stats", nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestToggleSet_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)
	acc := s.signUp(t, "", false)
	other := s.signUp(t, "", false)
	workout := s.addWorkout(t, acc.ID, 1)
	setPath := "/api/v1/workouts/" + workout.ID + "/sets/" + workout.Exercises[0].Sets[0].ID

	w := s.do(t, http.MethodPatch, setPath, gin.H{}, acc.Token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"completed"`)

	w = s.do(t, http.MethodPatch, setPath, gin.H{"completed": "yes"}, acc.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPatch, "/api/v1/workouts/"+workout.ID+"/sets/missing", gin.H{"completed": true}, acc.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// another user's workout does not exist for them
	w = s.do(t, http.MethodPatch, setPath, gin.H{"completed": true}, other.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPatch, setPath, gin.H{"completed": true}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateSetAndList(t *testing.T) {
	s := newTestServer(t, nil)
	acc := s.signUp(t, "", false)
	workout := s.addWorkout(t, acc.ID, 1)
	setPath := "/api/v1/workouts/" + workout.ID + "/sets/" + workout.Exercises[0].Sets[0].ID

	w := s.do(t, http.MethodPut, setPath, gin.H{"reps": 10, "weight": 82.5}, acc.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"weight":82.5`)

	w = s.do(t, http.MethodPut, setPath, gin.H{"reps": -1, "weight": 10}, acc.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/workouts/today", nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), workout.ID)

	w = s.do(t, http.MethodGet, "/api/v1/workouts", nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), workout.ID)

	w = s.do(t, http.MethodGet, "/api/v1/workouts?from=yesterday", nil, acc.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	day := workout.Date
	w = s.do(t, http.MethodGet, "/api/v1/workouts?from="+day.AddDate(0, 0, -1).Format("2006-01-02")+"&to="+day.Format("2006-01-02"), nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), workout.ID, "to is exclusive")
	w = s.do(t, http.MethodGet, "/api/v1/workouts?from="+day.Format("2006-01-02")+"&to="+day.AddDate(0, 0, 1).Format("2006-01-02"), nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), workout.ID)

	w = s.do(t, http.MethodGet, "/api/v1/workouts/"+workout.ID, nil, acc.Token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImportWorkouts(t *testing.T) {
	s := newTestServer(t, nil)
	acc := s.signUp(t, "", false)

	body := gin.H{"workouts": []gin.H{{
		"name":      "Legs",
		"date":      "2026-03-02",
		"completed": true,
		"exercises": []gin.H{{
			"name": "Squat",
			"sets": []gin.H{
				{"reps": 5, "weight": 100, "completed": true},
				{"reps": 5, "weight": 100, "completed": true},
			},
		}},
	}}}
	w := s.do(t, http.MethodPost, "/api/v1/workouts/import", body, acc.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp ImportResponse
	decode(t, w, &resp)
	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, 2, resp.Deltas.Sets)
	assert.Equal(t, 1, resp.Deltas.Exercises)

	w = s.do(t, http.MethodPost, "/api/v1/workouts/import", gin.H{"workouts": []gin.H{}}, acc.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad := gin.H{"workouts": []gin.H{{"name": "Legs", "date": "March 2nd"}}}
	w = s.do(t, http.MethodPost, "/api/v1/workouts/import", bad, acc.Token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "workouts[0].date")
}
