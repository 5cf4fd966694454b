package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gymbros/fitness-tracker/internal/metrics"
	"gymbros/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecovery(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()
	router := gin.New()
	router.Use(PanicRecovery(m))
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	}
	assert.Equal(t, 2.0, counterValue(t, reg, "gymbros_test_server_handle_request_panic", nil))
}

func TestRequestMetrics_UsesRouteTemplate(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()
	router := gin.New()
	router.Use(RequestMetrics(m))
	router.GET("/items/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for _, path := range []string{"/items/1", "/items/2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, counterValue(t, reg, "gymbros_test_server_request",
		map[string]string{"route": "/items/:id", "status": "204"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "gymbros_test_server_request",
		map[string]string{"route": "unmatched", "status": "404"}))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodGet, "/ping", nil, "")

	w := s.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gymbros_test_server_request")
}

func TestRequireRehab(t *testing.T) {
	s := newTestServer(t, nil)
	acc := s.signUp(t, "", false)

	w := s.do(t, http.MethodGet, "/api/v1/rehab", nil, acc.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/rehab/enable", nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/rehab", nil, acc.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var exercises []map[string]interface{}
	decode(t, w, &exercises)
	assert.NotEmpty(t, exercises)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&service.ValidationError{Fields: map[string]string{"reps": "must not be negative"}}, http.StatusBadRequest},
		{service.ErrAuthenticationFailed, http.StatusUnauthorized},
		{service.ErrRehabNotEnabled, http.StatusForbidden},
		{service.ErrWorkoutNotFound, http.StatusNotFound},
		{service.ErrFriendshipExists, http.StatusConflict},
		{service.ErrStorageDisabled, http.StatusServiceUnavailable},
		{service.ErrSetupBusy, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			router := gin.New()
			router.GET("/", func(c *gin.Context) { respondError(c, tt.err) })
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "disk on fire")
			}
		})
	}
}
