package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/jobs"
	"gymbros/fitness-tracker/internal/metrics"
	"gymbros/fitness-tracker/internal/planner"
	"gymbros/fitness-tracker/internal/repository"
	"gymbros/fitness-tracker/internal/repository/sqlstore"
	"gymbros/fitness-tracker/internal/seed"
	"gymbros/fitness-tracker/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v9"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const testCookieName = "gymbros_session"

type testRequestRateLimiter struct {
	// key to limit map
	Limits map[string]int
}

func (l *testRequestRateLimiter) Allow(_ context.Context, key string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	res := &redis_rate.Result{RetryAfter: 30 * time.Second}

	foundLimit, ok := l.Limits[key]
	if !ok || foundLimit == 0 {
		return res, nil
	}

	res.Allowed = foundLimit
	res.RetryAfter = 0
	l.Limits[key]--
	return res, nil
}

type testServer struct {
	router   *gin.Engine
	store    repository.Store
	metrics  *metrics.Manager
	registry *prometheus.Registry
}

// newTestServer wires the full router over an in-memory sqlite store. The
// setup queue is never started, so registration leaves a pending job.
func newTestServer(t *testing.T, limiter RequestRateLimiter) *testServer {
	t.Helper()
	db, err := sqlstore.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), false)
	require.NoError(t, err)
	store := sqlstore.NewStore(db)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	tracker := jobs.NewTracker(jobs.NewMemoryStore(1<<20), time.Minute)
	queue := jobs.NewQueue(tracker, 1, 16, nil)
	t.Cleanup(queue.Stop)

	services := Services{
		Auth:      service.NewAuthService(store.Users, store.Stats, "api-test-secret", time.Hour),
		Setup:     service.NewSetupService(store.Users, seed.NewGenerator(store.Workouts, store.Stats), tracker, queue),
		Workouts:  service.NewWorkoutService(store.Workouts, store.Stats, store.Activities),
		Stats:     service.NewStatsService(store.Stats, store.Workouts),
		Rehab:     service.NewRehabService(store.Users, store.Rehab, store.Activities),
		Habits:    service.NewHabitService(store.Habits),
		Friends:   service.NewFriendService(store.Users, store.Friendships, store.Privacy),
		Feed:      service.NewFeedService(store),
		Privacy:   service.NewPrivacyService(store.Privacy),
		Plans:     service.NewGymPlanService(store.GymPlans, store.Activities, planner.Fallback{}),
		Wallpaper: service.NewWallpaperService(store.Users, nil, time.Minute),
	}

	metricsManager, registry := metrics.NewTestManagerAndRegistry()
	router := gin.New()
	SetupRoutes(router, services, RouterConfig{
		CookieName:       testCookieName,
		LoginRateLimiter: limiter,
		LoginPerMinute:   10,
		Metrics:          metricsManager,
		Gatherer:         registry,
	})

	return &testServer{router: router, store: store, metrics: metricsManager, registry: registry}
}

// do sends body as JSON. token, when set, goes into the Authorization header.
func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type testAccount struct {
	ID       string
	Username string
	Password string
	Token    string
}

// signUp registers a fresh account through the API and logs it in.
func (s *testServer) signUp(t *testing.T, username string, rehab bool) testAccount {
	t.Helper()
	if username == "" {
		username = strings.ToLower(gofakeit.LetterN(12))
	}
	password := gofakeit.Password(true, true, true, false, false, 14)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":         gofakeit.Name(),
		"username":     username,
		"password":     password,
		"rehabEnabled": rehab,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"identifier": username, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return testAccount{ID: resp.User.ID, Username: username, Password: password, Token: resp.Token}
}

// addWorkout stores a workout for today with one exercise of n sets.
func (s *testServer) addWorkout(t *testing.T, userID string, n int) domain.Workout {
	t.Helper()
	w := domain.Workout{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   "Push",
		Date:   domain.DateOnly(time.Now()),
	}
	e := domain.Exercise{ID: uuid.NewString(), WorkoutID: w.ID, Name: "Bench Press"}
	for i := 0; i < n; i++ {
		e.Sets = append(e.Sets, domain.Set{ID: uuid.NewString(), ExerciseID: e.ID, Reps: 5, Weight: 80, OrderIndex: i})
	}
	w.Exercises = []domain.Exercise{e}
	require.NoError(t, s.store.Workouts.CreateMany(context.Background(), []domain.Workout{w}))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, m := range f.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func newCookieRequest(t *testing.T, method, path string, cookie *http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	return req
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}
