//go:build integration_test || all_tests

package mongo

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

var testDB *mongo.Database

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		fmt.Printf("could not create dockertest pool: %s\n", err)
		os.Exit(1)
	}
	if err = pool.Client.Ping(); err != nil {
		fmt.Printf("could not ping docker: %s\n", err)
		os.Exit(1)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		fmt.Printf("run mongo: %s\n", err)
		os.Exit(1)
	}

	var client *mongo.Client
	uri := fmt.Sprintf("mongodb://localhost:%s", resource.GetPort("27017/tcp"))
	if err = pool.Retry(func() error {
		var connErr error
		client, connErr = ConnectDB(uri)
		return connErr
	}); err != nil {
		fmt.Printf("connect to mongo: %s\n", err)
		_ = resource.Close()
		os.Exit(1)
	}

	testDB = client.Database("gymbros_test")
	if err = EnsureIndexes(context.Background(), testDB); err != nil {
		fmt.Printf("ensure indexes: %s\n", err)
		_ = resource.Close()
		os.Exit(1)
	}

	code := m.Run()

	_ = DisconnectDB(context.Background(), client)
	_ = resource.Close()
	os.Exit(code)
}

func newTestWorkout(userID string) domain.Workout {
	workoutID := uuid.NewString()
	exerciseID := uuid.NewString()
	return domain.Workout{
		ID:     workoutID,
		UserID: userID,
		Name:   "Push",
		Date:   domain.DateOnly(time.Now()),
		Exercises: []domain.Exercise{{
			ID:        exerciseID,
			WorkoutID: workoutID,
			Name:      "Bench Press",
			Sets: []domain.Set{
				{ID: uuid.NewString(), ExerciseID: exerciseID, Reps: 8, Weight: 60, OrderIndex: 0},
				{ID: uuid.NewString(), ExerciseID: exerciseID, Reps: 8, Weight: 60, OrderIndex: 1},
			},
		}},
	}
}

func TestStatsRepository_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoStatsRepository(testDB)
	userID := uuid.NewString()
	require.NoError(t, repo.Ensure(ctx, userID))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Increment(ctx, userID, 1, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 50, stats.TotalSetsCompleted)
	assert.Equal(t, 50, stats.TotalExercisesCompleted)

	stats, err = repo.Increment(ctx, userID, -100, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalSetsCompleted)
	assert.Equal(t, 49, stats.TotalExercisesCompleted)
}

func TestStatsRepository_LastWorkoutDateOnlyMovesForward(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoStatsRepository(testDB)
	userID := uuid.NewString()
	require.NoError(t, repo.Ensure(ctx, userID))

	later := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	earlier := later.AddDate(0, 0, -3)
	require.NoError(t, repo.SetLastWorkoutDate(ctx, userID, later))
	require.NoError(t, repo.SetLastWorkoutDate(ctx, userID, earlier))

	stats, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, stats.LastWorkoutDate)
	assert.True(t, later.Equal(*stats.LastWorkoutDate))
}

func TestWorkoutRepository_SetSetCompletedIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoWorkoutRepository(testDB)
	w := newTestWorkout(uuid.NewString())
	require.NoError(t, repo.CreateMany(ctx, []domain.Workout{w}))
	setID := w.Exercises[0].Sets[1].ID

	toggle, err := repo.SetSetCompleted(ctx, w.ID, setID, true)
	require.NoError(t, err)
	assert.Equal(t, repository.SetToggle{Changed: true, OthersComplete: false}, toggle)

	toggle, err = repo.SetSetCompleted(ctx, w.ID, setID, true)
	require.NoError(t, err)
	assert.False(t, toggle.Changed)

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.False(t, got.Exercises[0].Sets[0].Completed)
	assert.True(t, got.Exercises[0].Sets[1].Completed)

	require.NoError(t, repo.UpdateSet(ctx, w.ID, setID, 5, 72.5))
	got, err = repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Exercises[0].Sets[1].Reps)
	assert.Equal(t, 72.5, got.Exercises[0].Sets[1].Weight)

	assert.ErrorIs(t, repo.UpdateSet(ctx, w.ID, "missing", 1, 1), repository.ErrNotFound)

	// the sibling state comes from the document as it was at the write
	toggle, err = repo.SetSetCompleted(ctx, w.ID, w.Exercises[0].Sets[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, repository.SetToggle{Changed: true, OthersComplete: true}, toggle)
	toggle, err = repo.SetSetCompleted(ctx, w.ID, setID, false)
	require.NoError(t, err)
	assert.Equal(t, repository.SetToggle{Changed: true, OthersComplete: true}, toggle)
}

func TestWorkoutRepository_ListByUserExcludesEndDate(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoWorkoutRepository(testDB)
	userID := uuid.NewString()
	day := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)

	monday, sunday, nextMonday := newTestWorkout(userID), newTestWorkout(userID), newTestWorkout(userID)
	monday.Date, sunday.Date, nextMonday.Date = day, day.AddDate(0, 0, 6), day.AddDate(0, 0, 7)
	require.NoError(t, repo.CreateMany(ctx, []domain.Workout{nextMonday, sunday, monday}))

	list, err := repo.ListByUser(ctx, userID, day, day.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, monday.ID, list[0].ID)
	assert.Equal(t, sunday.ID, list[1].ID)

	list, err = repo.ListByUser(ctx, userID, day.AddDate(0, 0, 7), day.AddDate(0, 0, 8))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, nextMonday.ID, list[0].ID)
}

func TestWorkoutRepository_MarkCompletedOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoWorkoutRepository(testDB)
	w := newTestWorkout(uuid.NewString())
	require.NoError(t, repo.CreateMany(ctx, []domain.Workout{w}))
	at := time.Now().UTC().Truncate(time.Millisecond)

	changed, err := repo.MarkCompleted(ctx, w.ID, at)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = repo.MarkCompleted(ctx, w.ID, at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	_, err = repo.MarkCompleted(ctx, uuid.NewString(), at)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, at.Equal(got.CompletedAt.UTC()))
}

func TestFriendshipRepository_OneRowPerPair(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoFriendshipRepository(testDB)
	a, b := uuid.NewString(), uuid.NewString()

	require.NoError(t, repo.Create(ctx, &domain.Friendship{
		ID: uuid.NewString(), RequesterID: a, AddresseeID: b, Status: domain.FriendshipPending, CreatedAt: time.Now().UTC(),
	}))
	err := repo.Create(ctx, &domain.Friendship{
		ID: uuid.NewString(), RequesterID: b, AddresseeID: a, Status: domain.FriendshipPending, CreatedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, repository.ErrConflict)

	f, err := repo.GetByPair(ctx, b, a)
	require.NoError(t, err)
	assert.Equal(t, a, f.RequesterID)
}

func TestGymPlanRepository_ArchiveActive(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoGymPlanRepository(testDB)
	userID := uuid.NewString()

	first := &domain.GymPlan{ID: uuid.NewString(), UserID: userID, Status: domain.PlanActive, PlanContent: []byte(`{"a":1}`), WeeklySchedule: []byte(`{}`)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.ArchiveActive(ctx, userID))
	second := &domain.GymPlan{ID: uuid.NewString(), UserID: userID, Status: domain.PlanActive, PlanContent: []byte(`{"b":2}`), WeeklySchedule: []byte(`{}`)}
	require.NoError(t, repo.Create(ctx, second))

	active, err := repo.GetActive(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.JSONEq(t, `{"b":2}`, string(active.PlanContent))

	plans, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, plans, 2)
}
