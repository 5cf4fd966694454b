package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"
	"gymbros/fitness-tracker/internal/repository/sqlstore"
	"gymbros/fitness-tracker/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// Thursday
var testNow = time.Date(2026, 5, 14, 15, 4, 5, 0, time.UTC)

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := sqlstore.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), false)
	require.NoError(t, err)
	store := sqlstore.NewStore(db)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func fakeRegistration() service.RegisterInput {
	return service.RegisterInput{
		Name:     gofakeit.Name(),
		Username: strings.ToLower(gofakeit.LetterN(12)),
		Email:    strings.ToLower(gofakeit.LetterN(10)) + "@example.com",
		Password: gofakeit.Password(true, true, true, false, false, 14),
	}
}

func newTestUser(t *testing.T, store repository.Store) *domain.User {
	t.Helper()
	auth := service.NewAuthService(store.Users, store.Stats, testSecret, time.Hour)
	user, err := auth.Register(context.Background(), fakeRegistration())
	require.NoError(t, err)
	return user
}

// newTestWorkout builds a workout on date with one exercise per entry of
// setsPerExercise.
func newTestWorkout(userID string, date time.Time, setsPerExercise ...int) domain.Workout {
	w := domain.Workout{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   gofakeit.RandomString([]string{"Push", "Pull", "Legs", "Upper", "Lower"}),
		Date:   domain.DateOnly(date),
	}
	for i, n := range setsPerExercise {
		e := domain.Exercise{ID: uuid.NewString(), WorkoutID: w.ID, Name: fmt.Sprintf("Exercise %d", i+1), OrderIndex: i}
		for j := 0; j < n; j++ {
			e.Sets = append(e.Sets, domain.Set{
				ID:         uuid.NewString(),
				ExerciseID: e.ID,
				Reps:       8,
				Weight:     50,
				OrderIndex: j,
			})
		}
		w.Exercises = append(w.Exercises, e)
	}
	return w
}

func storeWorkouts(t *testing.T, store repository.Store, workouts ...domain.Workout) {
	t.Helper()
	require.NoError(t, store.Workouts.CreateMany(context.Background(), workouts))
}

// befriend creates an accepted friendship between a and b.
func befriend(t *testing.T, store repository.Store, a, b *domain.User) string {
	t.Helper()
	ctx := context.Background()
	friends := service.NewFriendService(store.Users, store.Friendships, store.Privacy)
	f, err := friends.SendRequest(ctx, a.ID, b.Username)
	require.NoError(t, err)
	_, err = friends.Accept(ctx, b.ID, f.ID)
	require.NoError(t, err)
	return f.ID
}
