package service_test

import (
	"context"
	"math"
	"testing"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService_ShowsOnlyFriendsActivity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	feed := service.NewFeedService(store)
	workouts := service.NewWorkoutService(store.Workouts, store.Stats, store.Activities)
	viewer, friend, stranger := newTestUser(t, store), newTestUser(t, store), newTestUser(t, store)
	befriend(t, store, viewer, friend)

	for _, u := range []*domain.User{friend, stranger} {
		w := newTestWorkout(u.ID, testNow, 1)
		storeWorkouts(t, store, w)
		_, err := workouts.Finish(ctx, u.ID, w.ID, testNow)
		require.NoError(t, err)
	}

	page, err := feed.Feed(ctx, viewer.ID, 1, service.DefaultPageSize)
	require.NoError(t, err)
	assert.Equal(t, service.DefaultPageSize, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, friend.ID, page.Items[0].UserID)
	assert.Equal(t, friend.ID, page.Items[0].User.ID)
	assert.False(t, page.HasMore)

	page, err = feed.Feed(ctx, stranger.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestFeedService_Pagination(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	feed := service.NewFeedService(store)
	viewer, friend := newTestUser(t, store), newTestUser(t, store)
	befriend(t, store, viewer, friend)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Activities.Create(ctx, &domain.FriendActivity{
			ID:        uuid.NewString(),
			UserID:    friend.ID,
			Type:      domain.ActivityPlanStarted,
			Payload:   map[string]interface{}{domain.PayloadPlanGoal: "strength"},
			CreatedAt: testNow.Add(time.Duration(i) * time.Minute),
		}))
	}

	first, err := feed.Feed(ctx, viewer.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.True(t, first.HasMore)
	assert.True(t, first.Items[0].CreatedAt.After(first.Items[1].CreatedAt), "newest first")

	last, err := feed.Feed(ctx, viewer.ID, 3, 2)
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
	assert.False(t, last.HasMore)

	var verr *service.ValidationError
	_, err = feed.Feed(ctx, viewer.ID, 0, 10)
	assert.ErrorAs(t, err, &verr)
	_, err = feed.Feed(ctx, viewer.ID, 1, service.MaxPageSize+1)
	assert.ErrorAs(t, err, &verr)
	_, err = feed.Feed(ctx, viewer.ID, 1, 0)
	assert.ErrorAs(t, err, &verr)
	_, err = feed.Feed(ctx, viewer.ID, service.MaxPage+1, 10)
	assert.ErrorAs(t, err, &verr)
	_, err = feed.FriendActivity(ctx, viewer.ID, friend.ID, math.MaxInt, service.MaxPageSize)
	assert.ErrorAs(t, err, &verr)
}

func TestFeedService_AppliesOwnerPrivacy(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	feed := service.NewFeedService(store)
	workouts := service.NewWorkoutService(store.Workouts, store.Stats, store.Activities)
	privacySvc := service.NewPrivacyService(store.Privacy)
	viewer, friend := newTestUser(t, store), newTestUser(t, store)
	befriend(t, store, viewer, friend)

	w := newTestWorkout(friend.ID, testNow, 2)
	storeWorkouts(t, store, w)
	_, err := workouts.ToggleSet(ctx, friend.ID, w.ID, w.Exercises[0].Sets[0].ID, true)
	require.NoError(t, err)
	_, err = workouts.Finish(ctx, friend.ID, w.ID, testNow)
	require.NoError(t, err)

	page, err := feed.FriendActivity(ctx, viewer.ID, friend.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	payload := page.Items[0].Payload
	assert.Contains(t, payload, domain.PayloadTotalWeight)
	assert.Contains(t, payload, domain.PayloadExerciseNames)

	hide := false
	_, err = privacySvc.Update(ctx, friend.ID, service.PrivacyUpdate{ShowWorkoutDetails: &hide, ShowExerciseNames: &hide})
	require.NoError(t, err)

	page, err = feed.FriendActivity(ctx, viewer.ID, friend.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	payload = page.Items[0].Payload
	for _, key := range []string{domain.PayloadTotalWeight, domain.PayloadMaxWeight, domain.PayloadExercises, domain.PayloadExerciseNames, domain.PayloadTopExercise} {
		assert.NotContains(t, payload, key)
	}
	assert.Equal(t, w.Name, payload[domain.PayloadWorkoutName])
	assert.Contains(t, payload, domain.PayloadSetsCompleted)

	stored, err := store.Activities.ListByUsers(ctx, []string{friend.ID}, 0, 10)
	require.NoError(t, err)
	assert.Contains(t, stored[0].Payload, domain.PayloadTotalWeight, "stored activity is not redacted")
}

func TestFeedService_FriendActivityRequiresFriendship(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	feed := service.NewFeedService(store)
	friends := service.NewFriendService(store.Users, store.Friendships, store.Privacy)
	viewer, other := newTestUser(t, store), newTestUser(t, store)

	_, err := feed.FriendActivity(ctx, viewer.ID, other.ID, 1, 10)
	assert.ErrorIs(t, err, service.ErrFriendshipNotFound)

	_, err = friends.SendRequest(ctx, viewer.ID, other.Username)
	require.NoError(t, err)
	_, err = feed.FriendStats(ctx, viewer.ID, other.ID, testNow)
	assert.ErrorIs(t, err, service.ErrNotFound, "pending is not friends")

	_, err = feed.FriendActivity(ctx, viewer.ID, viewer.ID, 1, 10)
	assert.ErrorIs(t, err, service.ErrFriendshipNotFound)
}

func TestFeedService_FriendStats(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	feed := service.NewFeedService(store)
	workouts := service.NewWorkoutService(store.Workouts, store.Stats, store.Activities)
	privacySvc := service.NewPrivacyService(store.Privacy)
	viewer, friend := newTestUser(t, store), newTestUser(t, store)
	befriend(t, store, viewer, friend)

	past := newTestWorkout(friend.ID, testNow.AddDate(0, 0, -1), 2)
	upcoming := newTestWorkout(friend.ID, testNow.AddDate(0, 0, 2), 1)
	storeWorkouts(t, store, past, upcoming)
	for _, s := range past.Exercises[0].Sets {
		_, err := workouts.ToggleSet(ctx, friend.ID, past.ID, s.ID, true)
		require.NoError(t, err)
	}
	_, err := workouts.Finish(ctx, friend.ID, past.ID, testNow)
	require.NoError(t, err)

	st, err := feed.FriendStats(ctx, viewer.ID, friend.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalSetsCompleted)
	assert.Equal(t, 1, st.TotalExercisesCompleted)
	require.NotNil(t, st.LastWorkoutDate)
	require.Len(t, st.Trends, 4)
	current := st.Trends[len(st.Trends)-1]
	assert.True(t, service.WeekStart(testNow).Equal(current.WeekStart))
	assert.Equal(t, 2, current.SetsCompleted)
	assert.Equal(t, 1, current.Workouts)
	require.Len(t, st.Schedule, 1)
	assert.Equal(t, upcoming.Name, st.Schedule[0].Name)

	hide := false
	_, err = privacySvc.Update(ctx, friend.ID, service.PrivacyUpdate{ShowPerformanceTrends: &hide, ShowWorkoutSchedule: &hide})
	require.NoError(t, err)

	st, err = feed.FriendStats(ctx, viewer.ID, friend.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalSetsCompleted, "baseline totals stay visible")
	assert.Empty(t, st.Trends)
	assert.Empty(t, st.Schedule)
}
