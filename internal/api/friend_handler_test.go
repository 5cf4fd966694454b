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

func TestFriendshipAndFeed(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.signUp(t, "alice_lifts", false)
	bob := s.signUp(t, "bob_lifts", false)

	w := s.do(t, http.MethodPost, "/api/v1/friends/requests", gin.H{"username": "bob_lifts"}, alice.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var request domain.Friendship
	decode(t, w, &request)
	assert.Equal(t, domain.FriendshipPending, request.Status)

	w = s.do(t, http.MethodPost, "/api/v1/friends/requests", gin.H{"username": "bob_lifts"}, alice.Token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/friends/pending", nil, bob.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var pending service.PendingRequests
	decode(t, w, &pending)
	require.Len(t, pending.Incoming, 1)
	assert.Equal(t, alice.ID, pending.Incoming[0].User.ID)

	// only the addressee can see the request
	w = s.do(t, http.MethodPost, "/api/v1/friends/requests/"+request.ID+"/accept", nil, alice.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/friends/requests/"+request.ID+"/accept", nil, bob.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/friends", nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var friends []service.Friend
	decode(t, w, &friends)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].User.ID)

	workout := s.addWorkout(t, alice.ID, 2)
	w = s.do(t, http.MethodPost, "/api/v1/workouts/"+workout.ID+"/finish", nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/feed", nil, bob.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var feed service.FeedPage
	decode(t, w, &feed)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, domain.ActivityWorkoutCompleted, feed.Items[0].Type)
	assert.Equal(t, alice.ID, feed.Items[0].User.ID)
	assert.False(t, feed.HasMore)

	w = s.do(t, http.MethodGet, "/api/v1/friends/"+alice.ID+"/activity", nil, bob.Token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/friends/"+alice.ID+"/stats", nil, bob.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"`+alice.ID+`"`)

	// the author does not see their own activity
	w = s.do(t, http.MethodGet, "/api/v1/feed", nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &feed)
	assert.Empty(t, feed.Items)

	w = s.do(t, http.MethodDelete, "/api/v1/friends/"+request.ID, nil, bob.Token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/friends/"+alice.ID+"/stats", nil, bob.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeed_Paging(t *testing.T) {
	s := newTestServer(t, nil)
	acc := s.signUp(t, "", false)

	tests := []struct {
		query string
		want  int
	}{
		{"", http.StatusOK},
		{"?page=2&limit=5", http.StatusOK},
		{"?limit=abc", http.StatusBadRequest},
		{"?limit=100", http.StatusBadRequest},
		{"?page=0", http.StatusBadRequest},
		{"?limit=0", http.StatusBadRequest},
		{"?page=9223372036854775807&limit=50", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := s.do(t, http.MethodGet, "/api/v1/feed"+tt.query, nil, acc.Token)
		assert.Equal(t, tt.want, w.Code, tt.query)
	}
}

func TestFriendSearchAndBlock(t *testing.T) {
	s := newTestServer(t, nil)
	me := s.signUp(t, "search_me", false)
	other := s.signUp(t, "search_other", false)

	w := s.do(t, http.MethodGet, "/api/v1/friends/search?q=search_", nil, me.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var results []service.SearchResult
	decode(t, w, &results)
	require.Len(t, results, 1)
	assert.Equal(t, other.ID, results[0].ID)
	assert.Equal(t, service.RelationNone, results[0].Relationship)

	w = s.do(t, http.MethodPost, "/api/v1/friends/block", gin.H{"userId": other.ID}, me.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/friends/requests", gin.H{"username": "search_me"}, other.Token)
	assert.NotEqual(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/friends/block", gin.H{}, me.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
