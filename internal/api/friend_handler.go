package api

import (
	"net/http"
	"strconv"
	"time"

	"gymbros/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// FriendHandler serves friendships, the activity feed and friend profiles.
type FriendHandler struct {
	friendService service.FriendService
	feedService   service.FeedService
}

func NewFriendHandler(friendService service.FriendService, feedService service.FeedService) *FriendHandler {
	return &FriendHandler{friendService: friendService, feedService: feedService}
}

type FriendRequestBody struct {
	Username string `json:"username" binding:"required"`
}

type BlockRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// queryInt reads an optional integer query parameter. It writes a 400 and
// returns false when the value does not parse.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondError(c, &service.ValidationError{Fields: map[string]string{name: "must be an integer"}})
		return 0, false
	}
	return n, true
}

func pageParams(c *gin.Context) (page, limit int, ok bool) {
	if page, ok = queryInt(c, "page", 1); !ok {
		return 0, 0, false
	}
	if limit, ok = queryInt(c, "limit", service.DefaultPageSize); !ok {
		return 0, 0, false
	}
	return page, limit, true
}

// ListFriends godoc
// @Summary Accepted friends
// @Tags Friends
// @Produce json
// @Security SessionCookie
// @Success 200 {array} service.Friend
// @Router /friends [get]
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	friends, err := h.friendService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

// PendingRequests godoc
// @Summary Incoming and outgoing friend requests
// @Tags Friends
// @Produce json
// @Security SessionCookie
// @Success 200 {object} service.PendingRequests
// @Router /friends/pending [get]
func (h *FriendHandler) PendingRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	pending, err := h.friendService.Pending(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// SearchUsers godoc
// @Summary Find users by username prefix
// @Tags Friends
// @Produce json
// @Security SessionCookie
// @Param q query string true "Search text"
// @Success 200 {array} service.SearchResult
// @Router /friends/search [get]
func (h *FriendHandler) SearchUsers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	results, err := h.friendService.Search(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// SendRequest godoc
// @Summary Send a friend request
// @Tags Friends
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body FriendRequestBody true "Target username"
// @Success 201 {object} domain.Friendship
// @Failure 404 {object} gin.H "No such user"
// @Failure 409 {object} gin.H "Already friends or pending"
// @Router /friends/requests [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req FriendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	friendship, err := h.friendService.SendRequest(c.Request.Context(), userID, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, friendship)
}

// AcceptRequest godoc
// @Summary Accept a friend request addressed to the caller
// @Tags Friends
// @Produce json
// @Security SessionCookie
// @Param id path string true "Friendship ID"
// @Success 200 {object} domain.Friendship
// @Router /friends/requests/{id}/accept [post]
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	friendship, err := h.friendService.Accept(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, friendship)
}

// DeclineRequest godoc
// @Summary Decline a friend request addressed to the caller
// @Tags Friends
// @Produce json
// @Security SessionCookie
// @Param id path string true "Friendship ID"
// @Success 200 {object} domain.Friendship
// @Router /friends/requests/{id}/decline [post]
func (h *FriendHandler) DeclineRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	friendship, err := h.friendService.Decline(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, friendship)
}

// BlockUser godoc
// @Summary Block a user
// @Tags Friends
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body BlockRequest true "User to block"
// @Success 200 {object} domain.Friendship
// @Router /friends/block [post]
func (h *FriendHandler) BlockUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	friendship, err := h.friendService.Block(c.Request.Context(), userID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, friendship)
}

// RemoveFriendship godoc
// @Summary Unfriend, cancel a request or lift a block
// @Tags Friends
// @Security SessionCookie
// @Param id path string true "Friendship ID"
// @Success 204 "Removed"
// @Router /friends/{id} [delete]
func (h *FriendHandler) RemoveFriendship(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.friendService.Remove(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Feed godoc
// @Summary Friends' recent activity, newest first
// @Tags Feed
// @Produce json
// @Security SessionCookie
// @Param page query int false "Page, starting at 1" default(1)
// @Param limit query int false "Page size, at most 50" default(20)
// @Success 200 {object} service.FeedPage
// @Router /feed [get]
func (h *FriendHandler) Feed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}
	feed, err := h.feedService.Feed(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// FriendActivity godoc
// @Summary One friend's activity
// @Tags Feed
// @Produce json
// @Security SessionCookie
// @Param userId path string true "Friend user ID"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} service.FeedPage
// @Failure 404 {object} gin.H "Not friends"
// @Router /friends/{userId}/activity [get]
func (h *FriendHandler) FriendActivity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}
	feed, err := h.feedService.FriendActivity(c.Request.Context(), userID, c.Param("userId"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// FriendStats godoc
// @Summary A friend's stats, filtered by their privacy settings
// @Tags Feed
// @Produce json
// @Security SessionCookie
// @Param userId path string true "Friend user ID"
// @Success 200 {object} privacy.FriendStats
// @Failure 404 {object} gin.H "Not friends"
// @Router /friends/{userId}/stats [get]
func (h *FriendHandler) FriendStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	friendStats, err := h.feedService.FriendStats(c.Request.Context(), userID, c.Param("userId"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, friendStats)
}
