package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/privacy"
	"gymbros/fitness-tracker/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
	MaxPage         = 10000

	trendWeeks   = 4
	scheduleDays = 7
)

type FeedItem struct {
	domain.FriendActivity
	User UserSummary `json:"user"`
}

type FeedPage struct {
	Items   []FeedItem `json:"items"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	HasMore bool       `json:"hasMore"`
}

type FeedService interface {
	Feed(ctx context.Context, viewerID string, page, limit int) (*FeedPage, error)
	FriendActivity(ctx context.Context, viewerID, friendID string, page, limit int) (*FeedPage, error)
	FriendStats(ctx context.Context, viewerID, friendID string, now time.Time) (*privacy.FriendStats, error)
}

type feedService struct {
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
	activityRepo   repository.ActivityRepository
	privacyRepo    repository.PrivacyRepository
	statsRepo      repository.StatsRepository
	workoutRepo    repository.WorkoutRepository
}

func NewFeedService(store repository.Store) FeedService {
	return &feedService{
		userRepo:       store.Users,
		friendshipRepo: store.Friendships,
		activityRepo:   store.Activities,
		privacyRepo:    store.Privacy,
		statsRepo:      store.Stats,
		workoutRepo:    store.Workouts,
	}
}

// normalizePage checks the bounds. Callers apply DefaultPageSize when the
// client sent no limit.
func normalizePage(page, limit int) (int, int, error) {
	v := validation{}
	v.check(page >= 1 && page <= MaxPage, "page", fmt.Sprintf("must be between 1 and %d", MaxPage))
	v.check(limit >= 1 && limit <= MaxPageSize, "limit", "must be between 1 and 50")
	return page, limit, v.err()
}

func (s *feedService) Feed(ctx context.Context, viewerID string, page, limit int) (*FeedPage, error) {
	page, limit, err := normalizePage(page, limit)
	if err != nil {
		return nil, err
	}
	friendIDs, err := acceptedFriendIDs(ctx, s.friendshipRepo, viewerID)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, friendIDs, page, limit)
}

func (s *feedService) FriendActivity(ctx context.Context, viewerID, friendID string, page, limit int) (*FeedPage, error) {
	page, limit, err := normalizePage(page, limit)
	if err != nil {
		return nil, err
	}
	if err := s.requireFriends(ctx, viewerID, friendID); err != nil {
		return nil, err
	}
	return s.page(ctx, []string{friendID}, page, limit)
}

func (s *feedService) requireFriends(ctx context.Context, viewerID, friendID string) error {
	if viewerID == friendID {
		return ErrFriendshipNotFound
	}
	f, err := s.friendshipRepo.GetByPair(ctx, viewerID, friendID)
	if err != nil {
		return notFound(err, ErrFriendshipNotFound)
	}
	if f.Status != domain.FriendshipAccepted {
		return ErrFriendshipNotFound
	}
	return nil
}

// page loads one page of activity, over-fetching one row to learn whether
// another page exists, and filters every entry by its owner's settings.
func (s *feedService) page(ctx context.Context, ownerIDs []string, page, limit int) (*FeedPage, error) {
	result := &FeedPage{Items: []FeedItem{}, Page: page, Limit: limit}
	if len(ownerIDs) == 0 {
		return result, nil
	}

	activities, err := s.activityRepo.ListByUsers(ctx, ownerIDs, (page-1)*limit, limit+1)
	if err != nil {
		return nil, err
	}
	if len(activities) > limit {
		result.HasMore = true
		activities = activities[:limit]
	}

	settings, err := s.privacyRepo.GetMany(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	summaries := make(map[string]UserSummary, len(users))
	for i := range users {
		summaries[users[i].ID] = summarize(&users[i])
	}

	for _, a := range activities {
		var owner *domain.PrivacySettings
		if ps, ok := settings[a.UserID]; ok {
			owner = &ps
		}
		result.Items = append(result.Items, FeedItem{
			FriendActivity: privacy.FilterActivity(a, owner),
			User:           summaries[a.UserID],
		})
	}
	return result, nil
}

// FriendStats always shows the totals; weekly trends and the upcoming
// schedule depend on the friend's settings.
func (s *feedService) FriendStats(ctx context.Context, viewerID, friendID string, now time.Time) (*privacy.FriendStats, error) {
	if err := s.requireFriends(ctx, viewerID, friendID); err != nil {
		return nil, err
	}

	summary := privacy.FriendStats{UserID: friendID}
	st, err := s.statsRepo.Get(ctx, friendID)
	switch {
	case err == nil:
		summary.TotalSetsCompleted = st.TotalSetsCompleted
		summary.TotalExercisesCompleted = st.TotalExercisesCompleted
		summary.LastWorkoutDate = st.LastWorkoutDate
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	today := domain.DateOnly(now)
	firstWeek := WeekStart(now).AddDate(0, 0, -7*(trendWeeks-1))
	end := today.AddDate(0, 0, scheduleDays)
	workouts, err := s.workoutRepo.ListByUser(ctx, friendID, firstWeek, end)
	if err != nil {
		return nil, err
	}

	summary.Trends = make([]privacy.WeeklyTrend, trendWeeks)
	for i := range summary.Trends {
		summary.Trends[i].WeekStart = firstWeek.AddDate(0, 0, 7*i)
	}
	for i := range workouts {
		w := &workouts[i]
		if week := int(w.Date.Sub(firstWeek).Hours() / (24 * 7)); week >= 0 && week < trendWeeks && !w.Date.After(today) {
			summary.Trends[week].SetsCompleted += w.CompletedSets()
			if w.Completed {
				summary.Trends[week].Workouts++
			}
		}
		if !w.Date.Before(today) && w.Date.Before(end) && !w.Completed {
			summary.Schedule = append(summary.Schedule, privacy.ScheduledWorkout{Date: w.Date, Name: w.Name})
		}
	}

	var settings *domain.PrivacySettings
	ps, err := s.privacyRepo.Get(ctx, friendID)
	switch {
	case err == nil:
		settings = ps
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	filtered := privacy.FilterStats(summary, settings)
	return &filtered, nil
}
