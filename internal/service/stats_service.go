package service

import (
	"context"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"
)

type StatsSummary struct {
	domain.Stats
	WeekStart             time.Time `json:"weekStart"`
	WorkoutsThisWeek      int       `json:"workoutsThisWeek"`
	CompletedThisWeek     int       `json:"completedThisWeek"`
	SetsCompletedThisWeek int       `json:"setsCompletedThisWeek"`
}

type StatsService interface {
	Summary(ctx context.Context, userID string, now time.Time) (*StatsSummary, error)
}

type statsService struct {
	statsRepo   repository.StatsRepository
	workoutRepo repository.WorkoutRepository
}

func NewStatsService(statsRepo repository.StatsRepository, workoutRepo repository.WorkoutRepository) StatsService {
	return &statsService{statsRepo: statsRepo, workoutRepo: workoutRepo}
}

func (s *statsService) Summary(ctx context.Context, userID string, now time.Time) (*StatsSummary, error) {
	if err := s.statsRepo.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	st, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	weekStart := WeekStart(now)
	workouts, err := s.workoutRepo.ListByUser(ctx, userID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}

	summary := &StatsSummary{Stats: *st, WeekStart: weekStart, WorkoutsThisWeek: len(workouts)}
	for i := range workouts {
		if workouts[i].Completed {
			summary.CompletedThisWeek++
		}
		summary.SetsCompletedThisWeek += workouts[i].CompletedSets()
	}
	return summary, nil
}

// WeekStart returns the Monday (UTC midnight) of the week containing t.
func WeekStart(t time.Time) time.Time {
	day := domain.DateOnly(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
