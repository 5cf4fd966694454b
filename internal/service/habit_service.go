package service

import (
	"context"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"github.com/google/uuid"
)

const maxHistoryDays = 90

// HabitCounts maps each habit type to a count, all types present.
type HabitCounts map[domain.HabitType]int

func newHabitCounts() HabitCounts {
	counts := make(HabitCounts, len(domain.HabitTypes))
	for _, t := range domain.HabitTypes {
		counts[t] = 0
	}
	return counts
}

type HabitDay struct {
	Date   time.Time   `json:"date"`
	Counts HabitCounts `json:"counts"`
}

type HabitService interface {
	Log(ctx context.Context, userID string, habitType domain.HabitType, now time.Time) (*domain.HabitLog, error)
	// UndoLast removes the newest log of habitType recorded on the current UTC day.
	UndoLast(ctx context.Context, userID string, habitType domain.HabitType, now time.Time) (*domain.HabitLog, error)
	Today(ctx context.Context, userID string, now time.Time) (HabitCounts, error)
	// History returns one entry per day, oldest first, ending today.
	History(ctx context.Context, userID string, days int, now time.Time) ([]HabitDay, error)
}

type habitService struct {
	habitRepo repository.HabitRepository
}

func NewHabitService(habitRepo repository.HabitRepository) HabitService {
	return &habitService{habitRepo: habitRepo}
}

func validHabit(habitType domain.HabitType) error {
	if !habitType.IsValid() {
		return invalid("type", "must be smoking or nicotine")
	}
	return nil
}

func (s *habitService) Log(ctx context.Context, userID string, habitType domain.HabitType, now time.Time) (*domain.HabitLog, error) {
	if err := validHabit(habitType); err != nil {
		return nil, err
	}
	entry := &domain.HabitLog{
		ID:       uuid.NewString(),
		UserID:   userID,
		Type:     habitType,
		LoggedAt: now.UTC(),
	}
	if err := s.habitRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *habitService) UndoLast(ctx context.Context, userID string, habitType domain.HabitType, now time.Time) (*domain.HabitLog, error) {
	if err := validHabit(habitType); err != nil {
		return nil, err
	}
	day := domain.DateOnly(now)
	latest, err := s.habitRepo.LatestInRange(ctx, userID, habitType, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, notFound(err, ErrHabitLogNotFound)
	}
	if err := s.habitRepo.Delete(ctx, latest.ID); err != nil {
		return nil, notFound(err, ErrHabitLogNotFound)
	}
	return latest, nil
}

func (s *habitService) Today(ctx context.Context, userID string, now time.Time) (HabitCounts, error) {
	day := domain.DateOnly(now)
	logs, err := s.habitRepo.ListByUser(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	counts := newHabitCounts()
	for _, l := range logs {
		counts[l.Type]++
	}
	return counts, nil
}

func (s *habitService) History(ctx context.Context, userID string, days int, now time.Time) ([]HabitDay, error) {
	if days < 1 || days > maxHistoryDays {
		return nil, invalid("days", "must be between 1 and 90")
	}
	today := domain.DateOnly(now)
	from := today.AddDate(0, 0, -(days - 1))
	logs, err := s.habitRepo.ListByUser(ctx, userID, from, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	history := make([]HabitDay, days)
	for i := range history {
		history[i] = HabitDay{Date: from.AddDate(0, 0, i), Counts: newHabitCounts()}
	}
	for _, l := range logs {
		idx := int(domain.DateOnly(l.LoggedAt).Sub(from).Hours() / 24)
		if idx >= 0 && idx < days {
			history[idx].Counts[l.Type]++
		}
	}
	return history, nil
}
