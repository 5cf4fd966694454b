package service

import (
	"context"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"
)

// PrivacyUpdate holds the flags to change; nil leaves a flag as it is.
type PrivacyUpdate struct {
	ShowWorkoutDetails    *bool
	ShowExerciseNames     *bool
	ShowPerformanceTrends *bool
	ShowWorkoutSchedule   *bool
}

type PrivacyService interface {
	Get(ctx context.Context, userID string) (*domain.PrivacySettings, error)
	Update(ctx context.Context, userID string, update PrivacyUpdate) (*domain.PrivacySettings, error)
}

type privacyService struct {
	privacyRepo repository.PrivacyRepository
}

func NewPrivacyService(privacyRepo repository.PrivacyRepository) PrivacyService {
	return &privacyService{privacyRepo: privacyRepo}
}

// Get creates the all-visible default on first access.
func (s *privacyService) Get(ctx context.Context, userID string) (*domain.PrivacySettings, error) {
	return s.privacyRepo.EnsureDefault(ctx, userID)
}

func (s *privacyService) Update(ctx context.Context, userID string, update PrivacyUpdate) (*domain.PrivacySettings, error) {
	settings, err := s.privacyRepo.EnsureDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&settings.ShowWorkoutDetails, update.ShowWorkoutDetails)
	apply(&settings.ShowExerciseNames, update.ShowExerciseNames)
	apply(&settings.ShowPerformanceTrends, update.ShowPerformanceTrends)
	apply(&settings.ShowWorkoutSchedule, update.ShowWorkoutSchedule)
	settings.UpdatedAt = time.Now().UTC()

	if err := s.privacyRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
