package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/planner"
	"gymbros/fitness-tracker/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type GymPlanService interface {
	// Generate creates a new active plan and archives the previous one.
	Generate(ctx context.Context, userID string, req planner.Request) (*domain.GymPlan, error)
	List(ctx context.Context, userID string) ([]domain.GymPlan, error)
	Active(ctx context.Context, userID string) (*domain.GymPlan, error)
	UpdateStatus(ctx context.Context, userID, planID string, status domain.PlanStatus) (*domain.GymPlan, error)
}

type gymPlanService struct {
	planRepo     repository.GymPlanRepository
	activityRepo repository.ActivityRepository
	generator    planner.Generator
}

func NewGymPlanService(planRepo repository.GymPlanRepository, activityRepo repository.ActivityRepository, generator planner.Generator) GymPlanService {
	return &gymPlanService{
		planRepo:     planRepo,
		activityRepo: activityRepo,
		generator:    generator,
	}
}

func validatePlanRequest(req *planner.Request) error {
	req.FitnessGoal = strings.TrimSpace(req.FitnessGoal)
	v := validation{}
	v.check(req.FitnessGoal != "", "fitnessGoal", "is required")
	v.check(len(req.FitnessGoal) <= 200, "fitnessGoal", "must be at most 200 characters")
	v.check(req.DaysPerWeek >= 1 && req.DaysPerWeek <= 7, "daysPerWeek", "must be between 1 and 7")
	v.check(req.FitnessLevel.IsValid(), "fitnessLevel", "must be beginner, intermediate or advanced")
	v.check(req.EquipmentAccess.IsValid(), "equipmentAccess", "must be none, home or gym")
	return v.err()
}

func (s *gymPlanService) Generate(ctx context.Context, userID string, req planner.Request) (*domain.GymPlan, error) {
	if err := validatePlanRequest(&req); err != nil {
		return nil, err
	}

	generated, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	if err := s.planRepo.ArchiveActive(ctx, userID); err != nil {
		return nil, fmt.Errorf("archive active plan: %w", err)
	}
	plan := &domain.GymPlan{
		ID:              uuid.NewString(),
		UserID:          userID,
		FitnessGoal:     req.FitnessGoal,
		FitnessLevel:    req.FitnessLevel,
		DaysPerWeek:     req.DaysPerWeek,
		EquipmentAccess: req.EquipmentAccess,
		PlanContent:     generated.PlanContent,
		WeeklySchedule:  generated.WeeklySchedule,
		Status:          domain.PlanActive,
		Source:          generated.Source,
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.activityRepo.Create(ctx, &domain.FriendActivity{
		ID:     uuid.NewString(),
		UserID: userID,
		Type:   domain.ActivityPlanStarted,
		Payload: map[string]interface{}{
			domain.PayloadPlanGoal:  plan.FitnessGoal,
			"daysPerWeek":           plan.DaysPerWeek,
			domain.PayloadTimestamp: now.Format(time.RFC3339),
		},
		CreatedAt: now,
	})
	if err != nil {
		log.Errorf("record plan activity for %s: %s", userID, err)
	}
	return plan, nil
}

func (s *gymPlanService) List(ctx context.Context, userID string) ([]domain.GymPlan, error) {
	return s.planRepo.ListByUser(ctx, userID)
}

func (s *gymPlanService) Active(ctx context.Context, userID string) (*domain.GymPlan, error) {
	plan, err := s.planRepo.GetActive(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrPlanNotFound)
	}
	return plan, nil
}

// UpdateStatus moves a plan to completed or archived.
func (s *gymPlanService) UpdateStatus(ctx context.Context, userID, planID string, status domain.PlanStatus) (*domain.GymPlan, error) {
	if status != domain.PlanCompleted && status != domain.PlanArchived {
		return nil, invalid("status", "must be completed or archived")
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, notFound(err, ErrPlanNotFound)
	}
	if plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	if err := s.planRepo.UpdateStatus(ctx, planID, status); err != nil {
		return nil, notFound(err, ErrPlanNotFound)
	}
	plan.Status = status
	return plan, nil
}
