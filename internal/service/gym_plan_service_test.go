package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/planner"
	"gymbros/fitness-tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func validPlanRequest() planner.Request {
	return planner.Request{
		FitnessGoal:     "build strength",
		FitnessLevel:    domain.LevelIntermediate,
		DaysPerWeek:     3,
		EquipmentAccess: domain.EquipmentGym,
	}
}

func TestGymPlanService_GenerateArchivesPreviousPlan(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := newTestUser(t, store)
	ctrl := gomock.NewController(t)
	generator := NewMockGenerator(ctrl)
	svc := service.NewGymPlanService(store.GymPlans, store.Activities, generator)

	generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req planner.Request) (*planner.Plan, error) {
			assert.Equal(t, "build strength", req.FitnessGoal)
			return &planner.Plan{
				PlanContent:    json.RawMessage(`{"summary":"3 day split"}`),
				WeeklySchedule: json.RawMessage(`{"monday":["squat"]}`),
				Source:         domain.PlanSourceAI,
			}, nil
		}).
		Times(2)

	req := validPlanRequest()
	req.FitnessGoal = "  build strength  "
	first, err := svc.Generate(ctx, user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanActive, first.Status)
	assert.Equal(t, domain.PlanSourceAI, first.Source)

	second, err := svc.Generate(ctx, user.ID, validPlanRequest())
	require.NoError(t, err)

	active, err := svc.Active(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.JSONEq(t, `{"summary":"3 day split"}`, string(active.PlanContent))

	plans, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	statuses := map[string]domain.PlanStatus{}
	for _, p := range plans {
		statuses[p.ID] = p.Status
	}
	assert.Equal(t, domain.PlanArchived, statuses[first.ID])
	assert.Equal(t, domain.PlanActive, statuses[second.ID])

	activities, err := store.Activities.ListByUsers(ctx, []string{user.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, domain.ActivityPlanStarted, activities[0].Type)
}

func TestGymPlanService_GenerateValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := newTestUser(t, store)
	ctrl := gomock.NewController(t)
	// no call expected: invalid input never reaches the generator
	svc := service.NewGymPlanService(store.GymPlans, store.Activities, NewMockGenerator(ctrl))

	_, err := svc.Generate(ctx, user.ID, planner.Request{DaysPerWeek: 9, FitnessLevel: "elite", EquipmentAccess: "castle"})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"fitnessGoal", "daysPerWeek", "fitnessLevel", "equipmentAccess"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestGymPlanService_GeneratorFailureKeepsActivePlan(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := newTestUser(t, store)
	ctrl := gomock.NewController(t)
	generator := NewMockGenerator(ctrl)
	svc := service.NewGymPlanService(store.GymPlans, store.Activities, generator)

	gomock.InOrder(
		generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(&planner.Plan{
			PlanContent: json.RawMessage(`{}`), WeeklySchedule: json.RawMessage(`{}`), Source: domain.PlanSourceFallback,
		}, nil),
		generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, errors.New("planner unavailable")),
	)

	plan, err := svc.Generate(ctx, user.ID, validPlanRequest())
	require.NoError(t, err)

	_, err = svc.Generate(ctx, user.ID, validPlanRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planner unavailable")

	active, err := svc.Active(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, active.ID)
}

func TestGymPlanService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	owner, other := newTestUser(t, store), newTestUser(t, store)
	svc := service.NewGymPlanService(store.GymPlans, store.Activities, planner.Fallback{})

	plan, err := svc.Generate(ctx, owner.ID, validPlanRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.PlanSourceFallback, plan.Source)

	_, err = svc.UpdateStatus(ctx, other.ID, plan.ID, domain.PlanCompleted)
	assert.ErrorIs(t, err, service.ErrPlanNotFound)

	_, err = svc.UpdateStatus(ctx, owner.ID, plan.ID, domain.PlanActive)
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)

	updated, err := svc.UpdateStatus(ctx, owner.ID, plan.ID, domain.PlanCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanCompleted, updated.Status)

	_, err = svc.Active(ctx, owner.ID)
	assert.ErrorIs(t, err, service.ErrPlanNotFound)
}
