package sqlstore

import (
	"context"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"gorm.io/gorm"
)

type gymPlanRepository struct {
	db *gorm.DB
}

func NewGymPlanRepository(db *gorm.DB) repository.GymPlanRepository {
	return &gymPlanRepository{db: db}
}

func (r *gymPlanRepository) Create(ctx context.Context, plan *domain.GymPlan) error {
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	row := newGymPlanRow(plan)
	return translate(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *gymPlanRepository) GetByID(ctx context.Context, id string) (*domain.GymPlan, error) {
	var row gymPlanRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	plan := row.toDomain()
	return &plan, nil
}

func (r *gymPlanRepository) GetActive(ctx context.Context, userID string) (*domain.GymPlan, error) {
	var row gymPlanRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(domain.PlanActive)).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	plan := row.toDomain()
	return &plan, nil
}

func (r *gymPlanRepository) ListByUser(ctx context.Context, userID string) ([]domain.GymPlan, error) {
	var rows []gymPlanRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	plans := make([]domain.GymPlan, 0, len(rows))
	for _, row := range rows {
		plans = append(plans, row.toDomain())
	}
	return plans, nil
}

func (r *gymPlanRepository) ArchiveActive(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&gymPlanRow{}).
		Where("user_id = ? AND status = ?", userID, string(domain.PlanActive)).
		Updates(map[string]interface{}{"status": string(domain.PlanArchived), "updated_at": time.Now().UTC()}).Error
}

func (r *gymPlanRepository) UpdateStatus(ctx context.Context, id string, status domain.PlanStatus) error {
	return affected(r.db.WithContext(ctx).Model(&gymPlanRow{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": string(status), "updated_at": time.Now().UTC()}))
}
