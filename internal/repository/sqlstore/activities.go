package sqlstore

import (
	"context"
	"fmt"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"gorm.io/gorm"
)

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, a *domain.FriendActivity) error {
	row, err := newActivityRow(a)
	if err != nil {
		return fmt.Errorf("marshal activity payload: %w", err)
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *activityRepository) ListByUsers(ctx context.Context, userIDs []string, offset, limit int) ([]domain.FriendActivity, error) {
	activities := []domain.FriendActivity{}
	if len(userIDs) == 0 {
		return activities, nil
	}
	var rows []activityRow
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		a, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("unmarshal activity %s: %w", row.ID, err)
		}
		activities = append(activities, a)
	}
	return activities, nil
}
