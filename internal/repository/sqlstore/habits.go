package sqlstore

import (
	"context"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"gorm.io/gorm"
)

type habitRepository struct {
	db *gorm.DB
}

func NewHabitRepository(db *gorm.DB) repository.HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) Create(ctx context.Context, log *domain.HabitLog) error {
	row := habitRow{ID: log.ID, UserID: log.UserID, Type: string(log.Type), LoggedAt: log.LoggedAt}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *habitRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.HabitLog, error) {
	var rows []habitRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, from, to).
		Order("logged_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	logs := make([]domain.HabitLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, row.toDomain())
	}
	return logs, nil
}

func (r *habitRepository) LatestInRange(ctx context.Context, userID string, habitType domain.HabitType, from, to time.Time) (*domain.HabitLog, error) {
	var row habitRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND logged_at >= ? AND logged_at < ?", userID, string(habitType), from, to).
		Order("logged_at DESC").
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	log := row.toDomain()
	return &log, nil
}

func (r *habitRepository) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&habitRow{}))
}
