package sqlstore

import (
	"context"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"gorm.io/gorm"
)

type rehabRepository struct {
	db *gorm.DB
}

func NewRehabRepository(db *gorm.DB) repository.RehabRepository {
	return &rehabRepository{db: db}
}

func (r *rehabRepository) Create(ctx context.Context, exercise *domain.RehabExercise) error {
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	row := newRehabRow(exercise)
	return translate(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *rehabRepository) CreateMany(ctx context.Context, exercises []domain.RehabExercise) error {
	if len(exercises) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]rehabRow, len(exercises))
	for i := range exercises {
		exercises[i].CreatedAt = now
		exercises[i].UpdatedAt = now
		rows[i] = newRehabRow(&exercises[i])
	}
	return translate(r.db.WithContext(ctx).Create(&rows).Error)
}

func (r *rehabRepository) GetByID(ctx context.Context, id string) (*domain.RehabExercise, error) {
	var row rehabRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	e := row.toDomain()
	return &e, nil
}

func (r *rehabRepository) ListByUser(ctx context.Context, userID string) ([]domain.RehabExercise, error) {
	var rows []rehabRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("order_index, created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	exercises := make([]domain.RehabExercise, 0, len(rows))
	for _, row := range rows {
		exercises = append(exercises, row.toDomain())
	}
	return exercises, nil
}

func (r *rehabRepository) Update(ctx context.Context, exercise *domain.RehabExercise) error {
	exercise.UpdatedAt = time.Now().UTC()
	return affected(r.db.WithContext(ctx).Model(&rehabRow{}).
		Where("id = ? AND user_id = ?", exercise.ID, exercise.UserID).
		Updates(map[string]interface{}{
			"name":          exercise.Name,
			"category":      exercise.Category,
			"sets":          exercise.Sets,
			"reps":          exercise.Reps,
			"per_side_sets": exercise.PerSideSets,
			"hold_seconds":  exercise.HoldSeconds,
			"load":          exercise.Load,
			"band_color":    exercise.BandColor,
			"time":          exercise.Time,
			"cues":          exercise.Cues,
			"updated_at":    exercise.UpdatedAt,
		}))
}

func (r *rehabRepository) SetCompleted(ctx context.Context, id string, completed bool, date *time.Time) error {
	return affected(r.db.WithContext(ctx).Model(&rehabRow{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"completed":      completed,
			"completed_date": date,
			"updated_at":     time.Now().UTC(),
		}))
}

func (r *rehabRepository) ResetCompletedBefore(ctx context.Context, userID string, day time.Time) error {
	return r.db.WithContext(ctx).Model(&rehabRow{}).
		Where("user_id = ? AND completed = ? AND (completed_date IS NULL OR completed_date < ?)", userID, true, day).
		Updates(map[string]interface{}{
			"completed":      false,
			"completed_date": nil,
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *rehabRepository) SetOrder(ctx context.Context, userID string, ids []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			err := affected(tx.Model(&rehabRow{}).
				Where("id = ? AND user_id = ?", id, userID).
				Update("order_index", i))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *rehabRepository) Delete(ctx context.Context, userID, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&rehabRow{}))
}

func (r *rehabRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&rehabRow{}).Error
}
