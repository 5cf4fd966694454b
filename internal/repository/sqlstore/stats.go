package sqlstore

import (
	"context"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Ensure(ctx context.Context, userID string) error {
	row := statsRow{UserID: userID, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (r *statsRepository) Get(ctx context.Context, userID string) (*domain.Stats, error) {
	var row statsRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	stats := row.toDomain()
	return &stats, nil
}

// clampedAdd is portable across sqlite and postgres, unlike MAX/GREATEST.
func clampedAdd(column string, delta int) clause.Expr {
	return gorm.Expr("CASE WHEN "+column+" + ? < 0 THEN 0 ELSE "+column+" + ? END", delta, delta)
}

// Increment applies both deltas in one UPDATE statement so concurrent
// toggles never lose an update.
func (r *statsRepository) Increment(ctx context.Context, userID string, setsDelta, exercisesDelta int) (*domain.Stats, error) {
	if err := r.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Model(&statsRow{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_sets_completed":      clampedAdd("total_sets_completed", setsDelta),
			"total_exercises_completed": clampedAdd("total_exercises_completed", exercisesDelta),
			"updated_at":                time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

func (r *statsRepository) SetLastWorkoutDate(ctx context.Context, userID string, date time.Time) error {
	tx := r.db.WithContext(ctx).Model(&statsRow{}).
		Where("user_id = ? AND (last_workout_date IS NULL OR last_workout_date < ?)", userID, date).
		Updates(map[string]interface{}{"last_workout_date": date, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		// either missing or already later
		_, err := r.Get(ctx, userID)
		return err
	}
	return nil
}
