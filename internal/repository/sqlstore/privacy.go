package sqlstore

import (
	"context"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type privacyRepository struct {
	db *gorm.DB
}

func NewPrivacyRepository(db *gorm.DB) repository.PrivacyRepository {
	return &privacyRepository{db: db}
}

func (r *privacyRepository) Get(ctx context.Context, userID string) (*domain.PrivacySettings, error) {
	var row privacyRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	settings := row.toDomain()
	return &settings, nil
}

func (r *privacyRepository) GetMany(ctx context.Context, userIDs []string) (map[string]domain.PrivacySettings, error) {
	out := make(map[string]domain.PrivacySettings, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []privacyRow
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = row.toDomain()
	}
	return out, nil
}

func (r *privacyRepository) Upsert(ctx context.Context, settings *domain.PrivacySettings) error {
	settings.UpdatedAt = time.Now().UTC()
	row := privacyRow{
		UserID:                settings.UserID,
		ShowWorkoutDetails:    settings.ShowWorkoutDetails,
		ShowExerciseNames:     settings.ShowExerciseNames,
		ShowPerformanceTrends: settings.ShowPerformanceTrends,
		ShowWorkoutSchedule:   settings.ShowWorkoutSchedule,
		UpdatedAt:             settings.UpdatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

func (r *privacyRepository) EnsureDefault(ctx context.Context, userID string) (*domain.PrivacySettings, error) {
	defaults := domain.DefaultPrivacySettings(userID)
	row := privacyRow{
		UserID:                userID,
		ShowWorkoutDetails:    defaults.ShowWorkoutDetails,
		ShowExerciseNames:     defaults.ShowExerciseNames,
		ShowPerformanceTrends: defaults.ShowPerformanceTrends,
		ShowWorkoutSchedule:   defaults.ShowWorkoutSchedule,
		UpdatedAt:             defaults.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}
