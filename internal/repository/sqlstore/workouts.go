package sqlstore

import (
	"context"
	"errors"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const workoutBatchSize = 100

type workoutRepository struct {
	db *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) repository.WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) CreateMany(ctx context.Context, workouts []domain.Workout) error {
	if len(workouts) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]workoutRow, len(workouts))
	for i := range workouts {
		workouts[i].CreatedAt = now
		workouts[i].UpdatedAt = now
		rows[i] = newWorkoutRow(&workouts[i])
	}
	// associations are created with their parents
	return r.db.WithContext(ctx).CreateInBatches(rows, workoutBatchSize).Error
}

func (r *workoutRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Preload("Exercises.Sets", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") })
}

func (r *workoutRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	var row workoutRow
	if err := r.preloaded(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	w := row.toDomain()
	return &w, nil
}

func (r *workoutRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.Workout, error) {
	var rows []workoutRow
	err := r.preloaded(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	workouts := make([]domain.Workout, 0, len(rows))
	for _, row := range rows {
		workouts = append(workouts, row.toDomain())
	}
	return workouts, nil
}

// SetSetCompleted is a conditional UPDATE: it only matches a set currently in
// the opposite state. The exercise row is locked first so that toggles of
// sibling sets see each other's writes when counting open sets.
func (r *workoutRepository) SetSetCompleted(ctx context.Context, workoutID, setID string, completed bool) (repository.SetToggle, error) {
	var result repository.SetToggle
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var set setRow
		err := tx.Where("id = ?", setID).
			Where("exercise_id IN (?)", tx.Model(&exerciseRow{}).Select("id").Where("workout_id = ?", workoutID)).
			First(&set).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var exercise exerciseRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", set.ExerciseID).First(&exercise).Error; err != nil {
			return translate(err)
		}

		update := tx.Model(&setRow{}).
			Where("id = ? AND completed = ?", setID, !completed).
			Update("completed", completed)
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected != 1 {
			return nil
		}

		var open int64
		if err := tx.Model(&setRow{}).
			Where("exercise_id = ? AND id <> ? AND completed = ?", set.ExerciseID, setID, false).
			Count(&open).Error; err != nil {
			return err
		}
		result = repository.SetToggle{Changed: true, OthersComplete: open == 0}
		return nil
	})
	if err != nil {
		return repository.SetToggle{}, err
	}
	return result, nil
}

func (r *workoutRepository) UpdateSet(ctx context.Context, workoutID, setID string, reps int, weight float64) error {
	return affected(r.db.WithContext(ctx).Model(&setRow{}).
		Where("id = ?", setID).
		Where("exercise_id IN (?)", r.db.Model(&exerciseRow{}).Select("id").Where("workout_id = ?", workoutID)).
		Updates(map[string]interface{}{"reps": reps, "weight": weight}))
}

func (r *workoutRepository) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&workoutRow{}).
		Where("id = ? AND completed = ?", id, false).
		Updates(map[string]interface{}{"completed": true, "completed_at": at, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return false, tx.Error
	}
	if tx.RowsAffected == 1 {
		return true, nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&workoutRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	if n == 0 {
		return false, repository.ErrNotFound
	}
	return false, nil
}

func (r *workoutRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		workoutIDs := tx.Model(&workoutRow{}).Select("id").Where("user_id = ?", userID)
		exerciseIDs := tx.Model(&exerciseRow{}).Select("id").Where("workout_id IN (?)", workoutIDs)
		if err := tx.Where("exercise_id IN (?)", exerciseIDs).Delete(&setRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workout_id IN (?)", workoutIDs).Delete(&exerciseRow{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&workoutRow{}).Error
	})
}
