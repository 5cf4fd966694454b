// Package sqlstore implements the repositories on gorm for postgres and sqlite.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gymbros/fitness-tracker/internal/repository"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres or sqlite depending on driver.
func Open(driver, dsn string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// sqlite allows a single writer; serialising connections avoids SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(
		&userRow{},
		&statsRow{},
		&workoutRow{},
		&exerciseRow{},
		&setRow{},
		&rehabRow{},
		&habitRow{},
		&friendshipRow{},
		&activityRow{},
		&privacyRow{},
		&gymPlanRow{},
	)
}

// NewStore wires every gorm repository over db.
func NewStore(db *gorm.DB) repository.Store {
	return repository.Store{
		Users:       NewUserRepository(db),
		Stats:       NewStatsRepository(db),
		Workouts:    NewWorkoutRepository(db),
		Rehab:       NewRehabRepository(db),
		Habits:      NewHabitRepository(db),
		Friendships: NewFriendshipRepository(db),
		Activities:  NewActivityRepository(db),
		Privacy:     NewPrivacyRepository(db),
		GymPlans:    NewGymPlanRepository(db),
		Migrate: func(ctx context.Context) error {
			return Migrate(ctx, db)
		},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// translate maps gorm errors onto repository errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrConflict
	default:
		return err
	}
}

// affected turns a zero-row write into ErrNotFound.
func affected(tx *gorm.DB) error {
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
