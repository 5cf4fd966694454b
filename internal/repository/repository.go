package repository

import (
	"context"
	"time"

	"gymbros/fitness-tracker/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SearchByUsername(ctx context.Context, prefix string, limit int) ([]domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	SetRehabEnabled(ctx context.Context, id string, enabled bool) error
	SetSetupComplete(ctx context.Context, id string) error
	SetWallpaperKey(ctx context.Context, id, key string) error
}

// StatsRepository owns the aggregate row. Increment must be a single atomic
// storage operation and floors both totals at zero.
type StatsRepository interface {
	Ensure(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (*domain.Stats, error)
	Increment(ctx context.Context, userID string, setsDelta, exercisesDelta int) (*domain.Stats, error)
	// SetLastWorkoutDate only moves the date forward.
	SetLastWorkoutDate(ctx context.Context, userID string, date time.Time) error
}

// SetToggle is the outcome of SetSetCompleted.
type SetToggle struct {
	Changed bool
	// OthersComplete tells whether every other set of the same exercise was
	// completed when this set was written. Only meaningful when Changed.
	OthersComplete bool
}

// WorkoutRepository stores workouts together with their exercises and sets.
type WorkoutRepository interface {
	CreateMany(ctx context.Context, workouts []domain.Workout) error
	GetByID(ctx context.Context, id string) (*domain.Workout, error)
	// ListByUser returns workouts dated in [from, to).
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.Workout, error)
	// SetSetCompleted flips a set's flag only if it currently differs. The
	// write and the read of the sibling sets happen atomically.
	SetSetCompleted(ctx context.Context, workoutID, setID string, completed bool) (SetToggle, error)
	UpdateSet(ctx context.Context, workoutID, setID string, reps int, weight float64) error
	// MarkCompleted reports false when the workout was already completed.
	MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// RehabRepository defines the interface for rehab exercise data.
type RehabRepository interface {
	Create(ctx context.Context, exercise *domain.RehabExercise) error
	CreateMany(ctx context.Context, exercises []domain.RehabExercise) error
	GetByID(ctx context.Context, id string) (*domain.RehabExercise, error)
	ListByUser(ctx context.Context, userID string) ([]domain.RehabExercise, error)
	Update(ctx context.Context, exercise *domain.RehabExercise) error
	SetCompleted(ctx context.Context, id string, completed bool, date *time.Time) error
	// ResetCompletedBefore clears completions dated before day.
	ResetCompletedBefore(ctx context.Context, userID string, day time.Time) error
	SetOrder(ctx context.Context, userID string, ids []string) error
	Delete(ctx context.Context, userID, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// HabitRepository defines the interface for habit logs.
type HabitRepository interface {
	Create(ctx context.Context, log *domain.HabitLog) error
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.HabitLog, error)
	// LatestInRange returns the newest log of habitType within [from, to).
	LatestInRange(ctx context.Context, userID string, habitType domain.HabitType, from, to time.Time) (*domain.HabitLog, error)
	Delete(ctx context.Context, id string) error
}

// FriendshipRepository stores one row per unordered user pair.
type FriendshipRepository interface {
	// Create returns ErrConflict when a row for the pair already exists.
	Create(ctx context.Context, f *domain.Friendship) error
	GetByID(ctx context.Context, id string) (*domain.Friendship, error)
	GetByPair(ctx context.Context, a, b string) (*domain.Friendship, error)
	Update(ctx context.Context, f *domain.Friendship) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, status domain.FriendshipStatus) ([]domain.Friendship, error)
}

// ActivityRepository stores the append-only activity log.
type ActivityRepository interface {
	Create(ctx context.Context, a *domain.FriendActivity) error
	// ListByUsers returns activity of the given users newest first.
	ListByUsers(ctx context.Context, userIDs []string, offset, limit int) ([]domain.FriendActivity, error)
}

// PrivacyRepository stores one settings row per user.
type PrivacyRepository interface {
	Get(ctx context.Context, userID string) (*domain.PrivacySettings, error)
	GetMany(ctx context.Context, userIDs []string) (map[string]domain.PrivacySettings, error)
	Upsert(ctx context.Context, settings *domain.PrivacySettings) error
	// EnsureDefault creates the all-visible row if none exists.
	EnsureDefault(ctx context.Context, userID string) (*domain.PrivacySettings, error)
}

// GymPlanRepository defines the interface for generated plans.
type GymPlanRepository interface {
	Create(ctx context.Context, plan *domain.GymPlan) error
	GetByID(ctx context.Context, id string) (*domain.GymPlan, error)
	GetActive(ctx context.Context, userID string) (*domain.GymPlan, error)
	ListByUser(ctx context.Context, userID string) ([]domain.GymPlan, error)
	ArchiveActive(ctx context.Context, userID string) error
	UpdateStatus(ctx context.Context, id string, status domain.PlanStatus) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Users       UserRepository
	Stats       StatsRepository
	Workouts    WorkoutRepository
	Rehab       RehabRepository
	Habits      HabitRepository
	Friendships FriendshipRepository
	Activities  ActivityRepository
	Privacy     PrivacyRepository
	GymPlans    GymPlanRepository

	// Migrate prepares indexes or tables.
	Migrate func(ctx context.Context) error
	Close   func(ctx context.Context) error
}
