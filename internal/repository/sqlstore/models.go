package sqlstore

import (
	"encoding/json"
	"time"

	"gymbros/fitness-tracker/internal/domain"

	"gorm.io/datatypes"
)

type userRow struct {
	ID            string  `gorm:"primaryKey;type:varchar(36)"`
	Name          string  `gorm:"not null"`
	Username      *string `gorm:"uniqueIndex"`
	Email         *string `gorm:"uniqueIndex"`
	PasswordHash  string
	RehabEnabled  bool
	SetupComplete bool
	WallpaperKey  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (userRow) TableName() string { return "users" }

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func newUserRow(u *domain.User) userRow {
	return userRow{
		ID:            u.ID,
		Name:          u.Name,
		Username:      nullable(u.Username),
		Email:         nullable(u.Email),
		PasswordHash:  u.PasswordHash,
		RehabEnabled:  u.RehabEnabled,
		SetupComplete: u.SetupComplete,
		WallpaperKey:  u.WallpaperKey,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:            r.ID,
		Name:          r.Name,
		Username:      deref(r.Username),
		Email:         deref(r.Email),
		PasswordHash:  r.PasswordHash,
		RehabEnabled:  r.RehabEnabled,
		SetupComplete: r.SetupComplete,
		WallpaperKey:  r.WallpaperKey,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type statsRow struct {
	UserID                  string `gorm:"primaryKey;type:varchar(36)"`
	TotalSetsCompleted      int    `gorm:"not null;default:0"`
	TotalExercisesCompleted int    `gorm:"not null;default:0"`
	LastWorkoutDate         *time.Time
	UpdatedAt               time.Time
}

func (statsRow) TableName() string { return "stats" }

func (r statsRow) toDomain() domain.Stats {
	return domain.Stats{
		UserID:                  r.UserID,
		TotalSetsCompleted:      r.TotalSetsCompleted,
		TotalExercisesCompleted: r.TotalExercisesCompleted,
		LastWorkoutDate:         r.LastWorkoutDate,
		UpdatedAt:               r.UpdatedAt,
	}
}

type workoutRow struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	UserID      string `gorm:"type:varchar(36);index:idx_workouts_user_date"`
	Name        string
	Date        time.Time `gorm:"index:idx_workouts_user_date"`
	Completed   bool
	CompletedAt *time.Time
	Exercises   []exerciseRow `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (workoutRow) TableName() string { return "workouts" }

type exerciseRow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	WorkoutID  string `gorm:"type:varchar(36);index"`
	Name       string
	OrderIndex int
	Sets       []setRow `gorm:"foreignKey:ExerciseID;constraint:OnDelete:CASCADE"`
}

func (exerciseRow) TableName() string { return "exercises" }

type setRow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	ExerciseID string `gorm:"type:varchar(36);index"`
	Reps       int
	Weight     float64
	Completed  bool
	OrderIndex int
}

func (setRow) TableName() string { return "workout_sets" }

func newWorkoutRow(w *domain.Workout) workoutRow {
	row := workoutRow{
		ID:          w.ID,
		UserID:      w.UserID,
		Name:        w.Name,
		Date:        w.Date,
		Completed:   w.Completed,
		CompletedAt: w.CompletedAt,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	for _, e := range w.Exercises {
		ex := exerciseRow{
			ID:         e.ID,
			WorkoutID:  w.ID,
			Name:       e.Name,
			OrderIndex: e.OrderIndex,
		}
		for _, s := range e.Sets {
			ex.Sets = append(ex.Sets, setRow{
				ID:         s.ID,
				ExerciseID: e.ID,
				Reps:       s.Reps,
				Weight:     s.Weight,
				Completed:  s.Completed,
				OrderIndex: s.OrderIndex,
			})
		}
		row.Exercises = append(row.Exercises, ex)
	}
	return row
}

func (r workoutRow) toDomain() domain.Workout {
	w := domain.Workout{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Date:        r.Date.UTC(),
		Completed:   r.Completed,
		CompletedAt: r.CompletedAt,
		Exercises:   make([]domain.Exercise, 0, len(r.Exercises)),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, e := range r.Exercises {
		ex := domain.Exercise{
			ID:         e.ID,
			WorkoutID:  e.WorkoutID,
			Name:       e.Name,
			OrderIndex: e.OrderIndex,
			Sets:       make([]domain.Set, 0, len(e.Sets)),
		}
		for _, s := range e.Sets {
			ex.Sets = append(ex.Sets, domain.Set{
				ID:         s.ID,
				ExerciseID: s.ExerciseID,
				Reps:       s.Reps,
				Weight:     s.Weight,
				Completed:  s.Completed,
				OrderIndex: s.OrderIndex,
			})
		}
		w.Exercises = append(w.Exercises, ex)
	}
	return w
}

type rehabRow struct {
	ID            string `gorm:"primaryKey;type:varchar(36)"`
	UserID        string `gorm:"type:varchar(36);index"`
	Name          string `gorm:"not null"`
	Category      string
	Sets          *int
	Reps          *int
	PerSideSets   *int
	HoldSeconds   *int
	Load          string
	BandColor     string
	Time          string
	Cues          string
	Completed     bool
	CompletedDate *time.Time
	OrderIndex    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (rehabRow) TableName() string { return "rehab_exercises" }

func newRehabRow(e *domain.RehabExercise) rehabRow {
	return rehabRow{
		ID:            e.ID,
		UserID:        e.UserID,
		Name:          e.Name,
		Category:      e.Category,
		Sets:          e.Sets,
		Reps:          e.Reps,
		PerSideSets:   e.PerSideSets,
		HoldSeconds:   e.HoldSeconds,
		Load:          e.Load,
		BandColor:     e.BandColor,
		Time:          e.Time,
		Cues:          e.Cues,
		Completed:     e.Completed,
		CompletedDate: e.CompletedDate,
		OrderIndex:    e.OrderIndex,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func (r rehabRow) toDomain() domain.RehabExercise {
	return domain.RehabExercise{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		Category:      r.Category,
		Sets:          r.Sets,
		Reps:          r.Reps,
		PerSideSets:   r.PerSideSets,
		HoldSeconds:   r.HoldSeconds,
		Load:          r.Load,
		BandColor:     r.BandColor,
		Time:          r.Time,
		Cues:          r.Cues,
		Completed:     r.Completed,
		CompletedDate: r.CompletedDate,
		OrderIndex:    r.OrderIndex,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type habitRow struct {
	ID       string    `gorm:"primaryKey;type:varchar(36)"`
	UserID   string    `gorm:"type:varchar(36);index:idx_habit_user_type_time"`
	Type     string    `gorm:"index:idx_habit_user_type_time"`
	LoggedAt time.Time `gorm:"index:idx_habit_user_type_time"`
}

func (habitRow) TableName() string { return "habit_logs" }

func (r habitRow) toDomain() domain.HabitLog {
	return domain.HabitLog{ID: r.ID, UserID: r.UserID, Type: domain.HabitType(r.Type), LoggedAt: r.LoggedAt.UTC()}
}

type friendshipRow struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	RequesterID string `gorm:"type:varchar(36);index"`
	AddresseeID string `gorm:"type:varchar(36);index"`
	PairKey     string `gorm:"uniqueIndex;not null"`
	Status      string `gorm:"not null"`
	CreatedAt   time.Time
	RespondedAt *time.Time
}

func (friendshipRow) TableName() string { return "friendships" }

func newFriendshipRow(f *domain.Friendship) friendshipRow {
	return friendshipRow{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		AddresseeID: f.AddresseeID,
		PairKey:     domain.PairKey(f.RequesterID, f.AddresseeID),
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
		RespondedAt: f.RespondedAt,
	}
}

func (r friendshipRow) toDomain() domain.Friendship {
	return domain.Friendship{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		AddresseeID: r.AddresseeID,
		PairKey:     r.PairKey,
		Status:      domain.FriendshipStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		RespondedAt: r.RespondedAt,
	}
}

type activityRow struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);index:idx_activity_user_time"`
	Type      string `gorm:"not null"`
	Payload   datatypes.JSON
	CreatedAt time.Time `gorm:"index:idx_activity_user_time"`
}

func (activityRow) TableName() string { return "friend_activities" }

func newActivityRow(a *domain.FriendActivity) (activityRow, error) {
	payload, err := json.Marshal(a.Payload)
	if err != nil {
		return activityRow{}, err
	}
	return activityRow{
		ID:        a.ID,
		UserID:    a.UserID,
		Type:      string(a.Type),
		Payload:   datatypes.JSON(payload),
		CreatedAt: a.CreatedAt,
	}, nil
}

func (r activityRow) toDomain() (domain.FriendActivity, error) {
	payload := map[string]interface{}{}
	if len(r.Payload) > 0 {
		if err := json.Unmarshal(r.Payload, &payload); err != nil {
			return domain.FriendActivity{}, err
		}
	}
	return domain.FriendActivity{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      domain.ActivityType(r.Type),
		Payload:   payload,
		CreatedAt: r.CreatedAt,
	}, nil
}

type privacyRow struct {
	UserID                string `gorm:"primaryKey;type:varchar(36)"`
	ShowWorkoutDetails    bool
	ShowExerciseNames     bool
	ShowPerformanceTrends bool
	ShowWorkoutSchedule   bool
	UpdatedAt             time.Time
}

func (privacyRow) TableName() string { return "privacy_settings" }

func (r privacyRow) toDomain() domain.PrivacySettings {
	return domain.PrivacySettings{
		UserID:                r.UserID,
		ShowWorkoutDetails:    r.ShowWorkoutDetails,
		ShowExerciseNames:     r.ShowExerciseNames,
		ShowPerformanceTrends: r.ShowPerformanceTrends,
		ShowWorkoutSchedule:   r.ShowWorkoutSchedule,
		UpdatedAt:             r.UpdatedAt,
	}
}

type gymPlanRow struct {
	ID              string `gorm:"primaryKey;type:varchar(36)"`
	UserID          string `gorm:"type:varchar(36);index:idx_plans_user_status"`
	FitnessGoal     string
	FitnessLevel    string
	DaysPerWeek     int
	EquipmentAccess string
	PlanContent     datatypes.JSON
	WeeklySchedule  datatypes.JSON
	Status          string `gorm:"index:idx_plans_user_status"`
	Source          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (gymPlanRow) TableName() string { return "gym_plans" }

func newGymPlanRow(p *domain.GymPlan) gymPlanRow {
	return gymPlanRow{
		ID:              p.ID,
		UserID:          p.UserID,
		FitnessGoal:     p.FitnessGoal,
		FitnessLevel:    string(p.FitnessLevel),
		DaysPerWeek:     p.DaysPerWeek,
		EquipmentAccess: string(p.EquipmentAccess),
		PlanContent:     datatypes.JSON(p.PlanContent),
		WeeklySchedule:  datatypes.JSON(p.WeeklySchedule),
		Status:          string(p.Status),
		Source:          string(p.Source),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (r gymPlanRow) toDomain() domain.GymPlan {
	return domain.GymPlan{
		ID:              r.ID,
		UserID:          r.UserID,
		FitnessGoal:     r.FitnessGoal,
		FitnessLevel:    domain.FitnessLevel(r.FitnessLevel),
		DaysPerWeek:     r.DaysPerWeek,
		EquipmentAccess: domain.EquipmentAccess(r.EquipmentAccess),
		PlanContent:     json.RawMessage(r.PlanContent),
		WeeklySchedule:  json.RawMessage(r.WeeklySchedule),
		Status:          domain.PlanStatus(r.Status),
		Source:          domain.PlanSource(r.Source),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
