package domain

import (
	"time"
)

// User is an account. Username and Email are both optional, at least one is set.
type User struct {
	ID            string    `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Username      string    `bson:"username,omitempty" json:"username,omitempty"`
	Email         string    `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash  string    `bson:"passwordHash,omitempty" json:"-"` // Never expose this via JSON
	RehabEnabled  bool      `bson:"rehabEnabled" json:"rehabEnabled"`
	SetupComplete bool      `bson:"setupComplete" json:"setupComplete"`
	WallpaperKey  string    `bson:"wallpaperKey,omitempty" json:"-"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName falls back to the username when no name was given.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Stats is the per-user running aggregate of completed sets and exercises.
// It is only ever moved by increments, never rewritten from a scan.
type Stats struct {
	UserID                  string     `bson:"_id" json:"userId"`
	TotalSetsCompleted      int        `bson:"totalSetsCompleted" json:"totalSetsCompleted"`
	TotalExercisesCompleted int        `bson:"totalExercisesCompleted" json:"totalExercisesCompleted"`
	LastWorkoutDate         *time.Time `bson:"lastWorkoutDate,omitempty" json:"lastWorkoutDate"`
	UpdatedAt               time.Time  `bson:"updatedAt" json:"updatedAt"`
}
