package domain

import (
	"time"
)

// PrivacySettings controls which parts of a user's activity friends can see.
type PrivacySettings struct {
	UserID                string    `bson:"_id" json:"userId"`
	ShowWorkoutDetails    bool      `bson:"showWorkoutDetails" json:"showWorkoutDetails"`
	ShowExerciseNames     bool      `bson:"showExerciseNames" json:"showExerciseNames"`
	ShowPerformanceTrends bool      `bson:"showPerformanceTrends" json:"showPerformanceTrends"`
	ShowWorkoutSchedule   bool      `bson:"showWorkoutSchedule" json:"showWorkoutSchedule"`
	UpdatedAt             time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DefaultPrivacySettings shows everything.
func DefaultPrivacySettings(userID string) PrivacySettings {
	return PrivacySettings{
		UserID:                userID,
		ShowWorkoutDetails:    true,
		ShowExerciseNames:     true,
		ShowPerformanceTrends: true,
		ShowWorkoutSchedule:   true,
		UpdatedAt:             time.Now().UTC(),
	}
}
