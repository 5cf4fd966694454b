package domain

import (
	"time"
)

type ActivityType string

const (
	ActivityWorkoutCompleted ActivityType = "workout_completed"
	ActivityRehabCompleted   ActivityType = "rehab_completed"
	ActivityPlanStarted      ActivityType = "plan_started"
)

func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityWorkoutCompleted, ActivityRehabCompleted, ActivityPlanStarted:
		return true
	default:
		return false
	}
}

// Payload keys written by the activity producers.
const (
	PayloadExerciseCount = "exerciseCount"
	PayloadSetsCompleted = "setsCompleted"
	PayloadExercises     = "exercises"
	PayloadExerciseNames = "exerciseNames"
	PayloadTopExercise   = "topExercise"
	PayloadSets          = "sets"
	PayloadWeight        = "weight"
	PayloadWeights       = "weights"
	PayloadTotalWeight   = "totalWeight"
	PayloadMaxWeight     = "maxWeight"
	PayloadTimestamp     = "timestamp"
	PayloadWorkoutName   = "workoutName"
	PayloadPlanGoal      = "fitnessGoal"
)

// FriendActivity is an append-only entry visible in friends' feeds.
type FriendActivity struct {
	ID        string                 `bson:"_id" json:"id"`
	UserID    string                 `bson:"userId" json:"userId"`
	Type      ActivityType           `bson:"type" json:"type"`
	Payload   map[string]interface{} `bson:"payload" json:"payload"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
}
