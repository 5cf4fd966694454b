// Package privacy redacts friend-visible data according to the owner's settings.
package privacy

import (
	"time"

	"gymbros/fitness-tracker/internal/domain"
)

var (
	detailKeys = []string{
		domain.PayloadExercises,
		domain.PayloadSets,
		domain.PayloadWeight,
		domain.PayloadWeights,
		domain.PayloadTotalWeight,
		domain.PayloadMaxWeight,
	}
	nameKeys = []string{
		domain.PayloadExercises,
		domain.PayloadExerciseNames,
		domain.PayloadTopExercise,
	}
)

// FilterActivity returns a copy of activity with the fields the owner hides
// removed. Nil settings means nothing is hidden. The result never shares its
// payload map with the input.
func FilterActivity(activity domain.FriendActivity, settings *domain.PrivacySettings) domain.FriendActivity {
	out := activity
	if activity.Payload == nil {
		return out
	}
	out.Payload = make(map[string]interface{}, len(activity.Payload))
	for k, v := range activity.Payload {
		out.Payload[k] = v
	}
	if settings == nil {
		return out
	}

	if !settings.ShowWorkoutDetails {
		for _, k := range detailKeys {
			delete(out.Payload, k)
		}
	}
	if !settings.ShowExerciseNames {
		for _, k := range nameKeys {
			delete(out.Payload, k)
		}
	}
	return out
}

// WeeklyTrend is the number of completed sets in the week starting at WeekStart.
type WeeklyTrend struct {
	WeekStart     time.Time `json:"weekStart"`
	SetsCompleted int       `json:"setsCompleted"`
	Workouts      int       `json:"workouts"`
}

// ScheduledWorkout is an upcoming workout as shown to a friend.
type ScheduledWorkout struct {
	Date time.Time `json:"date"`
	Name string    `json:"name,omitempty"`
}

// FriendStats is the comparison summary of one user as seen by a friend.
// The totals and last workout date are always present.
type FriendStats struct {
	UserID                  string             `json:"userId"`
	TotalSetsCompleted      int                `json:"totalSetsCompleted"`
	TotalExercisesCompleted int                `json:"totalExercisesCompleted"`
	LastWorkoutDate         *time.Time         `json:"lastWorkoutDate"`
	Trends                  []WeeklyTrend      `json:"trends,omitempty"`
	Schedule                []ScheduledWorkout `json:"schedule,omitempty"`
}

// FilterStats drops the optional sections the owner hides. Workout names in
// the schedule follow the exercise-name flag.
func FilterStats(summary FriendStats, settings *domain.PrivacySettings) FriendStats {
	out := summary
	if settings == nil {
		return out
	}
	if !settings.ShowPerformanceTrends {
		out.Trends = nil
	}
	if !settings.ShowWorkoutSchedule {
		out.Schedule = nil
	} else if !settings.ShowExerciseNames && len(out.Schedule) > 0 {
		schedule := make([]ScheduledWorkout, len(out.Schedule))
		for i, s := range out.Schedule {
			schedule[i] = ScheduledWorkout{Date: s.Date}
		}
		out.Schedule = schedule
	}
	return out
}
