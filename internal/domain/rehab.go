package domain

import (
	"time"
)

// RehabExercise is a standalone prescription item, unrelated to workouts.
type RehabExercise struct {
	ID            string     `bson:"_id" json:"id"`
	UserID        string     `bson:"userId" json:"userId"`
	Name          string     `bson:"name" json:"name"`
	Category      string     `bson:"category,omitempty" json:"category,omitempty"`
	Sets          *int       `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps          *int       `bson:"reps,omitempty" json:"reps,omitempty"`
	PerSideSets   *int       `bson:"perSideSets,omitempty" json:"perSideSets,omitempty"`
	HoldSeconds   *int       `bson:"holdSeconds,omitempty" json:"holdSeconds,omitempty"`
	Load          string     `bson:"load,omitempty" json:"load,omitempty"`
	BandColor     string     `bson:"bandColor,omitempty" json:"bandColor,omitempty"`
	Time          string     `bson:"time,omitempty" json:"time,omitempty"`
	Cues          string     `bson:"cues,omitempty" json:"cues,omitempty"`
	Completed     bool       `bson:"completed" json:"completed"`
	CompletedDate *time.Time `bson:"completedDate,omitempty" json:"completedDate,omitempty"`
	OrderIndex    int        `bson:"orderIndex" json:"orderIndex"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// CompletedOn reports whether the exercise was completed on the given day.
func (r *RehabExercise) CompletedOn(day time.Time) bool {
	return r.Completed && r.CompletedDate != nil && DateOnly(*r.CompletedDate).Equal(DateOnly(day))
}
