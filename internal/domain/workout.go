package domain

import (
	"time"
)

// Workout is a dated session. Completed is a user-facing label and is
// independent from the completion state of the sets it holds.
type Workout struct {
	ID          string     `bson:"_id" json:"id"`
	UserID      string     `bson:"userId" json:"userId"`
	Name        string     `bson:"name" json:"name"`
	Date        time.Time  `bson:"date" json:"date"` // UTC midnight
	Completed   bool       `bson:"completed" json:"completed"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Exercises   []Exercise `bson:"exercises" json:"exercises"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// FindSet returns the exercise and set indexes holding setID.
func (w *Workout) FindSet(setID string) (exerciseIdx, setIdx int, ok bool) {
	for i := range w.Exercises {
		for j := range w.Exercises[i].Sets {
			if w.Exercises[i].Sets[j].ID == setID {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}

// CompletedSets counts completed sets across every exercise.
func (w *Workout) CompletedSets() int {
	n := 0
	for _, e := range w.Exercises {
		for _, s := range e.Sets {
			if s.Completed {
				n++
			}
		}
	}
	return n
}

// DateOnly truncates t to UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
