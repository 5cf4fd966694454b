package domain

// Exercise is an ordered group of sets inside a workout.
type Exercise struct {
	ID         string `bson:"id" json:"id"`
	WorkoutID  string `bson:"workoutId" json:"workoutId"`
	Name       string `bson:"name" json:"name"`
	OrderIndex int    `bson:"orderIndex" json:"orderIndex"`
	Sets       []Set  `bson:"sets" json:"sets"`
}

// Set is one performed unit of an exercise.
type Set struct {
	ID         string  `bson:"id" json:"id"`
	ExerciseID string  `bson:"exerciseId" json:"exerciseId"`
	Reps       int     `bson:"reps" json:"reps"`
	Weight     float64 `bson:"weight" json:"weight"` // kg
	Completed  bool    `bson:"completed" json:"completed"`
	OrderIndex int     `bson:"orderIndex" json:"orderIndex"`
}

// IsComplete reports whether every set is completed. An exercise without
// sets is never complete.
func (e *Exercise) IsComplete() bool {
	if len(e.Sets) == 0 {
		return false
	}
	for _, s := range e.Sets {
		if !s.Completed {
			return false
		}
	}
	return true
}

// OthersComplete reports whether every set except setID is completed.
func (e *Exercise) OthersComplete(setID string) bool {
	for _, s := range e.Sets {
		if s.ID != setID && !s.Completed {
			return false
		}
	}
	return true
}
