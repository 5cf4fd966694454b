// Package stats maintains the per-user completion aggregates incrementally.
package stats

import (
	"gymbros/fitness-tracker/internal/domain"
)

// Deltas is the change a set toggle causes on the running totals.
type Deltas struct {
	Sets      int `json:"setsDelta"`
	Exercises int `json:"exercisesDelta"`
}

// IsZero reports whether applying d changes nothing.
func (d Deltas) IsZero() bool {
	return d.Sets == 0 && d.Exercises == 0
}

// Totals is a pair of running aggregates.
type Totals struct {
	Sets      int `json:"totalSetsCompleted"`
	Exercises int `json:"totalExercisesCompleted"`
}

// ComputeDeltas returns the change in completed sets and completed exercises
// when one set moves from previous to next while the rest of its exercise is
// othersComplete. Equal states produce a zero result.
func ComputeDeltas(previous, next, othersComplete bool) Deltas {
	if previous == next {
		return Deltas{}
	}

	d := Deltas{Sets: -1}
	if next {
		d.Sets = 1
	}

	wasComplete := previous && othersComplete
	isComplete := next && othersComplete
	switch {
	case !wasComplete && isComplete:
		d.Exercises = 1
	case wasComplete && !isComplete:
		d.Exercises = -1
	}
	return d
}

// ApplyDeltas adds d to the current totals. Neither total drops below zero.
func ApplyDeltas(currentSets, currentExercises int, d Deltas) Totals {
	return Totals{
		Sets:      max(currentSets+d.Sets, 0),
		Exercises: max(currentExercises+d.Exercises, 0),
	}
}

// CountCompletion counts completed sets and fully completed exercises across
// workouts. Bulk paths (seeding, import) use it in place of per-set deltas.
func CountCompletion(workouts []domain.Workout) Deltas {
	var d Deltas
	for _, w := range workouts {
		for _, e := range w.Exercises {
			for _, s := range e.Sets {
				if s.Completed {
					d.Sets++
				}
			}
			if e.IsComplete() {
				d.Exercises++
			}
		}
	}
	return d
}
