package seed

import (
	"time"

	"gymbros/fitness-tracker/internal/domain"
)

type ProgramName string

const (
	ProgramStrength   ProgramName = "strength"
	ProgramFoundation ProgramName = "foundation"
)

func (p ProgramName) IsValid() bool {
	switch p {
	case ProgramStrength, ProgramFoundation:
		return true
	default:
		return false
	}
}

// ExerciseTemplate is a prescribed exercise: Sets sets of Reps at Weight kg.
type ExerciseTemplate struct {
	Name   string
	Reps   int
	Sets   int
	Weight float64
}

// WorkoutTemplate is the workout scheduled on one weekday.
type WorkoutTemplate struct {
	Name      string
	Exercises []ExerciseTemplate
}

// Program maps weekdays to workouts. CompletionRate is the chance that any
// single set of a past workout was completed.
type Program struct {
	Name           ProgramName
	CompletionRate float64
	Schedule       map[time.Weekday]WorkoutTemplate
}

var programs = map[ProgramName]Program{
	ProgramStrength: {
		Name:           ProgramStrength,
		CompletionRate: 0.9,
		Schedule: map[time.Weekday]WorkoutTemplate{
			time.Monday: {Name: "Push", Exercises: []ExerciseTemplate{
				{Name: "Bench Press", Reps: 5, Sets: 5, Weight: 80},
				{Name: "Overhead Press", Reps: 8, Sets: 3, Weight: 45},
				{Name: "Incline Dumbbell Press", Reps: 10, Sets: 3, Weight: 26},
				{Name: "Triceps Pushdown", Reps: 12, Sets: 3, Weight: 25},
			}},
			time.Tuesday: {Name: "Pull", Exercises: []ExerciseTemplate{
				{Name: "Deadlift", Reps: 5, Sets: 3, Weight: 140},
				{Name: "Barbell Row", Reps: 8, Sets: 4, Weight: 70},
				{Name: "Lat Pulldown", Reps: 10, Sets: 3, Weight: 60},
				{Name: "Biceps Curl", Reps: 12, Sets: 3, Weight: 14},
			}},
			time.Thursday: {Name: "Legs", Exercises: []ExerciseTemplate{
				{Name: "Back Squat", Reps: 5, Sets: 5, Weight: 110},
				{Name: "Romanian Deadlift", Reps: 8, Sets: 3, Weight: 90},
				{Name: "Walking Lunge", Reps: 12, Sets: 3, Weight: 20},
				{Name: "Calf Raise", Reps: 15, Sets: 4, Weight: 60},
			}},
			time.Saturday: {Name: "Upper", Exercises: []ExerciseTemplate{
				{Name: "Weighted Pull-up", Reps: 6, Sets: 4, Weight: 10},
				{Name: "Dumbbell Bench Press", Reps: 10, Sets: 3, Weight: 30},
				{Name: "Face Pull", Reps: 15, Sets: 3, Weight: 20},
			}},
		},
	},
	ProgramFoundation: {
		Name:           ProgramFoundation,
		CompletionRate: 0.75,
		Schedule: map[time.Weekday]WorkoutTemplate{
			time.Monday: {Name: "Full Body A", Exercises: []ExerciseTemplate{
				{Name: "Goblet Squat", Reps: 10, Sets: 3, Weight: 16},
				{Name: "Push-up", Reps: 10, Sets: 3, Weight: 0},
				{Name: "Seated Cable Row", Reps: 12, Sets: 3, Weight: 35},
			}},
			time.Wednesday: {Name: "Full Body B", Exercises: []ExerciseTemplate{
				{Name: "Trap Bar Deadlift", Reps: 8, Sets: 3, Weight: 60},
				{Name: "Dumbbell Shoulder Press", Reps: 10, Sets: 3, Weight: 10},
				{Name: "Glute Bridge", Reps: 12, Sets: 3, Weight: 0},
			}},
			time.Friday: {Name: "Full Body C", Exercises: []ExerciseTemplate{
				{Name: "Split Squat", Reps: 10, Sets: 3, Weight: 8},
				{Name: "Lat Pulldown", Reps: 12, Sets: 3, Weight: 40},
				{Name: "Plank", Reps: 1, Sets: 3, Weight: 0},
			}},
		},
	},
}

// Lookup returns the program registered under name.
func Lookup(name ProgramName) (Program, bool) {
	p, ok := programs[name]
	return p, ok
}

// SelectProgram honours an explicit valid request and otherwise picks the
// gentler program for rehab accounts.
func SelectProgram(requested string, user domain.User) Program {
	if p, ok := Lookup(ProgramName(requested)); ok {
		return p
	}
	if user.RehabEnabled {
		return programs[ProgramFoundation]
	}
	return programs[ProgramStrength]
}
