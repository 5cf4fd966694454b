package planner

import (
	"context"
	"encoding/json"
	"time"

	"gymbros/fitness-tracker/internal/domain"
)

type fallbackExercise struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps string `json:"reps"`
}

type fallbackDay struct {
	Day       string             `json:"day"`
	Focus     string             `json:"focus"`
	Exercises []fallbackExercise `json:"exercises"`
}

var trainingDays = map[int][]time.Weekday{
	1: {time.Wednesday},
	2: {time.Monday, time.Thursday},
	3: {time.Monday, time.Wednesday, time.Friday},
	4: {time.Monday, time.Tuesday, time.Thursday, time.Friday},
	5: {time.Monday, time.Tuesday, time.Wednesday, time.Friday, time.Saturday},
	6: {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
	7: {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday},
}

var movements = map[domain.EquipmentAccess][]string{
	domain.EquipmentNone: {"Push-up", "Bodyweight Squat", "Glute Bridge", "Plank", "Reverse Lunge"},
	domain.EquipmentHome: {"Dumbbell Press", "Goblet Squat", "Dumbbell Row", "Romanian Deadlift", "Farmer Carry"},
	domain.EquipmentGym:  {"Bench Press", "Back Squat", "Lat Pulldown", "Deadlift", "Overhead Press"},
}

// Fallback builds a full-body template from the request alone. It never fails.
type Fallback struct{}

func (Fallback) Generate(_ context.Context, req Request) (*Plan, error) {
	sets, reps := 3, "8-12"
	switch req.FitnessLevel {
	case domain.LevelBeginner:
		sets, reps = 2, "10-12"
	case domain.LevelAdvanced:
		sets, reps = 4, "5-8"
	}

	names, ok := movements[req.EquipmentAccess]
	if !ok {
		names = movements[domain.EquipmentNone]
	}
	days, ok := trainingDays[req.DaysPerWeek]
	if !ok {
		days = trainingDays[3]
	}

	schedule := make([]fallbackDay, 0, len(days))
	for i, day := range days {
		exercises := make([]fallbackExercise, 0, 4)
		// rotate the opening lift per day
		for j := 0; j < 4; j++ {
			exercises = append(exercises, fallbackExercise{
				Name: names[(i+j)%len(names)],
				Sets: sets,
				Reps: reps,
			})
		}
		schedule = append(schedule, fallbackDay{
			Day:       day.String(),
			Focus:     "Full Body",
			Exercises: exercises,
		})
	}

	content, err := json.Marshal(map[string]interface{}{
		"title":       "Full Body Foundations",
		"goal":        req.FitnessGoal,
		"level":       req.FitnessLevel,
		"daysPerWeek": len(days),
		"notes":       "Warm up for 5 minutes before each session and leave 1-2 reps in reserve.",
	})
	if err != nil {
		return nil, err
	}
	weekly, err := json.Marshal(map[string]interface{}{"days": schedule})
	if err != nil {
		return nil, err
	}

	return &Plan{
		PlanContent:    content,
		WeeklySchedule: weekly,
		Source:         domain.PlanSourceFallback,
	}, nil
}
