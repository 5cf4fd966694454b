// Package seed backfills a plausible workout history and schedule for new accounts.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"
	"gymbros/fitness-tracker/internal/stats"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	pastDays   = 7  // days-ago 7..1
	futureDays = 15 // days-ahead 0..14
	// workouts at most this many days old are left incomplete
	recentDays = 2
)

// Result summarises one generation run.
type Result struct {
	Workouts           int
	SetsCompleted      int
	ExercisesCompleted int
	LastWorkoutDate    *time.Time
}

// Generator creates the demo workouts and bumps the user's stats once.
type Generator struct {
	workouts repository.WorkoutRepository
	stats    repository.StatsRepository

	Now     func() time.Time
	NewRand func() *rand.Rand
}

func NewGenerator(workouts repository.WorkoutRepository, stats repository.StatsRepository) *Generator {
	return &Generator{
		workouts: workouts,
		stats:    stats,
		Now:      time.Now,
		NewRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// Generate builds the trailing and leading windows of program for userID.
// progress, when set, receives percentages in [0, 100).
// A failure after some workouts were written leaves them in place and the
// stats untouched.
func (g *Generator) Generate(ctx context.Context, userID string, program Program, progress func(int)) (*Result, error) {
	report := func(pct int) {
		if progress != nil {
			progress(pct)
		}
	}

	anchor := domain.DateOnly(g.Now())
	rnd := g.NewRand()

	var workouts []domain.Workout
	for daysAgo := pastDays; daysAgo >= 1; daysAgo-- {
		date := anchor.AddDate(0, 0, -daysAgo)
		tmpl, ok := program.Schedule[date.Weekday()]
		if !ok {
			continue
		}
		eligible := daysAgo > recentDays
		rate := 0.0
		if eligible {
			rate = program.CompletionRate
		}
		workouts = append(workouts, buildWorkout(userID, date, tmpl, eligible, rate, rnd))
	}
	for daysAhead := 0; daysAhead < futureDays; daysAhead++ {
		date := anchor.AddDate(0, 0, daysAhead)
		tmpl, ok := program.Schedule[date.Weekday()]
		if !ok {
			continue
		}
		workouts = append(workouts, buildWorkout(userID, date, tmpl, false, 0, rnd))
	}
	report(30)

	if err := g.workouts.CreateMany(ctx, workouts); err != nil {
		return nil, fmt.Errorf("create seed workouts: %w", err)
	}
	report(80)

	counts := stats.CountCompletion(workouts)
	result := &Result{
		Workouts:           len(workouts),
		SetsCompleted:      counts.Sets,
		ExercisesCompleted: counts.Exercises,
	}
	if !counts.IsZero() {
		if _, err := g.stats.Increment(ctx, userID, counts.Sets, counts.Exercises); err != nil {
			return nil, fmt.Errorf("increment seed stats: %w", err)
		}
	}
	if counts.Sets > 0 {
		last := anchor.AddDate(0, 0, -recentDays)
		if err := g.stats.SetLastWorkoutDate(ctx, userID, last); err != nil {
			return nil, fmt.Errorf("set last workout date: %w", err)
		}
		result.LastWorkoutDate = &last
	}
	report(95)

	log.Debugf("seeded %d workouts for user %s (%s): %d sets, %d exercises",
		result.Workouts, userID, program.Name, result.SetsCompleted, result.ExercisesCompleted)
	return result, nil
}

// buildWorkout materialises tmpl on date. Each set of an eligible workout is an
// independent draw at rate, so a completed workout may hold incomplete sets.
func buildWorkout(userID string, date time.Time, tmpl WorkoutTemplate, eligible bool, rate float64, rnd *rand.Rand) domain.Workout {
	w := domain.Workout{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      tmpl.Name,
		Date:      date,
		Completed: eligible,
		Exercises: make([]domain.Exercise, 0, len(tmpl.Exercises)),
	}
	if eligible {
		completedAt := date.Add(18 * time.Hour)
		w.CompletedAt = &completedAt
	}

	for i, et := range tmpl.Exercises {
		ex := domain.Exercise{
			ID:         uuid.NewString(),
			WorkoutID:  w.ID,
			Name:       et.Name,
			OrderIndex: i,
			Sets:       make([]domain.Set, 0, et.Sets),
		}
		for j := 0; j < et.Sets; j++ {
			ex.Sets = append(ex.Sets, domain.Set{
				ID:         uuid.NewString(),
				ExerciseID: ex.ID,
				Reps:       et.Reps,
				Weight:     et.Weight,
				Completed:  eligible && rnd.Float64() < rate,
				OrderIndex: j,
			})
		}
		w.Exercises = append(w.Exercises, ex)
	}
	return w
}
