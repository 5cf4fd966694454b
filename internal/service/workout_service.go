package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"
	"gymbros/fitness-tracker/internal/stats"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const maxImportWorkouts = 500

// ToggleResult is the outcome of a set toggle. Deltas are zero when the set
// already had the requested state.
type ToggleResult struct {
	Set     domain.Set   `json:"set"`
	Changed bool         `json:"changed"`
	Deltas  stats.Deltas `json:"deltas"`
	Stats   domain.Stats `json:"stats"`
}

type ImportSet struct {
	Reps      int
	Weight    float64
	Completed bool
}

type ImportExercise struct {
	Name string
	Sets []ImportSet
}

type ImportWorkout struct {
	Name      string
	Date      time.Time
	Completed bool
	Exercises []ImportExercise
}

type WorkoutService interface {
	List(ctx context.Context, userID string, from, to time.Time) ([]domain.Workout, error)
	Get(ctx context.Context, userID, workoutID string) (*domain.Workout, error)
	Today(ctx context.Context, userID string, now time.Time) ([]domain.Workout, error)
	ToggleSet(ctx context.Context, userID, workoutID, setID string, completed bool) (*ToggleResult, error)
	UpdateSet(ctx context.Context, userID, workoutID, setID string, reps int, weight float64) (*domain.Set, error)
	Finish(ctx context.Context, userID, workoutID string, now time.Time) (*domain.Workout, error)
	Import(ctx context.Context, userID string, workouts []ImportWorkout) (int, stats.Deltas, error)
}

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	statsRepo    repository.StatsRepository
	activityRepo repository.ActivityRepository
	locks        *stripedMutex
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository, statsRepo repository.StatsRepository, activityRepo repository.ActivityRepository) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		statsRepo:    statsRepo,
		activityRepo: activityRepo,
		locks:        newStripedMutex(64),
	}
}

func (s *workoutService) List(ctx context.Context, userID string, from, to time.Time) ([]domain.Workout, error) {
	if !to.After(from) {
		return nil, invalid("to", "must be after from")
	}
	if to.Sub(from) > 366*24*time.Hour {
		return nil, invalid("to", "range must not exceed one year")
	}
	return s.workoutRepo.ListByUser(ctx, userID, from, to)
}

// Get returns the workout only to its owner; other users get not-found.
func (s *workoutService) Get(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, notFound(err, ErrWorkoutNotFound)
	}
	if w.UserID != userID {
		return nil, ErrWorkoutNotFound
	}
	return w, nil
}

func (s *workoutService) Today(ctx context.Context, userID string, now time.Time) ([]domain.Workout, error) {
	day := domain.DateOnly(now)
	return s.workoutRepo.ListByUser(ctx, userID, day, day.AddDate(0, 0, 1))
}

// ToggleSet flips one set and moves the stats by the resulting deltas.
// Toggles of one workout are serialised in-process. Across processes the
// storage compare-and-set decides the change and reports the sibling sets as
// they were at the moment of the write.
func (s *workoutService) ToggleSet(ctx context.Context, userID, workoutID, setID string, completed bool) (*ToggleResult, error) {
	unlock := s.locks.lock(workoutID)
	defer unlock()

	w, err := s.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	exIdx, setIdx, ok := w.FindSet(setID)
	if !ok {
		return nil, ErrSetNotFound
	}
	set := w.Exercises[exIdx].Sets[setIdx]

	toggle, err := s.workoutRepo.SetSetCompleted(ctx, workoutID, setID, completed)
	if err != nil {
		return nil, notFound(err, ErrSetNotFound)
	}

	result := &ToggleResult{Changed: toggle.Changed}
	set.Completed = completed
	result.Set = set

	if toggle.Changed {
		result.Deltas = stats.ComputeDeltas(!completed, completed, toggle.OthersComplete)
	}

	var current *domain.Stats
	if result.Deltas.IsZero() {
		current, err = s.statsRepo.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load stats for %s: %w", userID, err)
		}
	} else {
		current, err = s.statsRepo.Increment(ctx, userID, result.Deltas.Sets, result.Deltas.Exercises)
		if err != nil {
			// the set flag is already stored at this point
			log.Errorf("increment stats for %s by %+v: %s", userID, result.Deltas, err)
			return nil, fmt.Errorf("update stats: %w", err)
		}
	}
	result.Stats = *current
	return result, nil
}

func (s *workoutService) UpdateSet(ctx context.Context, userID, workoutID, setID string, reps int, weight float64) (*domain.Set, error) {
	v := validation{}
	v.check(reps >= 0 && reps <= 1000, "reps", "must be between 0 and 1000")
	v.check(weight >= 0 && weight <= 2000, "weight", "must be between 0 and 2000")
	if err := v.err(); err != nil {
		return nil, err
	}

	w, err := s.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	exIdx, setIdx, ok := w.FindSet(setID)
	if !ok {
		return nil, ErrSetNotFound
	}
	if err := s.workoutRepo.UpdateSet(ctx, workoutID, setID, reps, weight); err != nil {
		return nil, notFound(err, ErrSetNotFound)
	}
	set := w.Exercises[exIdx].Sets[setIdx]
	set.Reps = reps
	set.Weight = weight
	return &set, nil
}

// Finish marks the workout completed and publishes it to friends. Finishing
// an already completed workout is a no-op; only the call that flips the flag
// publishes.
func (s *workoutService) Finish(ctx context.Context, userID, workoutID string, now time.Time) (*domain.Workout, error) {
	w, err := s.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if w.Completed {
		return w, nil
	}

	now = now.UTC()
	changed, err := s.workoutRepo.MarkCompleted(ctx, workoutID, now)
	if err != nil {
		return nil, notFound(err, ErrWorkoutNotFound)
	}
	if !changed {
		return s.Get(ctx, userID, workoutID)
	}
	w.Completed = true
	w.CompletedAt = &now

	// never later than today
	lastWorkout := w.Date
	if today := domain.DateOnly(now); lastWorkout.After(today) {
		lastWorkout = today
	}
	if err := s.statsRepo.SetLastWorkoutDate(ctx, userID, lastWorkout); err != nil {
		return nil, fmt.Errorf("set last workout date: %w", err)
	}

	activity := &domain.FriendActivity{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      domain.ActivityWorkoutCompleted,
		Payload:   workoutPayload(w, now),
		CreatedAt: now,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		// the workout is finished either way
		log.Errorf("record activity for workout %s: %s", workoutID, err)
	}
	return w, nil
}

func workoutPayload(w *domain.Workout, at time.Time) map[string]interface{} {
	var (
		exercises   = make([]map[string]interface{}, 0, len(w.Exercises))
		names       = make([]string, 0, len(w.Exercises))
		totalWeight float64
		maxWeight   float64
		topExercise string
		topVolume   = -1.0
	)
	for _, e := range w.Exercises {
		var volume float64
		sets := make([]map[string]interface{}, 0, len(e.Sets))
		for _, set := range e.Sets {
			sets = append(sets, map[string]interface{}{
				"reps":      set.Reps,
				"weight":    set.Weight,
				"completed": set.Completed,
			})
			if !set.Completed {
				continue
			}
			volume += float64(set.Reps) * set.Weight
			maxWeight = max(maxWeight, set.Weight)
		}
		totalWeight += volume
		if volume > topVolume {
			topVolume, topExercise = volume, e.Name
		}
		names = append(names, e.Name)
		exercises = append(exercises, map[string]interface{}{
			"name": e.Name,
			"sets": sets,
		})
	}

	payload := map[string]interface{}{
		domain.PayloadWorkoutName:   w.Name,
		domain.PayloadExerciseCount: len(w.Exercises),
		domain.PayloadSetsCompleted: w.CompletedSets(),
		domain.PayloadExercises:     exercises,
		domain.PayloadExerciseNames: names,
		domain.PayloadTotalWeight:   totalWeight,
		domain.PayloadMaxWeight:     maxWeight,
		domain.PayloadTimestamp:     at.Format(time.RFC3339),
	}
	if topExercise != "" {
		payload[domain.PayloadTopExercise] = topExercise
	}
	return payload
}

// Import stores externally recorded workouts and adds their completed sets
// and exercises to the stats in one increment.
func (s *workoutService) Import(ctx context.Context, userID string, in []ImportWorkout) (int, stats.Deltas, error) {
	v := validation{}
	v.check(len(in) > 0, "workouts", "at least one workout is required")
	v.check(len(in) <= maxImportWorkouts, "workouts", fmt.Sprintf("at most %d workouts per import", maxImportWorkouts))
	for i, iw := range in {
		field := fmt.Sprintf("workouts[%d]", i)
		v.check(iw.Name != "", field+".name", "is required")
		v.check(!iw.Date.IsZero(), field+".date", "is required")
		for j, ie := range iw.Exercises {
			v.check(ie.Name != "", fmt.Sprintf("%s.exercises[%d].name", field, j), "is required")
			for k, set := range ie.Sets {
				v.check(set.Reps >= 0 && set.Weight >= 0, fmt.Sprintf("%s.exercises[%d].sets[%d]", field, j, k), "reps and weight must not be negative")
			}
		}
	}
	if err := v.err(); err != nil {
		return 0, stats.Deltas{}, err
	}

	workouts := make([]domain.Workout, 0, len(in))
	var last time.Time
	for _, iw := range in {
		w := domain.Workout{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      iw.Name,
			Date:      domain.DateOnly(iw.Date),
			Completed: iw.Completed,
		}
		if iw.Completed {
			completedAt := w.Date
			w.CompletedAt = &completedAt
			if w.Date.After(last) {
				last = w.Date
			}
		}
		for i, ie := range iw.Exercises {
			e := domain.Exercise{ID: uuid.NewString(), WorkoutID: w.ID, Name: ie.Name, OrderIndex: i}
			for j, is := range ie.Sets {
				e.Sets = append(e.Sets, domain.Set{
					ID:         uuid.NewString(),
					ExerciseID: e.ID,
					Reps:       is.Reps,
					Weight:     is.Weight,
					Completed:  is.Completed,
					OrderIndex: j,
				})
			}
			w.Exercises = append(w.Exercises, e)
		}
		workouts = append(workouts, w)
	}
	sort.Slice(workouts, func(i, j int) bool { return workouts[i].Date.Before(workouts[j].Date) })

	if err := s.workoutRepo.CreateMany(ctx, workouts); err != nil {
		return 0, stats.Deltas{}, fmt.Errorf("store imported workouts: %w", err)
	}

	deltas := stats.CountCompletion(workouts)
	if !deltas.IsZero() {
		if _, err := s.statsRepo.Increment(ctx, userID, deltas.Sets, deltas.Exercises); err != nil {
			return 0, stats.Deltas{}, fmt.Errorf("update stats after import: %w", err)
		}
	}
	if !last.IsZero() {
		if err := s.statsRepo.SetLastWorkoutDate(ctx, userID, last); err != nil {
			return 0, stats.Deltas{}, fmt.Errorf("set last workout date: %w", err)
		}
	}
	return len(workouts), deltas, nil
}

// stripedMutex hands out one of a fixed set of locks per key.
type stripedMutex struct {
	stripes []sync.Mutex
}

func newStripedMutex(n int) *stripedMutex {
	return &stripedMutex{stripes: make([]sync.Mutex, n)}
}

func (m *stripedMutex) lock(key string) (unlock func()) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	mu := &m.stripes[h.Sum32()%uint32(len(m.stripes))]
	mu.Lock()
	return mu.Unlock
}
