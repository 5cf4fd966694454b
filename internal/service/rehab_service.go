package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RehabInput carries the editable fields of a rehab exercise.
type RehabInput struct {
	Name        string
	Category    string
	Sets        *int
	Reps        *int
	PerSideSets *int
	HoldSeconds *int
	Load        string
	BandColor   string
	Time        string
	Cues        string
}

type RehabService interface {
	Enable(ctx context.Context, userID string) ([]domain.RehabExercise, error)
	List(ctx context.Context, userID string, today time.Time) ([]domain.RehabExercise, error)
	Create(ctx context.Context, userID string, in RehabInput) (*domain.RehabExercise, error)
	Update(ctx context.Context, userID, id string, in RehabInput) (*domain.RehabExercise, error)
	Delete(ctx context.Context, userID, id string) error
	SetCompleted(ctx context.Context, userID, id string, completed bool, today time.Time) (*domain.RehabExercise, error)
	Reorder(ctx context.Context, userID string, ids []string) ([]domain.RehabExercise, error)
	// Fix drops every rehab exercise of the user and recreates the default regimen.
	Fix(ctx context.Context, userID string) ([]domain.RehabExercise, error)
}

type rehabService struct {
	userRepo     repository.UserRepository
	rehabRepo    repository.RehabRepository
	activityRepo repository.ActivityRepository
}

func NewRehabService(userRepo repository.UserRepository, rehabRepo repository.RehabRepository, activityRepo repository.ActivityRepository) RehabService {
	return &rehabService{
		userRepo:     userRepo,
		rehabRepo:    rehabRepo,
		activityRepo: activityRepo,
	}
}

func intp(v int) *int { return &v }

// defaultRegimen is the starter program created when rehab is enabled.
var defaultRegimen = []RehabInput{
	{Name: "Cat-Cow", Category: "Mobility", Time: "2 min", Cues: "Move slowly with the breath"},
	{Name: "Bird Dog", Category: "Core", Sets: intp(3), Reps: intp(8), Cues: "Keep hips level, reach long"},
	{Name: "Dead Bug", Category: "Core", Sets: intp(3), Reps: intp(10), Cues: "Lower back stays on the floor"},
	{Name: "Glute Bridge", Category: "Hips", Sets: intp(3), Reps: intp(12), HoldSeconds: intp(2)},
	{Name: "Banded Clamshell", Category: "Hips", PerSideSets: intp(3), Reps: intp(15), BandColor: "green"},
	{Name: "Side Plank", Category: "Core", PerSideSets: intp(2), HoldSeconds: intp(30), Cues: "Stack shoulders over elbow"},
	{Name: "Terminal Knee Extension", Category: "Knee", PerSideSets: intp(3), Reps: intp(15), BandColor: "blue"},
	{Name: "Single-Leg Calf Raise", Category: "Ankle", PerSideSets: intp(3), Reps: intp(12), Load: "bodyweight"},
}

func newRehabExercise(userID string, in RehabInput, order int) domain.RehabExercise {
	return domain.RehabExercise{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        in.Name,
		Category:    in.Category,
		Sets:        in.Sets,
		Reps:        in.Reps,
		PerSideSets: in.PerSideSets,
		HoldSeconds: in.HoldSeconds,
		Load:        in.Load,
		BandColor:   in.BandColor,
		Time:        in.Time,
		Cues:        in.Cues,
		OrderIndex:  order,
	}
}

func validateRehab(in *RehabInput) error {
	in.Name = strings.TrimSpace(in.Name)
	v := validation{}
	v.check(in.Name != "", "name", "is required")
	v.check(len(in.Name) <= 100, "name", "must be at most 100 characters")
	for field, n := range map[string]*int{"sets": in.Sets, "reps": in.Reps, "perSideSets": in.PerSideSets, "holdSeconds": in.HoldSeconds} {
		v.check(n == nil || (*n >= 0 && *n <= 1000), field, "must be between 0 and 1000")
	}
	return v.err()
}

func (s *rehabService) requireEnabled(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if !user.RehabEnabled {
		return ErrRehabNotEnabled
	}
	return nil
}

func (s *rehabService) owned(ctx context.Context, userID, id string) (*domain.RehabExercise, error) {
	exercise, err := s.rehabRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRehabNotFound)
	}
	if exercise.UserID != userID {
		return nil, ErrRehabNotFound
	}
	return exercise, nil
}

func (s *rehabService) seedDefaults(ctx context.Context, userID string) ([]domain.RehabExercise, error) {
	exercises := make([]domain.RehabExercise, 0, len(defaultRegimen))
	for i, in := range defaultRegimen {
		exercises = append(exercises, newRehabExercise(userID, in, i))
	}
	if err := s.rehabRepo.CreateMany(ctx, exercises); err != nil {
		return nil, fmt.Errorf("create default regimen: %w", err)
	}
	return exercises, nil
}

// Enable turns rehab on and creates the default regimen for users without one.
func (s *rehabService) Enable(ctx context.Context, userID string) ([]domain.RehabExercise, error) {
	if err := s.userRepo.SetRehabEnabled(ctx, userID, true); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	existing, err := s.rehabRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}
	return s.seedDefaults(ctx, userID)
}

// List returns the regimen in order. Completions from earlier days are
// cleared first so every day starts unchecked.
func (s *rehabService) List(ctx context.Context, userID string, today time.Time) ([]domain.RehabExercise, error) {
	if err := s.requireEnabled(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.rehabRepo.ResetCompletedBefore(ctx, userID, domain.DateOnly(today)); err != nil {
		return nil, fmt.Errorf("reset stale completions: %w", err)
	}
	return s.rehabRepo.ListByUser(ctx, userID)
}

func (s *rehabService) Create(ctx context.Context, userID string, in RehabInput) (*domain.RehabExercise, error) {
	if err := s.requireEnabled(ctx, userID); err != nil {
		return nil, err
	}
	if err := validateRehab(&in); err != nil {
		return nil, err
	}
	existing, err := s.rehabRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	order := 0
	for _, e := range existing {
		order = max(order, e.OrderIndex+1)
	}
	exercise := newRehabExercise(userID, in, order)
	if err := s.rehabRepo.Create(ctx, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (s *rehabService) Update(ctx context.Context, userID, id string, in RehabInput) (*domain.RehabExercise, error) {
	if err := s.requireEnabled(ctx, userID); err != nil {
		return nil, err
	}
	if err := validateRehab(&in); err != nil {
		return nil, err
	}
	exercise, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	updated := newRehabExercise(userID, in, exercise.OrderIndex)
	updated.ID = exercise.ID
	updated.Completed = exercise.Completed
	updated.CompletedDate = exercise.CompletedDate
	updated.CreatedAt = exercise.CreatedAt
	if err := s.rehabRepo.Update(ctx, &updated); err != nil {
		return nil, notFound(err, ErrRehabNotFound)
	}
	return &updated, nil
}

func (s *rehabService) Delete(ctx context.Context, userID, id string) error {
	if err := s.requireEnabled(ctx, userID); err != nil {
		return err
	}
	return notFound(s.rehabRepo.Delete(ctx, userID, id), ErrRehabNotFound)
}

// SetCompleted checks or unchecks an exercise for today. Completing the last
// open exercise of the day publishes a rehab_completed activity.
func (s *rehabService) SetCompleted(ctx context.Context, userID, id string, completed bool, today time.Time) (*domain.RehabExercise, error) {
	if err := s.requireEnabled(ctx, userID); err != nil {
		return nil, err
	}
	exercise, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	day := domain.DateOnly(today)
	wasDone := exercise.CompletedOn(day)

	var date *time.Time
	if completed {
		date = &day
	}
	if err := s.rehabRepo.SetCompleted(ctx, id, completed, date); err != nil {
		return nil, notFound(err, ErrRehabNotFound)
	}
	exercise.Completed = completed
	exercise.CompletedDate = date

	if completed && !wasDone {
		s.publishIfRegimenDone(ctx, userID, day, today)
	}
	return exercise, nil
}

func (s *rehabService) publishIfRegimenDone(ctx context.Context, userID string, day, now time.Time) {
	regimen, err := s.rehabRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Errorf("list rehab of %s: %s", userID, err)
		return
	}
	names := make([]string, 0, len(regimen))
	for i := range regimen {
		if !regimen[i].CompletedOn(day) {
			return
		}
		names = append(names, regimen[i].Name)
	}
	if len(regimen) == 0 {
		return
	}
	err = s.activityRepo.Create(ctx, &domain.FriendActivity{
		ID:     uuid.NewString(),
		UserID: userID,
		Type:   domain.ActivityRehabCompleted,
		Payload: map[string]interface{}{
			domain.PayloadExerciseCount: len(regimen),
			domain.PayloadExerciseNames: names,
			domain.PayloadTimestamp:     now.UTC().Format(time.RFC3339),
		},
		CreatedAt: now.UTC(),
	})
	if err != nil {
		log.Errorf("record rehab activity for %s: %s", userID, err)
	}
}

// Reorder assigns orderIndex by position in ids, which must name every
// exercise of the user exactly once.
func (s *rehabService) Reorder(ctx context.Context, userID string, ids []string) ([]domain.RehabExercise, error) {
	if err := s.requireEnabled(ctx, userID); err != nil {
		return nil, err
	}
	existing, err := s.rehabRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, e := range existing {
		known[e.ID] = true
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !known[id] || seen[id] {
			return nil, invalid("ids", "must list each rehab exercise exactly once")
		}
		seen[id] = true
	}
	if len(seen) != len(known) {
		return nil, invalid("ids", "must list each rehab exercise exactly once")
	}

	if err := s.rehabRepo.SetOrder(ctx, userID, ids); err != nil {
		return nil, err
	}
	return s.rehabRepo.ListByUser(ctx, userID)
}

func (s *rehabService) Fix(ctx context.Context, userID string) ([]domain.RehabExercise, error) {
	if err := s.requireEnabled(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.rehabRepo.DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear rehab exercises: %w", err)
	}
	return s.seedDefaults(ctx, userID)
}
