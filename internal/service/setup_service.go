package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gymbros/fitness-tracker/internal/jobs"
	"gymbros/fitness-tracker/internal/repository"
	"gymbros/fitness-tracker/internal/seed"

	log "github.com/sirupsen/logrus"
)

// SetupTaskName labels setup jobs on the queue.
const SetupTaskName = "setup"

type SetupService interface {
	// StartSetup queues demo data generation and returns the job to poll.
	// A second call while a setup is running returns the running job.
	StartSetup(ctx context.Context, userID, program string) (*jobs.Job, error)
	JobStatus(ctx context.Context, userID, jobID string) (*jobs.Job, error)
	// RunSetup generates the data synchronously.
	RunSetup(ctx context.Context, userID, program string, progress func(int)) (*seed.Result, error)
}

type setupService struct {
	userRepo  repository.UserRepository
	generator *seed.Generator
	tracker   *jobs.Tracker
	queue     *jobs.Queue

	mu       sync.Mutex
	inflight map[string]string // userID -> jobID
}

func NewSetupService(userRepo repository.UserRepository, generator *seed.Generator, tracker *jobs.Tracker, queue *jobs.Queue) SetupService {
	return &setupService{
		userRepo:  userRepo,
		generator: generator,
		tracker:   tracker,
		queue:     queue,
		inflight:  make(map[string]string),
	}
}

func (s *setupService) StartSetup(ctx context.Context, userID, program string) (*jobs.Job, error) {
	if program != "" && !seed.ProgramName(program).IsValid() {
		return nil, invalid("program", "must be strength or foundation")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if user.SetupComplete {
		return nil, ErrSetupAlreadyComplete
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if jobID, ok := s.inflight[userID]; ok {
		if job, err := s.tracker.Get(ctx, jobID); err == nil && !job.Status.IsFinal() {
			return job, nil
		}
		delete(s.inflight, userID)
	}

	jobID, err := s.tracker.CreateJob(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("create setup job: %w", err)
	}
	err = s.queue.Enqueue(jobs.Task{
		JobID: jobID,
		Name:  SetupTaskName,
		Run: func(ctx context.Context, progress func(int)) error {
			defer s.finished(userID, jobID)
			_, err := s.RunSetup(ctx, userID, program, progress)
			return err
		},
	})
	if err != nil {
		if ferr := s.tracker.FailJob(ctx, jobID, err.Error()); ferr != nil {
			log.Errorf("fail setup job %s: %s", jobID, ferr)
		}
		if errors.Is(err, jobs.ErrQueueFull) || errors.Is(err, jobs.ErrQueueClosed) {
			return nil, ErrSetupBusy
		}
		return nil, err
	}
	s.inflight[userID] = jobID
	return s.tracker.Get(ctx, jobID)
}

func (s *setupService) finished(userID, jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[userID] == jobID {
		delete(s.inflight, userID)
	}
}

func (s *setupService) RunSetup(ctx context.Context, userID, program string, progress func(int)) (*seed.Result, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	selected := seed.SelectProgram(program, *user)
	log.Debugf("seeding %s program for user %s", selected.Name, userID)

	result, err := s.generator.Generate(ctx, userID, selected, progress)
	if err != nil {
		return nil, fmt.Errorf("seed workouts: %w", err)
	}
	if err := s.userRepo.SetSetupComplete(ctx, userID); err != nil {
		return nil, fmt.Errorf("mark setup complete: %w", err)
	}
	return result, nil
}

func (s *setupService) JobStatus(ctx context.Context, userID, jobID string) (*jobs.Job, error) {
	job, err := s.tracker.Get(ctx, jobID)
	if errors.Is(err, jobs.ErrNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, ErrJobNotFound
	}
	return job, nil
}
