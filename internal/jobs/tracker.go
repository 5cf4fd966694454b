// Package jobs tracks background work so clients can poll for progress.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsFinal reports whether no further transitions happen.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusFailed
}

const (
	// MaxRunningProgress caps progress until the job completes.
	MaxRunningProgress = 95

	DefaultFinishedTTL = 10 * time.Minute
	// in-flight jobs expire too, in case the process dies mid-run
	inFlightTTL = time.Hour
)

type Job struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Status      Status     `json:"status"`
	Progress    int        `json:"progress"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Tracker records job state in a Store.
type Tracker struct {
	store       Store
	finishedTTL time.Duration
	now         func() time.Time
}

func NewTracker(store Store, finishedTTL time.Duration) *Tracker {
	if finishedTTL <= 0 {
		finishedTTL = DefaultFinishedTTL
	}
	return &Tracker{
		store:       store,
		finishedTTL: finishedTTL,
		now:         time.Now,
	}
}

func jobKey(id string) string {
	return "job:" + id
}

func (t *Tracker) save(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", job.ID, err)
	}
	ttl := inFlightTTL
	if job.Status.IsFinal() {
		ttl = t.finishedTTL
	}
	return t.store.Put(ctx, jobKey(job.ID), data, ttl)
}

func (t *Tracker) Get(ctx context.Context, id string) (*Job, error) {
	data, err := t.store.Get(ctx, jobKey(id))
	if err != nil {
		return nil, err
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job %s: %w", id, err)
	}
	return &job, nil
}

func (t *Tracker) update(ctx context.Context, id string, fn func(*Job)) error {
	job, err := t.Get(ctx, id)
	if err != nil {
		return err
	}
	fn(job)
	return t.save(ctx, job)
}

// CreateJob registers a pending job for userID and returns its id.
func (t *Tracker) CreateJob(ctx context.Context, userID string) (string, error) {
	job := &Job{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    StatusPending,
		CreatedAt: t.now().UTC(),
	}
	if err := t.save(ctx, job); err != nil {
		return "", err
	}
	return job.ID, nil
}

func (t *Tracker) StartJob(ctx context.Context, id string) error {
	return t.update(ctx, id, func(j *Job) {
		j.Status = StatusRunning
	})
}

// UpdateJobProgress stores pct clamped to [0, MaxRunningProgress].
func (t *Tracker) UpdateJobProgress(ctx context.Context, id string, pct int) error {
	return t.update(ctx, id, func(j *Job) {
		j.Progress = min(max(pct, 0), MaxRunningProgress)
	})
}

func (t *Tracker) CompleteJob(ctx context.Context, id string) error {
	return t.update(ctx, id, func(j *Job) {
		now := t.now().UTC()
		j.Status = StatusCompleted
		j.Progress = 100
		j.CompletedAt = &now
	})
}

func (t *Tracker) FailJob(ctx context.Context, id string, message string) error {
	return t.update(ctx, id, func(j *Job) {
		now := t.now().UTC()
		j.Status = StatusFailed
		j.Error = message
		j.CompletedAt = &now
	})
}
