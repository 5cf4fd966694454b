package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/jobs"
	"gymbros/fitness-tracker/internal/repository"
	"gymbros/fitness-tracker/internal/seed"
	"gymbros/fitness-tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setupFixture struct {
	store   repository.Store
	svc     service.SetupService
	queue   *jobs.Queue
	tracker *jobs.Tracker

	mu       sync.Mutex
	observed []jobs.Status
}

func newSetupFixture(t *testing.T, queueSize int, start bool) *setupFixture {
	t.Helper()
	f := &setupFixture{store: newTestStore(t)}
	f.tracker = jobs.NewTracker(jobs.NewMemoryStore(1<<20), time.Minute)
	f.queue = jobs.NewQueue(f.tracker, 1, queueSize, func(name string, status jobs.Status, _ time.Duration) {
		f.mu.Lock()
		defer f.mu.Unlock()
		assert.Equal(t, service.SetupTaskName, name)
		f.observed = append(f.observed, status)
	})
	if start {
		f.queue.Start(context.Background())
	}
	t.Cleanup(f.queue.Stop)

	generator := seed.NewGenerator(f.store.Workouts, f.store.Stats)
	f.svc = service.NewSetupService(f.store.Users, generator, f.tracker, f.queue)
	return f
}

func (f *setupFixture) waitForJob(t *testing.T, userID, jobID string) *jobs.Job {
	t.Helper()
	var job *jobs.Job
	require.Eventually(t, func() bool {
		var err error
		job, err = f.svc.JobStatus(context.Background(), userID, jobID)
		return err == nil && job.Status.IsFinal()
	}, 10*time.Second, 20*time.Millisecond)
	return job
}

func TestSetupService_StartSetupRunsInBackground(t *testing.T) {
	ctx := context.Background()
	f := newSetupFixture(t, 4, true)
	user := newTestUser(t, f.store)

	job, err := f.svc.StartSetup(ctx, user.ID, string(seed.ProgramStrength))
	require.NoError(t, err)
	assert.Equal(t, user.ID, job.UserID)

	done := f.waitForJob(t, user.ID, job.ID)
	assert.Equal(t, jobs.StatusCompleted, done.Status)
	assert.Equal(t, 100, done.Progress)
	require.NotNil(t, done.CompletedAt)

	stored, err := f.store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.SetupComplete)

	now := time.Now()
	workouts, err := f.store.Workouts.ListByUser(ctx, user.ID, domain.DateOnly(now).AddDate(0, 0, -30), domain.DateOnly(now).AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.NotEmpty(t, workouts)

	_, err = f.svc.StartSetup(ctx, user.ID, "")
	assert.ErrorIs(t, err, service.ErrSetupAlreadyComplete)

	// the observer fires after the tracker is updated
	assert.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.observed) == 1 && f.observed[0] == jobs.StatusCompleted
	}, time.Second, 10*time.Millisecond)
}

func TestSetupService_DeduplicatesRunningSetup(t *testing.T) {
	ctx := context.Background()
	// workers are not started, so the first job stays pending
	f := newSetupFixture(t, 4, false)
	user := newTestUser(t, f.store)

	first, err := f.svc.StartSetup(ctx, user.ID, "")
	require.NoError(t, err)
	second, err := f.svc.StartSetup(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, jobs.StatusPending, second.Status)
}

func TestSetupService_BusyQueue(t *testing.T) {
	ctx := context.Background()
	f := newSetupFixture(t, 0, false)
	user := newTestUser(t, f.store)

	_, err := f.svc.StartSetup(ctx, user.ID, "")
	assert.ErrorIs(t, err, service.ErrSetupBusy)

	f.queue.Stop()
	_, err = f.svc.StartSetup(ctx, user.ID, "")
	assert.ErrorIs(t, err, service.ErrSetupBusy)
}

func TestSetupService_Validation(t *testing.T) {
	ctx := context.Background()
	f := newSetupFixture(t, 1, false)
	user := newTestUser(t, f.store)

	_, err := f.svc.StartSetup(ctx, user.ID, "marathon")
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.svc.StartSetup(ctx, "no-such-user", "")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestSetupService_JobStatusIsPerUser(t *testing.T) {
	ctx := context.Background()
	f := newSetupFixture(t, 1, false)
	owner, other := newTestUser(t, f.store), newTestUser(t, f.store)

	job, err := f.svc.StartSetup(ctx, owner.ID, "")
	require.NoError(t, err)

	_, err = f.svc.JobStatus(ctx, other.ID, job.ID)
	assert.ErrorIs(t, err, service.ErrJobNotFound)
	_, err = f.svc.JobStatus(ctx, owner.ID, "unknown")
	assert.ErrorIs(t, err, service.ErrJobNotFound)
}

func TestSetupService_RunSetupSync(t *testing.T) {
	ctx := context.Background()
	f := newSetupFixture(t, 1, false)
	user := newTestUser(t, f.store)

	var last int
	result, err := f.svc.RunSetup(ctx, user.ID, string(seed.ProgramFoundation), func(p int) { last = p })
	require.NoError(t, err)
	assert.Positive(t, result.Workouts)
	assert.Positive(t, last)

	stats, err := f.store.Stats.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, result.SetsCompleted, stats.TotalSetsCompleted)
}
