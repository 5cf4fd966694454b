package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	ErrQueueFull   = errors.New("job queue is full")
	ErrQueueClosed = errors.New("job queue is closed")
)

// Task is one unit of background work bound to a tracked job.
type Task struct {
	JobID string
	Name  string
	Run   func(ctx context.Context, progress func(int)) error
}

// Observer receives the outcome of every finished task.
type Observer func(name string, status Status, duration time.Duration)

// Queue runs tasks on a fixed pool of workers and records their outcome on
// the tracker. Errors never reach the enqueuing caller.
type Queue struct {
	tracker  *Tracker
	tasks    chan Task
	workers  int
	observer Observer

	mu     sync.RWMutex
	closed bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewQueue(tracker *Tracker, workers, size int, observer Observer) *Queue {
	if workers < 1 {
		workers = 1
	}
	return &Queue{
		tracker:  tracker,
		tasks:    make(chan Task, size),
		workers:  workers,
		observer: observer,
	}
}

func (q *Queue) Start(ctx context.Context) {
	ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work(ctx)
	}
}

// Enqueue hands the task to a worker without blocking.
func (q *Queue) Enqueue(task Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop lets workers drain queued tasks and waits for them.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
	if q.cancel != nil {
		q.cancel()
	}
}

func (q *Queue) work(ctx context.Context) {
	defer q.wg.Done()
	for task := range q.tasks {
		q.run(ctx, task)
	}
}

func (q *Queue) run(ctx context.Context, task Task) {
	begin := time.Now()
	status := StatusCompleted
	defer func() {
		if q.observer != nil {
			q.observer(task.Name, status, time.Since(begin))
		}
	}()

	if err := q.tracker.StartJob(ctx, task.JobID); err != nil {
		log.Errorf("start job %s: %s", task.JobID, err)
	}

	progress := func(pct int) {
		if err := q.tracker.UpdateJobProgress(ctx, task.JobID, pct); err != nil {
			log.Warnf("progress job %s: %s", task.JobID, err)
		}
	}

	err := q.safeRun(ctx, task, progress)
	if err != nil {
		status = StatusFailed
		log.Errorf("job %s (%s) failed: %s", task.JobID, task.Name, err)
		if ferr := q.tracker.FailJob(ctx, task.JobID, err.Error()); ferr != nil {
			log.Errorf("fail job %s: %s", task.JobID, ferr)
		}
		return
	}
	if err := q.tracker.CompleteJob(ctx, task.JobID); err != nil {
		log.Errorf("complete job %s: %s", task.JobID, err)
	}
}

func (q *Queue) safeRun(ctx context.Context, task Task, progress func(int)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("job %s panicked: %v", task.JobID, r)
			err = errors.New("internal error")
		}
	}()
	return task.Run(ctx, progress)
}
