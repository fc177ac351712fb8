package inmemory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dvloznov/financeflow/internal/jobs"
	"github.com/google/uuid"
)

// Queue is a channel-backed jobs.Publisher and jobs.Consumer.
//
// A job whose generation is older than the newest enqueued one when a worker
// picks it up is marked superseded without running, since its result would
// be discarded anyway. Failed jobs are never re-enqueued.
type Queue struct {
	pending chan *jobs.InsightJob
	store   jobs.Store
	workers int
	now     func() time.Time

	latest atomic.Uint64

	mu      sync.RWMutex
	stopped bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

// NewQueue creates a queue holding up to size waiting jobs, run by workers
// goroutines (at least one). store may be nil.
func NewQueue(size, workers int, store jobs.Store) *Queue {
	return &Queue{
		pending: make(chan *jobs.InsightJob, size),
		store:   store,
		workers: max(workers, 1),
		now:     time.Now,
		quit:    make(chan struct{}),
	}
}

// Enqueue assigns the job an id, records it as pending and hands it to the
// workers. It blocks while the queue is full.
func (q *Queue) Enqueue(ctx context.Context, job *jobs.InsightJob) error {
	q.mu.RLock()
	stopped := q.stopped
	q.mu.RUnlock()
	if stopped {
		return jobs.ErrClosed
	}

	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	job.Status = jobs.JobStatusPending
	job.CreatedAt = q.now()
	job.TransactionCount = len(job.Snapshot)

	for {
		seen := q.latest.Load()
		if job.Generation <= seen || q.latest.CompareAndSwap(seen, job.Generation) {
			break
		}
	}

	if err := q.save(ctx, job); err != nil {
		return fmt.Errorf("Enqueue: %w", err)
	}

	select {
	case q.pending <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.quit:
		return jobs.ErrClosed
	}
}

// Start launches the workers. They run until ctx is cancelled or Stop is called.
func (q *Queue) Start(ctx context.Context, handler jobs.Handler) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.stopped {
		return jobs.ErrClosed
	}

	q.wg.Add(q.workers)
	for range q.workers {
		go func() {
			defer q.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-q.quit:
					return
				case job := <-q.pending:
					q.run(ctx, job, handler)
				}
			}
		}()
	}
	return nil
}

func (q *Queue) run(ctx context.Context, job *jobs.InsightJob, handler jobs.Handler) {
	if job.Generation < q.latest.Load() {
		q.finish(ctx, job, jobs.JobStatusSuperseded, nil)
		return
	}

	started := q.now()
	job.Status = jobs.JobStatusRunning
	job.StartedAt = &started
	_ = q.save(ctx, job)

	q.finish(ctx, job, jobs.JobStatusCompleted, safeCall(ctx, job, handler))
}

func (q *Queue) finish(ctx context.Context, job *jobs.InsightJob, status jobs.JobStatus, err error) {
	done := q.now()
	job.CompletedAt = &done
	job.Status = status
	job.Error = ""
	if err != nil {
		job.Status = jobs.JobStatusFailed
		job.Error = err.Error()
	}
	_ = q.save(ctx, job)
}

// safeCall turns a handler panic into a failed job.
func safeCall(ctx context.Context, job *jobs.InsightJob, handler jobs.Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, job)
}

func (q *Queue) save(ctx context.Context, job *jobs.InsightJob) error {
	if q.store == nil {
		return nil
	}
	return q.store.Save(ctx, job)
}

// Stop closes the queue and waits for running jobs, or for ctx to end.
// Jobs still waiting in the buffer are not run; they are recorded as failed
// with jobs.ErrClosed. Stopping twice is a no-op.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return nil
	}
	q.stopped = true
	close(q.quit)
	q.mu.Unlock()

	idle := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(idle)
	}()

	select {
	case <-idle:
		q.failWaiting(ctx)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// failWaiting marks every job left in the buffer failed.
func (q *Queue) failWaiting(ctx context.Context) {
	for {
		select {
		case job := <-q.pending:
			q.finish(ctx, job, jobs.JobStatusFailed, jobs.ErrClosed)
		default:
			return
		}
	}
}

var (
	_ jobs.Publisher = (*Queue)(nil)
	_ jobs.Consumer  = (*Queue)(nil)
)
