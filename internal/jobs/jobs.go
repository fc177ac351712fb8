// Package jobs describes insight requests as queued jobs and the contracts of
// the queue and status store that run them.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/financeflow/internal/domain"
)

// ErrNotFound is returned by a Store for an unknown job id.
var ErrNotFound = errors.New("job not found")

// ErrClosed is returned when publishing to or starting a stopped queue.
var ErrClosed = errors.New("queue is closed")

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed is final. Failed jobs are not retried; the next
	// trigger issues a new job.
	JobStatusFailed JobStatus = "failed"
	// JobStatusSuperseded marks a job skipped because a newer generation was
	// enqueued before a worker picked it up.
	JobStatusSuperseded JobStatus = "superseded"
)

// Done reports whether the status is final.
func (s JobStatus) Done() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusSuperseded:
		return true
	}
	return false
}

// InsightJob is one insight request issued by the insight panel.
type InsightJob struct {
	JobID      string `json:"job_id"`
	Generation uint64 `json:"generation"`

	// Snapshot is the ledger as it was when the request was triggered. It is
	// not kept by the status store.
	Snapshot         []domain.Transaction `json:"-"`
	TransactionCount int                  `json:"transaction_count"`

	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Handler runs a job. A returned error marks the job failed.
type Handler func(ctx context.Context, job *InsightJob) error

// Publisher enqueues insight jobs.
type Publisher interface {
	Enqueue(ctx context.Context, job *InsightJob) error
}

// Consumer runs enqueued jobs until stopped.
type Consumer interface {
	Start(ctx context.Context, handler Handler) error
	Stop(ctx context.Context) error
}

// Store keeps job status for listing.
type Store interface {
	Save(ctx context.Context, job *InsightJob) error
	Get(ctx context.Context, jobID string) (*InsightJob, error)
	// List returns jobs newest first.
	List(ctx context.Context, filter Filter) ([]*InsightJob, error)
}

// Filter narrows a job listing. Zero values mean no restriction.
type Filter struct {
	Status JobStatus
	Limit  int
	Offset int
}
