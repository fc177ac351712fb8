// Package inmemory runs insight jobs on goroutines and keeps their status in
// process memory. Nothing survives a restart.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dvloznov/financeflow/internal/jobs"
)

// DefaultRetain is how many jobs a Store keeps when none is given.
const DefaultRetain = 100

// Store is a bounded jobs.Store. Once more than retain jobs are saved the
// oldest is evicted, so a long-running server does not grow without limit.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]*jobs.InsightJob
	order  []string // insertion order, oldest first
	retain int
}

// NewStore creates a store keeping at most retain jobs (DefaultRetain if
// retain is not positive).
func NewStore(retain int) *Store {
	if retain <= 0 {
		retain = DefaultRetain
	}
	return &Store{
		byID:   make(map[string]*jobs.InsightJob),
		retain: retain,
	}
}

// Save inserts or replaces a job. The snapshot is not stored.
func (s *Store) Save(_ context.Context, job *jobs.InsightJob) error {
	if job.JobID == "" {
		return errors.New("Save: job id is required")
	}

	stored := *job
	stored.Snapshot = nil

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[job.JobID]; !ok {
		s.order = append(s.order, job.JobID)
		for len(s.order) > s.retain {
			delete(s.byID, s.order[0])
			s.order = s.order[1:]
		}
	}
	s.byID[job.JobID] = &stored
	return nil
}

// Get returns a copy of the job, or jobs.ErrNotFound.
func (s *Store) Get(_ context.Context, jobID string) (*jobs.InsightJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.byID[jobID]
	if !ok {
		return nil, fmt.Errorf("Get %s: %w", jobID, jobs.ErrNotFound)
	}
	out := *job
	return &out, nil
}

// List returns copies of the matching jobs, most recently enqueued first.
func (s *Store) List(_ context.Context, filter jobs.Filter) ([]*jobs.InsightJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*jobs.InsightJob{}
	skipped := 0
	for i := len(s.order) - 1; i >= 0; i-- {
		job := s.byID[s.order[i]]
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		c := *job
		out = append(out, &c)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

var _ jobs.Store = (*Store)(nil)
