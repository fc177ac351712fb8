package insights

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/dvloznov/financeflow/internal/jobs"
	"github.com/rs/zerolog"
)

// ErrEmptyLedger is returned by Trigger when there is nothing to analyze.
var ErrEmptyLedger = errors.New("ledger is empty")

// Status is the insight panel's request state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// State is what the panel currently shows. Insights are rendered by position.
type State struct {
	Status     Status           `json:"status"`
	Loading    bool             `json:"loading"`
	Generation uint64           `json:"generation"`
	Insights   []domain.Insight `json:"insights"`
	UpdatedAt  time.Time        `json:"updated_at,omitempty"`
}

// Snapshotter provides the ledger snapshot to analyze.
type Snapshotter interface {
	Snapshot() []domain.Transaction
}

// Analyzer runs one insight request without fallback substitution.
type Analyzer interface {
	Analyze(ctx context.Context, snapshot []domain.Transaction) ([]domain.Insight, error)
}

// Panel drives insight requests through the job queue and keeps the latest
// result. Each trigger bumps a generation counter; a completion belonging to
// an older generation is dropped, so the most recent trigger always wins.
type Panel struct {
	mu        sync.RWMutex
	ledger    Snapshotter
	analyzer  Analyzer
	publisher jobs.Publisher
	log       zerolog.Logger
	now       func() time.Time
	state     State
}

// NewPanel creates an idle panel.
func NewPanel(ledger Snapshotter, analyzer Analyzer, publisher jobs.Publisher, log zerolog.Logger) *Panel {
	return &Panel{
		ledger:    ledger,
		analyzer:  analyzer,
		publisher: publisher,
		log:       log,
		now:       time.Now,
		state:     State{Status: StatusIdle, Insights: []domain.Insight{}},
	}
}

// Trigger requests a fresh set of insights for the current ledger and
// returns the generation of the request. An empty ledger issues no request.
func (p *Panel) Trigger(ctx context.Context) (uint64, error) {
	snapshot := p.ledger.Snapshot()
	if len(snapshot) == 0 {
		return 0, ErrEmptyLedger
	}

	p.mu.Lock()
	p.state.Generation++
	gen := p.state.Generation
	p.state.Status = StatusPending
	p.state.Loading = true
	p.mu.Unlock()

	job := &jobs.InsightJob{
		Generation: gen,
		Snapshot:   snapshot,
	}
	if err := p.publisher.Enqueue(ctx, job); err != nil {
		p.complete(gen, Fallback(), StatusFailed)
		return gen, fmt.Errorf("Trigger: publish insight job: %w", err)
	}

	p.log.Info().
		Str("job_id", job.JobID).
		Uint64("generation", gen).
		Int("transactions", len(snapshot)).
		Msg("Insight request enqueued")

	return gen, nil
}

// HandleJob is the queue handler for insight jobs. A failed request still
// updates the panel, with the fallback insights.
func (p *Panel) HandleJob(ctx context.Context, ij *jobs.InsightJob) error {
	insights, err := p.analyzer.Analyze(ctx, ij.Snapshot)
	if err != nil {
		p.log.Error().
			Err(err).
			Str("job_id", ij.JobID).
			Uint64("generation", ij.Generation).
			Msg("Insight request failed, showing fallback insights")
		p.complete(ij.Generation, Fallback(), StatusFailed)
		return err
	}

	p.complete(ij.Generation, insights, StatusSucceeded)
	return nil
}

// State returns a copy of the current panel state.
func (p *Panel) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.state
	s.Insights = append([]domain.Insight{}, p.state.Insights...)
	return s
}

func (p *Panel) complete(gen uint64, insights []domain.Insight, status Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.state.Generation {
		p.log.Debug().
			Uint64("generation", gen).
			Uint64("latest", p.state.Generation).
			Msg("Discarding stale insight result")
		return
	}

	if insights == nil {
		insights = []domain.Insight{}
	}
	p.state.Status = status
	p.state.Loading = false
	p.state.Insights = insights
	p.state.UpdatedAt = p.now()
}
