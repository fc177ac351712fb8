// Package handlers implements the FinanceFlow HTTP endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dvloznov/financeflow/internal/aggregate"
	"github.com/dvloznov/financeflow/internal/api/middleware"
	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/dvloznov/financeflow/internal/export"
	"github.com/dvloznov/financeflow/internal/form"
	"github.com/dvloznov/financeflow/internal/format"
	"github.com/dvloznov/financeflow/internal/insights"
	"github.com/dvloznov/financeflow/internal/jobs"
	"github.com/dvloznov/financeflow/internal/logger"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Ledger is the transaction store behind the API.
type Ledger interface {
	Add(entry domain.Entry) domain.Transaction
	Remove(id string)
	Snapshot() []domain.Transaction
}

// InsightPanel is the insight request state machine behind the API.
type InsightPanel interface {
	Trigger(ctx context.Context) (uint64, error)
	State() insights.State
}

// TransactionView is a transaction plus its display strings.
type TransactionView struct {
	domain.Transaction
	DisplayAmount string `json:"display_amount"`
	DisplayDate   string `json:"display_date"`
}

func newTransactionView(tx domain.Transaction) TransactionView {
	return TransactionView{
		Transaction:   tx,
		DisplayAmount: format.SignedBRL(tx),
		DisplayDate:   format.Date(tx.Date),
	}
}

// TransactionsHandler handles ledger endpoints.
type TransactionsHandler struct {
	ledger Ledger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(ledger Ledger) *TransactionsHandler {
	return &TransactionsHandler{ledger: ledger}
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	snapshot := h.ledger.Snapshot()

	views := make([]TransactionView, 0, len(snapshot))
	for _, tx := range snapshot {
		views = append(views, newTransactionView(tx))
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": views,
		"count":        len(views),
	})
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req form.EntryForm
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := req.Parse()
	if err != nil {
		var ve *form.ValidationError
		if errors.As(err, &ve) {
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  "Invalid transaction",
				"fields": ve.Fields,
			})
			return
		}
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Failed to parse entry form")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to add transaction")
		return
	}

	tx := h.ledger.Add(entry)

	log := logger.FromContext(r.Context())
	log.Info().
		Str("transaction_id", tx.ID).
		Str("type", string(tx.Type)).
		Str("category", string(tx.Category)).
		Msg("Transaction added")

	middleware.WriteJSON(w, http.StatusCreated, newTransactionView(tx))
}

// DeleteTransaction handles DELETE /api/transactions/{id}. Deleting an
// unknown id succeeds without effect.
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	h.ledger.Remove(id)
	log := logger.FromContext(r.Context())
	log.Info().Str("transaction_id", id).Msg("Transaction removed")
	w.WriteHeader(http.StatusNoContent)
}

// Palette colours the category breakdown; slice i gets Palette[i%len(Palette)].
var Palette = []string{"#6366f1", "#10b981", "#f43f5e", "#f59e0b", "#8b5cf6", "#06b6d4", "#ec4899"}

// BreakdownSlice is one category of the expense breakdown.
type BreakdownSlice struct {
	aggregate.CategorySlice
	Color        string `json:"color"`
	DisplayTotal string `json:"display_total"`
}

// Dashboard is the summary view of the ledger.
type Dashboard struct {
	Totals           aggregate.Totals  `json:"totals"`
	Display          map[string]string `json:"display"`
	Breakdown        []BreakdownSlice  `json:"breakdown"`
	TransactionCount int               `json:"transaction_count"`
}

// BuildDashboard derives the dashboard from a snapshot.
func BuildDashboard(snapshot []domain.Transaction) Dashboard {
	totals := aggregate.ComputeTotals(snapshot)
	slices := aggregate.Breakdown(aggregate.ByCategory(snapshot))

	breakdown := make([]BreakdownSlice, 0, len(slices))
	for i, s := range slices {
		breakdown = append(breakdown, BreakdownSlice{
			CategorySlice: s,
			Color:         Palette[i%len(Palette)],
			DisplayTotal:  format.BRL(s.Total),
		})
	}

	return Dashboard{
		Totals: totals,
		Display: map[string]string{
			"income":  format.BRL(totals.Income),
			"expense": format.BRL(totals.Expense),
			"balance": format.BRL(totals.Balance),
		},
		Breakdown:        breakdown,
		TransactionCount: len(snapshot),
	}
}

// DashboardHandler serves the ledger summary.
type DashboardHandler struct {
	ledger Ledger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(ledger Ledger) *DashboardHandler {
	return &DashboardHandler{ledger: ledger}
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, BuildDashboard(h.ledger.Snapshot()))
}

// InsightsHandler exposes the insight panel.
type InsightsHandler struct {
	panel InsightPanel
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(panel InsightPanel) *InsightsHandler {
	return &InsightsHandler{panel: panel}
}

// GetInsights handles GET /api/insights
func (h *InsightsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.panel.State())
}

// TriggerInsights handles POST /api/insights. An empty ledger is answered
// with the unchanged panel state and no request is made.
func (h *InsightsHandler) TriggerInsights(w http.ResponseWriter, r *http.Request) {
	gen, err := h.panel.Trigger(r.Context())
	switch {
	case errors.Is(err, insights.ErrEmptyLedger):
		middleware.WriteJSON(w, http.StatusOK, h.panel.State())
		return
	case err != nil:
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Failed to enqueue insight request")
		middleware.WriteError(w, http.StatusServiceUnavailable, "Failed to request insights")
		return
	}

	middleware.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"generation": gen,
		"status":     insights.StatusPending,
	})
}

// ExportHandler runs the configured export sinks on the current ledger.
type ExportHandler struct {
	ledger    Ledger
	exporters []export.Exporter
}

// NewExportHandler creates a new export handler.
func NewExportHandler(ledger Ledger, exporters []export.Exporter) *ExportHandler {
	return &ExportHandler{ledger: ledger, exporters: exporters}
}

// Export handles POST /api/export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if len(h.exporters) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "No export sinks configured")
		return
	}

	snapshot := h.ledger.Snapshot()
	results, err := export.Fanout(r.Context(), snapshot, h.exporters...)
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Export failed")
		middleware.WriteJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":   "Export failed",
			"results": results,
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results":      results,
		"transactions": len(snapshot),
	})
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.Store
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.Store, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.Get(ctx, jobID)
	if errors.Is(err, jobs.ErrNotFound) {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	filter := jobs.Filter{
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.List(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
