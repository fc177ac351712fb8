package export

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/financeflow/internal/domain"
	bq "github.com/dvloznov/financeflow/internal/infra/bigquery"
)

// BigQueryExporter streams the snapshot into a BigQuery table, creating the
// table on first use.
type BigQueryExporter struct {
	repo bq.TransactionRepository
	now  func() time.Time
}

// NewBigQueryExporter creates a BigQueryExporter.
func NewBigQueryExporter(repo bq.TransactionRepository, now func() time.Time) *BigQueryExporter {
	return &BigQueryExporter{repo: repo, now: now}
}

// Name implements Exporter.
func (e *BigQueryExporter) Name() string { return "bigquery" }

// Export implements Exporter.
func (e *BigQueryExporter) Export(ctx context.Context, snapshot []domain.Transaction) error {
	if len(snapshot) == 0 {
		return nil
	}

	if err := e.repo.EnsureTable(ctx); err != nil {
		return fmt.Errorf("BigQueryExporter: %w", err)
	}

	exportedAt := e.now()
	rows := make([]*bq.TransactionRow, 0, len(snapshot))
	for _, tx := range snapshot {
		rows = append(rows, bq.NewTransactionRow(tx, exportedAt))
	}

	if err := e.repo.InsertTransactions(ctx, rows); err != nil {
		return fmt.Errorf("BigQueryExporter: %w", err)
	}
	return nil
}
