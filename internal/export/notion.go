package export

import (
	"context"
	"fmt"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/dvloznov/financeflow/internal/notionsync"
)

// NotionExporter mirrors the snapshot into a Notion database, one page per
// transaction. In dry-run mode it only queries the database and logs the
// writes it would make.
type NotionExporter struct {
	client     notionsync.NotionService
	databaseID string
	dryRun     bool
}

// NewNotionExporter creates a NotionExporter.
func NewNotionExporter(client notionsync.NotionService, databaseID string, dryRun bool) *NotionExporter {
	return &NotionExporter{client: client, databaseID: databaseID, dryRun: dryRun}
}

// Name implements Exporter.
func (e *NotionExporter) Name() string { return "notion" }

// Export implements Exporter.
func (e *NotionExporter) Export(ctx context.Context, snapshot []domain.Transaction) error {
	if _, err := notionsync.SyncTransactions(ctx, e.client, e.databaseID, snapshot, e.dryRun); err != nil {
		return fmt.Errorf("NotionExporter: %w", err)
	}
	return nil
}
