// Package notionsync mirrors ledger snapshots into a Notion database.
package notionsync

import (
	"context"
	"fmt"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/dvloznov/financeflow/internal/logger"
	"github.com/jomei/notionapi"
)

// pageSize is the Notion query page size (the API maximum).
const pageSize = 100

// SyncResult counts what a sync did.
type SyncResult struct {
	Created int
	Updated int
	Failed  int
}

// SyncTransactions writes every transaction of the snapshot to the Notion
// database. Pages are matched by their Transaction ID property: a known id is
// updated in place, an unknown one gets a new page. Pages for transactions no
// longer in the snapshot are left alone.
//
// A failed page write is logged and counted; the sync carries on and reports
// an error at the end.
func SyncTransactions(ctx context.Context, notionClient NotionService, notionDBID string, snapshot []domain.Transaction, dryRun bool) (*SyncResult, error) {
	log := logger.FromContext(ctx)

	log.Info().
		Int("transaction_count", len(snapshot)).
		Bool("dry_run", dryRun).
		Msg("Starting transaction sync to Notion")

	pages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return nil, fmt.Errorf("SyncTransactions: %w", err)
	}

	existing := make(map[string]string, len(pages))
	for _, page := range pages {
		if txID := extractTransactionID(page); txID != "" {
			existing[txID] = string(page.ID)
		}
	}

	result := &SyncResult{}
	for _, tx := range snapshot {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("SyncTransactions: %w", err)
		}

		props := TransactionToNotionProperties(tx)
		pageID, found := existing[tx.ID]

		if dryRun {
			log.Info().
				Str("transaction_id", tx.ID).
				Bool("update", found).
				Msg("[DRY RUN] Would write Notion page")
			if found {
				result.Updated++
			} else {
				result.Created++
			}
			continue
		}

		if found {
			if _, err := notionClient.UpdatePage(ctx, pageID, props); err != nil {
				log.Warn().Err(err).Str("transaction_id", tx.ID).Str("page_id", pageID).Msg("Failed to update Notion page")
				result.Failed++
				continue
			}
			result.Updated++
			continue
		}

		page, err := notionClient.CreatePage(ctx, notionDBID, props)
		if err != nil {
			log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("Failed to create Notion page")
			result.Failed++
			continue
		}
		existing[tx.ID] = string(page.ID)
		result.Created++
	}

	log.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("failed", result.Failed).
		Msg("Transaction sync completed")

	if result.Failed > 0 {
		return result, fmt.Errorf("SyncTransactions: %d of %d pages failed", result.Failed, len(snapshot))
	}
	return result, nil
}

// queryAllNotionPages queries all pages from a Notion database and returns them.
// Handles pagination automatically.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: pageSize,
		}

		// Only set StartCursor if we have a cursor value
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
