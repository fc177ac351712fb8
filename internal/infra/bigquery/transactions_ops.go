package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// maxRowsPerPut keeps each streaming insert well below the request size limit.
const maxRowsPerPut = 500

// InsertTransactionsWithInserter inserts rows in batches using the provided inserter.
func InsertTransactionsWithInserter(ctx context.Context, inserter RowInserter, rows []*TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}

	for i := 0; i < len(rows); i += maxRowsPerPut {
		end := i + maxRowsPerPut
		if end > len(rows) {
			end = len(rows)
		}
		if err := inserter.Put(ctx, rows[i:end]); err != nil {
			return fmt.Errorf("InsertTransactions: inserting rows %d-%d: %w", i, end-1, err)
		}
	}

	return nil
}

// BigQueryTransactionRepository writes ledger rows to one table. It holds a
// shared BigQuery client.
type BigQueryTransactionRepository struct {
	client *bigquery.Client
	table  *bigquery.Table
}

// NewBigQueryTransactionRepository creates a client for projectID and targets
// datasetID.tableID. With an empty credentialsFile Application Default
// Credentials are used.
func NewBigQueryTransactionRepository(ctx context.Context, projectID, datasetID, tableID, credentialsFile string) (*BigQueryTransactionRepository, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryTransactionRepository: creating client: %w", err)
	}

	return &BigQueryTransactionRepository{
		client: client,
		// Use fully qualified table name to avoid project ID issues
		table: client.DatasetInProject(projectID, datasetID).Table(tableID),
	}, nil
}

// Close closes the BigQuery client connection.
func (r *BigQueryTransactionRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// EnsureTable creates the export table when it does not exist yet.
func (r *BigQueryTransactionRepository) EnsureTable(ctx context.Context) error {
	_, err := r.table.Metadata(ctx)
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusNotFound {
		return fmt.Errorf("EnsureTable: table metadata: %w", err)
	}

	schema, err := TransactionSchema()
	if err != nil {
		return fmt.Errorf("EnsureTable: infer schema: %w", err)
	}

	meta := &bigquery.TableMetadata{
		Schema: schema,
		TimePartitioning: &bigquery.TimePartitioning{
			Field: "transaction_date",
		},
	}
	if err := r.table.Create(ctx, meta); err != nil {
		return fmt.Errorf("EnsureTable: create table: %w", err)
	}

	return nil
}

// InsertTransactions streams rows into the export table.
func (r *BigQueryTransactionRepository) InsertTransactions(ctx context.Context, rows []*TransactionRow) error {
	return InsertTransactionsWithInserter(ctx, r.table.Inserter(), rows)
}
