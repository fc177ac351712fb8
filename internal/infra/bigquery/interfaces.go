package bigquery

import "context"

// RowInserter is the streaming insert call of *bigquery.Inserter.
type RowInserter interface {
	Put(ctx context.Context, src interface{}) error
}

// TransactionRepository writes ledger rows to BigQuery.
type TransactionRepository interface {
	// EnsureTable creates the destination table if needed.
	EnsureTable(ctx context.Context) error

	// InsertTransactions streams rows into the destination table.
	InsertTransactions(ctx context.Context, rows []*TransactionRow) error

	// Close releases the client.
	Close() error
}

var _ TransactionRepository = (*BigQueryTransactionRepository)(nil)
