package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionRow is one ledger transaction in the export table.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED
	BookingTS       time.Time  `bigquery:"booking_ts"`       // REQUIRED

	Amount    *big.Rat `bigquery:"amount"`    // REQUIRED NUMERIC, non-negative magnitude
	Direction string   `bigquery:"direction"` // REQUIRED, INCOME or EXPENSE

	CategoryName   bigquery.NullString `bigquery:"category_name"`   // NULLABLE
	RawDescription string              `bigquery:"raw_description"` // REQUIRED STRING

	ExportedTS time.Time `bigquery:"exported_ts"` // REQUIRED
}

// NewTransactionRow maps a ledger transaction to an export row. Amounts are
// rounded to cents before conversion to NUMERIC.
func NewTransactionRow(tx domain.Transaction, exportedAt time.Time) *TransactionRow {
	return &TransactionRow{
		TransactionID:   tx.ID,
		TransactionDate: civil.DateOf(tx.Date),
		BookingTS:       tx.Date.UTC(),
		Amount:          decimal.NewFromFloat(tx.Amount).Round(2).Rat(),
		Direction:       string(tx.Type),
		CategoryName: bigquery.NullString{
			StringVal: string(tx.Category),
			Valid:     tx.Category != "",
		},
		RawDescription: tx.Description,
		ExportedTS:     exportedAt.UTC(),
	}
}

// TransactionSchema is the table schema inferred from TransactionRow.
func TransactionSchema() (bigquery.Schema, error) {
	return bigquery.InferSchema(TransactionRow{})
}
