package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// CSVRow is the CSV layout of one transaction. Amounts keep two decimals.
type CSVRow struct {
	ID          string `csv:"id"`
	Date        string `csv:"date"`
	Type        string `csv:"type"`
	Category    string `csv:"category"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
}

// NewCSVRow maps a transaction to its CSV row. The date is RFC 3339 in UTC.
func NewCSVRow(tx domain.Transaction) CSVRow {
	return CSVRow{
		ID:          tx.ID,
		Date:        tx.Date.UTC().Format(time.RFC3339),
		Type:        string(tx.Type),
		Category:    string(tx.Category),
		Description: tx.Description,
		Amount:      decimal.NewFromFloat(tx.Amount).StringFixed(2),
	}
}

// WriteCSV writes the snapshot, header first, in ledger order.
func WriteCSV(w io.Writer, snapshot []domain.Transaction) error {
	rows := make([]*CSVRow, 0, len(snapshot))
	for _, tx := range snapshot {
		row := NewCSVRow(tx)
		rows = append(rows, &row)
	}

	if len(rows) == 0 {
		_, err := io.WriteString(w, "id,date,type,category,description,amount\n")
		return err
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("WriteCSV: marshal rows: %w", err)
	}
	return nil
}

// CSVExporter writes the snapshot as CSV to a writer obtained per export.
type CSVExporter struct {
	open func() (io.WriteCloser, error)
	name string
}

// NewCSVExporter writes every export to w. w is not closed.
func NewCSVExporter(w io.Writer) *CSVExporter {
	return &CSVExporter{
		name: "csv",
		open: func() (io.WriteCloser, error) { return nopCloser{w}, nil },
	}
}

// NewCSVFileExporter replaces the file at path on every export.
func NewCSVFileExporter(path string) *CSVExporter {
	return &CSVExporter{
		name: "csv",
		open: func() (io.WriteCloser, error) { return os.Create(path) },
	}
}

// Name implements Exporter.
func (e *CSVExporter) Name() string { return e.name }

// Export implements Exporter.
func (e *CSVExporter) Export(ctx context.Context, snapshot []domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, snapshot); err != nil {
		return err
	}

	w, err := e.open()
	if err != nil {
		return fmt.Errorf("CSVExporter: open output: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		_ = w.Close()
		return fmt.Errorf("CSVExporter: write: %w", err)
	}
	return w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
