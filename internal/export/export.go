// Package export writes one-way copies of a ledger snapshot to external sinks.
// Nothing exported is ever read back into the ledger.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dvloznov/financeflow/internal/config"
	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/dvloznov/financeflow/internal/gcsuploader"
	bq "github.com/dvloznov/financeflow/internal/infra/bigquery"
	"github.com/dvloznov/financeflow/internal/notionsync"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Exporter writes a snapshot to one sink.
type Exporter interface {
	Name() string
	Export(ctx context.Context, snapshot []domain.Transaction) error
}

// Result is the outcome of one sink in a fan-out.
type Result struct {
	Sink  string `json:"sink"`
	Error string `json:"error,omitempty"`
}

// Fanout runs every exporter concurrently on the same snapshot. It waits for
// all of them, returns one Result per exporter in input order, and the first
// error encountered.
func Fanout(ctx context.Context, snapshot []domain.Transaction, exporters ...Exporter) ([]Result, error) {
	results := make([]Result, len(exporters))
	g, gctx := errgroup.WithContext(ctx)

	for i, exp := range exporters {
		results[i].Sink = exp.Name()
		g.Go(func() error {
			if err := exp.Export(gctx, snapshot); err != nil {
				results[i].Error = err.Error()
				return fmt.Errorf("export to %s: %w", exp.Name(), err)
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// Set is the exporters built from configuration plus the clients to close.
type Set struct {
	Exporters []Exporter
	closers   []io.Closer
}

// Close releases every client opened by FromConfig.
func (s *Set) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// FromConfig builds an exporter for every sink whose destination is set.
// An empty configuration yields an empty set.
func FromConfig(ctx context.Context, cfg config.ExportConfig, log zerolog.Logger) (*Set, error) {
	set := &Set{}
	clock := time.Now

	if cfg.CSVPath != "" {
		set.Exporters = append(set.Exporters, NewCSVFileExporter(cfg.CSVPath))
	}

	if cfg.GCSBucket != "" {
		storage, err := gcsuploader.NewGCSStorageService(ctx, cfg.CredentialsFile)
		if err != nil {
			_ = set.Close()
			return nil, fmt.Errorf("FromConfig: %w", err)
		}
		set.closers = append(set.closers, storage)
		set.Exporters = append(set.Exporters, NewGCSExporter(storage, cfg.GCSBucket, cfg.GCSPrefix, clock))
	}

	if cfg.BigQueryEnabled() {
		repo, err := bq.NewBigQueryTransactionRepository(ctx, cfg.BigQueryProject, cfg.BigQueryDataset, cfg.BigQueryTable, cfg.CredentialsFile)
		if err != nil {
			_ = set.Close()
			return nil, fmt.Errorf("FromConfig: %w", err)
		}
		set.closers = append(set.closers, repo)
		set.Exporters = append(set.Exporters, NewBigQueryExporter(repo, clock))
	}

	if cfg.NotionEnabled() {
		set.Exporters = append(set.Exporters, NewNotionExporter(notionsync.NewNotionClient(cfg.NotionToken), cfg.NotionDatabaseID, cfg.NotionDryRun))
	}

	names := make([]string, 0, len(set.Exporters))
	for _, e := range set.Exporters {
		names = append(names, e.Name())
	}
	log.Info().Strs("sinks", names).Msg("Export sinks configured")

	return set, nil
}
