package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/dvloznov/financeflow/internal/gcsuploader"
	"github.com/dvloznov/financeflow/internal/logger"
)

// objectTimeLayout names export objects, e.g. 20260201T120000Z.
const objectTimeLayout = "20060102T150405Z"

// GCSExporter uploads the snapshot as JSON and CSV objects named after the
// export time.
type GCSExporter struct {
	storage gcsuploader.StorageService
	bucket  string
	prefix  string
	now     func() time.Time
}

// NewGCSExporter creates a GCSExporter.
func NewGCSExporter(storage gcsuploader.StorageService, bucket, prefix string, now func() time.Time) *GCSExporter {
	return &GCSExporter{storage: storage, bucket: bucket, prefix: prefix, now: now}
}

// Name implements Exporter.
func (e *GCSExporter) Name() string { return "gcs" }

// Export implements Exporter.
func (e *GCSExporter) Export(ctx context.Context, snapshot []domain.Transaction) error {
	base := e.now().UTC().Format(objectTimeLayout)

	payload := snapshot
	if payload == nil {
		payload = []domain.Transaction{}
	}
	jsonData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("GCSExporter: marshal JSON: %w", err)
	}

	var csvData bytes.Buffer
	if err := WriteCSV(&csvData, snapshot); err != nil {
		return fmt.Errorf("GCSExporter: %w", err)
	}

	objects := []struct {
		ext         string
		contentType string
		data        []byte
	}{
		{"json", "application/json", jsonData},
		{"csv", "text/csv", csvData.Bytes()},
	}

	log := logger.FromContext(ctx)
	for _, obj := range objects {
		name := gcsuploader.ObjectName(e.prefix, base, obj.ext)
		if err := e.storage.Upload(ctx, e.bucket, name, obj.contentType, bytes.NewReader(obj.data)); err != nil {
			return fmt.Errorf("GCSExporter: %w", err)
		}
		log.Info().
			Str("uri", gcsuploader.GCSURI(e.bucket, name)).
			Int("bytes", len(obj.data)).
			Msg("Uploaded ledger export")
	}

	return nil
}
