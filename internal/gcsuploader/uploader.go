// Package gcsuploader writes export files to Google Cloud Storage.
package gcsuploader

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// uploadTimeout bounds a single object upload.
const uploadTimeout = 2 * time.Minute

// GCSStorageService is the StorageService backed by a storage.Client.
type GCSStorageService struct {
	client *storage.Client
}

// NewGCSStorageService creates a storage client. With an empty credentialsFile
// Application Default Credentials are used (gcloud auth application-default login).
func NewGCSStorageService(ctx context.Context, credentialsFile string) (*GCSStorageService, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGCSStorageService: create storage client: %w", err)
	}
	return &GCSStorageService{client: client}, nil
}

// Upload implements StorageService.
func (s *GCSStorageService) Upload(ctx context.Context, bucket, object, contentType string, data io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return fmt.Errorf("Upload: copy to GCS writer: %w", err)
	}

	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return fmt.Errorf("Upload: finalize %s: %w", GCSURI(bucket, object), err)
	}

	return nil
}

// Close implements StorageService.
func (s *GCSStorageService) Close() error {
	return s.client.Close()
}

// ObjectName joins a prefix, a base name and an extension into an object path.
// e.g. ("exports", "20260201T120000Z", "csv") → "exports/20260201T120000Z.csv"
func ObjectName(prefix, base, ext string) string {
	name := base
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// GCSURI formats gs://bucket/object.
func GCSURI(bucket, object string) string {
	return "gs://" + bucket + "/" + object
}

var _ StorageService = (*GCSStorageService)(nil)
