package gcsuploader

import (
	"context"
	"io"
)

// StorageService uploads objects to Google Cloud Storage.
type StorageService interface {
	// Upload writes data to gs://bucket/object with the given content type.
	Upload(ctx context.Context, bucket, object, contentType string, data io.Reader) error

	// Close releases the underlying client.
	Close() error
}
