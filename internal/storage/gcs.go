// Package storage reads scene documents from blob storage. The reader is a
// narrow injected interface so validation logic and tests never touch the
// network.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"scenevalidator/internal/logging"
)

// BlobReader fetches one object from a bucket.
type BlobReader interface {
	ReadBlob(ctx context.Context, bucket, object string) ([]byte, error)
}

// GCSReader implements BlobReader over Google Cloud Storage.
type GCSReader struct {
	client  *gcs.Client
	timeout time.Duration
}

// NewGCSReader creates a reader. With an empty credentials path the client
// uses Application Default Credentials.
func NewGCSReader(ctx context.Context, credentialsFile string) (*GCSReader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSReader{client: client, timeout: 30 * time.Second}, nil
}

// ReadBlob downloads gs://bucket/object and returns its bytes.
func (r *GCSReader) ReadBlob(ctx context.Context, bucket, object string) ([]byte, error) {
	if bucket == "" || object == "" {
		return nil, fmt.Errorf("bucket and object are required")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	rc, err := r.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		logging.StorageError("open gs://%s/%s: %v", bucket, object, err)
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		logging.StorageError("read gs://%s/%s: %v", bucket, object, err)
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", bucket, object, err)
	}

	logging.Storage("read gs://%s/%s: %d bytes in %v", bucket, object, len(data), time.Since(start))
	return data, nil
}

// Close releases the underlying client.
func (r *GCSReader) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
