package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"moleculehub/internal/domain"
)

var _ domain.UploadArchiver = (*GCSArchiver)(nil)

// GCSArchiver stores uploads in a Google Cloud Storage bucket.
type GCSArchiver struct {
	client *storage.Client
	bucket string
}

// NewGCSArchiver authenticates with a service account key file.
func NewGCSArchiver(ctx context.Context, keyFile, bucket string) (*GCSArchiver, error) {
	if keyFile == "" || bucket == "" {
		return nil, fmt.Errorf("gcs key file and bucket are required")
	}
	client, err := storage.NewClient(ctx, option.WithAuthCredentialsFile(option.ServiceAccount, keyFile))
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &GCSArchiver{client: client, bucket: bucket}, nil
}

// Put writes data as a single object.
func (a *GCSArchiver) Put(ctx context.Context, key string, data []byte, contentType string) error {
	w := a.client.Bucket(a.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentTypeOrDefault(contentType)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gs://%s/%s: %w", a.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gs://%s/%s: %w", a.bucket, key, err)
	}
	return nil
}

// Location returns the gs:// URI for key.
func (a *GCSArchiver) Location(key string) string {
	return fmt.Sprintf("gs://%s/%s", a.bucket, key)
}

// Close releases the underlying client.
func (a *GCSArchiver) Close() error {
	return a.client.Close()
}
