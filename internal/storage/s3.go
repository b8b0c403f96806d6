package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"moleculehub/internal/config"
	"moleculehub/internal/domain"
)

var _ domain.UploadArchiver = (*S3Archiver)(nil)

// S3Archiver stores uploads in an S3-compatible bucket.
type S3Archiver struct {
	client *s3.Client
	bucket string
}

// NewS3Archiver creates an archiver for S3-compatible storage using
// path-style addressing.
func NewS3Archiver(cfg config.ArchiveConfig) (*S3Archiver, error) {
	if !cfg.HasS3Config() {
		return nil, fmt.Errorf("S3 config is incomplete")
	}

	endpoint := *cfg.S3Endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	client := s3.New(s3.Options{
		Region: *cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			*cfg.S3KeyID, *cfg.S3Secret, "",
		),
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
	})

	return &S3Archiver{client: client, bucket: *cfg.S3Bucket}, nil
}

// Put uploads data as a single object.
func (a *S3Archiver) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentTypeOrDefault(contentType)),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", a.bucket, key, err)
	}
	return nil
}

// Location returns the s3:// URI for key.
func (a *S3Archiver) Location(key string) string {
	return fmt.Sprintf("s3://%s/%s", a.bucket, key)
}

func contentTypeOrDefault(ct string) string {
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
