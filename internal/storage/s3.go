package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudvault/backend/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Store stores blobs in an S3-compatible bucket under a media prefix.
// Works against AWS S3, MinIO and other compatible providers.
type S3Store struct {
	client *minio.Client
	bucket string
	prefix string
	domain string
}

func NewS3Store(cfg *config.Config) (*S3Store, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
		Region: cfg.StorageRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &S3Store{
		client: client,
		bucket: cfg.StorageBucket,
		prefix: cfg.MediaPrefix,
		domain: cfg.PublicURLBase(),
	}, nil
}

// Upload writes the object without checking whether the key already
// exists: stat calls may be forbidden by bucket policy, and generated keys
// make overwrites impossible in practice. No ACL is set for the same reason.
func (s *S3Store) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectName(key), reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, s.objectName(key), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) PublicURL(key string) string {
	return "https://" + s.domain + "/" + s.objectName(key)
}

func (s *S3Store) objectName(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}
