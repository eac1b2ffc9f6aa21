package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dealwise/deal-assistant/pkg/config"
)

// ArchiveStore keeps the raw analysis text submitted for each deal in MinIO so
// extracted signals can always be traced back to their source text.
type ArchiveStore struct {
	client *minio.Client
	bucket string
}

// NewArchiveStore connects to MinIO and ensures the archive bucket exists
func NewArchiveStore(cfg *config.StorageConfig) (*ArchiveStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	store := &ArchiveStore{
		client: client,
		bucket: cfg.BucketName,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize archive bucket: %w", err)
	}

	return store, nil
}

func (s *ArchiveStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// ArchiveAnalysis stores an analysis text under a per-deal path and returns
// the object key.
func (s *ArchiveStore) ArchiveAnalysis(ctx context.Context, tenantID, dealID uuid.UUID, text string) (string, error) {
	objectName := fmt.Sprintf("%s/%s/%d.txt", tenantID, dealID, time.Now().UnixNano())
	reader := bytes.NewReader([]byte(text))

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, int64(len(text)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive analysis text: %w", err)
	}
	return objectName, nil
}

// GetAnalysis reads an archived analysis text back
func (s *ArchiveStore) GetAnalysis(ctx context.Context, objectName string) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get archived analysis: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return "", fmt.Errorf("failed to read archived analysis: %w", err)
	}
	return string(data), nil
}

// PresignedURL returns a short-lived download URL for an archived analysis
func (s *ArchiveStore) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.String(), nil
}

// ListByDeal lists archived analysis object keys for a deal, oldest first
func (s *ArchiveStore) ListByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]string, error) {
	prefix := fmt.Sprintf("%s/%s/", tenantID, dealID)

	var keys []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list archived analyses: %w", object.Err)
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}
