package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bayidash/backend-go/internal/config"
)

// MinioArchive stores uploaded workbooks in an S3-compatible bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

func NewMinioArchive(cfg config.ArchiveConfig) (*MinioArchive, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("archive endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("archive credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	return &MinioArchive{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the archive bucket if it does not exist.
func (a *MinioArchive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}

func (a *MinioArchive) ArchiveWorkbook(ctx context.Context, localPath string, objectName string) error {
	_, err := a.client.FPutObject(ctx, a.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})
	if err != nil {
		return fmt.Errorf("failed to archive workbook %s: %w", objectName, err)
	}
	return nil
}

var _ Archive = (*MinioArchive)(nil)
