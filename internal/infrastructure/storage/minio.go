package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/prepvoice/interview-coach/pkg/config"
)

// ArchiveStore copies uploaded media and generated reports into object
// storage for later review. The bucket stays private; nothing in the request
// path depends on the archive succeeding.
type ArchiveStore struct {
	client *minio.Client
	bucket string
}

// NewArchiveStore creates a MinIO-backed archive store and ensures the bucket
// exists.
func NewArchiveStore(cfg *config.ArchiveConfig) (*ArchiveStore, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &ArchiveStore{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	if err := store.ensureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return store, nil
}

func (a *ArchiveStore) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// ArchiveFile uploads a local file under the given object prefix.
func (a *ArchiveStore) ArchiveFile(ctx context.Context, prefix, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	objectName := prefix + "/" + filepath.Base(path)
	return a.put(ctx, objectName, f, info.Size(), "application/octet-stream")
}

// ArchiveBytes uploads an in-memory document, used for rendered reports.
func (a *ArchiveStore) ArchiveBytes(ctx context.Context, objectName string, data []byte, contentType string) error {
	return a.put(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType)
}

func (a *ArchiveStore) put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return nil
}
