package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lats/backend/internal/domain/backup"
	"github.com/lats/backend/internal/infrastructure/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var _ backup.Store = (*MinIOStore)(nil)

// MinIOStore keeps backup files in a MinIO bucket
type MinIOStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinIOStore creates the client and makes sure the bucket exists
func NewMinIOStore(ctx context.Context, cfg config.MinIOConfig, logger *zap.Logger) (*MinIOStore, error) {
	store, err := newMinIOClient(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := store.client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		logger.Info("Creating backup bucket", zap.String("bucket", cfg.Bucket))
		if err := store.client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return store, nil
}

func newMinIOClient(cfg config.MinIOConfig) (*MinIOStore, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIOStore{client: cli, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Name implements backup.Store
func (m *MinIOStore) Name() string { return DriverMinIO }

// Put uploads a backup file; size may be -1 when unknown
func (m *MinIOStore) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	k, err := objectKey(m.prefix, key)
	if err != nil {
		return err
	}
	_, err = m.client.PutObject(ctx, m.bucket, k, r, size, minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload backup: %w", err)
	}
	return nil
}

// Get streams a backup file
func (m *MinIOStore) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	k, err := objectKey(m.prefix, key)
	if err != nil {
		return nil, 0, err
	}
	obj, err := m.client.GetObject(ctx, m.bucket, k, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, m.translate(key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, 0, m.translate(key, err)
	}
	return obj, st.Size, nil
}

// Delete removes a backup file
func (m *MinIOStore) Delete(ctx context.Context, key string) error {
	k, err := objectKey(m.prefix, key)
	if err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, k, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	return nil
}

// Ping checks the bucket is reachable
func (m *MinIOStore) Ping(ctx context.Context) error {
	ok, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("minio unreachable: %w", err)
	}
	if !ok {
		return fmt.Errorf("minio bucket %s does not exist", m.bucket)
	}
	return nil
}

func (m *MinIOStore) translate(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return notFound(key, err)
	}
	return fmt.Errorf("failed to download backup: %w", err)
}
