// Package storage provides the object stores backup files are written to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/lats/backend/internal/domain/backup"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Driver names accepted in [storage] driver / cloud_driver
const (
	DriverLocal = "local"
	DriverS3    = "s3"
	DriverMinIO = "minio"
)

// ErrKeyRequired is returned for an empty object key
var ErrKeyRequired = errors.New("storage key is required")

// notFound wraps a missing-object error so the HTTP layer answers 404
func notFound(key string, err error) error {
	return shared.WrapDomainError(shared.ErrNotFound.Code, fmt.Sprintf("backup file %q not found", key), err)
}

// objectKey joins the configured prefix and a backup key. Keys are plain
// file names; anything that could escape the prefix is rejected.
func objectKey(prefix, key string) (string, error) {
	if key == "" {
		return "", ErrKeyRequired
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	if prefix == "" {
		return key, nil
	}
	return path.Join(strings.Trim(prefix, "/"), key), nil
}

// Stores holds the primary backup store and the optional cloud copy
type Stores struct {
	Primary backup.Store
	Cloud   backup.Store
}

// NewStores builds the stores named in cfg. The primary driver is required;
// a cloud driver is only built when configured and different from it.
func NewStores(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*Stores, error) {
	primary, err := newStore(ctx, cfg.Driver, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("primary backup store: %w", err)
	}
	stores := &Stores{Primary: primary}

	if cfg.CloudDriver != "" && cfg.CloudDriver != cfg.Driver {
		cloud, err := newStore(ctx, cfg.CloudDriver, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("cloud backup store: %w", err)
		}
		stores.Cloud = cloud
	}

	logger.Info("Backup stores ready",
		zap.String("primary", primary.Name()),
		zap.Bool("cloud", stores.Cloud != nil),
	)
	return stores, nil
}

func newStore(ctx context.Context, driver string, cfg config.StorageConfig, logger *zap.Logger) (backup.Store, error) {
	switch driver {
	case DriverLocal, "":
		return NewLocalStore(cfg.LocalDir)
	case DriverS3:
		return NewS3Store(ctx, cfg.S3, WithLogger(logger))
	case DriverMinIO:
		return NewMinIOStore(ctx, cfg.MinIO, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
