package backup

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// RecordRepository persists backup records
type RecordRepository interface {
	Save(ctx context.Context, r *Record) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Record, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingsRepository persists backup settings
type SettingsRepository interface {
	// Find returns the saved settings or shared.ErrNotFound
	Find(ctx context.Context, tenantID uuid.UUID) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
	// FindEnabled lists every tenant with automatic backups switched on
	FindEnabled(ctx context.Context) ([]Settings, error)
}

// Store is where backup files live
type Store interface {
	// Name identifies the store in logs and records (local, s3, minio)
	Name() string
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Dumper reads and writes tenant rows for snapshots
type Dumper interface {
	// Tables lists the tables included in a snapshot
	Tables() []string
	// Dump reads every row of table that belongs to the tenant
	Dump(ctx context.Context, tenantID uuid.UUID, table string) ([]map[string]any, error)
	// Restore upserts all rows in one transaction
	Restore(ctx context.Context, tenantID uuid.UUID, tables map[string][]map[string]any) error
	// Ping checks database connectivity
	Ping(ctx context.Context) error
}
