package backup

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type distinguishes who started a backup
type Type string

const (
	TypeManual    Type = "manual"
	TypeAutomatic Type = "automatic"
)

// Status of a backup run
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Location records where the file was written
type Location string

const (
	LocationLocal Location = "local"
	LocationCloud Location = "cloud"
	LocationBoth  Location = "both"
)

// Record is the log entry of one backup run
type Record struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	FileName    string
	Type        Type
	Status      Status
	Location    Location
	SizeBytes   int64
	TableCount  int
	RecordCount int
	Duration    time.Duration
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// FileName builds backup-<ISO8601 UTC with ':' and '.' replaced by '-'>.json
func FileName(at time.Time) string {
	iso := at.UTC().Format("2006-01-02T15:04:05.000Z")
	iso = strings.NewReplacer(":", "-", ".", "-").Replace(iso)
	return "backup-" + iso + ".json"
}

// NewRecord starts a running backup record
func NewRecord(tenantID uuid.UUID, typ Type, at time.Time) *Record {
	return &Record{
		ID:        uuid.New(),
		TenantID:  tenantID,
		FileName:  FileName(at),
		Type:      typ,
		Status:    StatusRunning,
		Location:  LocationLocal,
		StartedAt: at,
	}
}

// Succeed completes the record
func (r *Record) Succeed(location Location, size int64, tables, records int, at time.Time) {
	r.Status = StatusSuccess
	r.Location = location
	r.SizeBytes = size
	r.TableCount = tables
	r.RecordCount = records
	r.Duration = at.Sub(r.StartedAt)
	r.CompletedAt = &at
}

// Fail completes the record with an error
func (r *Record) Fail(err error, at time.Time) {
	r.Status = StatusFailed
	if err != nil {
		r.Error = err.Error()
	}
	r.Duration = at.Sub(r.StartedAt)
	r.CompletedAt = &at
}
