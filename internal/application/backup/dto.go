package backup

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/backup"
)

// RecordResponse represents a backup run in API responses
type RecordResponse struct {
	ID          uuid.UUID       `json:"id"`
	FileName    string          `json:"file_name"`
	Type        backup.Type     `json:"type"`
	Status      backup.Status   `json:"status"`
	Location    backup.Location `json:"location"`
	SizeBytes   int64           `json:"size_bytes"`
	TableCount  int             `json:"table_count"`
	RecordCount int             `json:"record_count"`
	DurationMs  int64           `json:"duration_ms"`
	Error       string          `json:"error,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// ToRecordResponse converts a domain record
func ToRecordResponse(r *backup.Record) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		FileName:    r.FileName,
		Type:        r.Type,
		Status:      r.Status,
		Location:    r.Location,
		SizeBytes:   r.SizeBytes,
		TableCount:  r.TableCount,
		RecordCount: r.RecordCount,
		DurationMs:  r.Duration.Milliseconds(),
		Error:       r.Error,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
	}
}

// StatusResponse is the backup dashboard header
type StatusResponse struct {
	LastBackup   *RecordResponse     `json:"last_backup"`
	TotalBackups int                 `json:"total_backups"`
	TotalSize    int64               `json:"total_size"`
	SystemStatus backup.SystemStatus `json:"system_status"`
	Settings     backup.Settings     `json:"settings"`
}

// UpdateSettingsInput changes the fields that are set
type UpdateSettingsInput struct {
	Enabled         *bool
	Frequency       *backup.Frequency
	Time            *string
	IncludeCloud    *bool
	MaxBackups      *int
	AutoCleanup     *bool
	NotifyOnSuccess *bool
	NotifyOnFailure *bool
}

// RestoreInput restores from an uploaded document or a stored backup
type RestoreInput struct {
	Data     []byte
	BackupID *uuid.UUID
	DryRun   bool
}

// CleanupResult reports what CleanOld removed
type CleanupResult struct {
	Deleted    int   `json:"deleted"`
	FreedBytes int64 `json:"freed_bytes"`
	Kept       int   `json:"kept"`
}

// ConnectionCheck is the outcome of one dependency probe
type ConnectionCheck struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ConnectionResult reports database and store reachability
type ConnectionResult struct {
	Healthy bool              `json:"healthy"`
	Checks  []ConnectionCheck `json:"checks"`
}
