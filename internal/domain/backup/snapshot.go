package backup

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
)

// SnapshotVersion is written into every backup document
const SnapshotVersion = "1.0"

// Snapshot is the backup document
type Snapshot struct {
	Timestamp time.Time                   `json:"timestamp"`
	Version   string                      `json:"version"`
	TenantID  uuid.UUID                   `json:"tenant_id"`
	Tables    map[string][]map[string]any `json:"tables"`
}

// RecordCount sums rows over all tables
func (s *Snapshot) RecordCount() int {
	n := 0
	for _, rows := range s.Tables {
		n += len(rows)
	}
	return n
}

// ParseSnapshot decodes and validates a backup document. Both tables and
// timestamp must be present.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, shared.WrapDomainError(shared.ErrInvalidBackup.Code, "Backup file is not valid JSON", err)
	}
	if _, ok := probe["tables"]; !ok {
		return nil, shared.NewDomainError(shared.ErrInvalidBackup.Code, "Backup file has no tables")
	}
	if _, ok := probe["timestamp"]; !ok {
		return nil, shared.NewDomainError(shared.ErrInvalidBackup.Code, "Backup file has no timestamp")
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, shared.WrapDomainError(shared.ErrInvalidBackup.Code, "Backup file has an invalid layout", err)
	}
	if snap.Tables == nil {
		return nil, shared.NewDomainError(shared.ErrInvalidBackup.Code, "Backup file has no tables")
	}
	return &snap, nil
}

// RestoreResult summarizes a restore
type RestoreResult struct {
	DryRun      bool           `json:"dry_run"`
	Timestamp   time.Time      `json:"timestamp"`
	TableCount  int            `json:"table_count"`
	RecordCount int            `json:"record_count"`
	Tables      map[string]int `json:"tables"`
	Skipped     []string       `json:"skipped,omitempty"`
}
