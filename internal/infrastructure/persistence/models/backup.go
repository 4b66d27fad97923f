package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/backup"
)

// BackupRecordModel is the history row for one backup run
type BackupRecordModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	FileName    string          `gorm:"type:varchar(100);not null"`
	Type        backup.Type     `gorm:"type:varchar(20);not null"`
	Status      backup.Status   `gorm:"type:varchar(20);not null"`
	Location    backup.Location `gorm:"type:varchar(20);not null"`
	SizeBytes   int64           `gorm:"not null;default:0"`
	TableCount  int             `gorm:"not null;default:0"`
	RecordCount int             `gorm:"not null;default:0"`
	DurationMS  int64           `gorm:"column:duration_ms;not null;default:0"`
	Error       string          `gorm:"type:text"`
	StartedAt   time.Time       `gorm:"not null;index"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (BackupRecordModel) TableName() string {
	return "backup_records"
}

// ToDomain converts the persistence model to a domain Record
func (m *BackupRecordModel) ToDomain() *backup.Record {
	return &backup.Record{
		ID:          m.ID,
		TenantID:    m.TenantID,
		FileName:    m.FileName,
		Type:        m.Type,
		Status:      m.Status,
		Location:    m.Location,
		SizeBytes:   m.SizeBytes,
		TableCount:  m.TableCount,
		RecordCount: m.RecordCount,
		Duration:    time.Duration(m.DurationMS) * time.Millisecond,
		Error:       m.Error,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
	}
}

// BackupRecordModelFromDomain creates a persistence model from a domain Record
func BackupRecordModelFromDomain(r *backup.Record) *BackupRecordModel {
	return &BackupRecordModel{
		ID:          r.ID,
		TenantID:    r.TenantID,
		FileName:    r.FileName,
		Type:        r.Type,
		Status:      r.Status,
		Location:    r.Location,
		SizeBytes:   r.SizeBytes,
		TableCount:  r.TableCount,
		RecordCount: r.RecordCount,
		DurationMS:  r.Duration.Milliseconds(),
		Error:       r.Error,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
	}
}

// BackupSettingsModel holds automatic backup settings per shop
type BackupSettingsModel struct {
	TenantID          uuid.UUID        `gorm:"type:uuid;primary_key"`
	Enabled           bool             `gorm:"not null;default:false;index"`
	Frequency         backup.Frequency `gorm:"type:varchar(20);not null"`
	Time              string           `gorm:"column:backup_time;type:varchar(5);not null"`
	IncludeCloud      bool             `gorm:"not null"`
	MaxBackups        int              `gorm:"not null"`
	AutoCleanup       bool             `gorm:"not null"`
	NotifyOnSuccess   bool             `gorm:"not null;default:false"`
	NotifyOnFailure   bool             `gorm:"not null"`
	LastAutomaticDate string           `gorm:"type:varchar(10)"`
	UpdatedAt         time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BackupSettingsModel) TableName() string {
	return "backup_settings"
}

// ToDomain converts the persistence model to domain Settings
func (m *BackupSettingsModel) ToDomain() *backup.Settings {
	return &backup.Settings{
		TenantID:          m.TenantID,
		Enabled:           m.Enabled,
		Frequency:         m.Frequency,
		Time:              m.Time,
		IncludeCloud:      m.IncludeCloud,
		MaxBackups:        m.MaxBackups,
		AutoCleanup:       m.AutoCleanup,
		NotifyOnSuccess:   m.NotifyOnSuccess,
		NotifyOnFailure:   m.NotifyOnFailure,
		LastAutomaticDate: m.LastAutomaticDate,
		UpdatedAt:         m.UpdatedAt,
	}
}

// BackupSettingsModelFromDomain creates a persistence model from domain Settings
func BackupSettingsModelFromDomain(s *backup.Settings) *BackupSettingsModel {
	return &BackupSettingsModel{
		TenantID:          s.TenantID,
		Enabled:           s.Enabled,
		Frequency:         s.Frequency,
		Time:              s.Time,
		IncludeCloud:      s.IncludeCloud,
		MaxBackups:        s.MaxBackups,
		AutoCleanup:       s.AutoCleanup,
		NotifyOnSuccess:   s.NotifyOnSuccess,
		NotifyOnFailure:   s.NotifyOnFailure,
		LastAutomaticDate: s.LastAutomaticDate,
		UpdatedAt:         s.UpdatedAt,
	}
}
