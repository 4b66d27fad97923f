package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/backup"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackupRecordRepository implements backup.RecordRepository using GORM
type GormBackupRecordRepository struct {
	db *gorm.DB
}

// NewGormBackupRecordRepository creates a new GormBackupRecordRepository
func NewGormBackupRecordRepository(db *gorm.DB) *GormBackupRecordRepository {
	return &GormBackupRecordRepository{db: db}
}

// Save creates or updates a record
func (r *GormBackupRecordRepository) Save(ctx context.Context, rec *backup.Record) error {
	return translateError(r.db.WithContext(ctx).Save(models.BackupRecordModelFromDomain(rec)).Error)
}

// FindByIDForTenant finds a record by ID within a tenant
func (r *GormBackupRecordRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*backup.Record, error) {
	var model models.BackupRecordModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists records newest first
func (r *GormBackupRecordRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]backup.Record, error) {
	var rows []models.BackupRecordModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("started_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]backup.Record, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Delete removes a record
func (r *GormBackupRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BackupRecordModel{}).Error
}

// GormBackupSettingsRepository implements backup.SettingsRepository using GORM
type GormBackupSettingsRepository struct {
	db *gorm.DB
}

// NewGormBackupSettingsRepository creates a new GormBackupSettingsRepository
func NewGormBackupSettingsRepository(db *gorm.DB) *GormBackupSettingsRepository {
	return &GormBackupSettingsRepository{db: db}
}

// Find returns the tenant's settings
func (r *GormBackupSettingsRepository) Find(ctx context.Context, tenantID uuid.UUID) (*backup.Settings, error) {
	var model models.BackupSettingsModel
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts the settings row
func (r *GormBackupSettingsRepository) Save(ctx context.Context, s *backup.Settings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			UpdateAll: true,
		}).
		Create(models.BackupSettingsModelFromDomain(s)).Error
}

// FindEnabled lists settings of every tenant with automatic backups on
func (r *GormBackupSettingsRepository) FindEnabled(ctx context.Context) ([]backup.Settings, error) {
	var rows []models.BackupSettingsModel
	if err := r.db.WithContext(ctx).Where("enabled = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]backup.Settings, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ backup.RecordRepository   = (*GormBackupRecordRepository)(nil)
	_ backup.SettingsRepository = (*GormBackupSettingsRepository)(nil)
)
