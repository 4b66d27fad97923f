package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/closing"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormClosureRepository implements closing.ClosureRepository using GORM
type GormClosureRepository struct {
	db *gorm.DB
}

// NewGormClosureRepository creates a new GormClosureRepository
func NewGormClosureRepository(db *gorm.DB) *GormClosureRepository {
	return &GormClosureRepository{db: db}
}

// FindByDate returns the closure of a business day
func (r *GormClosureRepository) FindByDate(ctx context.Context, tenantID uuid.UUID, date string) (*closing.DailyClosure, error) {
	var model models.DailyClosureModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND closure_date = ?", tenantID, date).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain()
}

// IsClosed reports whether the day has a closure
func (r *GormClosureRepository) IsClosed(ctx context.Context, tenantID uuid.UUID, date string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DailyClosureModel{}).
		Where("tenant_id = ? AND closure_date = ?", tenantID, date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the closure. The unique (tenant_id, closure_date) index
// turns a concurrent second close into ErrAlreadyExists.
func (r *GormClosureRepository) Create(ctx context.Context, c *closing.DailyClosure) error {
	model, err := models.DailyClosureModelFromDomain(c)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindInRange lists closures between from and to inclusive, newest first
func (r *GormClosureRepository) FindInRange(ctx context.Context, tenantID uuid.UUID, from, to string) ([]closing.DailyClosure, error) {
	var rows []models.DailyClosureModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND closure_date >= ? AND closure_date <= ?", tenantID, from, to).
		Order("closure_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]closing.DailyClosure, 0, len(rows))
	for i := range rows {
		c, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

// GormPasscodeRepository implements closing.PasscodeRepository using GORM
type GormPasscodeRepository struct {
	db *gorm.DB
}

// NewGormPasscodeRepository creates a new GormPasscodeRepository
func NewGormPasscodeRepository(db *gorm.DB) *GormPasscodeRepository {
	return &GormPasscodeRepository{db: db}
}

// Find returns the tenant's passcode settings
func (r *GormPasscodeRepository) Find(ctx context.Context, tenantID uuid.UUID) (*closing.PasscodeSettings, error) {
	var model models.ClosingSettingsModel
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
func (r *GormPasscodeRepository) Save(ctx context.Context, s *closing.PasscodeSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"passcode_hash", "updated_by", "updated_at"}),
		}).
		Create(models.ClosingSettingsModelFromDomain(s)).Error
}

var (
	_ closing.ClosureRepository  = (*GormClosureRepository)(nil)
	_ closing.PasscodeRepository = (*GormPasscodeRepository)(nil)
)
