package persistence

import (
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// saveVersioned inserts a new aggregate row, or updates the stored row only
// while it still carries the version the aggregate was loaded with. agg is
// the model's embedded AggregateModel; on success its Version is the stored
// value. A row changed by someone else yields shared.ErrConcurrencyConflict.
func saveVersioned(tx *gorm.DB, model any, agg *models.AggregateModel) error {
	loaded := agg.Version
	agg.Version = loaded + 1
	result := tx.Model(model).
		Where("version = ?", loaded).
		Select("*").
		Omit(clause.Associations, "id", "created_at", "tenant_id", "created_by").
		Updates(model)
	if result.Error != nil {
		agg.Version = loaded
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	agg.Version = loaded
	var existing int64
	if err := tx.Model(model).Where("id = ?", agg.ID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return shared.ErrConcurrencyConflict
	}
	return tx.Omit(clause.Associations).Create(model).Error
}
