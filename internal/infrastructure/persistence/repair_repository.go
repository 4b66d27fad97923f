package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/repair"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRepairPartRepository implements repair.RepairPartRepository using GORM
type GormRepairPartRepository struct {
	db *gorm.DB
}

// NewGormRepairPartRepository creates a new GormRepairPartRepository
func NewGormRepairPartRepository(db *gorm.DB) *GormRepairPartRepository {
	return &GormRepairPartRepository{db: db}
}

// FindByIDForTenant finds a repair part by ID within a tenant
func (r *GormRepairPartRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*repair.RepairPart, error) {
	var model models.RepairPartModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByDevice lists the parts of one device, oldest first
func (r *GormRepairPartRepository) FindByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]repair.RepairPart, error) {
	var rows []models.RepairPartModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND device_id = ?", tenantID, deviceID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return repairPartsToDomain(rows), nil
}

// FindByStatus lists parts in any of the given statuses, newest first
func (r *GormRepairPartRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, statuses ...repair.PartStatus) ([]repair.RepairPart, error) {
	var rows []models.RepairPartModel
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return repairPartsToDomain(rows), nil
}

// Save creates a repair part or updates it under its loaded version
func (r *GormRepairPartRepository) Save(ctx context.Context, part *repair.RepairPart) error {
	model := models.RepairPartModelFromDomain(part)
	if err := saveVersioned(r.db.WithContext(ctx), model, &model.AggregateModel); err != nil {
		return translateError(err)
	}
	part.Version = model.Version
	return nil
}

// SaveBatch inserts all parts or none
func (r *GormRepairPartRepository) SaveBatch(ctx context.Context, parts []*repair.RepairPart) error {
	if len(parts) == 0 {
		return nil
	}
	rows := make([]*models.RepairPartModel, len(parts))
	for i, p := range parts {
		rows[i] = models.RepairPartModelFromDomain(p)
	}
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	}))
}

// DeleteForTenant deletes a repair part. Used parts are kept as history.
func (r *GormRepairPartRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND status <> ?", tenantID, id, repair.PartStatusUsed).
		Delete(&models.RepairPartModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RecordUsage commits a used part in one transaction: the spare part stock
// is decremented only while it still covers the quantity, then the usage
// row, the movement and the part itself are written.
func (r *GormRepairPartRepository) RecordUsage(ctx context.Context, part *repair.RepairPart, usage *inventory.SparePartUsage, movement *inventory.StockMovement) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SparePartModel{}).
			Where("tenant_id = ? AND id = ? AND quantity >= ?", part.TenantID, part.SparePartID, usage.Quantity).
			Updates(map[string]any{
				"quantity":   gorm.Expr("quantity - ?", usage.Quantity),
				"version":    gorm.Expr("version + 1"),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrInsufficientStock
		}
		if err := tx.Create(models.SparePartUsageModelFromDomain(usage)).Error; err != nil {
			return err
		}
		if err := tx.Create(models.StockMovementModelFromDomain(movement)).Error; err != nil {
			return err
		}
		updated := tx.Model(&models.RepairPartModel{}).
			Where("tenant_id = ? AND id = ? AND version = ? AND status <> ?", part.TenantID, part.ID, part.Version, repair.PartStatusUsed).
			Updates(map[string]any{
				"status":        part.Status,
				"quantity_used": part.QuantityUsed,
				"used_at":       part.UsedAt,
				"version":       gorm.Expr("version + 1"),
				"updated_at":    part.UpdatedAt,
			})
		if updated.Error != nil {
			return updated.Error
		}
		if updated.RowsAffected == 0 {
			// used or changed by someone else; the stock decrement above rolls back
			return shared.NewDomainError("INVALID_STATE", "Repair part has already been used")
		}
		return nil
	})
	if err != nil {
		return err
	}
	part.Version++
	return nil
}

func repairPartsToDomain(rows []models.RepairPartModel) []repair.RepairPart {
	out := make([]repair.RepairPart, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ repair.RepairPartRepository = (*GormRepairPartRepository)(nil)
