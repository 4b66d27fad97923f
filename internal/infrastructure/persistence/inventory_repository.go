package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements inventory.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several products at once
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]inventory.Product, error) {
	if len(ids) == 0 {
		return []inventory.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]inventory.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// FindAllForTenant lists products, searching name, SKU and category
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Product, error) {
	var rows []models.ProductModel
	if err := applyPage(r.scoped(ctx, tenantID, filter), filter, ProductSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]inventory.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts products matching the filter
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.scoped(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// ExistsBySKU checks SKU uniqueness within a tenant
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *inventory.Product) error {
	return translateError(r.db.WithContext(ctx).Save(models.ProductModelFromDomain(p)).Error)
}

// ApplyMovement writes the new quantity only if nobody changed it since the
// product was loaded, then appends the movement.
func (r *GormProductRepository) ApplyMovement(ctx context.Context, p *inventory.Product, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyConditionalMovement(tx, &models.ProductModel{}, p.TenantID, p.ID, movement)
	})
}

func (r *GormProductRepository) scoped(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("tenant_id = ?", tenantID)
	if active, ok := filter.Filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", active)
	}
	if cat, ok := filter.Filters["category"].(string); ok && cat != "" {
		query = query.Where("category = ?", cat)
	}
	return applySearch(query, filter.Search, "name", "sku", "category")
}

// GormSparePartRepository implements inventory.SparePartRepository using GORM
type GormSparePartRepository struct {
	db *gorm.DB
}

// NewGormSparePartRepository creates a new GormSparePartRepository
func NewGormSparePartRepository(db *gorm.DB) *GormSparePartRepository {
	return &GormSparePartRepository{db: db}
}

// FindByIDForTenant finds a spare part by ID within a tenant
func (r *GormSparePartRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.SparePart, error) {
	var model models.SparePartModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several spare parts at once
func (r *GormSparePartRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]inventory.SparePart, error) {
	if len(ids) == 0 {
		return []inventory.SparePart{}, nil
	}
	var rows []models.SparePartModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return sparePartsToDomain(rows), nil
}

// FindAllForTenant lists spare parts, searching name, part number and brand
func (r *GormSparePartRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.SparePart, error) {
	var rows []models.SparePartModel
	if err := applyPage(r.scoped(ctx, tenantID, filter), filter, ProductSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	return sparePartsToDomain(rows), nil
}

// CountForTenant counts spare parts matching the filter
func (r *GormSparePartRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.scoped(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// FindLowStock lists active parts at or below their reorder level
func (r *GormSparePartRepository) FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]inventory.SparePart, error) {
	var rows []models.SparePartModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ? AND quantity <= min_quantity", tenantID, true).
		Order("quantity ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return sparePartsToDomain(rows), nil
}

// Save creates or updates a spare part
func (r *GormSparePartRepository) Save(ctx context.Context, p *inventory.SparePart) error {
	return translateError(r.db.WithContext(ctx).Save(models.SparePartModelFromDomain(p)).Error)
}

// ApplyMovement writes the new quantity if unchanged since load and
// appends the movement
func (r *GormSparePartRepository) ApplyMovement(ctx context.Context, p *inventory.SparePart, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyConditionalMovement(tx, &models.SparePartModel{}, p.TenantID, p.ID, movement)
	})
}

func (r *GormSparePartRepository) scoped(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.SparePartModel{}).Where("tenant_id = ?", tenantID)
	if cat, ok := filter.Filters["category"].(string); ok && cat != "" {
		query = query.Where("category = ?", cat)
	}
	return applySearch(query, filter.Search, "name", "part_number", "brand")
}

func sparePartsToDomain(rows []models.SparePartModel) []inventory.SparePart {
	out := make([]inventory.SparePart, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// applyConditionalMovement is the compare-and-set used by both stock
// tables: the row must still hold the movement's previous quantity.
func applyConditionalMovement(tx *gorm.DB, model any, tenantID, id uuid.UUID, movement *inventory.StockMovement) error {
	result := tx.Model(model).
		Where("tenant_id = ? AND id = ? AND quantity = ?", tenantID, id, movement.PreviousQuantity).
		Updates(map[string]any{
			"quantity":   movement.NewQuantity,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return tx.Create(models.StockMovementModelFromDomain(movement)).Error
}

// GormStockMovementRepository implements inventory.StockMovementRepository
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByItem returns the newest movements of one item
func (r *GormStockMovementRepository) FindByItem(ctx context.Context, tenantID uuid.UUID, itemType inventory.ItemType, itemID uuid.UUID, limit int) ([]inventory.StockMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_type = ? AND item_id = ?", tenantID, itemType, itemID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]inventory.StockMovement, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ inventory.ProductRepository       = (*GormProductRepository)(nil)
	_ inventory.SparePartRepository     = (*GormSparePartRepository)(nil)
	_ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
)
