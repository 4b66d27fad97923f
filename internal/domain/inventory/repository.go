package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
)

// ProductRepository persists products
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)
	Save(ctx context.Context, product *Product) error
	// ApplyMovement persists the product's new quantity together with the
	// movement. The update is conditional on the previous quantity so a
	// concurrent change surfaces as a concurrency conflict.
	ApplyMovement(ctx context.Context, product *Product, movement *StockMovement) error
}

// SparePartRepository persists spare parts
type SparePartRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SparePart, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]SparePart, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SparePart, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]SparePart, error)
	Save(ctx context.Context, part *SparePart) error
	ApplyMovement(ctx context.Context, part *SparePart, movement *StockMovement) error
}

// StockMovementRepository reads the movement ledger
type StockMovementRepository interface {
	FindByItem(ctx context.Context, tenantID uuid.UUID, itemType ItemType, itemID uuid.UUID, limit int) ([]StockMovement, error)
}
