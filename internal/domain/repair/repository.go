package repair

import (
	"context"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/inventory"
)

// RepairPartRepository defines the interface for repair part persistence
type RepairPartRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*RepairPart, error)
	FindByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]RepairPart, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, statuses ...PartStatus) ([]RepairPart, error)
	Save(ctx context.Context, part *RepairPart) error

	// SaveBatch inserts all parts in one transaction or none of them
	SaveBatch(ctx context.Context, parts []*RepairPart) error

	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// RecordUsage stores the used part, the usage row and the stock movement
	// and decrements spare part stock, all in one transaction. It fails with
	// shared.ErrInsufficientStock when stock no longer covers the movement.
	RecordUsage(ctx context.Context, part *RepairPart, usage *inventory.SparePartUsage, movement *inventory.StockMovement) error
}
