package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
)

// ItemType distinguishes stocked item kinds
type ItemType string

const (
	ItemTypeProduct   ItemType = "product"
	ItemTypeSparePart ItemType = "spare_part"
)

// MovementType classifies a stock change
type MovementType string

const (
	MovementSale        MovementType = "sale"
	MovementRefund      MovementType = "refund"
	MovementRepairUsage MovementType = "repair_usage"
	MovementAdjustment  MovementType = "adjustment"
	MovementRestock     MovementType = "restock"
)

// IsValid checks the movement type
func (t MovementType) IsValid() bool {
	switch t {
	case MovementSale, MovementRefund, MovementRepairUsage, MovementAdjustment, MovementRestock:
		return true
	}
	return false
}

// StockMovement is an immutable ledger line for a stock change
type StockMovement struct {
	shared.BaseEntity
	TenantID         uuid.UUID
	ItemType         ItemType
	ItemID           uuid.UUID
	MovementType     MovementType
	Quantity         int // signed delta
	PreviousQuantity int
	NewQuantity      int
	Reason           string
	Reference        string
	CreatedBy        *uuid.UUID
}

// NewStockMovement creates a movement record
func NewStockMovement(tenantID uuid.UUID, itemType ItemType, itemID uuid.UUID, movementType MovementType, delta, prev, next int, reference string) *StockMovement {
	return &StockMovement{
		BaseEntity:       shared.NewBaseEntity(),
		TenantID:         tenantID,
		ItemType:         itemType,
		ItemID:           itemID,
		MovementType:     movementType,
		Quantity:         delta,
		PreviousQuantity: prev,
		NewQuantity:      next,
		Reference:        reference,
	}
}

// By records who caused the movement
func (m *StockMovement) By(userID uuid.UUID) *StockMovement {
	if userID != uuid.Nil {
		m.CreatedBy = &userID
	}
	return m
}

// SparePartUsage records a spare part consumed on a device repair
type SparePartUsage struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	SparePartID  uuid.UUID
	DeviceID     uuid.UUID
	RepairPartID uuid.UUID
	Quantity     int
	UsedBy       *uuid.UUID
	Notes        string
	UsedAt       time.Time
}
