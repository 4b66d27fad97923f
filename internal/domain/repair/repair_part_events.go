package repair

import (
	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeRepairPart = "RepairPart"

// Event type constants
const (
	EventTypeRepairPartRequested     = "RepairPartRequested"
	EventTypeRepairPartStatusChanged = "RepairPartStatusChanged"
)

// RepairPartRequestedEvent is raised when a part is requested for a device
type RepairPartRequestedEvent struct {
	shared.BaseDomainEvent
	DeviceID       uuid.UUID `json:"device_id"`
	SparePartID    uuid.UUID `json:"spare_part_id"`
	QuantityNeeded int       `json:"quantity_needed"`
}

// NewRepairPartRequestedEvent creates a new RepairPartRequestedEvent
func NewRepairPartRequestedEvent(p *RepairPart) *RepairPartRequestedEvent {
	return &RepairPartRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRepairPartRequested, AggregateTypeRepairPart, p.ID, p.TenantID),
		DeviceID:        p.DeviceID,
		SparePartID:     p.SparePartID,
		QuantityNeeded:  p.QuantityNeeded,
	}
}

// RepairPartStatusChangedEvent is raised on every status move
type RepairPartStatusChangedEvent struct {
	shared.BaseDomainEvent
	DeviceID   uuid.UUID  `json:"device_id"`
	FromStatus PartStatus `json:"from_status"`
	ToStatus   PartStatus `json:"to_status"`
}

// NewRepairPartStatusChangedEvent creates a new RepairPartStatusChangedEvent
func NewRepairPartStatusChangedEvent(p *RepairPart, from PartStatus) *RepairPartStatusChangedEvent {
	return &RepairPartStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRepairPartStatusChanged, AggregateTypeRepairPart, p.ID, p.TenantID),
		DeviceID:        p.DeviceID,
		FromStatus:      from,
		ToStatus:        p.Status,
	}
}
