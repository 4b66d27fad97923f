package repair

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/repair"
	"github.com/shopspring/decimal"
)

// CreateRepairPartInput requests a spare part for a device. CostPerUnit
// defaults to the spare part's cost price.
type CreateRepairPartInput struct {
	DeviceID       uuid.UUID
	SparePartID    uuid.UUID
	QuantityNeeded int
	CostPerUnit    *decimal.Decimal
	Notes          string
	UserID         uuid.UUID
}

// UpdateRepairPartInput changes a part. Nil fields are left alone.
type UpdateRepairPartInput struct {
	QuantityNeeded *int
	CostPerUnit    *decimal.Decimal
	Notes          *string
	Status         *repair.PartStatus
}

// UseRepairPartInput consumes a part on its device
type UseRepairPartInput struct {
	UserID uuid.UUID
	Notes  string
}

// RepairPartResponse represents a repair part in API responses
type RepairPartResponse struct {
	ID             uuid.UUID         `json:"id"`
	DeviceID       uuid.UUID         `json:"device_id"`
	SparePartID    uuid.UUID         `json:"spare_part_id"`
	SparePartName  string            `json:"spare_part_name"`
	QuantityNeeded int               `json:"quantity_needed"`
	QuantityUsed   int               `json:"quantity_used"`
	CostPerUnit    decimal.Decimal   `json:"cost_per_unit"`
	TotalCost      decimal.Decimal   `json:"total_cost"`
	Status         repair.PartStatus `json:"status"`
	Notes          string            `json:"notes,omitempty"`
	UsedAt         *time.Time        `json:"used_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ToRepairPartResponse converts a domain repair part
func ToRepairPartResponse(p *repair.RepairPart) RepairPartResponse {
	return RepairPartResponse{
		ID:             p.ID,
		DeviceID:       p.DeviceID,
		SparePartID:    p.SparePartID,
		SparePartName:  p.SparePartName,
		QuantityNeeded: p.QuantityNeeded,
		QuantityUsed:   p.QuantityUsed,
		CostPerUnit:    p.CostPerUnit,
		TotalCost:      p.TotalCost,
		Status:         p.Status,
		Notes:          p.Notes,
		UsedAt:         p.UsedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToRepairPartResponses converts a slice of domain repair parts
func ToRepairPartResponses(parts []repair.RepairPart) []RepairPartResponse {
	out := make([]RepairPartResponse, len(parts))
	for i := range parts {
		out[i] = ToRepairPartResponse(&parts[i])
	}
	return out
}

// RequestedPartResponse is a part still waiting to arrive
type RequestedPartResponse struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	DeviceID       uuid.UUID         `json:"device_id"`
	QuantityNeeded int               `json:"quantity_needed"`
	Status         repair.PartStatus `json:"status"`
}
