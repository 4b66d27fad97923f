package repair

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PartStatus is where a repair part is in its procurement lifecycle
type PartStatus string

const (
	PartStatusNeeded   PartStatus = "needed"
	PartStatusOrdered  PartStatus = "ordered"
	PartStatusAccepted PartStatus = "accepted"
	PartStatusReceived PartStatus = "received"
	PartStatusUsed     PartStatus = "used"
)

// AllStatuses lists the statuses in lifecycle order
var AllStatuses = []PartStatus{
	PartStatusNeeded,
	PartStatusOrdered,
	PartStatusAccepted,
	PartStatusReceived,
	PartStatusUsed,
}

func (s PartStatus) rank() int {
	for i, st := range AllStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// IsValid checks if the status is a valid PartStatus
func (s PartStatus) IsValid() bool {
	return s.rank() >= 0
}

// String returns the string representation of PartStatus
func (s PartStatus) String() string {
	return string(s)
}

// CanTransitionTo allows forward moves only. Intermediate steps may be
// skipped but used is reached through Use alone.
func (s PartStatus) CanTransitionTo(target PartStatus) bool {
	if !target.IsValid() || s == PartStatusUsed || target == PartStatusUsed {
		return false
	}
	return target.rank() > s.rank()
}

// IsRequested reports whether the part still has to arrive
func (s PartStatus) IsRequested() bool {
	return s == PartStatusNeeded || s == PartStatusOrdered
}

// RepairPart links a spare part to a device under repair
type RepairPart struct {
	shared.TenantAggregateRoot
	DeviceID       uuid.UUID
	SparePartID    uuid.UUID
	SparePartName  string
	QuantityNeeded int
	QuantityUsed   int
	CostPerUnit    decimal.Decimal
	TotalCost      decimal.Decimal
	Status         PartStatus
	Notes          string
	UsedAt         *time.Time
}

// NewRepairPart requests a spare part for a device
func NewRepairPart(tenantID, deviceID, sparePartID uuid.UUID, quantity int, costPerUnit decimal.Decimal, notes string) (*RepairPart, error) {
	if deviceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEVICE", "Device ID cannot be empty")
	}
	if sparePartID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPARE_PART", "Spare part ID cannot be empty")
	}
	if err := validateQuantityAndCost(quantity, costPerUnit); err != nil {
		return nil, err
	}
	p := &RepairPart{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DeviceID:            deviceID,
		SparePartID:         sparePartID,
		QuantityNeeded:      quantity,
		CostPerUnit:         costPerUnit,
		Status:              PartStatusNeeded,
		Notes:               notes,
	}
	p.recalculate()
	p.AddDomainEvent(NewRepairPartRequestedEvent(p))
	return p, nil
}

func validateQuantityAndCost(quantity int, cost decimal.Decimal) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity needed must be positive")
	}
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost per unit cannot be negative")
	}
	return nil
}

func (p *RepairPart) recalculate() {
	p.TotalCost = p.CostPerUnit.Mul(decimal.NewFromInt(int64(p.QuantityNeeded)))
}

// Update changes quantity, cost and notes of a part that has not been used
func (p *RepairPart) Update(quantity int, costPerUnit decimal.Decimal, notes string) error {
	if p.Status == PartStatusUsed {
		return shared.NewDomainError("INVALID_STATE", "A used repair part cannot be modified")
	}
	if err := validateQuantityAndCost(quantity, costPerUnit); err != nil {
		return err
	}
	p.QuantityNeeded = quantity
	p.CostPerUnit = costPerUnit
	p.Notes = notes
	p.recalculate()
	p.Touch()
	return nil
}

// ChangeStatus moves the part forward in its lifecycle
func (p *RepairPart) ChangeStatus(target PartStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown repair part status: "+target.String())
	}
	if target == p.Status {
		return nil
	}
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change repair part status from %s to %s", p.Status, target))
	}
	from := p.Status
	p.Status = target
	p.Touch()
	p.AddDomainEvent(NewRepairPartStatusChangedEvent(p, from))
	return nil
}

// MarkUsed records consumption of the full quantity needed
func (p *RepairPart) MarkUsed(at time.Time) error {
	if p.Status == PartStatusUsed {
		return shared.NewDomainError("INVALID_STATE", "Repair part has already been used")
	}
	from := p.Status
	p.Status = PartStatusUsed
	p.QuantityUsed = p.QuantityNeeded
	p.UsedAt = &at
	p.Touch()
	p.AddDomainEvent(NewRepairPartStatusChangedEvent(p, from))
	return nil
}

// CanDelete reports whether the part may be removed
func (p *RepairPart) CanDelete() bool {
	return p.Status != PartStatusUsed
}

// Stats summarizes the parts of one device
type Stats struct {
	Total     int                `json:"total"`
	ByStatus  map[PartStatus]int `json:"by_status"`
	TotalCost decimal.Decimal    `json:"total_cost"`
	Progress  int                `json:"progress"`
}

// ComputeStats builds device statistics; progress is the rounded share of
// used parts.
func ComputeStats(parts []RepairPart) Stats {
	stats := Stats{
		Total:     len(parts),
		ByStatus:  make(map[PartStatus]int, len(AllStatuses)),
		TotalCost: decimal.Zero,
	}
	for _, st := range AllStatuses {
		stats.ByStatus[st] = 0
	}
	for _, p := range parts {
		stats.ByStatus[p.Status]++
		stats.TotalCost = stats.TotalCost.Add(p.TotalCost)
	}
	if stats.Total > 0 {
		stats.Progress = int(math.Round(float64(stats.ByStatus[PartStatusUsed]) / float64(stats.Total) * 100))
	}
	return stats
}
