package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/repair"
	"github.com/shopspring/decimal"
)

// RepairPartModel links a spare part to a device under repair
type RepairPartModel struct {
	TenantAggregateModel
	DeviceID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	SparePartID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	SparePartName  string            `gorm:"type:varchar(200)"`
	QuantityNeeded int               `gorm:"not null"`
	QuantityUsed   int               `gorm:"not null;default:0"`
	CostPerUnit    decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	TotalCost      decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	Status         repair.PartStatus `gorm:"type:varchar(20);not null;index"`
	Notes          string            `gorm:"type:text"`
	UsedAt         *time.Time
}

// TableName returns the table name for GORM
func (RepairPartModel) TableName() string {
	return "repair_parts"
}

// ToDomain converts the persistence model to a domain RepairPart
func (m *RepairPartModel) ToDomain() *repair.RepairPart {
	return &repair.RepairPart{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		DeviceID:            m.DeviceID,
		SparePartID:         m.SparePartID,
		SparePartName:       m.SparePartName,
		QuantityNeeded:      m.QuantityNeeded,
		QuantityUsed:        m.QuantityUsed,
		CostPerUnit:         m.CostPerUnit,
		TotalCost:           m.TotalCost,
		Status:              m.Status,
		Notes:               m.Notes,
		UsedAt:              m.UsedAt,
	}
}

// FromDomain populates the persistence model from a domain RepairPart
func (m *RepairPartModel) FromDomain(p *repair.RepairPart) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.DeviceID = p.DeviceID
	m.SparePartID = p.SparePartID
	m.SparePartName = p.SparePartName
	m.QuantityNeeded = p.QuantityNeeded
	m.QuantityUsed = p.QuantityUsed
	m.CostPerUnit = p.CostPerUnit
	m.TotalCost = p.TotalCost
	m.Status = p.Status
	m.Notes = p.Notes
	m.UsedAt = p.UsedAt
}

// RepairPartModelFromDomain creates a new persistence model from a domain RepairPart
func RepairPartModelFromDomain(p *repair.RepairPart) *RepairPartModel {
	m := &RepairPartModel{}
	m.FromDomain(p)
	return m
}
