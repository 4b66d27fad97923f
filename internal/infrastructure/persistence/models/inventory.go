package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for sellable products
type ProductModel struct {
	TenantAggregateModel
	Name         string          `gorm:"type:varchar(200);not null"`
	SKU          string          `gorm:"column:sku;type:varchar(100);not null;uniqueIndex:idx_products_tenant_sku,priority:2"`
	Category     string          `gorm:"type:varchar(100)"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Quantity     int             `gorm:"not null;default:0"`
	MinQuantity  int             `gorm:"not null;default:0"`
	IsActive     bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *inventory.Product {
	return &inventory.Product{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Stock:               inventory.Stock{Quantity: m.Quantity, MinQuantity: m.MinQuantity},
		Name:                m.Name,
		SKU:                 m.SKU,
		Category:            m.Category,
		CostPrice:           m.CostPrice,
		SellingPrice:        m.SellingPrice,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *inventory.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.SKU = p.SKU
	m.Category = p.Category
	m.CostPrice = p.CostPrice
	m.SellingPrice = p.SellingPrice
	m.Quantity = p.Quantity
	m.MinQuantity = p.MinQuantity
	m.IsActive = p.IsActive
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *inventory.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// SparePartModel is the persistence model for repair spare parts
type SparePartModel struct {
	TenantAggregateModel
	Name         string          `gorm:"type:varchar(200);not null"`
	PartNumber   string          `gorm:"type:varchar(100);index"`
	Category     string          `gorm:"type:varchar(100)"`
	Brand        string          `gorm:"type:varchar(100)"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Quantity     int             `gorm:"not null;default:0"`
	MinQuantity  int             `gorm:"not null;default:0"`
	IsActive     bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SparePartModel) TableName() string {
	return "spare_parts"
}

// ToDomain converts the persistence model to a domain SparePart
func (m *SparePartModel) ToDomain() *inventory.SparePart {
	return &inventory.SparePart{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Stock:               inventory.Stock{Quantity: m.Quantity, MinQuantity: m.MinQuantity},
		Name:                m.Name,
		PartNumber:          m.PartNumber,
		Category:            m.Category,
		Brand:               m.Brand,
		CostPrice:           m.CostPrice,
		SellingPrice:        m.SellingPrice,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain SparePart
func (m *SparePartModel) FromDomain(p *inventory.SparePart) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.PartNumber = p.PartNumber
	m.Category = p.Category
	m.Brand = p.Brand
	m.CostPrice = p.CostPrice
	m.SellingPrice = p.SellingPrice
	m.Quantity = p.Quantity
	m.MinQuantity = p.MinQuantity
	m.IsActive = p.IsActive
}

// SparePartModelFromDomain creates a new persistence model from a domain SparePart
func SparePartModelFromDomain(p *inventory.SparePart) *SparePartModel {
	m := &SparePartModel{}
	m.FromDomain(p)
	return m
}

// StockMovementModel is an append-only stock ledger row
type StockMovementModel struct {
	BaseModel
	TenantID         uuid.UUID              `gorm:"type:uuid;not null;index:idx_stock_movements_item,priority:1"`
	ItemType         inventory.ItemType     `gorm:"type:varchar(20);not null;index:idx_stock_movements_item,priority:2"`
	ItemID           uuid.UUID              `gorm:"type:uuid;not null;index:idx_stock_movements_item,priority:3"`
	MovementType     inventory.MovementType `gorm:"type:varchar(30);not null"`
	Quantity         int                    `gorm:"not null"`
	PreviousQuantity int                    `gorm:"not null"`
	NewQuantity      int                    `gorm:"not null"`
	Reason           string                 `gorm:"type:varchar(500)"`
	Reference        string                 `gorm:"type:varchar(100);index"`
	CreatedBy        *uuid.UUID             `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		BaseEntity:       m.BaseModel.ToDomain(),
		TenantID:         m.TenantID,
		ItemType:         m.ItemType,
		ItemID:           m.ItemID,
		MovementType:     m.MovementType,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reason:           m.Reason,
		Reference:        m.Reference,
		CreatedBy:        m.CreatedBy,
	}
}

// StockMovementModelFromDomain creates a persistence model from a domain StockMovement
func StockMovementModelFromDomain(mv *inventory.StockMovement) *StockMovementModel {
	m := &StockMovementModel{
		TenantID:         mv.TenantID,
		ItemType:         mv.ItemType,
		ItemID:           mv.ItemID,
		MovementType:     mv.MovementType,
		Quantity:         mv.Quantity,
		PreviousQuantity: mv.PreviousQuantity,
		NewQuantity:      mv.NewQuantity,
		Reason:           mv.Reason,
		Reference:        mv.Reference,
		CreatedBy:        mv.CreatedBy,
	}
	m.FromDomainBaseEntity(mv.BaseEntity)
	return m
}

// SparePartUsageModel records a spare part consumed by a repair
type SparePartUsageModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	SparePartID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	DeviceID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	RepairPartID uuid.UUID  `gorm:"type:uuid;not null"`
	Quantity     int        `gorm:"not null"`
	UsedBy       *uuid.UUID `gorm:"type:uuid"`
	Notes        string     `gorm:"type:text"`
	UsedAt       time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SparePartUsageModel) TableName() string {
	return "spare_part_usage"
}

// SparePartUsageModelFromDomain creates a persistence model from a usage row
func SparePartUsageModelFromDomain(u *inventory.SparePartUsage) *SparePartUsageModel {
	return &SparePartUsageModel{
		ID:           u.ID,
		TenantID:     u.TenantID,
		SparePartID:  u.SparePartID,
		DeviceID:     u.DeviceID,
		RepairPartID: u.RepairPartID,
		Quantity:     u.Quantity,
		UsedBy:       u.UsedBy,
		Notes:        u.Notes,
		UsedAt:       u.UsedAt,
	}
}
