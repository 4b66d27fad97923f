package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Quantity     int             `json:"quantity"`
	MinQuantity  int             `json:"min_quantity"`
	IsLowStock   bool            `json:"is_low_stock"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product
func ToProductResponse(p *inventory.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		TenantID:     p.TenantID,
		Name:         p.Name,
		SKU:          p.SKU,
		Category:     p.Category,
		CostPrice:    p.CostPrice,
		SellingPrice: p.SellingPrice,
		Quantity:     p.Quantity,
		MinQuantity:  p.MinQuantity,
		IsLowStock:   p.IsLow(),
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// SparePartResponse represents a spare part in API responses
type SparePartResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Name         string          `json:"name"`
	PartNumber   string          `json:"part_number"`
	Category     string          `json:"category,omitempty"`
	Brand        string          `json:"brand,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Quantity     int             `json:"quantity"`
	MinQuantity  int             `json:"min_quantity"`
	IsLowStock   bool            `json:"is_low_stock"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToSparePartResponse converts a domain spare part
func ToSparePartResponse(s *inventory.SparePart) SparePartResponse {
	return SparePartResponse{
		ID:           s.ID,
		TenantID:     s.TenantID,
		Name:         s.Name,
		PartNumber:   s.PartNumber,
		Category:     s.Category,
		Brand:        s.Brand,
		CostPrice:    s.CostPrice,
		SellingPrice: s.SellingPrice,
		Quantity:     s.Quantity,
		MinQuantity:  s.MinQuantity,
		IsLowStock:   s.IsLow(),
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// MovementResponse is one stock ledger line
type MovementResponse struct {
	ID               uuid.UUID  `json:"id"`
	ItemType         string     `json:"item_type"`
	ItemID           uuid.UUID  `json:"item_id"`
	MovementType     string     `json:"movement_type"`
	Quantity         int        `json:"quantity"`
	PreviousQuantity int        `json:"previous_quantity"`
	NewQuantity      int        `json:"new_quantity"`
	Reason           string     `json:"reason,omitempty"`
	Reference        string     `json:"reference,omitempty"`
	CreatedBy        *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToMovementResponse converts a stock movement
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:               m.ID,
		ItemType:         string(m.ItemType),
		ItemID:           m.ItemID,
		MovementType:     string(m.MovementType),
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reason:           m.Reason,
		Reference:        m.Reference,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
	}
}

// CreateProductInput creates a product
type CreateProductInput struct {
	Name         string
	SKU          string
	Category     string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	Quantity     int
	MinQuantity  int
}

// CreateSparePartInput creates a spare part
type CreateSparePartInput struct {
	Name         string
	PartNumber   string
	Category     string
	Brand        string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	Quantity     int
	MinQuantity  int
}

// AdjustStockInput is a signed manual correction. Positive deltas on a
// product are recorded as a restock.
type AdjustStockInput struct {
	Delta  int
	Reason string
	UserID uuid.UUID
}

// ListFilter represents list query options for products and spare parts
type ListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ListFilter) toShared() shared.Filter {
	out := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if f.Category != "" {
		out.Filters["category"] = f.Category
	}
	if f.Active != nil {
		out.Filters["is_active"] = *f.Active
	}
	return out.Normalize()
}
