package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SparePart is a component consumed by device repairs
type SparePart struct {
	shared.TenantAggregateRoot
	Stock
	Name         string
	PartNumber   string
	Category     string
	Brand        string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	IsActive     bool
}

// NewSparePart creates a new active spare part
func NewSparePart(tenantID uuid.UUID, name, partNumber string, costPrice, sellingPrice decimal.Decimal, quantity, minQuantity int) (*SparePart, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Spare part name cannot be empty")
	}
	if err := validatePrices(costPrice, sellingPrice); err != nil {
		return nil, err
	}
	if quantity < 0 || minQuantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}
	return &SparePart{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Stock:               Stock{Quantity: quantity, MinQuantity: minQuantity},
		Name:                name,
		PartNumber:          strings.TrimSpace(partNumber),
		CostPrice:           costPrice,
		SellingPrice:        sellingPrice,
		IsActive:            true,
	}, nil
}

// Consume removes qty units for a repair and returns the movement to record
func (s *SparePart) Consume(qty int, reference string) (*StockMovement, error) {
	prev, err := s.decrease(qty)
	if err != nil {
		return nil, err
	}
	s.Touch()
	return NewStockMovement(s.TenantID, ItemTypeSparePart, s.ID, MovementRepairUsage, -qty, prev, s.Quantity, reference), nil
}

// Adjust applies a signed manual correction
func (s *SparePart) Adjust(delta int, reason string) (*StockMovement, error) {
	var (
		prev int
		err  error
	)
	switch {
	case delta > 0:
		prev, err = s.increase(delta)
	case delta < 0:
		prev, err = s.decrease(-delta)
	default:
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment cannot be zero")
	}
	if err != nil {
		return nil, err
	}
	s.Touch()
	m := NewStockMovement(s.TenantID, ItemTypeSparePart, s.ID, MovementAdjustment, delta, prev, s.Quantity, "")
	m.Reason = reason
	return m, nil
}
