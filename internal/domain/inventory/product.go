package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is an item sold over the counter
type Product struct {
	shared.TenantAggregateRoot
	Stock
	Name         string
	SKU          string
	Category     string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	IsActive     bool
}

// NewProduct creates a new active product
func NewProduct(tenantID uuid.UUID, name, sku string, costPrice, sellingPrice decimal.Decimal, quantity int) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if err := validatePrices(costPrice, sellingPrice); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Stock:               Stock{Quantity: quantity},
		Name:                name,
		SKU:                 strings.TrimSpace(sku),
		CostPrice:           costPrice,
		SellingPrice:        sellingPrice,
		IsActive:            true,
	}, nil
}

// Decrease removes sold units and returns the movement to record
func (p *Product) Decrease(qty int, movementType MovementType, reference string) (*StockMovement, error) {
	if !p.IsActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Product is inactive")
	}
	prev, err := p.decrease(qty)
	if err != nil {
		return nil, err
	}
	p.Touch()
	return NewStockMovement(p.TenantID, ItemTypeProduct, p.ID, movementType, -qty, prev, p.Quantity, reference), nil
}

// Increase returns units to stock (restock or refund)
func (p *Product) Increase(qty int, movementType MovementType, reference string) (*StockMovement, error) {
	prev, err := p.increase(qty)
	if err != nil {
		return nil, err
	}
	p.Touch()
	return NewStockMovement(p.TenantID, ItemTypeProduct, p.ID, movementType, qty, prev, p.Quantity, reference), nil
}

// Deactivate hides the product from sale
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
}

func validatePrices(cost, price decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	return nil
}
