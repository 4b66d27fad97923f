package inventory

import (
	"fmt"

	"github.com/lats/backend/internal/domain/shared"
)

// Stock tracks on-hand units for a sellable or consumable item
type Stock struct {
	Quantity    int
	MinQuantity int
}

// CanFulfil reports whether qty units are available
func (s Stock) CanFulfil(qty int) bool {
	return qty > 0 && s.Quantity >= qty
}

// IsLow reports whether stock has reached the reorder level
func (s Stock) IsLow() bool {
	return s.Quantity <= s.MinQuantity
}

// decrease removes qty units and returns the quantity before the change
func (s *Stock) decrease(qty int) (int, error) {
	if qty <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if s.Quantity < qty {
		return 0, shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock: %d available, %d requested", s.Quantity, qty))
	}
	prev := s.Quantity
	s.Quantity -= qty
	return prev, nil
}

// increase adds qty units and returns the quantity before the change
func (s *Stock) increase(qty int) (int, error) {
	if qty <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	prev := s.Quantity
	s.Quantity += qty
	return prev, nil
}
