package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
)

// SaleFilter narrows sale listings
type SaleFilter struct {
	shared.Filter
	From          *time.Time
	To            *time.Time
	BusinessDate  string
	Status        SaleStatus
	PaymentMethod PaymentMethod
	CustomerID    *uuid.UUID
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// Save creates or updates a sale with its items and payments in one transaction
	Save(ctx context.Context, sale *Sale) error

	// Record stores a new sale and decrements product stock for its lines
	// atomically. It returns shared.ErrInsufficientStock, writing nothing,
	// when a line is no longer covered.
	Record(ctx context.Context, sale *Sale) error

	// FindByIDForTenant finds a sale (with items and payments) by ID
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)

	// FindBySaleNumber finds a sale by its sale number
	FindBySaleNumber(ctx context.Context, tenantID uuid.UUID, saleNumber string) (*Sale, error)

	// FindAllForTenant lists sales matching the filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter SaleFilter) ([]Sale, error)

	// CountForTenant counts sales matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter SaleFilter) (int64, error)

	// FindByBusinessDate returns every sale on a business day, oldest first
	FindByBusinessDate(ctx context.Context, tenantID uuid.UUID, businessDate string) ([]Sale, error)
}

// ReceiptRepository persists receipts
type ReceiptRepository interface {
	Save(ctx context.Context, receipt *Receipt) error
	FindBySaleID(ctx context.Context, tenantID, saleID uuid.UUID) (*Receipt, error)
}
