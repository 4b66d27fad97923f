package customer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/customer"
	"github.com/lats/backend/internal/domain/sales"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PurchaseStatsHandler folds completed and refunded sales into the
// customer's spend, order count and loyalty points
type PurchaseStatsHandler struct {
	customerRepo customer.CustomerRepository
	logger       *zap.Logger
}

// NewPurchaseStatsHandler creates a new PurchaseStatsHandler
func NewPurchaseStatsHandler(customerRepo customer.CustomerRepository, logger *zap.Logger) *PurchaseStatsHandler {
	return &PurchaseStatsHandler{customerRepo: customerRepo, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseStatsHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleCompleted, sales.EventTypeSaleRefunded}
}

// Handle processes a sale event
func (h *PurchaseStatsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		customerID uuid.UUID
		apply      func(c *customer.Customer)
	)
	switch e := event.(type) {
	case *sales.SaleCompletedEvent:
		customerID = e.CustomerID
		apply = func(c *customer.Customer) { c.RecordPurchase(e.TotalAmount, e.SoldAt) }
	case *sales.SaleRefundedEvent:
		customerID = e.CustomerID
		apply = func(c *customer.Customer) { c.ReversePurchase(e.TotalAmount) }
	default:
		return fmt.Errorf("unexpected event type: %T", event)
	}
	if customerID == uuid.Nil {
		return nil
	}

	c, err := h.customerRepo.FindByIDForTenant(ctx, event.TenantID(), customerID)
	if err != nil {
		return fmt.Errorf("load customer %s: %w", customerID, err)
	}
	apply(c)
	if err := h.customerRepo.Save(ctx, c); err != nil {
		return fmt.Errorf("save customer %s: %w", customerID, err)
	}

	logger.Ctx(ctx, h.logger).Debug("Customer purchase stats updated",
		zap.String("customer_id", customerID.String()),
		zap.String("event_type", event.EventType()),
		zap.Int("total_orders", c.TotalOrders),
		zap.String("total_spent", c.TotalSpent.String()),
	)
	return nil
}

var _ shared.EventHandler = (*PurchaseStatsHandler)(nil)
