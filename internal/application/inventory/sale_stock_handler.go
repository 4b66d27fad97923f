package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/sales"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const maxMovementAttempts = 3

// SaleStockHandler follows sales on the product side. Sold units are taken
// off stock when the sale is recorded, so a completed sale only raises
// low-stock warnings; a refund puts the units back.
type SaleStockHandler struct {
	productRepo inventory.ProductRepository
	logger      *zap.Logger
}

// NewSaleStockHandler creates a new SaleStockHandler
func NewSaleStockHandler(productRepo inventory.ProductRepository, logger *zap.Logger) *SaleStockHandler {
	return &SaleStockHandler{productRepo: productRepo, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *SaleStockHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleCompleted, sales.EventTypeSaleRefunded}
}

// Handle processes a sale event
func (h *SaleStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *sales.SaleCompletedEvent:
		return h.warnLow(ctx, e.TenantID(), e.SaleNumber, e.Items)
	case *sales.SaleRefundedEvent:
		return h.restock(ctx, e.TenantID(), e.SaleNumber, e.Items)
	default:
		return fmt.Errorf("unexpected event type: %T", event)
	}
}

func (h *SaleStockHandler) warnLow(ctx context.Context, tenantID uuid.UUID, reference string, items []sales.SaleItemInfo) error {
	log := logger.Ctx(ctx, h.logger).With(zap.String("sale_number", reference))
	var errs []error
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			continue
		}
		product, err := h.productRepo.FindByIDForTenant(ctx, tenantID, item.ProductID)
		if err != nil {
			errs = append(errs, fmt.Errorf("product %s: %w", item.ProductID, err))
			continue
		}
		if product.IsLow() {
			log.Warn("Product stock low",
				zap.String("product_id", product.ID.String()),
				zap.String("product_name", product.Name),
				zap.Int("quantity", product.Quantity),
				zap.Int("min_quantity", product.MinQuantity),
			)
		}
	}
	return errors.Join(errs...)
}

func (h *SaleStockHandler) restock(ctx context.Context, tenantID uuid.UUID, reference string, items []sales.SaleItemInfo) error {
	log := logger.Ctx(ctx, h.logger).With(zap.String("sale_number", reference))

	var errs []error
	for _, item := range items {
		if item.ProductID == uuid.Nil || item.Quantity <= 0 {
			continue
		}
		if err := h.move(ctx, tenantID, item, reference); err != nil {
			log.Error("Failed to restock refunded item",
				zap.String("product_id", item.ProductID.String()),
				zap.Int("quantity", item.Quantity),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("product %s: %w", item.ProductID, err))
		}
	}
	return errors.Join(errs...)
}

// move reloads and retries when another sale changed the same product
// between the read and the conditional update.
func (h *SaleStockHandler) move(ctx context.Context, tenantID uuid.UUID, item sales.SaleItemInfo, reference string) error {
	var lastErr error
	for attempt := 0; attempt < maxMovementAttempts; attempt++ {
		product, err := h.productRepo.FindByIDForTenant(ctx, tenantID, item.ProductID)
		if err != nil {
			return err
		}
		movement, err := product.Increase(item.Quantity, inventory.MovementRefund, reference)
		if err != nil {
			return err
		}
		lastErr = h.productRepo.ApplyMovement(ctx, product, movement)
		if lastErr == nil || !errors.Is(lastErr, shared.ErrConcurrencyConflict) {
			return lastErr
		}
	}
	return lastErr
}

var _ shared.EventHandler = (*SaleStockHandler)(nil)
