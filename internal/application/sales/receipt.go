package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/sales"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ReceiptRenderer renders printable receipts
type ReceiptRenderer interface {
	HTML(sale *sales.Sale) (string, error)
	PDF(ctx context.Context, sale *sales.Sale) ([]byte, error)
	PDFEnabled() bool
}

var errPDFDisabled = shared.NewDomainError("PDF_UNAVAILABLE", "PDF receipts are not enabled")

// Receipt renders the receipt of a sale. The issue time comes from the
// stored receipt record when the completion handler has already run.
func (s *SaleService) Receipt(ctx context.Context, tenantID, saleID uuid.UUID) (*ReceiptResponse, error) {
	if s.renderer == nil {
		return nil, shared.NewDomainError("RECEIPT_UNAVAILABLE", "Receipt rendering is not configured")
	}
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	html, err := s.renderer.HTML(sale)
	if err != nil {
		return nil, err
	}

	issuedAt := sale.SoldAt
	rec, err := s.receiptRepo.FindBySaleID(ctx, tenantID, saleID)
	switch {
	case err == nil:
		issuedAt = rec.CreatedAt
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	return &ReceiptResponse{
		ReceiptNumber: sale.ReceiptNumber(),
		SaleID:        sale.ID,
		SaleNumber:    sale.SaleNumber,
		CustomerName:  sale.CustomerName,
		HTML:          html,
		IssuedAt:      issuedAt,
	}, nil
}

// ReceiptPDF renders the receipt as PDF and returns it with its file name
func (s *SaleService) ReceiptPDF(ctx context.Context, tenantID, saleID uuid.UUID) ([]byte, string, error) {
	if s.renderer == nil || !s.renderer.PDFEnabled() {
		return nil, "", errPDFDisabled
	}
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, "", err
	}
	data, err := s.renderer.PDF(ctx, sale)
	if err != nil {
		logger.Ctx(ctx, s.logger).Error("Receipt PDF rendering failed",
			zap.String("sale_id", saleID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}
	return data, sale.ReceiptNumber() + ".pdf", nil
}

// ReceiptHandler stores a receipt record for every completed sale
type ReceiptHandler struct {
	saleRepo    sales.SaleRepository
	receiptRepo sales.ReceiptRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(saleRepo sales.SaleRepository, receiptRepo sales.ReceiptRepository, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{saleRepo: saleRepo, receiptRepo: receiptRepo, logger: logger, now: time.Now}
}

// EventTypes returns the event types this handler is interested in
func (h *ReceiptHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleCompleted}
}

// Handle snapshots the sale into a receipt
func (h *ReceiptHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*sales.SaleCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %T", event)
	}

	sale, err := h.saleRepo.FindByIDForTenant(ctx, e.TenantID(), e.SaleID)
	if err != nil {
		return fmt.Errorf("load sale %s: %w", e.SaleID, err)
	}
	content, err := json.Marshal(ToSaleResponse(sale))
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}

	receipt := &sales.Receipt{
		ID:            uuid.New(),
		TenantID:      sale.TenantID,
		SaleID:        sale.ID,
		ReceiptNumber: sale.ReceiptNumber(),
		CustomerName:  sale.CustomerName,
		Content:       content,
		CreatedAt:     h.now(),
	}
	if err := h.receiptRepo.Save(ctx, receipt); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("save receipt: %w", err)
	}
	logger.Ctx(ctx, h.logger).Debug("Receipt created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("receipt_number", receipt.ReceiptNumber),
	)
	return nil
}

var _ shared.EventHandler = (*ReceiptHandler)(nil)
