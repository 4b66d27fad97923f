package whatsapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/lats/backend/internal/domain/sales"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ThankYouHandler queues a thank-you message to the customer after a sale
type ThankYouHandler struct {
	messages *MessageService
	template string
	currency string
	logger   *zap.Logger
}

// NewThankYouHandler creates a handler that renders templateName
func NewThankYouHandler(messages *MessageService, templateName, currency string, logger *zap.Logger) *ThankYouHandler {
	return &ThankYouHandler{
		messages: messages,
		template: templateName,
		currency: currency,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ThankYouHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleCompleted}
}

// Handle queues the message. A shop without an instance, a template or a
// usable phone number is skipped, never retried.
func (h *ThankYouHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*sales.SaleCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %T", event)
	}
	log := logger.Ctx(ctx, h.logger).With(zap.String("sale_number", e.SaleNumber))
	if e.CustomerPhone == "" {
		return nil
	}

	_, err := h.messages.Send(ctx, e.TenantID(), SendMessageInput{
		To:           e.CustomerPhone,
		TemplateName: h.template,
		Variables: map[string]string{
			"name":           e.CustomerName,
			"sale_number":    e.SaleNumber,
			"receipt_number": sales.ReceiptNumberFor(e.SaleNumber),
			"total":          e.TotalAmount.StringFixed(2),
			"currency":       h.currency,
		},
	})
	if err == nil {
		log.Debug("Thank-you message queued")
		return nil
	}

	var de *shared.DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case "INSTANCE_NOT_FOUND", "TEMPLATE_NOT_FOUND", "INVALID_PHONE", "MISSING_VARIABLES", "INVALID_STATE":
			log.Info("Thank-you message skipped", zap.String("reason", de.Message))
			return nil
		}
	}
	return fmt.Errorf("queue thank-you message: %w", err)
}

var _ shared.EventHandler = (*ThankYouHandler)(nil)
