package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleCompleted = "SaleCompleted"
	EventTypeSaleRefunded  = "SaleRefunded"
)

// SaleItemInfo represents item information for events
type SaleItemInfo struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
}

func itemInfos(s *Sale) []SaleItemInfo {
	items := make([]SaleItemInfo, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemInfo{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		}
	}
	return items
}

// SaleCompletedEvent is raised when a sale is completed.
// Stock, receipts, customer stats and the thank-you message hang off it.
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID       `json:"sale_id"`
	SaleNumber    string          `json:"sale_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Items         []SaleItemInfo  `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	SoldBy        uuid.UUID       `json:"sold_by"`
	SoldAt        time.Time       `json:"sold_at"`
}

// NewSaleCompletedEvent creates a new SaleCompletedEvent
func NewSaleCompletedEvent(s *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSale, s.ID, s.TenantID),
		SaleID:          s.ID,
		SaleNumber:      s.SaleNumber,
		CustomerID:      s.CustomerID,
		CustomerName:    s.CustomerName,
		CustomerPhone:   s.CustomerPhone,
		Items:           itemInfos(s),
		TotalAmount:     s.TotalAmount,
		PaymentMethod:   s.PaymentMethodLabel(),
		SoldBy:          s.SoldBy,
		SoldAt:          s.SoldAt,
	}
}

// SaleRefundedEvent is raised when a completed sale is refunded
type SaleRefundedEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID       `json:"sale_id"`
	SaleNumber  string          `json:"sale_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Items       []SaleItemInfo  `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Reason      string          `json:"reason"`
}

// NewSaleRefundedEvent creates a new SaleRefundedEvent
func NewSaleRefundedEvent(s *Sale) *SaleRefundedEvent {
	return &SaleRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleRefunded, AggregateTypeSale, s.ID, s.TenantID),
		SaleID:          s.ID,
		SaleNumber:      s.SaleNumber,
		CustomerID:      s.CustomerID,
		Items:           itemInfos(s),
		TotalAmount:     s.TotalAmount,
		Reason:          s.RefundReason,
	}
}
