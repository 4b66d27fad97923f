package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// SaleItemInput is one requested product line
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	// UnitPrice overrides the product's selling price when set
	UnitPrice *decimal.Decimal
}

// PaymentInput is one tender
type PaymentInput struct {
	Method    string
	Amount    decimal.Decimal
	Reference string
}

// ProcessSaleInput is a checkout submitted from the till
type ProcessSaleInput struct {
	CustomerID    uuid.UUID
	Items         []SaleItemInput
	Payments      []PaymentInput
	PaymentMethod string
	DiscountType  string
	DiscountValue decimal.Decimal
	// TaxAmount overrides the configured tax rate when set
	TaxAmount *decimal.Decimal
	Notes     string
	SoldBy    uuid.UUID
}

// RefundInput reverses a completed sale
type RefundInput struct {
	Reason string
	UserID uuid.UUID
}

// SaleItemResponse is a sale line in API responses
type SaleItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Profit      decimal.Decimal `json:"profit"`
}

// PaymentResponse is a tender in API responses
type PaymentResponse struct {
	Method      string          `json:"method"`
	DisplayName string          `json:"display_name"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID             uuid.UUID          `json:"id"`
	SaleNumber     string             `json:"sale_number"`
	ReceiptNumber  string             `json:"receipt_number"`
	CustomerID     uuid.UUID          `json:"customer_id"`
	CustomerName   string             `json:"customer_name"`
	CustomerPhone  string             `json:"customer_phone,omitempty"`
	Items          []SaleItemResponse `json:"items"`
	Payments       []PaymentResponse  `json:"payments"`
	PaymentMethod  string             `json:"payment_method"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountType   string             `json:"discount_type,omitempty"`
	DiscountValue  decimal.Decimal    `json:"discount_value"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	CostTotal      decimal.Decimal    `json:"cost_total"`
	Profit         decimal.Decimal    `json:"profit"`
	Status         string             `json:"status"`
	Notes          string             `json:"notes,omitempty"`
	SoldBy         uuid.UUID          `json:"sold_by"`
	SoldAt         time.Time          `json:"sold_at"`
	BusinessDate   string             `json:"business_date"`
	RefundedAt     *time.Time         `json:"refunded_at,omitempty"`
	RefundReason   string             `json:"refund_reason,omitempty"`
}

// ToSaleResponse converts a domain sale
func ToSaleResponse(s *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
			CostPrice:   it.CostPrice,
			Profit:      it.Profit,
		}
	}
	payments := make([]PaymentResponse, len(s.Payments))
	for i, p := range s.Payments {
		payments[i] = PaymentResponse{
			Method:      string(p.Method),
			DisplayName: p.Method.DisplayName(),
			Amount:      p.Amount,
			Reference:   p.Reference,
		}
	}
	return SaleResponse{
		ID:             s.ID,
		SaleNumber:     s.SaleNumber,
		ReceiptNumber:  s.ReceiptNumber(),
		CustomerID:     s.CustomerID,
		CustomerName:   s.CustomerName,
		CustomerPhone:  s.CustomerPhone,
		Items:          items,
		Payments:       payments,
		PaymentMethod:  string(s.PaymentMethodLabel()),
		Subtotal:       s.Subtotal,
		DiscountType:   string(s.DiscountType),
		DiscountValue:  s.DiscountValue,
		DiscountAmount: s.DiscountAmount,
		TaxAmount:      s.TaxAmount,
		TotalAmount:    s.TotalAmount,
		CostTotal:      s.CostTotal,
		Profit:         s.Profit,
		Status:         string(s.Status),
		Notes:          s.Notes,
		SoldBy:         s.SoldBy,
		SoldAt:         s.SoldAt,
		BusinessDate:   s.BusinessDate,
		RefundedAt:     s.RefundedAt,
		RefundReason:   s.RefundReason,
	}
}

// ReceiptResponse is a rendered receipt
type ReceiptResponse struct {
	ReceiptNumber string    `json:"receipt_number"`
	SaleID        uuid.UUID `json:"sale_id"`
	SaleNumber    string    `json:"sale_number"`
	CustomerName  string    `json:"customer_name"`
	HTML          string    `json:"html"`
	IssuedAt      time.Time `json:"issued_at"`
}

// SaleListFilter represents list query options. Dates are shop calendar
// days (YYYY-MM-DD).
type SaleListFilter struct {
	Search        string `form:"search"`
	From          string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To            string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Date          string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Status        string `form:"status" binding:"omitempty,oneof=pending completed failed refunded"`
	PaymentMethod string `form:"payment_method"`
	CustomerID    string `form:"customer_id" binding:"omitempty,uuid"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
