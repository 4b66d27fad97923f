package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate
type SaleModel struct {
	TenantAggregateModel
	SaleNumber     string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_sales_tenant_number,priority:2"`
	CustomerID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	CustomerName   string             `gorm:"type:varchar(200)"`
	CustomerPhone  string             `gorm:"type:varchar(50)"`
	Subtotal       decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountType   sales.DiscountType `gorm:"type:varchar(20)"`
	DiscountValue  decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount    decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	CostTotal      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Profit         decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentMethod  string             `gorm:"type:varchar(50);index"`
	Status         sales.SaleStatus   `gorm:"type:varchar(20);not null;index"`
	Notes          string             `gorm:"type:text"`
	SoldBy         uuid.UUID          `gorm:"type:uuid;not null"`
	SoldAt         time.Time          `gorm:"not null;index"`
	BusinessDate   string             `gorm:"type:varchar(10);not null;index"`
	RefundedAt     *time.Time
	RefundReason   string             `gorm:"type:varchar(500)"`
	Items          []SaleItemModel    `gorm:"foreignKey:SaleID;references:ID"`
	Payments       []SalePaymentModel `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *sales.Sale {
	s := &sales.Sale{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		SaleNumber:          m.SaleNumber,
		CustomerID:          m.CustomerID,
		CustomerName:        m.CustomerName,
		CustomerPhone:       m.CustomerPhone,
		Subtotal:            m.Subtotal,
		DiscountType:        m.DiscountType,
		DiscountValue:       m.DiscountValue,
		DiscountAmount:      m.DiscountAmount,
		TaxAmount:           m.TaxAmount,
		TotalAmount:         m.TotalAmount,
		CostTotal:           m.CostTotal,
		Profit:              m.Profit,
		Status:              m.Status,
		Notes:               m.Notes,
		SoldBy:              m.SoldBy,
		SoldAt:              m.SoldAt,
		BusinessDate:        m.BusinessDate,
		RefundedAt:          m.RefundedAt,
		RefundReason:        m.RefundReason,
		Items:               make([]sales.SaleItem, len(m.Items)),
		Payments:            make([]sales.Payment, len(m.Payments)),
	}
	for i := range m.Items {
		s.Items[i] = m.Items[i].ToDomain()
	}
	for i := range m.Payments {
		s.Payments[i] = m.Payments[i].ToDomain()
	}
	return s
}

// FromDomain populates the persistence model from a domain Sale. The
// denormalized payment_method column holds the single method or "multiple".
func (m *SaleModel) FromDomain(s *sales.Sale) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.SaleNumber = s.SaleNumber
	m.CustomerID = s.CustomerID
	m.CustomerName = s.CustomerName
	m.CustomerPhone = s.CustomerPhone
	m.Subtotal = s.Subtotal
	m.DiscountType = s.DiscountType
	m.DiscountValue = s.DiscountValue
	m.DiscountAmount = s.DiscountAmount
	m.TaxAmount = s.TaxAmount
	m.TotalAmount = s.TotalAmount
	m.CostTotal = s.CostTotal
	m.Profit = s.Profit
	m.PaymentMethod = string(s.PaymentMethodLabel())
	m.Status = s.Status
	m.Notes = s.Notes
	m.SoldBy = s.SoldBy
	m.SoldAt = s.SoldAt
	m.BusinessDate = s.BusinessDate
	m.RefundedAt = s.RefundedAt
	m.RefundReason = s.RefundReason

	m.Items = make([]SaleItemModel, len(s.Items))
	for i := range s.Items {
		m.Items[i].FromDomain(s.TenantID, &s.Items[i])
	}
	m.Payments = make([]SalePaymentModel, len(s.Payments))
	for i := range s.Payments {
		m.Payments[i].FromDomain(s.TenantID, &s.Payments[i])
	}
}

// SaleModelFromDomain creates a new persistence model from a domain Sale
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// SaleItemModel is a sale line
type SaleItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	SKU         string          `gorm:"column:sku;type:varchar(100)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Profit      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain SaleItem
func (m *SaleItemModel) ToDomain() sales.SaleItem {
	return sales.SaleItem{
		ID:          m.ID,
		SaleID:      m.SaleID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		SKU:         m.SKU,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TotalPrice:  m.TotalPrice,
		CostPrice:   m.CostPrice,
		Profit:      m.Profit,
	}
}

// FromDomain populates the persistence model from a domain SaleItem
func (m *SaleItemModel) FromDomain(tenantID uuid.UUID, it *sales.SaleItem) {
	m.ID = it.ID
	m.TenantID = tenantID
	m.SaleID = it.SaleID
	m.ProductID = it.ProductID
	m.ProductName = it.ProductName
	m.SKU = it.SKU
	m.Quantity = it.Quantity
	m.UnitPrice = it.UnitPrice
	m.TotalPrice = it.TotalPrice
	m.CostPrice = it.CostPrice
	m.Profit = it.Profit
}

// SalePaymentModel is one tender applied to a sale
type SalePaymentModel struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	SaleID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Method    sales.PaymentMethod `gorm:"type:varchar(50);not null"`
	Amount    decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Reference string              `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (SalePaymentModel) TableName() string {
	return "sale_payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *SalePaymentModel) ToDomain() sales.Payment {
	return sales.Payment{
		ID:        m.ID,
		SaleID:    m.SaleID,
		Method:    m.Method,
		Amount:    m.Amount,
		Reference: m.Reference,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *SalePaymentModel) FromDomain(tenantID uuid.UUID, p *sales.Payment) {
	m.ID = p.ID
	m.TenantID = tenantID
	m.SaleID = p.SaleID
	m.Method = p.Method
	m.Amount = p.Amount
	m.Reference = p.Reference
}

// ReceiptModel stores the receipt snapshot written when a sale completes
type ReceiptModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SaleID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ReceiptNumber string    `gorm:"type:varchar(60);not null"`
	CustomerName  string    `gorm:"type:varchar(200)"`
	Content       []byte    `gorm:"type:jsonb"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the persistence model to a domain Receipt
func (m *ReceiptModel) ToDomain() *sales.Receipt {
	return &sales.Receipt{
		ID:            m.ID,
		TenantID:      m.TenantID,
		SaleID:        m.SaleID,
		ReceiptNumber: m.ReceiptNumber,
		CustomerName:  m.CustomerName,
		Content:       m.Content,
		CreatedAt:     m.CreatedAt,
	}
}

// ReceiptModelFromDomain creates a persistence model from a domain Receipt
func ReceiptModelFromDomain(r *sales.Receipt) *ReceiptModel {
	return &ReceiptModel{
		ID:            r.ID,
		TenantID:      r.TenantID,
		SaleID:        r.SaleID,
		ReceiptNumber: r.ReceiptNumber,
		CustomerName:  r.CustomerName,
		Content:       r.Content,
		CreatedAt:     r.CreatedAt,
	}
}
