package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusFailed    SaleStatus = "failed"
	SaleStatusRefunded  SaleStatus = "refunded"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusPending, SaleStatusCompleted, SaleStatusFailed, SaleStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	switch s {
	case SaleStatusPending:
		return target == SaleStatusCompleted || target == SaleStatusFailed
	case SaleStatusCompleted:
		return target == SaleStatusRefunded
	}
	return false
}

// DiscountType is how a sale-level discount is expressed
type DiscountType string

const (
	DiscountNone       DiscountType = ""
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// BusinessDateLayout is the layout of Sale.BusinessDate
const BusinessDateLayout = "2006-01-02"

// SaleItem is one product line on a sale
type SaleItem struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	SKU         string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	CostPrice   decimal.Decimal
	Profit      decimal.Decimal
}

// Sale is a completed (or attempted) point-of-sale transaction
type Sale struct {
	shared.TenantAggregateRoot
	SaleNumber     string
	CustomerID     uuid.UUID
	CustomerName   string
	CustomerPhone  string
	Items          []SaleItem
	Payments       []Payment
	Subtotal       decimal.Decimal
	DiscountType   DiscountType
	DiscountValue  decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	CostTotal      decimal.Decimal
	Profit         decimal.Decimal
	Status         SaleStatus
	Notes          string
	SoldBy         uuid.UUID
	SoldAt         time.Time
	BusinessDate   string
	RefundedAt     *time.Time
	RefundReason   string
}

// NewSale starts a pending sale for a customer. BusinessDate is the calendar
// day of soldAt in loc.
func NewSale(tenantID, customerID uuid.UUID, customerName, customerPhone string, soldBy uuid.UUID, soldAt time.Time, loc *time.Location) (*Sale, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "A customer is required for every sale")
	}
	if loc == nil {
		loc = time.UTC
	}
	sale := &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleNumber:          GenerateSaleNumber(soldAt),
		CustomerID:          customerID,
		CustomerName:        customerName,
		CustomerPhone:       customerPhone,
		Items:               make([]SaleItem, 0),
		Payments:            make([]Payment, 0),
		Subtotal:            decimal.Zero,
		DiscountValue:       decimal.Zero,
		DiscountAmount:      decimal.Zero,
		TaxAmount:           decimal.Zero,
		TotalAmount:         decimal.Zero,
		CostTotal:           decimal.Zero,
		Profit:              decimal.Zero,
		Status:              SaleStatusPending,
		SoldBy:              soldBy,
		SoldAt:              soldAt,
		BusinessDate:        BusinessDate(soldAt, loc),
	}
	sale.SetCreatedBy(soldBy)
	return sale, nil
}

// BusinessDate returns the shop calendar day for an instant
func BusinessDate(at time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return at.In(loc).Format(BusinessDateLayout)
}

// ReceiptNumber returns the receipt number printed for this sale
func (s *Sale) ReceiptNumber() string {
	return ReceiptNumberFor(s.SaleNumber)
}

// ReceiptNumberFor derives a receipt number from a sale number
func ReceiptNumberFor(saleNumber string) string {
	return "RCP-" + saleNumber
}

// AddItem appends a product line
func (s *Sale) AddItem(productID uuid.UUID, name, sku string, quantity int, unitPrice, costPrice decimal.Decimal) error {
	if s.Status != SaleStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Items can only be added to a pending sale")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity for %s must be positive", name))
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Unit price for %s cannot be negative", name))
	}
	qty := decimal.NewFromInt(int64(quantity))
	total := unitPrice.Mul(qty)
	cost := costPrice.Mul(qty)
	s.Items = append(s.Items, SaleItem{
		ID:          uuid.New(),
		SaleID:      s.ID,
		ProductID:   productID,
		ProductName: name,
		SKU:         sku,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  total,
		CostPrice:   costPrice,
		Profit:      total.Sub(cost),
	})
	s.recalculate()
	return nil
}

// ApplyDiscount sets the sale discount. Percentages are capped at 100 and
// fixed amounts at the subtotal.
func (s *Sale) ApplyDiscount(discountType DiscountType, value decimal.Decimal) error {
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	switch discountType {
	case DiscountNone, DiscountFixed, DiscountPercentage:
	default:
		return shared.NewDomainError("INVALID_DISCOUNT", "Unknown discount type: "+string(discountType))
	}
	s.DiscountType = discountType
	s.DiscountValue = value
	s.recalculate()
	return nil
}

// SetTax overrides the tax amount
func (s *Sale) SetTax(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax cannot be negative")
	}
	s.TaxAmount = amount
	s.recalculate()
	return nil
}

// ApplyTaxRate sets tax as a percentage of the discounted subtotal
func (s *Sale) ApplyTaxRate(ratePercent decimal.Decimal) error {
	if ratePercent.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax rate cannot be negative")
	}
	base := valueobject.NewTZS(s.Subtotal.Sub(s.DiscountAmount))
	return s.SetTax(base.Percent(ratePercent).RoundShillings().Amount())
}

func (s *Sale) recalculate() {
	subtotal := decimal.Zero
	cost := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.TotalPrice)
		cost = cost.Add(item.CostPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	s.Subtotal = subtotal
	s.CostTotal = cost

	base := valueobject.NewTZS(subtotal)
	switch s.DiscountType {
	case DiscountPercentage:
		pct := decimal.Min(s.DiscountValue, decimal.NewFromInt(100))
		s.DiscountAmount = base.Percent(pct).RoundShillings().Amount()
	case DiscountFixed:
		s.DiscountAmount = valueobject.NewTZS(s.DiscountValue).Min(base).Amount()
	default:
		s.DiscountAmount = decimal.Zero
	}

	s.TotalAmount = subtotal.Sub(s.DiscountAmount).Add(s.TaxAmount)
	s.Profit = subtotal.Sub(s.DiscountAmount).Sub(cost)
}

// AddPayment records one tender against the sale
func (s *Sale) AddPayment(method PaymentMethod, amount decimal.Decimal, reference string) error {
	if s.Status != SaleStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Payments can only be added to a pending sale")
	}
	method = PaymentMethod(strings.ToLower(strings.TrimSpace(string(method))))
	if method == "" {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment method cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}
	s.Payments = append(s.Payments, Payment{
		ID:        uuid.New(),
		SaleID:    s.ID,
		Method:    method,
		Amount:    amount,
		Reference: reference,
	})
	return nil
}

// PaidAmount sums all payments
func (s *Sale) PaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// PaymentMethodLabel returns the single method, or "multiple" for split tenders
func (s *Sale) PaymentMethodLabel() PaymentMethod {
	methods := s.Methods()
	switch len(methods) {
	case 0:
		return ""
	case 1:
		return methods[0]
	}
	return PaymentMultiple
}

// Methods returns the distinct payment methods in payment order
func (s *Sale) Methods() []PaymentMethod {
	seen := make(map[PaymentMethod]bool, len(s.Payments))
	out := make([]PaymentMethod, 0, len(s.Payments))
	for _, p := range s.Payments {
		if !seen[p.Method] {
			seen[p.Method] = true
			out = append(out, p.Method)
		}
	}
	return out
}

// Complete validates the sale and marks it completed. With no payments the
// whole total is settled with defaultMethod.
func (s *Sale) Complete(defaultMethod PaymentMethod) error {
	if !s.Status.CanTransitionTo(SaleStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete sale in %s status", s.Status))
	}
	if len(s.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "A sale must contain at least one item")
	}
	if len(s.Payments) == 0 && s.TotalAmount.IsPositive() {
		if defaultMethod == "" {
			defaultMethod = PaymentCash
		}
		if err := s.AddPayment(defaultMethod, s.TotalAmount, ""); err != nil {
			return err
		}
	}
	if !s.PaidAmount().Equal(s.TotalAmount) {
		return shared.NewDomainError("PAYMENT_MISMATCH",
			fmt.Sprintf("Payments total %s but sale total is %s", s.PaidAmount().StringFixed(2), s.TotalAmount.StringFixed(2)))
	}

	s.Status = SaleStatusCompleted
	s.Touch()
	s.AddDomainEvent(NewSaleCompletedEvent(s))
	return nil
}

// Fail marks a pending sale failed
func (s *Sale) Fail(reason string) error {
	if !s.Status.CanTransitionTo(SaleStatusFailed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail sale in %s status", s.Status))
	}
	s.Status = SaleStatusFailed
	s.Notes = strings.TrimSpace(s.Notes + " " + reason)
	s.Touch()
	return nil
}

// Refund reverses a completed sale
func (s *Sale) Refund(reason string, at time.Time) error {
	if !s.Status.CanTransitionTo(SaleStatusRefunded) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot refund sale in %s status", s.Status))
	}
	s.Status = SaleStatusRefunded
	s.RefundReason = reason
	s.RefundedAt = &at
	s.Touch()
	s.AddDomainEvent(NewSaleRefundedEvent(s))
	return nil
}

// IsCompleted returns true if the sale counts towards takings
func (s *Sale) IsCompleted() bool {
	return s.Status == SaleStatusCompleted
}
