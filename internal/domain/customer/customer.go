package customer

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PointsPerAmount is the spend that earns one loyalty point
var PointsPerAmount = decimal.NewFromInt(1000)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Customer is a walk-in or repeat shop customer
type Customer struct {
	shared.TenantAggregateRoot
	Name          string
	Phone         string
	Email         string
	TotalSpent    decimal.Decimal
	TotalOrders   int
	LoyaltyPoints int
	LastVisit     *time.Time
	Notes         string
}

// NewCustomer creates a new customer
func NewCustomer(tenantID uuid.UUID, name, phone, email string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Phone:               strings.TrimSpace(phone),
		Email:               email,
		TotalSpent:          decimal.Zero,
	}
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// RecordPurchase folds a completed sale into the customer's statistics
func (c *Customer) RecordPurchase(total decimal.Decimal, at time.Time) {
	c.TotalSpent = c.TotalSpent.Add(total)
	c.TotalOrders++
	c.LoyaltyPoints += int(total.Div(PointsPerAmount).Floor().IntPart())
	c.LastVisit = &at
	c.Touch()
	c.IncrementVersion()
}

// ReversePurchase undoes RecordPurchase for a refunded sale
func (c *Customer) ReversePurchase(total decimal.Decimal) {
	c.TotalSpent = decimal.Max(decimal.Zero, c.TotalSpent.Sub(total))
	if c.TotalOrders > 0 {
		c.TotalOrders--
	}
	c.LoyaltyPoints -= int(total.Div(PointsPerAmount).Floor().IntPart())
	if c.LoyaltyPoints < 0 {
		c.LoyaltyPoints = 0
	}
	c.Touch()
	c.IncrementVersion()
}

// HasPhone reports whether the customer can receive WhatsApp messages
func (c *Customer) HasPhone() bool {
	return c.Phone != ""
}
