package models

import (
	"time"

	"github.com/lats/backend/internal/domain/customer"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for customers
type CustomerModel struct {
	TenantAggregateModel
	Name          string          `gorm:"type:varchar(200);not null"`
	Phone         string          `gorm:"type:varchar(50);index"`
	Email         string          `gorm:"type:varchar(200)"`
	TotalSpent    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalOrders   int             `gorm:"not null;default:0"`
	LoyaltyPoints int             `gorm:"not null;default:0"`
	LastVisit     *time.Time
	Notes         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *customer.Customer {
	return &customer.Customer{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Phone:               m.Phone,
		Email:               m.Email,
		TotalSpent:          m.TotalSpent,
		TotalOrders:         m.TotalOrders,
		LoyaltyPoints:       m.LoyaltyPoints,
		LastVisit:           m.LastVisit,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Phone = c.Phone
	m.Email = c.Email
	m.TotalSpent = c.TotalSpent
	m.TotalOrders = c.TotalOrders
	m.LoyaltyPoints = c.LoyaltyPoints
	m.LastVisit = c.LastVisit
	m.Notes = c.Notes
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
