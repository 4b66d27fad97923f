package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/customer"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest creates a customer
type CreateCustomerRequest struct {
	Name  string
	Phone string
	Email string
	Notes string
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	TotalOrders   int             `json:"total_orders"`
	LoyaltyPoints int             `json:"loyalty_points"`
	LastVisit     *time.Time      `json:"last_visit,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToCustomerResponse converts a domain customer
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Email:         c.Email,
		TotalSpent:    c.TotalSpent,
		TotalOrders:   c.TotalOrders,
		LoyaltyPoints: c.LoyaltyPoints,
		LastVisit:     c.LastVisit,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
	}
}

// CustomerListFilter represents list query options
type CustomerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f CustomerListFilter) toShared() shared.Filter {
	return shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
	}.Normalize()
}
