package closing

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/sales"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DailyClosure finalizes one business day for a shop
type DailyClosure struct {
	shared.TenantAggregateRoot
	Date              string
	TotalSales        decimal.Decimal
	TotalTransactions int
	MethodTotals      []MethodTotal
	SalesData         json.RawMessage
	ClosedAt          time.Time
	ClosedBy          string // role of the closer
	ClosedByUserID    uuid.UUID
}

// SaleSnapshot is the per-sale row stored in DailyClosure.SalesData
type SaleSnapshot struct {
	SaleNumber    string          `json:"sale_number"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	SoldAt        time.Time       `json:"sold_at"`
	Status        string          `json:"status"`
}

// NewDailyClosure closes a day from its summary and sales
func NewDailyClosure(tenantID uuid.UUID, summary DailySummary, daySales []sales.Sale, closedByRole string, closedByUserID uuid.UUID, at time.Time) (*DailyClosure, error) {
	if _, err := time.Parse(sales.BusinessDateLayout, summary.Date); err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Closing date must be YYYY-MM-DD")
	}

	snapshots := make([]SaleSnapshot, 0, len(daySales))
	for _, s := range daySales {
		snapshots = append(snapshots, SaleSnapshot{
			SaleNumber:    s.SaleNumber,
			CustomerName:  s.CustomerName,
			TotalAmount:   s.TotalAmount,
			PaymentMethod: string(s.PaymentMethodLabel()),
			SoldAt:        s.SoldAt,
			Status:        string(s.Status),
		})
	}
	data, err := json.Marshal(snapshots)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_INPUT", "Failed to snapshot sales", err)
	}

	c := &DailyClosure{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Date:                summary.Date,
		TotalSales:          summary.TotalSales,
		TotalTransactions:   summary.TransactionCount,
		MethodTotals:        summary.ByMethod,
		SalesData:           data,
		ClosedAt:            at,
		ClosedBy:            closedByRole,
		ClosedByUserID:      closedByUserID,
	}
	c.SetCreatedBy(closedByUserID)
	c.AddDomainEvent(NewDailyClosedEvent(c))
	return c, nil
}

// DayStatus reports whether a day is open or closed
type DayStatus struct {
	Date           string     `json:"date"`
	IsClosed       bool       `json:"is_closed"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	ClosedBy       string     `json:"closed_by,omitempty"`
	ClosedByUserID *uuid.UUID `json:"closed_by_user_id,omitempty"`
}

// StatusOf derives a day status from an optional closure
func StatusOf(date string, c *DailyClosure) DayStatus {
	if c == nil {
		return DayStatus{Date: date}
	}
	closedAt := c.ClosedAt
	userID := c.ClosedByUserID
	return DayStatus{
		Date:           date,
		IsClosed:       true,
		ClosedAt:       &closedAt,
		ClosedBy:       c.ClosedBy,
		ClosedByUserID: &userID,
	}
}
