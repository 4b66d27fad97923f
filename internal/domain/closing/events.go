package closing

import (
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeDailyClosure = "DailyClosure"

// Event type constants
const (
	EventTypeDailyClosed = "DailyClosed"
)

// DailyClosedEvent is raised when a business day is closed
type DailyClosedEvent struct {
	shared.BaseDomainEvent
	Date              string          `json:"date"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalTransactions int             `json:"total_transactions"`
	ClosedBy          string          `json:"closed_by"`
}

// NewDailyClosedEvent creates a new DailyClosedEvent
func NewDailyClosedEvent(c *DailyClosure) *DailyClosedEvent {
	return &DailyClosedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeDailyClosed, AggregateTypeDailyClosure, c.ID, c.TenantID),
		Date:              c.Date,
		TotalSales:        c.TotalSales,
		TotalTransactions: c.TotalTransactions,
		ClosedBy:          c.ClosedBy,
	}
}
