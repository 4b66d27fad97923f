package closing

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/closing"
	"github.com/shopspring/decimal"
)

// CloseDayInput finalizes a business day
type CloseDayInput struct {
	Date     string
	Passcode string
	Role     string
	UserID   uuid.UUID
}

// SetPasscodeInput sets or changes the closing passcode
type SetPasscodeInput struct {
	CurrentPasscode string
	NewPasscode     string
	UserID          uuid.UUID
}

// ClosureResponse represents a daily closure in API responses
type ClosureResponse struct {
	ID                uuid.UUID             `json:"id"`
	Date              string                `json:"date"`
	TotalSales        decimal.Decimal       `json:"total_sales"`
	TotalTransactions int                   `json:"total_transactions"`
	ByMethod          []closing.MethodTotal `json:"by_method"`
	SalesData         json.RawMessage       `json:"sales_data,omitempty"`
	ClosedAt          time.Time             `json:"closed_at"`
	ClosedBy          string                `json:"closed_by"`
	ClosedByUserID    uuid.UUID             `json:"closed_by_user_id"`
}

// ToClosureResponse converts a domain closure. The sales snapshot is only
// included when withSales is set.
func ToClosureResponse(c *closing.DailyClosure, withSales bool) ClosureResponse {
	resp := ClosureResponse{
		ID:                c.ID,
		Date:              c.Date,
		TotalSales:        c.TotalSales,
		TotalTransactions: c.TotalTransactions,
		ByMethod:          c.MethodTotals,
		ClosedAt:          c.ClosedAt,
		ClosedBy:          c.ClosedBy,
		ClosedByUserID:    c.ClosedByUserID,
	}
	if resp.ByMethod == nil {
		resp.ByMethod = []closing.MethodTotal{}
	}
	if withSales {
		resp.SalesData = c.SalesData
	}
	return resp
}

// PasscodeStatusResponse tells clients whether a passcode must be created first
type PasscodeStatusResponse struct {
	IsSet     bool       `json:"is_set"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
