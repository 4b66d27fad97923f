package sales

import (
	"time"

	"github.com/google/uuid"
)

// Receipt is the printable record issued for a completed sale
type Receipt struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	SaleID        uuid.UUID
	ReceiptNumber string
	CustomerName  string
	Content       []byte // JSON snapshot of the sale at completion
	CreatedAt     time.Time
}
