package sales

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PaymentMethod is a tender slug. Shops may define their own slugs beyond
// the well known ones.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentMobileMoney  PaymentMethod = "mobile_money"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCredit       PaymentMethod = "credit"
	PaymentMultiple     PaymentMethod = "multiple"
)

var titleCaser = cases.Title(language.English)

// DisplayName turns a slug into a label, e.g. mobile_money -> Mobile Money
func (m PaymentMethod) DisplayName() string {
	if m == "" {
		return "Unknown"
	}
	return titleCaser.String(strings.ReplaceAll(string(m), "_", " "))
}

// Payment is one tender applied to a sale
type Payment struct {
	ID        uuid.UUID
	SaleID    uuid.UUID
	Method    PaymentMethod
	Amount    decimal.Decimal
	Reference string
}
