package sales

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dar = time.FixedZone("EAT", 3*3600)

func newTestSale(t *testing.T) *Sale {
	t.Helper()
	sale, err := NewSale(uuid.New(), uuid.New(), "Asha", "+255712000111", uuid.New(), time.Date(2024, 3, 1, 22, 30, 0, 0, time.UTC), dar)
	require.NoError(t, err)
	return sale
}

func TestNewSale(t *testing.T) {
	sale := newTestSale(t)
	assert.Equal(t, SaleStatusPending, sale.Status)
	assert.Equal(t, "2024-03-02", sale.BusinessDate, "22:30 UTC is the next day in Dar es Salaam")
	assert.Regexp(t, regexp.MustCompile(`^SALE-\d{8}-[A-Z0-9]{4}$`), sale.SaleNumber)
	assert.Equal(t, "RCP-"+sale.SaleNumber, sale.ReceiptNumber())

	_, err := NewSale(uuid.New(), uuid.Nil, "", "", uuid.New(), time.Now(), nil)
	require.Error(t, err)
}

func TestSale_Totals(t *testing.T) {
	sale := newTestSale(t)
	require.NoError(t, sale.AddItem(uuid.New(), "Charger", "CHG", 2, decimal.NewFromInt(10000), decimal.NewFromInt(6000)))
	require.NoError(t, sale.AddItem(uuid.New(), "Case", "CS", 1, decimal.NewFromInt(5000), decimal.NewFromInt(2000)))

	assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(25000)))
	assert.True(t, sale.CostTotal.Equal(decimal.NewFromInt(14000)))
	assert.True(t, sale.Profit.Equal(decimal.NewFromInt(11000)))

	t.Run("percentage discount capped at 100", func(t *testing.T) {
		require.NoError(t, sale.ApplyDiscount(DiscountPercentage, decimal.NewFromInt(150)))
		assert.True(t, sale.DiscountAmount.Equal(decimal.NewFromInt(25000)))
		assert.True(t, sale.TotalAmount.IsZero())
	})

	t.Run("fixed discount capped at subtotal", func(t *testing.T) {
		require.NoError(t, sale.ApplyDiscount(DiscountFixed, decimal.NewFromInt(40000)))
		assert.True(t, sale.DiscountAmount.Equal(decimal.NewFromInt(25000)))
	})

	t.Run("percentage discount and tax rate", func(t *testing.T) {
		require.NoError(t, sale.ApplyDiscount(DiscountPercentage, decimal.NewFromInt(10)))
		require.NoError(t, sale.ApplyTaxRate(decimal.NewFromInt(18)))
		assert.True(t, sale.DiscountAmount.Equal(decimal.NewFromInt(2500)))
		assert.True(t, sale.TaxAmount.Equal(decimal.NewFromInt(4050)))
		assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(26550)))
		assert.True(t, sale.Profit.Equal(decimal.NewFromInt(8500)))
	})

	t.Run("computed amounts are whole shillings", func(t *testing.T) {
		odd := newTestSale(t)
		require.NoError(t, odd.AddItem(uuid.New(), "Cable", "CBL", 1, decimal.NewFromInt(999), decimal.NewFromInt(500)))
		require.NoError(t, odd.ApplyDiscount(DiscountPercentage, decimal.RequireFromString("7.5")))
		require.NoError(t, odd.ApplyTaxRate(decimal.NewFromInt(18)))
		assert.True(t, odd.DiscountAmount.Equal(decimal.NewFromInt(75)), odd.DiscountAmount.String())
		assert.True(t, odd.TaxAmount.Equal(decimal.NewFromInt(166)), odd.TaxAmount.String())
		assert.True(t, odd.TotalAmount.Equal(decimal.NewFromInt(1090)), odd.TotalAmount.String())
	})

	t.Run("invalid discount", func(t *testing.T) {
		require.Error(t, sale.ApplyDiscount("bogus", decimal.NewFromInt(1)))
		require.Error(t, sale.ApplyDiscount(DiscountFixed, decimal.NewFromInt(-1)))
	})
}

func TestSale_AddItemValidation(t *testing.T) {
	sale := newTestSale(t)
	require.Error(t, sale.AddItem(uuid.New(), "Charger", "CHG", 0, decimal.NewFromInt(1), decimal.Zero))
	require.Error(t, sale.AddItem(uuid.New(), "Charger", "CHG", 1, decimal.NewFromInt(-1), decimal.Zero))
	require.Error(t, sale.AddItem(uuid.Nil, "Charger", "CHG", 1, decimal.NewFromInt(1), decimal.Zero))
}

func TestSale_Complete(t *testing.T) {
	t.Run("default payment covers total", func(t *testing.T) {
		sale := newTestSale(t)
		require.NoError(t, sale.AddItem(uuid.New(), "Charger", "CHG", 1, decimal.NewFromInt(10000), decimal.NewFromInt(6000)))
		require.NoError(t, sale.Complete(PaymentMobileMoney))

		assert.Equal(t, SaleStatusCompleted, sale.Status)
		require.Len(t, sale.Payments, 1)
		assert.Equal(t, PaymentMobileMoney, sale.Payments[0].Method)
		events := sale.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSaleCompleted, events[0].EventType())
	})

	t.Run("split payment must match total", func(t *testing.T) {
		sale := newTestSale(t)
		require.NoError(t, sale.AddItem(uuid.New(), "Charger", "CHG", 1, decimal.NewFromInt(10000), decimal.Zero))
		require.NoError(t, sale.AddPayment(PaymentCash, decimal.NewFromInt(4000), ""))
		require.NoError(t, sale.AddPayment("M-Pesa ", decimal.NewFromInt(5000), "TX1"))

		err := sale.Complete(PaymentCash)
		require.Error(t, err)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "PAYMENT_MISMATCH", de.Code)

		require.NoError(t, sale.AddPayment(PaymentCard, decimal.NewFromInt(1000), ""))
		require.NoError(t, sale.Complete(PaymentCash))
		assert.Equal(t, PaymentMultiple, sale.PaymentMethodLabel())
		assert.Equal(t, []PaymentMethod{PaymentCash, "m-pesa", PaymentCard}, sale.Methods())
	})

	t.Run("no items", func(t *testing.T) {
		sale := newTestSale(t)
		require.Error(t, sale.Complete(PaymentCash))
	})
}

func TestSale_Refund(t *testing.T) {
	sale := newTestSale(t)
	require.Error(t, sale.Refund("early", time.Now()))

	require.NoError(t, sale.AddItem(uuid.New(), "Charger", "CHG", 1, decimal.NewFromInt(10000), decimal.Zero))
	require.NoError(t, sale.Complete(PaymentCash))
	sale.ClearDomainEvents()

	require.NoError(t, sale.Refund("faulty", time.Now()))
	assert.Equal(t, SaleStatusRefunded, sale.Status)
	assert.NotNil(t, sale.RefundedAt)
	require.Len(t, sale.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeSaleRefunded, sale.GetDomainEvents()[0].EventType())

	require.Error(t, sale.Refund("again", time.Now()))
}

func TestPaymentMethod_DisplayName(t *testing.T) {
	assert.Equal(t, "Mobile Money", PaymentMobileMoney.DisplayName())
	assert.Equal(t, "Cash", PaymentCash.DisplayName())
	assert.Equal(t, "Unknown", PaymentMethod("").DisplayName())
}
