package closing

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/sales"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedSale(t *testing.T, customerID uuid.UUID, price, cost int64, payments map[sales.PaymentMethod]int64) sales.Sale {
	t.Helper()
	s, err := sales.NewSale(uuid.New(), customerID, "C", "", uuid.New(), time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), time.UTC)
	require.NoError(t, err)
	require.NoError(t, s.AddItem(uuid.New(), "Item", "SKU", 1, decimal.NewFromInt(price), decimal.NewFromInt(cost)))
	for _, m := range []sales.PaymentMethod{sales.PaymentCash, sales.PaymentMobileMoney, sales.PaymentCard} {
		if amt, ok := payments[m]; ok {
			require.NoError(t, s.AddPayment(m, decimal.NewFromInt(amt), ""))
		}
	}
	require.NoError(t, s.Complete(sales.PaymentCash))
	return *s
}

func TestSummarize(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	day := []sales.Sale{
		completedSale(t, alice, 10000, 6000, map[sales.PaymentMethod]int64{sales.PaymentCash: 10000}),
		completedSale(t, alice, 20000, 10000, map[sales.PaymentMethod]int64{sales.PaymentCash: 5000, sales.PaymentMobileMoney: 15000}),
		completedSale(t, bob, 30000, 20000, map[sales.PaymentMethod]int64{sales.PaymentMobileMoney: 30000}),
	}
	refunded := completedSale(t, bob, 99000, 0, nil)
	require.NoError(t, refunded.Refund("faulty", time.Now()))
	day = append(day, refunded)

	summary := Summarize("2024-03-01", day)

	assert.Equal(t, 3, summary.TransactionCount)
	assert.Equal(t, 2, summary.UniqueCustomers)
	assert.True(t, summary.TotalSales.Equal(decimal.NewFromInt(60000)))
	assert.True(t, summary.AverageOrder.Equal(decimal.NewFromInt(20000)))
	assert.True(t, summary.TotalProfit.Equal(decimal.NewFromInt(24000)))
	assert.True(t, summary.ProfitMargin.Equal(decimal.NewFromInt(40)))

	require.Len(t, summary.ByMethod, 2)
	assert.Equal(t, sales.PaymentMobileMoney, summary.ByMethod[0].Method)
	assert.Equal(t, 2, summary.ByMethod[0].Count)
	assert.True(t, summary.ByMethod[0].Amount.Equal(decimal.NewFromInt(45000)))
	assert.Equal(t, "Mobile Money", summary.ByMethod[0].DisplayName)
	assert.Equal(t, sales.PaymentCash, summary.ByMethod[1].Method)
	assert.Equal(t, 2, summary.ByMethod[1].Count)
	assert.True(t, summary.ByMethod[1].Amount.Equal(decimal.NewFromInt(15000)))
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize("2024-03-01", nil)
	assert.Equal(t, 0, summary.TransactionCount)
	assert.True(t, summary.AverageOrder.IsZero())
	assert.True(t, summary.ProfitMargin.IsZero())
	assert.NotNil(t, summary.ByMethod)
}

func TestNewDailyClosure(t *testing.T) {
	day := []sales.Sale{completedSale(t, uuid.New(), 10000, 5000, nil)}
	summary := Summarize("2024-03-01", day)
	userID := uuid.New()

	c, err := NewDailyClosure(uuid.New(), summary, day, "manager", userID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalTransactions)
	assert.Equal(t, "manager", c.ClosedBy)

	var rows []SaleSnapshot
	require.NoError(t, json.Unmarshal(c.SalesData, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "cash", rows[0].PaymentMethod)

	status := StatusOf("2024-03-01", c)
	assert.True(t, status.IsClosed)
	assert.Equal(t, userID, *status.ClosedByUserID)
	assert.False(t, StatusOf("2024-03-02", nil).IsClosed)

	_, err = NewDailyClosure(uuid.New(), Summarize("03/01/2024", nil), nil, "manager", userID, time.Now())
	require.Error(t, err)
}

func TestPasscodeSettings_Change(t *testing.T) {
	settings := &PasscodeSettings{TenantID: uuid.New()}
	assert.False(t, settings.IsSet())
	assert.False(t, settings.Verify("1234"))

	require.Error(t, settings.Change("", "12a4", uuid.New(), time.Now()))
	require.Error(t, settings.Change("", "123", uuid.New(), time.Now()))

	require.NoError(t, settings.Change("", "1234", uuid.New(), time.Now()))
	assert.True(t, settings.Verify("1234"))

	err := settings.Change("0000", "5678", uuid.New(), time.Now())
	assert.True(t, errors.Is(err, shared.ErrInvalidPasscode))

	require.NoError(t, settings.Change("1234", "567890", uuid.New(), time.Now()))
	assert.True(t, settings.Verify("567890"))
	assert.False(t, settings.Verify("1234"))
}
