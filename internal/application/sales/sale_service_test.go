package sales

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/customer"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/sales"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var eat = time.FixedZone("EAT", 3*60*60)

type saleFixture struct {
	sales     *MockSaleRepository
	receipts  *MockReceiptRepository
	products  *MockProductRepository
	customers *MockCustomerRepository
	closures  *MockDayCloseChecker
	publisher *recordingPublisher
	metrics   *recordingMetrics
	svc       *SaleService
	tenantID  uuid.UUID
	customer  *customer.Customer
	charger   *inventory.Product
	phoneCase *inventory.Product
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	f := &saleFixture{
		sales:     new(MockSaleRepository),
		receipts:  new(MockReceiptRepository),
		products:  new(MockProductRepository),
		customers: new(MockCustomerRepository),
		closures:  new(MockDayCloseChecker),
		publisher: &recordingPublisher{},
		metrics:   &recordingMetrics{},
		tenantID:  uuid.New(),
	}
	f.svc = NewSaleService(f.sales, f.receipts, f.products, f.customers, f.closures,
		Options{Location: eat, TaxRate: decimal.NewFromInt(18)}, zap.NewNop())
	f.svc.SetEventPublisher(f.publisher)
	f.svc.SetMetrics(f.metrics, f.metrics)
	// 01:30 on the 15th in the shop's zone
	f.svc.now = func() time.Time { return time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC) }

	var err error
	f.customer, err = customer.NewCustomer(f.tenantID, "Neema Mushi", "0712345678", "")
	require.NoError(t, err)
	f.charger, err = inventory.NewProduct(f.tenantID, "Fast charger", "CHG-01", decimal.NewFromInt(8000), decimal.NewFromInt(15000), 3)
	require.NoError(t, err)
	f.phoneCase, err = inventory.NewProduct(f.tenantID, "Phone case", "CASE-01", decimal.NewFromInt(2000), decimal.NewFromInt(6000), 10)
	require.NoError(t, err)
	return f
}

func (f *saleFixture) expectCatalog() {
	f.customers.On("FindByIDForTenant", mock.Anything, f.tenantID, f.customer.ID).Return(f.customer, nil)
	f.products.On("FindByIDs", mock.Anything, f.tenantID, mock.Anything).
		Return([]inventory.Product{*f.charger, *f.phoneCase}, nil)
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestSaleService_ProcessSale(t *testing.T) {
	f := newSaleFixture(t)
	f.expectCatalog()
	f.closures.On("IsClosed", mock.Anything, f.tenantID, "2026-03-15").Return(false, nil)
	f.sales.On("Record", mock.Anything, mock.AnythingOfType("*sales.Sale")).Return(nil)
	soldBy := uuid.New()

	resp, err := f.svc.ProcessSale(context.Background(), f.tenantID, ProcessSaleInput{
		CustomerID: f.customer.ID,
		Items: []SaleItemInput{
			{ProductID: f.charger.ID, Quantity: 1},
			{ProductID: f.charger.ID, Quantity: 2},
			{ProductID: f.phoneCase.ID, Quantity: 1, UnitPrice: price(5000)},
		},
		DiscountType:  "percentage",
		DiscountValue: decimal.NewFromInt(10),
		Payments: []PaymentInput{
			{Method: "cash", Amount: decimal.NewFromInt(50000)},
			{Method: "Mobile_Money", Amount: decimal.NewFromInt(3100), Reference: " MP123 "},
		},
		SoldBy: soldBy,
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "2026-03-15", resp.BusinessDate)
	assert.Equal(t, "Neema Mushi", resp.CustomerName)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(50000)), resp.Subtotal.String())
	assert.True(t, resp.DiscountAmount.Equal(decimal.NewFromInt(5000)))
	assert.True(t, resp.TaxAmount.Equal(decimal.NewFromInt(8100)))
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(53100)))
	assert.True(t, resp.Profit.Equal(decimal.NewFromInt(19000)), resp.Profit.String())
	assert.Equal(t, "multiple", resp.PaymentMethod)
	require.Len(t, resp.Payments, 2)
	assert.Equal(t, "mobile_money", resp.Payments[1].Method)
	assert.Equal(t, "Mobile Money", resp.Payments[1].DisplayName)
	assert.Equal(t, "MP123", resp.Payments[1].Reference)
	assert.Equal(t, "RCP-"+resp.SaleNumber, resp.ReceiptNumber)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, sales.EventTypeSaleCompleted, f.publisher.events[0].EventType())
	assert.Equal(t, 1, f.metrics.sales)
	assert.Equal(t, []string{"Multiple"}, f.metrics.methods)
	assert.Len(t, f.metrics.payments, 2)
	f.sales.AssertExpectations(t)
}

func TestSaleService_ProcessSale_DefaultPayment(t *testing.T) {
	f := newSaleFixture(t)
	f.svc.opts.TaxRate = decimal.Zero
	f.expectCatalog()
	f.closures.On("IsClosed", mock.Anything, f.tenantID, mock.Anything).Return(false, nil)
	f.sales.On("Record", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.svc.ProcessSale(context.Background(), f.tenantID, ProcessSaleInput{
		CustomerID:    f.customer.ID,
		Items:         []SaleItemInput{{ProductID: f.phoneCase.ID, Quantity: 2}},
		PaymentMethod: "mobile_money",
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(12000)))
	assert.True(t, resp.TaxAmount.IsZero())
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "mobile_money", resp.PaymentMethod)
	assert.True(t, resp.Payments[0].Amount.Equal(resp.TotalAmount))
}

func TestSaleService_ProcessSale_Rejections(t *testing.T) {
	t.Run("customer required", func(t *testing.T) {
		f := newSaleFixture(t)
		_, err := f.svc.ProcessSale(context.Background(), f.tenantID, ProcessSaleInput{
			Items: []SaleItemInput{{ProductID: uuid.New(), Quantity: 1}},
		})
		assertCode(t, err, "CUSTOMER_REQUIRED")
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newSaleFixture(t)
		f.customers.On("FindByIDForTenant", mock.Anything, f.tenantID, mock.Anything).Return(nil, shared.ErrNotFound)
		_, err := f.svc.ProcessSale(context.Background(), f.tenantID, ProcessSaleInput{
			CustomerID: uuid.New(),
			Items:      []SaleItemInput{{ProductID: uuid.New(), Quantity: 1}},
		})
		assertCode(t, err, "CUSTOMER_NOT_FOUND")
	})

	t.Run("no items", func(t *testing.T) {
		f := newSaleFixture(t)
		_, err := f.svc.ProcessSale(context.Background(), f.tenantID, ProcessSaleInput{CustomerID: f.customer.ID})
		assertCode(t, err, "NO_ITEMS")
	})

	t.Run("zero quantity", func(t *testing.T) {
		f := newSaleFixture(t)
		_, err := f.svc.ProcessSale(context.Background(), f.tenantID, ProcessSaleInput{
			CustomerID: f.customer.ID,
			Items:      []SaleItemInput{{ProductID: f.charger.ID, Quantity: 0}},
		})
		assertCode(t, err, "INVALID_QUANTITY")
	})

	t.Run("negative price", func(t *testing.T) {
		f := newSaleFixture(t)
		_, err := f.svc.ProcessSale(context.Background(), f.tenantID, ProcessSaleInput{
			CustomerID: f.customer.ID,
			Items:      []SaleItemInput{{ProductID: f.charger.ID, Quantity: 1, UnitPrice: price(-1)}},
		})
		assertCode(t, err, "INVALID_PRICE")
	})

	t.Run("stock summed across lines", func(t *testing.T) {
		f := newSaleFixture(t)
		f.expectCatalog()
		_, err := f.svc.ProcessSale(context.Background(), f.tenantID, ProcessSaleInput{
			CustomerID: f.customer.ID,
			Items: []SaleItemInput{
				{ProductID: f.charger.ID, Quantity: 2},
				{ProductID: f.charger.ID, Quantity: 2},
			},
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.sales.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("stock taken by a concurrent sale", func(t *testing.T) {
		f := newSaleFixture(t)
		f.expectCatalog()
		f.closures.On("IsClosed", mock.Anything, f.tenantID, mock.Anything).Return(false, nil)
		f.sales.On("Record", mock.Anything, mock.Anything).Return(shared.ErrInsufficientStock)
		_, err := f.svc.ProcessSale(context.Background(), f.tenantID, ProcessSaleInput{
			CustomerID: f.customer.ID,
			Items:      []SaleItemInput{{ProductID: f.charger.ID, Quantity: 3}},
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Empty(t, f.publisher.events)
		assert.Zero(t, f.metrics.sales)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newSaleFixture(t)
		f.expectCatalog()
		_, err := f.svc.ProcessSale(context.Background(), f.tenantID, ProcessSaleInput{
			CustomerID: f.customer.ID,
			Items:      []SaleItemInput{{ProductID: uuid.New(), Quantity: 1}},
		})
		assertCode(t, err, "PRODUCT_NOT_FOUND")
	})

	t.Run("closed day", func(t *testing.T) {
		f := newSaleFixture(t)
		f.expectCatalog()
		f.closures.On("IsClosed", mock.Anything, f.tenantID, "2026-03-15").Return(true, nil)
		_, err := f.svc.ProcessSale(context.Background(), f.tenantID, ProcessSaleInput{
			CustomerID: f.customer.ID,
			Items:      []SaleItemInput{{ProductID: f.phoneCase.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, shared.ErrDayClosed)
		f.sales.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("payments short of total", func(t *testing.T) {
		f := newSaleFixture(t)
		f.svc.opts.TaxRate = decimal.Zero
		f.expectCatalog()
		f.closures.On("IsClosed", mock.Anything, f.tenantID, mock.Anything).Return(false, nil)
		_, err := f.svc.ProcessSale(context.Background(), f.tenantID, ProcessSaleInput{
			CustomerID: f.customer.ID,
			Items:      []SaleItemInput{{ProductID: f.phoneCase.ID, Quantity: 1}},
			Payments:   []PaymentInput{{Method: "cash", Amount: decimal.NewFromInt(5000)}},
		})
		assertCode(t, err, "PAYMENT_MISMATCH")
		assert.Empty(t, f.publisher.events)
	})
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func completedSale(t *testing.T, f *saleFixture) *sales.Sale {
	t.Helper()
	sale, err := sales.NewSale(f.tenantID, f.customer.ID, f.customer.Name, f.customer.Phone, uuid.New(), f.svc.now(), eat)
	require.NoError(t, err)
	require.NoError(t, sale.AddItem(f.phoneCase.ID, f.phoneCase.Name, f.phoneCase.SKU, 1, decimal.NewFromInt(6000), decimal.NewFromInt(2000)))
	require.NoError(t, sale.Complete(sales.PaymentCash))
	sale.PullDomainEvents()
	return sale
}

func TestSaleService_Refund(t *testing.T) {
	f := newSaleFixture(t)
	sale := completedSale(t, f)
	f.sales.On("FindByIDForTenant", mock.Anything, f.tenantID, sale.ID).Return(sale, nil)
	f.closures.On("IsClosed", mock.Anything, f.tenantID, sale.BusinessDate).Return(false, nil)
	f.sales.On("Save", mock.Anything, sale).Return(nil)

	resp, err := f.svc.Refund(context.Background(), f.tenantID, sale.ID, RefundInput{Reason: " faulty "})
	require.NoError(t, err)
	assert.Equal(t, "refunded", resp.Status)
	assert.Equal(t, "faulty", resp.RefundReason)
	require.NotNil(t, resp.RefundedAt)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, sales.EventTypeSaleRefunded, f.publisher.events[0].EventType())
	assert.Equal(t, 1, f.metrics.refunds)

	_, err = f.svc.Refund(context.Background(), f.tenantID, sale.ID, RefundInput{})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestSaleService_Refund_ClosedDay(t *testing.T) {
	f := newSaleFixture(t)
	sale := completedSale(t, f)
	f.sales.On("FindByIDForTenant", mock.Anything, f.tenantID, sale.ID).Return(sale, nil)
	f.closures.On("IsClosed", mock.Anything, f.tenantID, sale.BusinessDate).Return(true, nil)

	_, err := f.svc.Refund(context.Background(), f.tenantID, sale.ID, RefundInput{Reason: "late"})
	assert.ErrorIs(t, err, shared.ErrDayClosed)
	assert.True(t, sale.IsCompleted())
}

func TestSaleService_List_Filter(t *testing.T) {
	f := newSaleFixture(t)
	customerID := uuid.New()

	match := mock.MatchedBy(func(sf sales.SaleFilter) bool {
		return sf.From != nil && sf.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, eat)) &&
			sf.To != nil && sf.To.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, eat).Add(-time.Nanosecond)) &&
			sf.CustomerID != nil && *sf.CustomerID == customerID &&
			sf.PaymentMethod == "cash" && sf.Status == sales.SaleStatusCompleted &&
			sf.OrderBy == "sold_at" && sf.PageSize == 20
	})
	f.sales.On("FindAllForTenant", mock.Anything, f.tenantID, match).Return([]sales.Sale{}, nil)
	f.sales.On("CountForTenant", mock.Anything, f.tenantID, match).Return(int64(0), nil)

	page, err := f.svc.List(context.Background(), f.tenantID, SaleListFilter{
		From: "2026-03-01", To: "2026-03-01", CustomerID: customerID.String(),
		PaymentMethod: "CASH", Status: "completed",
	})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	f.sales.AssertExpectations(t)

	_, err = f.svc.List(context.Background(), f.tenantID, SaleListFilter{CustomerID: "nope"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestSaleService_Receipt(t *testing.T) {
	f := newSaleFixture(t)
	sale := completedSale(t, f)

	_, err := f.svc.Receipt(context.Background(), f.tenantID, sale.ID)
	assertCode(t, err, "RECEIPT_UNAVAILABLE")

	renderer := new(MockReceiptRenderer)
	f.svc.SetReceiptRenderer(renderer)
	issued := time.Date(2026, 3, 14, 22, 31, 0, 0, time.UTC)
	f.sales.On("FindByIDForTenant", mock.Anything, f.tenantID, sale.ID).Return(sale, nil)
	f.receipts.On("FindBySaleID", mock.Anything, f.tenantID, sale.ID).Return(&sales.Receipt{CreatedAt: issued}, nil)
	renderer.On("HTML", sale).Return("<html>receipt</html>", nil)
	renderer.On("PDFEnabled").Return(false)

	resp, err := f.svc.Receipt(context.Background(), f.tenantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "<html>receipt</html>", resp.HTML)
	assert.Equal(t, issued, resp.IssuedAt)
	assert.Equal(t, sale.ReceiptNumber(), resp.ReceiptNumber)

	_, _, err = f.svc.ReceiptPDF(context.Background(), f.tenantID, sale.ID)
	assertCode(t, err, "PDF_UNAVAILABLE")
}

func TestSaleService_ReceiptPDF(t *testing.T) {
	f := newSaleFixture(t)
	sale := completedSale(t, f)
	renderer := new(MockReceiptRenderer)
	f.svc.SetReceiptRenderer(renderer)
	f.sales.On("FindByIDForTenant", mock.Anything, f.tenantID, sale.ID).Return(sale, nil)
	renderer.On("PDFEnabled").Return(true)
	renderer.On("PDF", mock.Anything, sale).Return([]byte("%PDF-1.4"), nil)

	data, name, err := f.svc.ReceiptPDF(context.Background(), f.tenantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
	assert.Equal(t, sale.ReceiptNumber()+".pdf", name)
}

func TestReceiptHandler(t *testing.T) {
	f := newSaleFixture(t)
	sale := completedSale(t, f)
	h := NewReceiptHandler(f.sales, f.receipts, zap.NewNop())
	f.sales.On("FindByIDForTenant", mock.Anything, f.tenantID, sale.ID).Return(sale, nil)

	var saved *sales.Receipt
	f.receipts.On("Save", mock.Anything, mock.AnythingOfType("*sales.Receipt")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*sales.Receipt) }).
		Return(nil).Once()

	require.NoError(t, h.Handle(context.Background(), sales.NewSaleCompletedEvent(sale)))
	require.NotNil(t, saved)
	assert.Equal(t, sale.ReceiptNumber(), saved.ReceiptNumber)
	var content map[string]any
	require.NoError(t, json.Unmarshal(saved.Content, &content))
	assert.Equal(t, sale.SaleNumber, content["sale_number"])

	f.receipts.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists).Once()
	assert.NoError(t, h.Handle(context.Background(), sales.NewSaleCompletedEvent(sale)), "duplicate delivery is a no-op")
}
