package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/customer"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/sales"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/logger"
	"github.com/lats/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DayCloseChecker reports whether a business day has been closed
type DayCloseChecker interface {
	IsClosed(ctx context.Context, tenantID uuid.UUID, date string) (bool, error)
}

// BusinessRecorder receives sale totals for the OTLP business meter
type BusinessRecorder interface {
	RecordSale(ctx context.Context, tenantID uuid.UUID, total decimal.Decimal, payments []telemetry.PaymentAmount)
	RecordRefund(ctx context.Context, tenantID uuid.UUID)
}

// SaleCounter counts completed sales for the /metrics scrape
type SaleCounter interface {
	SaleCompleted(paymentMethod string)
}

// Options tune how sales are priced and dated
type Options struct {
	Location *time.Location
	// TaxRate is a percentage applied when the checkout gives no explicit tax
	TaxRate decimal.Decimal
}

// SaleService records sales and refunds
type SaleService struct {
	saleRepo       sales.SaleRepository
	receiptRepo    sales.ReceiptRepository
	productRepo    inventory.ProductRepository
	customerRepo   customer.CustomerRepository
	closures       DayCloseChecker
	renderer       ReceiptRenderer
	eventPublisher shared.EventPublisher
	business       BusinessRecorder
	counter        SaleCounter
	opts           Options
	logger         *zap.Logger
	now            func() time.Time
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo sales.SaleRepository,
	receiptRepo sales.ReceiptRepository,
	productRepo inventory.ProductRepository,
	customerRepo customer.CustomerRepository,
	closures DayCloseChecker,
	opts Options,
	logger *zap.Logger,
) *SaleService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &SaleService{
		saleRepo:     saleRepo,
		receiptRepo:  receiptRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		closures:     closures,
		opts:         opts,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetReceiptRenderer enables receipt HTML and PDF output
func (s *SaleService) SetReceiptRenderer(renderer ReceiptRenderer) {
	s.renderer = renderer
}

// SetMetrics wires the business meter and the prometheus counter. Either may be nil.
func (s *SaleService) SetMetrics(business BusinessRecorder, counter SaleCounter) {
	s.business = business
	s.counter = counter
}

// ProcessSale validates a checkout against customers, stock and the closed
// day, prices it and records it as completed.
func (s *SaleService) ProcessSale(ctx context.Context, tenantID uuid.UUID, input ProcessSaleInput) (_ *SaleResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "process",
		attribute.String(telemetry.AttrTenantID, tenantID.String()),
	)
	defer telemetry.EndSpan(span, &err)
	log := logger.Ctx(ctx, s.logger)

	if input.CustomerID == uuid.Nil {
		return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "A customer is required for every sale")
	}
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "A sale must contain at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
	}

	cust, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, input.CustomerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, err
	}

	products, err := s.loadProducts(ctx, tenantID, input.Items)
	if err != nil {
		return nil, err
	}

	soldAt := s.now()
	sale, err := sales.NewSale(tenantID, cust.ID, cust.Name, cust.Phone, input.SoldBy, soldAt, s.opts.Location)
	if err != nil {
		return nil, err
	}
	if err := s.ensureOpen(ctx, tenantID, sale.BusinessDate); err != nil {
		return nil, err
	}

	for _, item := range input.Items {
		p := products[item.ProductID]
		price := p.SellingPrice
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		if err := sale.AddItem(p.ID, p.Name, p.SKU, item.Quantity, price, p.CostPrice); err != nil {
			return nil, err
		}
	}
	if input.DiscountType != "" {
		if err := sale.ApplyDiscount(sales.DiscountType(input.DiscountType), input.DiscountValue); err != nil {
			return nil, err
		}
	}
	switch {
	case input.TaxAmount != nil:
		err = sale.SetTax(*input.TaxAmount)
	case s.opts.TaxRate.IsPositive():
		err = sale.ApplyTaxRate(s.opts.TaxRate)
	}
	if err != nil {
		return nil, err
	}
	for _, p := range input.Payments {
		if err := sale.AddPayment(sales.PaymentMethod(p.Method), p.Amount, strings.TrimSpace(p.Reference)); err != nil {
			return nil, err
		}
	}
	sale.Notes = strings.TrimSpace(input.Notes)

	if err := sale.Complete(sales.PaymentMethod(strings.ToLower(strings.TrimSpace(input.PaymentMethod)))); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Record(ctx, sale); err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			log.Warn("Stock changed before the sale was recorded", zap.String("sale_number", sale.SaleNumber))
			return nil, err
		}
		log.Error("Failed to save sale", zap.String("sale_number", sale.SaleNumber), zap.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.String(telemetry.AttrSaleNumber, sale.SaleNumber))
	s.publish(ctx, sale)
	s.recordCompleted(ctx, sale)
	log.Info("Sale completed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_number", sale.SaleNumber),
		zap.String("total", sale.TotalAmount.String()),
		zap.String("payment_method", string(sale.PaymentMethodLabel())),
		zap.Int("items", len(sale.Items)),
	)
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// loadProducts fetches every requested product and checks the summed
// quantity per product against stock on hand
func (s *SaleService) loadProducts(ctx context.Context, tenantID uuid.UUID, items []SaleItemInput) (map[uuid.UUID]*inventory.Product, error) {
	requested := make(map[uuid.UUID]int, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := requested[item.ProductID]; !ok {
			ids = append(ids, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}

	found, err := s.productRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s not found", id))
		}
		if !p.IsActive {
			return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("%s is not available for sale", p.Name))
		}
		if !p.CanFulfil(requested[id]) {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock for %s: %d available, %d requested", p.Name, p.Quantity, requested[id]))
		}
	}
	return byID, nil
}

func (s *SaleService) ensureOpen(ctx context.Context, tenantID uuid.UUID, date string) error {
	if s.closures == nil {
		return nil
	}
	closed, err := s.closures.IsClosed(ctx, tenantID, date)
	if err != nil {
		return err
	}
	if closed {
		return shared.NewDomainError("DAY_CLOSED", fmt.Sprintf("Sales for %s have already been closed", date))
	}
	return nil
}

// GetByID returns one sale
func (s *SaleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// GetByNumber returns a sale by its sale number
func (s *SaleService) GetByNumber(ctx context.Context, tenantID uuid.UUID, saleNumber string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindBySaleNumber(ctx, tenantID, strings.TrimSpace(saleNumber))
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// List returns a page of sales
func (s *SaleService) List(ctx context.Context, tenantID uuid.UUID, filter SaleListFilter) (*shared.Paginated[SaleResponse], error) {
	f, err := s.toSaleFilter(filter)
	if err != nil {
		return nil, err
	}
	list, err := s.saleRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.saleRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]SaleResponse, len(list))
	for i := range list {
		items[i] = ToSaleResponse(&list[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

func (s *SaleService) toSaleFilter(in SaleListFilter) (sales.SaleFilter, error) {
	out := sales.SaleFilter{
		Filter: shared.Filter{
			Page:     in.Page,
			PageSize: in.PageSize,
			OrderBy:  in.OrderBy,
			OrderDir: in.OrderDir,
			Search:   strings.TrimSpace(in.Search),
		}.Normalize(),
		BusinessDate:  in.Date,
		Status:        sales.SaleStatus(in.Status),
		PaymentMethod: sales.PaymentMethod(strings.ToLower(in.PaymentMethod)),
	}
	if out.OrderBy == "created_at" {
		out.OrderBy = "sold_at"
	}
	if in.From != "" {
		from, err := time.ParseInLocation(sales.BusinessDateLayout, in.From, s.opts.Location)
		if err != nil {
			return out, shared.NewDomainError("INVALID_INPUT", "from must be YYYY-MM-DD")
		}
		out.From = &from
	}
	if in.To != "" {
		to, err := time.ParseInLocation(sales.BusinessDateLayout, in.To, s.opts.Location)
		if err != nil {
			return out, shared.NewDomainError("INVALID_INPUT", "to must be YYYY-MM-DD")
		}
		// inclusive of the whole last day
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		out.To = &end
	}
	if in.CustomerID != "" {
		id, err := uuid.Parse(in.CustomerID)
		if err != nil {
			return out, shared.NewDomainError("INVALID_INPUT", "customer_id must be a UUID")
		}
		out.CustomerID = &id
	}
	return out, nil
}

// Refund reverses a completed sale. Sales on a closed day cannot be refunded.
func (s *SaleService) Refund(ctx context.Context, tenantID, id uuid.UUID, input RefundInput) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureOpen(ctx, tenantID, sale.BusinessDate); err != nil {
		return nil, err
	}
	if err := sale.Refund(strings.TrimSpace(input.Reason), s.now()); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.publish(ctx, sale)
	if s.business != nil {
		s.business.RecordRefund(ctx, tenantID)
	}
	logger.Ctx(ctx, s.logger).Info("Sale refunded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_number", sale.SaleNumber),
		zap.String("refunded_by", input.UserID.String()),
	)
	resp := ToSaleResponse(sale)
	return &resp, nil
}

func (s *SaleService) publish(ctx context.Context, sale *sales.Sale) {
	events := sale.PullDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		// the sale is already persisted
		logger.Ctx(ctx, s.logger).Error("Failed to publish sale events",
			zap.String("sale_id", sale.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *SaleService) recordCompleted(ctx context.Context, sale *sales.Sale) {
	if s.counter != nil {
		s.counter.SaleCompleted(sale.PaymentMethodLabel().DisplayName())
	}
	if s.business == nil {
		return
	}
	payments := make([]telemetry.PaymentAmount, len(sale.Payments))
	for i, p := range sale.Payments {
		payments[i] = telemetry.PaymentAmount{Method: string(p.Method), Amount: p.Amount}
	}
	s.business.RecordSale(ctx, sale.TenantID, sale.TotalAmount, payments)
}
