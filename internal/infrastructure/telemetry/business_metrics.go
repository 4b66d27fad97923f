package telemetry

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when BusinessMetrics is built without a meter
var ErrMeterNil = errors.New("NewBusinessMetrics: meter cannot be nil")

// Metric attribute keys
var (
	AttrKeyTenantID      = attribute.Key("tenant_id")
	AttrKeyPaymentMethod = attribute.Key("payment_method")
)

// BusinessMetrics exports shop takings over OTLP: counts and whole-shilling
// amounts of sales, refunds and payments.
type BusinessMetrics struct {
	salesTotal    metric.Int64Counter
	salesAmount   metric.Int64Counter
	refundsTotal  metric.Int64Counter
	paymentAmount metric.Int64Counter
	closingsTotal metric.Int64Counter
}

// NewBusinessMetrics registers the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	var (
		bm   BusinessMetrics
		errs []error
		err  error
	)
	bm.salesTotal, err = meter.Int64Counter("lats_sales_total",
		metric.WithDescription("Completed sales"), metric.WithUnit("{sales}"))
	errs = append(errs, err)
	bm.salesAmount, err = meter.Int64Counter("lats_sales_amount",
		metric.WithDescription("Completed sales amount in whole shillings"), metric.WithUnit("{TZS}"))
	errs = append(errs, err)
	bm.refundsTotal, err = meter.Int64Counter("lats_refunds_total",
		metric.WithDescription("Refunded sales"), metric.WithUnit("{sales}"))
	errs = append(errs, err)
	bm.paymentAmount, err = meter.Int64Counter("lats_payment_amount",
		metric.WithDescription("Payments received in whole shillings by method"), metric.WithUnit("{TZS}"))
	errs = append(errs, err)
	bm.closingsTotal, err = meter.Int64Counter("lats_daily_closings_total",
		metric.WithDescription("Finalized daily closings"), metric.WithUnit("{closings}"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &bm, nil
}

// PaymentAmount is one tender of a sale
type PaymentAmount struct {
	Method string
	Amount decimal.Decimal
}

// RecordSale counts a completed sale and its tenders
func (bm *BusinessMetrics) RecordSale(ctx context.Context, tenantID uuid.UUID, total decimal.Decimal, payments []PaymentAmount) {
	shop := metric.WithAttributes(AttrKeyTenantID.String(tenantID.String()))
	bm.salesTotal.Add(ctx, 1, shop)
	bm.salesAmount.Add(ctx, total.Round(0).IntPart(), shop)
	for _, p := range payments {
		bm.paymentAmount.Add(ctx, p.Amount.Round(0).IntPart(), metric.WithAttributes(
			AttrKeyTenantID.String(tenantID.String()),
			AttrKeyPaymentMethod.String(p.Method),
		))
	}
}

// RecordRefund counts a refunded sale
func (bm *BusinessMetrics) RecordRefund(ctx context.Context, tenantID uuid.UUID) {
	bm.refundsTotal.Add(ctx, 1, metric.WithAttributes(AttrKeyTenantID.String(tenantID.String())))
}

// RecordDailyClose counts a finalized closing
func (bm *BusinessMetrics) RecordDailyClose(ctx context.Context, tenantID uuid.UUID) {
	bm.closingsTotal.Add(ctx, 1, metric.WithAttributes(AttrKeyTenantID.String(tenantID.String())))
}
