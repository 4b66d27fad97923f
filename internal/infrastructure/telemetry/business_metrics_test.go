package telemetry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string][]metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string][]metricdata.DataPoint[int64]{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				out[m.Name] = sum.DataPoints
			}
		}
	}
	return out
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	_, err := NewBusinessMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestBusinessMetrics_RecordSale(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := NewBusinessMetrics(provider.Meter(TracerName))
	require.NoError(t, err)

	ctx := context.Background()
	shop := uuid.New()
	bm.RecordSale(ctx, shop, decimal.NewFromInt(150000), []PaymentAmount{
		{Method: "cash", Amount: decimal.NewFromInt(100000)},
		{Method: "mpesa", Amount: decimal.RequireFromString("49999.6")},
	})
	bm.RecordSale(ctx, shop, decimal.NewFromInt(20000), []PaymentAmount{
		{Method: "cash", Amount: decimal.NewFromInt(20000)},
	})
	bm.RecordRefund(ctx, shop)
	bm.RecordDailyClose(ctx, shop)

	sums := collectSums(t, reader)

	require.Len(t, sums["lats_sales_total"], 1)
	assert.EqualValues(t, 2, sums["lats_sales_total"][0].Value)
	assert.EqualValues(t, 170000, sums["lats_sales_amount"][0].Value)
	assert.EqualValues(t, 1, sums["lats_refunds_total"][0].Value)
	assert.EqualValues(t, 1, sums["lats_daily_closings_total"][0].Value)

	byMethod := map[string]int64{}
	for _, dp := range sums["lats_payment_amount"] {
		method, ok := dp.Attributes.Value(AttrKeyPaymentMethod)
		require.True(t, ok)
		byMethod[method.AsString()] = dp.Value
		tenant, _ := dp.Attributes.Value(AttrKeyTenantID)
		assert.Equal(t, attribute.StringValue(shop.String()), tenant)
	}
	assert.Equal(t, map[string]int64{"cash": 120000, "mpesa": 50000}, byMethod)
}
