package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

// useRecorder installs a recording tracer provider for the test
func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestStartServiceSpan(t *testing.T) {
	rec := useRecorder(t)

	ctx, span := StartServiceSpan(context.Background(), "closing", "close",
		attribute.String(AttrTenantID, "shop-1"))
	assert.NotEmpty(t, GetTraceID(ctx))
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "closing.close", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String(AttrTenantID, "shop-1"))
}

func TestEndSpan_RecordsError(t *testing.T) {
	rec := useRecorder(t)

	run := func() (err error) {
		_, span := StartServiceSpan(context.Background(), "backup", "create")
		defer EndSpan(span, &err)
		return errors.New("bucket unreachable")
	}
	require.Error(t, run())

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "bucket unreachable", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestEndSpan_NilError(t *testing.T) {
	rec := useRecorder(t)

	_, span := StartServiceSpan(context.Background(), "sales", "create")
	var err error
	EndSpan(span, &err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestDisabledProviders(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	tp, err := NewTracerProvider(ctx, Config{Enabled: false}, log)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	require.NoError(t, tp.EnableSpanProfiles())
	assert.False(t, tp.IsSpanProfilesEnabled())

	mp, err := NewMeterProvider(ctx, MetricsConfig{Enabled: false}, log)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("x"))

	lp, err := NewLoggerProvider(ctx, LogsConfig{Enabled: false}, log)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.Nil(t, lp.ZapCore(0))

	prof, err := NewProfiler(ProfilerConfig{Enabled: false}, log)
	require.NoError(t, err)
	assert.False(t, prof.IsEnabled())

	p := &Providers{Tracer: tp, Meter: mp, Logs: lp, Profiler: prof}
	assert.NoError(t, p.Shutdown(ctx))
}
