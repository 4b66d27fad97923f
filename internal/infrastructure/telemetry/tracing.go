package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of application spans
const TracerName = "github.com/lats/backend"

// Span attribute keys used across services
const (
	AttrTenantID   = "shop.id"
	AttrSaleNumber = "sale.number"
	AttrChatID     = "whatsapp.chat_id"
	AttrInstanceID = "whatsapp.instance_id"
	AttrBackupType = "backup.type"
	AttrRepairPart = "repair.part_id"
)

// StartServiceSpan starts an internal span named {service}.{method}.
// The caller must End it.
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "closing", "close",
//	    attribute.String(telemetry.AttrTenantID, tenantID.String()))
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx,
		fmt.Sprintf("%s.%s", service, method),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError marks the span failed; nil errors are ignored
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// EndSpan records err (if any) and ends the span, for use with defer and a
// named error result.
func EndSpan(span trace.Span, err *error) {
	if err != nil {
		RecordError(span, *err)
	}
	span.End()
}

// GetTraceID returns the trace ID in ctx, or "" when there is none.
func GetTraceID(ctx context.Context) string {
	traceID := trace.SpanContextFromContext(ctx).TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
