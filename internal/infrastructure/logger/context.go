package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	shopIDKey    contextKey = "shop_id"
	staffIDKey   contextKey = "staff_id"
	roleKey      contextKey = "role"
)

// RequestFields identifies who is doing what in a request
type RequestFields struct {
	RequestID string
	ShopID    string
	StaffID   string
	Role      string
}

func (f RequestFields) zapFields() []zap.Field {
	fields := make([]zap.Field, 0, 4)
	if f.RequestID != "" {
		fields = append(fields, zap.String("request_id", f.RequestID))
	}
	if f.ShopID != "" {
		fields = append(fields, zap.String("shop_id", f.ShopID))
	}
	if f.StaffID != "" {
		fields = append(fields, zap.String("staff_id", f.StaffID))
	}
	if f.Role != "" {
		fields = append(fields, zap.String("role", f.Role))
	}
	return fields
}

// WithContext attaches a logger to ctx
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the attached logger or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequest stores the request identity in ctx and attaches a logger
// carrying the same fields.
func WithRequest(ctx context.Context, log *zap.Logger, f RequestFields) (context.Context, *zap.Logger) {
	if f.RequestID != "" {
		ctx = context.WithValue(ctx, requestIDKey, f.RequestID)
	}
	if f.ShopID != "" {
		ctx = context.WithValue(ctx, shopIDKey, f.ShopID)
	}
	if f.StaffID != "" {
		ctx = context.WithValue(ctx, staffIDKey, f.StaffID)
	}
	if f.Role != "" {
		ctx = context.WithValue(ctx, roleKey, f.Role)
	}
	enriched := log.With(f.zapFields()...)
	return WithContext(ctx, enriched), enriched
}

// Fields reads the request identity back from ctx
func Fields(ctx context.Context) RequestFields {
	get := func(k contextKey) string {
		v, _ := ctx.Value(k).(string)
		return v
	}
	return RequestFields{
		RequestID: get(requestIDKey),
		ShopID:    get(shopIDKey),
		StaffID:   get(staffIDKey),
		Role:      get(roleKey),
	}
}

// GetRequestID retrieves the request ID from ctx
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// TraceFields returns trace_id and span_id for the active span, if any
func TraceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// L returns the context logger with trace correlation applied.
//
//	logger.L(ctx).Info("sale completed", zap.String("sale_number", n))
func L(ctx context.Context) *zap.Logger {
	return FromContext(ctx).With(TraceFields(ctx)...)
}

// Ctx is L for services that hold their own base logger. Request fields
// from ctx are added when the context has no attached logger.
func Ctx(ctx context.Context, base *zap.Logger) *zap.Logger {
	if attached, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return attached.With(TraceFields(ctx)...)
	}
	fields := append(Fields(ctx).zapFields(), TraceFields(ctx)...)
	return base.With(fields...)
}
