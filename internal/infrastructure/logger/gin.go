package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys shared with the auth middleware
const (
	ginLoggerKey    = "logger"
	ginRequestIDKey = "request_id"
	ginTenantKey    = "jwt_tenant_id"
	ginUserKey      = "jwt_user_id"
	ginRoleKey      = "jwt_role"
)

// GinMiddleware logs one line per request. Paths in skip (health probes,
// the metrics scrape) are served without logging.
func GinMiddleware(log *zap.Logger, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skipped[path]; ok {
			c.Next()
			return
		}
		start := time.Now()

		reqLogger := log.With(
			zap.String("request_id", c.GetString(ginRequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
		)
		c.Set(ginLoggerKey, reqLogger)
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), reqLogger))

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if route := c.FullPath(); route != "" {
			fields = append(fields, zap.String("route", route))
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		// set by the auth middleware further down the chain
		if shop := c.GetString(ginTenantKey); shop != "" {
			fields = append(fields, zap.String("shop_id", shop))
		}
		if staff := c.GetString(ginUserKey); staff != "" {
			fields = append(fields, zap.String("staff_id", staff))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error("HTTP Request", fields...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn("HTTP Request", fields...)
		default:
			reqLogger.Info("HTTP Request", fields...)
		}
	}
}

// Recovery turns panics into a 500 with the standard error envelope
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					zap.String("request_id", c.GetString(ginRequestIDKey)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "An internal error occurred",
					},
				})
			}
		}()
		c.Next()
	}
}

// GetGinLogger retrieves the request logger, enriched with the shop and
// staff member once authentication has run.
func GetGinLogger(c *gin.Context) *zap.Logger {
	l, ok := c.Get(ginLoggerKey)
	if !ok {
		return zap.NewNop()
	}
	log, ok := l.(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	var fields []zap.Field
	if shop := c.GetString(ginTenantKey); shop != "" {
		fields = append(fields, zap.String("shop_id", shop))
	}
	if staff := c.GetString(ginUserKey); staff != "" {
		fields = append(fields, zap.String("staff_id", staff))
	}
	if role := c.GetString(ginRoleKey); role != "" {
		fields = append(fields, zap.String("role", role))
	}
	return log.With(fields...)
}
