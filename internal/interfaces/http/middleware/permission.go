package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lats/backend/internal/infrastructure/logger"
	"github.com/lats/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RequirePermission lets the request through when the signed-in staff
// member holds permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission lets the request through when the staff member
// holds at least one of permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			denyPermission(c, permissions, "No authentication claims found")
			return
		}
		if !claims.HasAnyPermission(permissions...) {
			denyPermission(c, permissions, "User lacks required permission")
			return
		}
		c.Next()
	}
}

// HasPermission reports whether the staff member holds permission. Handlers
// use it for fields only some roles may see.
func HasPermission(c *gin.Context, permission string) bool {
	claims := GetJWTClaims(c)
	return claims != nil && claims.HasPermission(permission)
}

func denyPermission(c *gin.Context, required []string, reason string) {
	logger.GetGinLogger(c).Warn("Permission denied",
		zap.String("reason", reason),
		zap.Strings("required_permissions", required),
		zap.Strings("user_permissions", GetJWTPermissions(c)),
		zap.String("method", c.Request.Method),
	)
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeForbidden,
		"Access denied: insufficient permissions",
		GetRequestID(c),
	))
}
