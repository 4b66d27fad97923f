package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lats/backend/internal/application/identity"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/auth"
	"github.com/lats/backend/internal/interfaces/http/middleware"
)

func setupAuthRouter(svc *MockAuthService, claims *auth.Claims) *gin.Engine {
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.RefreshToken)

	authed := r.Group("/auth", func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.JWTClaimsKey, claims)
			c.Set(middleware.JWTTenantIDKey, claims.TenantID)
			c.Set(middleware.JWTUserIDKey, claims.UserID)
		}
		c.Next()
	})
	authed.POST("/logout", h.Logout)
	authed.GET("/me", h.GetCurrentUser)
	return r
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil)
		svc.On("Login", mock.Anything, identity.LoginInput{Username: "cashier", Password: "secret123"}).
			Return(&identity.LoginResult{
				AccessToken:  "access",
				RefreshToken: "refresh",
				TokenType:    "Bearer",
				User:         identity.UserInfo{ID: testStaffID, Username: "cashier", Role: "cashier"},
			}, nil)

		w := perform(r, http.MethodPost, "/auth/login", LoginRequest{Username: "cashier", Password: "secret123"})

		assert.Equal(t, http.StatusOK, w.Code)
		var data LoginResponse
		envelope(t, w, &data)
		assert.Equal(t, "access", data.Token.AccessToken)
		assert.Equal(t, "Bearer", data.Token.TokenType)
		assert.Equal(t, "cashier", data.User.Username)
		svc.AssertExpectations(t)
	})

	t.Run("short password never reaches the service", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil)

		w := perform(r, http.MethodPost, "/auth/login", LoginRequest{Username: "cashier", Password: "123"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil)
		svc.On("Login", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password"))

		w := perform(r, http.MethodPost, "/auth/login", LoginRequest{Username: "cashier", Password: "wrongpass"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, w))
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, nil)
	svc.On("RefreshToken", mock.Anything, identity.RefreshTokenInput{RefreshToken: "refresh"}).
		Return(&identity.RefreshTokenResult{AccessToken: "new-access", TokenType: "Bearer"}, nil)

	w := perform(r, http.MethodPost, "/auth/refresh", RefreshTokenRequest{RefreshToken: "refresh"})

	assert.Equal(t, http.StatusOK, w.Code)
	var data RefreshTokenResponse
	envelope(t, w, &data)
	assert.Equal(t, "new-access", data.Token.AccessToken)
}

func TestAuthHandler_Logout(t *testing.T) {
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
		TenantID: testShopID.String(),
		UserID:   testStaffID.String(),
	}

	t.Run("revokes the presented token", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, claims)
		svc.On("Logout", mock.Anything, mock.MatchedBy(func(in identity.LogoutInput) bool {
			return in.TokenJTI == "jti-1" &&
				in.TenantID == testShopID &&
				in.UserID == testStaffID &&
				in.RemainingTTL > 9*time.Minute && in.RemainingTTL <= 10*time.Minute
		})).Return(nil)

		w := perform(r, http.MethodPost, "/auth/logout", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("requires claims", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil)

		w := perform(r, http.MethodPost, "/auth/logout", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, &auth.Claims{TenantID: testShopID.String(), UserID: testStaffID.String()})
	svc.On("GetCurrentUser", mock.Anything, testStaffID).
		Return(&identity.UserInfo{ID: testStaffID, Username: "manager", Permissions: []string{"closing:close"}}, nil)

	w := perform(r, http.MethodGet, "/auth/me", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var user identity.UserInfo
	envelope(t, w, &user)
	assert.Equal(t, testStaffID, user.ID)
	assert.Equal(t, []string{"closing:close"}, user.Permissions)
	assert.NotEqual(t, uuid.Nil, user.ID)
}
