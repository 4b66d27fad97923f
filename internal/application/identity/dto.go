package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/identity"
)

// LoginInput contains the credentials submitted at sign in
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is returned after a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput carries the refresh token being exchanged
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult is a new token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput identifies the access token to revoke
type LogoutInput struct {
	TenantID     uuid.UUID
	UserID       uuid.UUID
	TokenJTI     string
	RemainingTTL time.Duration
}

// UserInfo is the signed-in staff member as shown to clients
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ToUserInfo converts a domain user
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		DisplayName: u.GetDisplayNameOrUsername(),
		Phone:       u.Phone,
		Role:        u.Role.String(),
		Permissions: u.Permissions(),
		LastLoginAt: u.LastLoginAt,
	}
}

// CreateUserInput creates a staff account
type CreateUserInput struct {
	TenantID    uuid.UUID
	Username    string
	Password    string
	DisplayName string
	Phone       string
	Role        string
}
