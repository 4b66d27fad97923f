package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username within the tenant
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)

	// FindByUsernameAnyTenant finds a user by username when no tenant is known (login)
	FindByUsernameAnyTenant(ctx context.Context, username string) (*User, error)

	// ExistsByUsername checks if a username already exists in the tenant
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)

	// Count returns the total number of users for the tenant
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
