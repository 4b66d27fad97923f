package identity

import (
	"context"
	"strings"

	"github.com/lats/backend/internal/domain/identity"
	"github.com/lats/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService creates staff accounts
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// Create adds a user to a shop. Usernames are unique per shop.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserInfo, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	exists, err := s.userRepo.ExistsByUsername(ctx, input.TenantID, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username already exists")
	}

	user, err := identity.NewUser(input.TenantID, username, input.Password, identity.Role(input.Role))
	if err != nil {
		return nil, err
	}
	if err := user.SetDisplayName(input.DisplayName); err != nil {
		return nil, err
	}
	user.Phone = strings.TrimSpace(input.Phone)

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("role", user.Role.String()),
	)
	info := ToUserInfo(user)
	return &info, nil
}
