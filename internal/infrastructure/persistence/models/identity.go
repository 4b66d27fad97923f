package models

import (
	"time"

	"github.com/lats/backend/internal/domain/identity"
)

// UserModel is the persistence model for staff accounts
type UserModel struct {
	TenantAggregateModel
	Username     string        `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_tenant_username,priority:2"`
	DisplayName  string        `gorm:"type:varchar(200)"`
	Phone        string        `gorm:"type:varchar(50)"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(30);not null"`
	IsActive     bool          `gorm:"not null"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Username:            m.Username,
		DisplayName:         m.DisplayName,
		Phone:               m.Phone,
		PasswordHash:        m.PasswordHash,
		Role:                m.Role,
		IsActive:            m.IsActive,
		LastLoginAt:         m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Username = u.Username
	m.DisplayName = u.DisplayName
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.IsActive = u.IsActive
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
