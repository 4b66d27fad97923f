package closing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ClosureRepository persists daily closures
type ClosureRepository interface {
	// FindByDate returns the closure for a day or shared.ErrNotFound
	FindByDate(ctx context.Context, tenantID uuid.UUID, date string) (*DailyClosure, error)

	// IsClosed reports whether the day has a closure
	IsClosed(ctx context.Context, tenantID uuid.UUID, date string) (bool, error)

	// Create inserts the closure; a second closure for the same day
	// returns shared.ErrAlreadyExists
	Create(ctx context.Context, closure *DailyClosure) error

	// FindInRange lists closures between from and to inclusive, newest first
	FindInRange(ctx context.Context, tenantID uuid.UUID, from, to string) ([]DailyClosure, error)
}

// PasscodeRepository persists passcode settings
type PasscodeRepository interface {
	// Find returns the tenant's settings or shared.ErrNotFound
	Find(ctx context.Context, tenantID uuid.UUID) (*PasscodeSettings, error)
	Save(ctx context.Context, settings *PasscodeSettings) error
}

// AttemptLimiter counts failed passcode attempts per key
type AttemptLimiter interface {
	// Locked reports whether key is locked out and for how long
	Locked(ctx context.Context, key string) (bool, time.Duration, error)

	// Fail records a failure and returns the number of failures in the window
	Fail(ctx context.Context, key string, max int, lockout time.Duration) (int, error)

	// Reset clears the failures for key
	Reset(ctx context.Context, key string) error
}
