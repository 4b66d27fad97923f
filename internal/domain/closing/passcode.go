package closing

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Failed attempts allowed before closing is locked
const (
	MaxPasscodeAttempts = 5
	PasscodeLockout     = 15 * time.Minute
)

var passcodePattern = regexp.MustCompile(`^[0-9]{4,12}$`)

// PasscodeSettings holds the shop's closing passcode hash
type PasscodeSettings struct {
	TenantID     uuid.UUID
	PasscodeHash string
	UpdatedBy    *uuid.UUID
	UpdatedAt    time.Time
}

// IsSet reports whether a passcode has been configured
func (p *PasscodeSettings) IsSet() bool {
	return p != nil && p.PasscodeHash != ""
}

// Verify compares a candidate passcode with the stored hash
func (p *PasscodeSettings) Verify(passcode string) bool {
	if !p.IsSet() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(p.PasscodeHash), []byte(passcode)) == nil
}

// Change sets a new passcode. Once a passcode exists the current one must
// be supplied.
func (p *PasscodeSettings) Change(current, next string, by uuid.UUID, at time.Time) error {
	if p.IsSet() && !p.Verify(current) {
		return shared.ErrInvalidPasscode
	}
	if !passcodePattern.MatchString(next) {
		return shared.NewDomainError("INVALID_PASSCODE_FORMAT", "Passcode must be 4 to 12 digits")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return shared.WrapDomainError("PASSWORD_HASH_ERROR", "Failed to hash passcode", err)
	}
	p.PasscodeHash = string(hash)
	if by != uuid.Nil {
		p.UpdatedBy = &by
	}
	p.UpdatedAt = at
	return nil
}
