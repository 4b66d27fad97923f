package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped cause
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so that errors.Is(err, ErrNotFound)
// holds for any NOT_FOUND error regardless of its message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps the underlying cause
func WrapDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock")
)

// POS specific errors
var (
	ErrDayClosed           = NewDomainError("DAY_CLOSED", "Sales for this day have already been closed")
	ErrInvalidPasscode     = NewDomainError("INVALID_PASSCODE", "Closing passcode is incorrect")
	ErrPasscodeLocked      = NewDomainError("PASSCODE_LOCKED", "Too many failed passcode attempts, try again later")
	ErrPasscodeNotSet      = NewDomainError("PASSCODE_NOT_SET", "No closing passcode has been configured")
	ErrProviderUnavailable = NewDomainError("PROVIDER_UNAVAILABLE", "Messaging provider is unavailable")
	ErrRateLimited         = NewDomainError("RATE_LIMITED", "Messaging provider rate limit reached")
	ErrInvalidBackup       = NewDomainError("INVALID_BACKUP", "Backup file is not valid")
)
