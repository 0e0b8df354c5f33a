package services

import "errors"

var (
	// ErrNotFound is returned when the referenced record does not exist or
	// is inactive.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials covers unknown email, wrong password and
	// deactivated accounts alike, so a caller cannot probe which it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError rejects bad input before any state changes.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
