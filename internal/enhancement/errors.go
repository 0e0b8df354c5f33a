package enhancement

import (
	"errors"
	"fmt"
)

// ErrInvalidSignature is returned before any record is read when the
// webhook signature does not match the payload.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ErrNotFound is returned when the referenced image record does not exist.
var ErrNotFound = errors.New("image not found")

// ValidationError rejects an illegal state-transition request or malformed
// input. No state is mutated when it is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UpstreamError wraps a failure of the AI provider or the blob store. On the
// request path it aborts with no state change.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
