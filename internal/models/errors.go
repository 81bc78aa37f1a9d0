package models

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")

	// Precondition guard failures for the change flow.
	ErrBookingNotConfirmed        = errors.New("booking is not in confirmed status")
	ErrChangeRequestOutstanding   = errors.New("a change request is already pending for this booking")
	ErrNoChangeRequestOutstanding = errors.New("no change request is pending for this booking")

	// ErrChangeConflict is returned when the conditional update writes zero
	// rows: another request won the race or the booking state moved under us.
	ErrChangeConflict = errors.New("booking state changed, change request rejected")
)

// ValidationError carries field-level messages for a rejected submission.
// The request is blocked before any write is attempted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "change request validation failed"
}
