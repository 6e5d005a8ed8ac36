package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrAssignmentNotFound covers both "no assignment row" and "already
	// assigned to someone else"; the agent app resynchronizes its list.
	ErrAssignmentNotFound = errors.New("assignment not found")

	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidStatus is returned for status codes outside the vertical's
	// known set. Nothing is mutated.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrMediaRequired is returned when charging-start arrives without the
	// mandatory photo reference (REQUIRE_CHARGING_PHOTO).
	ErrMediaRequired = errors.New("charging photo required")

	// ErrNothingUpdated means a write unexpectedly affected zero rows; the
	// caller may retry.
	ErrNothingUpdated = errors.New("no rows updated")
)

// MissingFieldError reports a status-specific required field absent from the
// event payload.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// IllegalTransitionError reports an event whose target status is known to the
// vertical but not reachable from the booking's current status.
type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}
