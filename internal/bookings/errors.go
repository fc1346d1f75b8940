package bookings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrNoAssignedSeating  = errors.New("event does not use assigned seating")
	ErrEventNotBookable   = errors.New("event is not open for booking")
	ErrStorageUnavailable = errors.New("booking store unavailable")
)

// ValidationError covers malformed attendee input. It never reaches the
// storage layer; controllers return it inline to the form.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SeatConflictError means one or more requested seats were taken between
// the availability read and the booking write. The checkout must re-read
// availability and return the selection to picking.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats no longer available: %s", strings.Join(e.Seats, ", "))
}
