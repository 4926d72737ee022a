package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWindow       = errors.New("invalid window")
	ErrNotEnoughNotice     = errors.New("not enough notice")
	ErrInvalidGuestCount   = errors.New("invalid guest count")
	ErrCapacityExceeded    = errors.New("guest count exceeds venue capacity")
	ErrInvalidSelection    = errors.New("invalid selection")
	ErrInvalidDiscount     = errors.New("invalid discount")
	ErrPricingUnavailable  = errors.New("venue unavailable for pricing")
	ErrOverlap             = errors.New("venue unavailable for the requested window")
	ErrCodeConflict        = errors.New("confirmation code conflict")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrVenueNotFound       = errors.New("venue not found")
	ErrVenueNameRequired   = errors.New("venue name required")
	ErrInvalidCapacity     = errors.New("invalid capacity")
	ErrInvalidRate         = errors.New("invalid rate")
	ErrUnauthorized        = errors.New("requester is not a party to the reservation")
	ErrTimeout             = errors.New("deadline exceeded before commit")
	ErrInvalidID           = errors.New("invalid id")
)

// TransitionEvent names a lifecycle event applied to a reservation.
type TransitionEvent string

const (
	EventConfirm  TransitionEvent = "confirm"
	EventCancel   TransitionEvent = "cancel"
	EventCheckIn  TransitionEvent = "check_in"
	EventNoShow   TransitionEvent = "no_show"
	EventComplete TransitionEvent = "complete"
)

// InvalidTransitionError reports a rejected lifecycle transition, naming the
// current status and the attempted event.
type InvalidTransitionError struct {
	Status ReservationStatus
	Event  TransitionEvent
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s reservation in status %s: %s", e.Event, e.Status, e.Reason)
	}
	return fmt.Sprintf("cannot %s reservation in status %s", e.Event, e.Status)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}
