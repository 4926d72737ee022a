package booking

import (
	"time"

	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

// Policy holds the time-based guard configuration for the reservation
// lifecycle.
type Policy struct {
	// MinimumNotice is how far in the future a new reservation must start.
	MinimumNotice time.Duration
	// CancellationWindow is how long before the window start cancellation
	// stays allowed.
	CancellationWindow time.Duration
	// CheckInGrace is how early before the window start a guest may check
	// in, and how long after the start the no-show sweep waits.
	CheckInGrace time.Duration
}

const (
	defaultMinimumNotice      = 2 * time.Hour
	defaultCancellationWindow = 24 * time.Hour
	defaultCheckInGrace       = time.Hour
)

func DefaultPolicy() Policy {
	return Policy{
		MinimumNotice:      defaultMinimumNotice,
		CancellationWindow: defaultCancellationWindow,
		CheckInGrace:       defaultCheckInGrace,
	}
}

// Transition applies a lifecycle event to the reservation at the given
// instant, mutating the status and the matching timestamp. The table:
//
//	pending     -> confirmed    (confirm)
//	pending     -> cancelled    (cancel, before start minus cancellation window)
//	confirmed   -> cancelled    (cancel, same guard)
//	confirmed   -> in_progress  (check_in, within [start-grace, end))
//	confirmed   -> no_show      (no_show, start has passed)
//	in_progress -> completed    (complete)
//
// Anything else, including every event against a terminal status, returns
// InvalidTransitionError and leaves the reservation untouched.
func Transition(r *domain.Reservation, event domain.TransitionEvent, now time.Time, p Policy) error {
	next, err := nextStatus(r, event, now, p)
	if err != nil {
		return err
	}

	r.Status = next
	at := now
	switch next {
	case domain.StatusConfirmed:
		r.ConfirmedAt = &at
	case domain.StatusInProgress:
		r.CheckedInAt = &at
	case domain.StatusCancelled:
		r.CancelledAt = &at
	case domain.StatusCompleted:
		r.CompletedAt = &at
	}
	return nil
}

func nextStatus(r *domain.Reservation, event domain.TransitionEvent, now time.Time, p Policy) (domain.ReservationStatus, error) {
	invalid := func(reason string) error {
		return &domain.InvalidTransitionError{Status: r.Status, Event: event, Reason: reason}
	}

	switch event {
	case domain.EventConfirm:
		if r.Status != domain.StatusPending {
			return "", invalid("")
		}
		return domain.StatusConfirmed, nil

	case domain.EventCancel:
		if r.Status != domain.StatusPending && r.Status != domain.StatusConfirmed {
			return "", invalid("")
		}
		if !now.Before(r.Window.Start.Add(-p.CancellationWindow)) {
			return "", invalid("cancellation window has closed")
		}
		return domain.StatusCancelled, nil

	case domain.EventCheckIn:
		if r.Status != domain.StatusConfirmed {
			return "", invalid("")
		}
		if now.Before(r.Window.Start.Add(-p.CheckInGrace)) {
			return "", invalid("too early to check in")
		}
		if !now.Before(r.Window.End) {
			return "", invalid("window has ended")
		}
		return domain.StatusInProgress, nil

	case domain.EventNoShow:
		if r.Status != domain.StatusConfirmed {
			return "", invalid("")
		}
		if now.Before(r.Window.Start) {
			return "", invalid("window has not started")
		}
		return domain.StatusNoShow, nil

	case domain.EventComplete:
		if r.Status != domain.StatusInProgress {
			return "", invalid("")
		}
		return domain.StatusCompleted, nil

	default:
		return "", invalid("unknown event")
	}
}
