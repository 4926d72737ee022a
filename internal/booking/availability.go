package booking

import (
	"context"

	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

// ReservationFinder is the reservation-lookup capability the availability
// check runs over.
type ReservationFinder interface {
	FindOverlapping(ctx context.Context, venueID string, window domain.Window, excludeID string) ([]domain.Reservation, error)
}

// Checker answers whether a venue is free for a candidate window. Results
// are always read fresh from the store: caching here would reintroduce
// double-booking.
//
// A free answer is a necessary precondition, not a sufficient one; the
// service re-runs the check inside the same transaction that inserts the
// reservation, holding the venue row lock.
type Checker struct {
	finder ReservationFinder
}

func NewChecker(finder ReservationFinder) *Checker {
	return &Checker{finder: finder}
}

// IsFree reports whether no occupying reservation overlaps the window.
// excludeID, when non-empty, skips one reservation so re-validating an
// existing reservation does not collide with itself.
func (c *Checker) IsFree(ctx context.Context, venueID string, window domain.Window, excludeID string) (bool, error) {
	existing, err := c.finder.FindOverlapping(ctx, venueID, window, excludeID)
	if err != nil {
		return false, err
	}
	return len(existing) == 0, nil
}
