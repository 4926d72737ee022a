package domain

import "time"

type ReservationStatus string

const (
	StatusPending    ReservationStatus = "pending"
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusInProgress ReservationStatus = "in_progress"
	StatusCompleted  ReservationStatus = "completed"
	StatusCancelled  ReservationStatus = "cancelled"
	StatusNoShow     ReservationStatus = "no_show"
)

// OccupyingStatuses are the statuses that count against venue availability.
var OccupyingStatuses = []ReservationStatus{StatusPending, StatusConfirmed, StatusInProgress}

// Occupying reports whether a reservation in this status blocks overlapping
// windows on the same venue.
func (s ReservationStatus) Occupying() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}

// Terminal reports whether the status accepts no further transitions.
func (s ReservationStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// GuestBreakdown is the optional structured occupancy split.
type GuestBreakdown struct {
	Adults   int
	Children int
	Infants  int
}

// Selection is a price-affecting add-on (sunbeds, cabana, transfer). A
// selection never affects overlap detection.
type Selection struct {
	Label      string
	UnitAmount int64
	Quantity   int
}

// Reservation is time-bounded access to a venue by a guest. It is created
// only through the booking service and mutated only through approved
// lifecycle transitions; cancellation is a status change, never a delete.
type Reservation struct {
	ID      string
	Code    string // human-facing confirmation code, immutable once issued
	VenueID string
	GuestID string

	Window     Window
	GuestCount int
	Guests     GuestBreakdown
	Selections []Selection

	// Prices are in minor currency units.
	UnitPrice  int64
	UnitCount  int
	TotalPrice int64
	Discount   int64
	FinalPrice int64
	Currency   string

	Status             ReservationStatus
	CancellationReason string

	CreatedAt   time.Time
	ConfirmedAt *time.Time
	CheckedInAt *time.Time
	CancelledAt *time.Time
	CompletedAt *time.Time
}

// ApplyDiscount sets the discount, keeping FinalPrice = TotalPrice - Discount
// non-negative.
func (r *Reservation) ApplyDiscount(amount int64) error {
	if amount < 0 || amount > r.TotalPrice {
		return ErrInvalidDiscount
	}
	r.Discount = amount
	r.FinalPrice = r.TotalPrice - amount
	return nil
}
