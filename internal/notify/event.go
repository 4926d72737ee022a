// Package notify carries reservation lifecycle events to external
// consumers (mailers, analytics, host dashboards) without making the
// booking path wait on them.
package notify

import "time"

const (
	TypeReservationCreated   = "reservation.created"
	TypeReservationConfirmed = "reservation.confirmed"
	TypeReservationCancelled = "reservation.cancelled"
	TypeReservationCheckedIn = "reservation.checked_in"
	TypeReservationCompleted = "reservation.completed"
	TypeReservationNoShow    = "reservation.no_show"
)

// Event is the payload published for a reservation lifecycle change. It
// carries enough for downstream consumers to notify or log without querying
// the primary database.
type Event struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	Code          string    `json:"confirmation_code"`
	VenueID       string    `json:"venue_id"`
	GuestID       string    `json:"guest_id"`
	Status        string    `json:"status"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	FinalPrice    int64     `json:"final_price"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}
