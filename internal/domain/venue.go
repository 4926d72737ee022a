package domain

import "time"

type RateUnit string

const (
	RateUnitDay  RateUnit = "day"
	RateUnitHour RateUnit = "hour"
)

// Venue is a bookable unit (beach, pool, yacht, day-trip slot) owned by a
// host. The booking engine reads venues, never mutates them.
type Venue struct {
	ID        string
	HostID    string
	Name      string
	Capacity  int
	RateUnit  RateUnit
	BaseRate  int64 // minor currency units per billing unit
	Currency  string
	CreatedAt time.Time
}

// RateOverride adjusts the price for a single date, or closes it entirely.
type RateOverride struct {
	VenueID string
	Date    time.Time // date component only, UTC
	Rate    *int64
	Closed  bool
}

// Rate is the resolved pricing input for a venue on a specific date: the
// base rate with any date override already applied.
type Rate struct {
	Unit     RateUnit
	Price    int64
	Currency string
}
