package domain

import "time"

// Window is a half-open time interval [Start, End) requested or occupied by
// a reservation.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window, rejecting zero-length and inverted intervals.
func NewWindow(start, end time.Time) (Window, error) {
	if !start.Before(end) {
		return Window{}, ErrInvalidWindow
	}
	return Window{Start: start.UTC(), End: end.UTC()}, nil
}

// Overlaps reports whether two half-open windows share at least one instant.
// The predicate is symmetric: back-to-back windows ([a,b) and [b,c)) do not
// overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
