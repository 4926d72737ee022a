// Package pricing computes price breakdowns for reservation windows. It is
// pure: no I/O, no shared state.
package pricing

import (
	"fmt"
	"time"

	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

// Line is a single priced component of a quote.
type Line struct {
	Label  string
	Amount int64
}

// Breakdown is an ordered list of lines plus the derived totals, all in
// minor currency units.
type Breakdown struct {
	Lines     []Line
	UnitPrice int64
	UnitCount int
	Total     int64
	Currency  string
}

// Quote prices a window against a resolved venue rate. The unit count is the
// number of whole billing units the window spans; fractional remainders
// round up, so a stay never bills fewer units than it occupies. Selections
// are summed as independent line items. A rate that cannot price the window
// yields ErrPricingUnavailable, never a silent zero.
func Quote(rate domain.Rate, window domain.Window, guestCount int, selections []domain.Selection) (Breakdown, error) {
	if guestCount <= 0 {
		return Breakdown{}, domain.ErrInvalidGuestCount
	}
	if rate.Price <= 0 {
		return Breakdown{}, domain.ErrPricingUnavailable
	}
	unit, err := unitDuration(rate.Unit)
	if err != nil {
		return Breakdown{}, err
	}

	span := window.Duration()
	count := int(span / unit)
	if span%unit != 0 {
		count++
	}

	base := rate.Price * int64(count)
	b := Breakdown{
		Lines:     []Line{{Label: fmt.Sprintf("%d %s(s) at base rate", count, rate.Unit), Amount: base}},
		UnitPrice: rate.Price,
		UnitCount: count,
		Total:     base,
		Currency:  rate.Currency,
	}

	for _, sel := range selections {
		if sel.Label == "" || sel.Quantity <= 0 || sel.UnitAmount < 0 {
			return Breakdown{}, domain.ErrInvalidSelection
		}
		amount := sel.UnitAmount * int64(sel.Quantity)
		b.Lines = append(b.Lines, Line{Label: sel.Label, Amount: amount})
		b.Total += amount
	}

	return b, nil
}

func unitDuration(u domain.RateUnit) (time.Duration, error) {
	switch u {
	case domain.RateUnitDay:
		return 24 * time.Hour, nil
	case domain.RateUnitHour:
		return time.Hour, nil
	default:
		return 0, domain.ErrPricingUnavailable
	}
}
