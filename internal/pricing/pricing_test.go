package pricing

import (
	"testing"
	"time"

	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

func TestQuote(t *testing.T) {
	t.Parallel()

	dayRate := domain.Rate{Unit: domain.RateUnitDay, Price: 10000, Currency: "USD"}
	hourRate := domain.Rate{Unit: domain.RateUnitHour, Price: 1500, Currency: "USD"}

	mustWindow := func(start time.Time, d time.Duration) domain.Window {
		w, err := domain.NewWindow(start, start.Add(d))
		if err != nil {
			t.Fatalf("window: %v", err)
		}
		return w
	}

	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)

	t.Run("three whole days at 100 per day", func(t *testing.T) {
		b, err := Quote(dayRate, mustWindow(start, 72*time.Hour), 2, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if b.UnitCount != 3 {
			t.Fatalf("expected 3 units, got %d", b.UnitCount)
		}
		if b.Total != 30000 {
			t.Fatalf("expected total 30000, got %d", b.Total)
		}
		if len(b.Lines) != 1 {
			t.Fatalf("expected a single line, got %d", len(b.Lines))
		}
	})

	t.Run("fractional remainder rounds up", func(t *testing.T) {
		b, err := Quote(dayRate, mustWindow(start, 25*time.Hour), 1, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if b.UnitCount != 2 {
			t.Fatalf("expected 2 units for 25h at a day rate, got %d", b.UnitCount)
		}
		if b.Total != 20000 {
			t.Fatalf("expected total 20000, got %d", b.Total)
		}
	})

	t.Run("hour rate counts hours", func(t *testing.T) {
		b, err := Quote(hourRate, mustWindow(start, 90*time.Minute), 1, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if b.UnitCount != 2 {
			t.Fatalf("expected 2 units for 90m at an hour rate, got %d", b.UnitCount)
		}
		if b.Total != 3000 {
			t.Fatalf("expected total 3000, got %d", b.Total)
		}
	})

	t.Run("selections become independent line items", func(t *testing.T) {
		b, err := Quote(dayRate, mustWindow(start, 24*time.Hour), 2, []domain.Selection{
			{Label: "sunbeds", UnitAmount: 500, Quantity: 2},
			{Label: "parasol", UnitAmount: 300, Quantity: 1},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(b.Lines) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(b.Lines))
		}
		if b.Lines[1].Label != "sunbeds" || b.Lines[1].Amount != 1000 {
			t.Fatalf("unexpected sunbeds line: %+v", b.Lines[1])
		}
		if b.Total != 10000+1000+300 {
			t.Fatalf("expected total 11300, got %d", b.Total)
		}
	})

	t.Run("invalid selection rejected", func(t *testing.T) {
		_, err := Quote(dayRate, mustWindow(start, 24*time.Hour), 1, []domain.Selection{
			{Label: "sunbeds", UnitAmount: 500, Quantity: 0},
		})
		if err != domain.ErrInvalidSelection {
			t.Fatalf("expected ErrInvalidSelection, got %v", err)
		}
	})

	t.Run("zero rate is unavailable, never free", func(t *testing.T) {
		_, err := Quote(domain.Rate{Unit: domain.RateUnitDay, Price: 0, Currency: "USD"}, mustWindow(start, 24*time.Hour), 1, nil)
		if err != domain.ErrPricingUnavailable {
			t.Fatalf("expected ErrPricingUnavailable, got %v", err)
		}
	})

	t.Run("unknown rate unit is unavailable", func(t *testing.T) {
		_, err := Quote(domain.Rate{Unit: "week", Price: 100, Currency: "USD"}, mustWindow(start, 24*time.Hour), 1, nil)
		if err != domain.ErrPricingUnavailable {
			t.Fatalf("expected ErrPricingUnavailable, got %v", err)
		}
	})

	t.Run("non-positive guest count rejected", func(t *testing.T) {
		_, err := Quote(dayRate, mustWindow(start, 24*time.Hour), 0, nil)
		if err != domain.ErrInvalidGuestCount {
			t.Fatalf("expected ErrInvalidGuestCount, got %v", err)
		}
	})
}
