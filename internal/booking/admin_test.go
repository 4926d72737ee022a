package booking

import (
	"context"
	"testing"
	"time"

	"github.com/kaancelik05/swimago-api-sub001/internal/clock"
	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

func TestVenueAdminService_CreateVenue(t *testing.T) {
	t.Parallel()

	repo := newFakeVenueAdminRepo()
	svc := NewVenueAdminService(repo, clock.NewFixed(testNow))
	ctx := context.Background()

	t.Run("creates venue with defaults", func(t *testing.T) {
		venue, err := svc.CreateVenue(ctx, CreateVenueInput{
			HostID: testHostID, Name: "South Pool", Capacity: 20,
			RateUnit: domain.RateUnitHour, BaseRate: 1500,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if venue.ID == "" || venue.Currency != "USD" || !venue.CreatedAt.Equal(testNow) {
			t.Fatalf("unexpected venue: %+v", venue)
		}
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name string
			in   CreateVenueInput
			want error
		}{
			{"empty name", CreateVenueInput{Capacity: 5, RateUnit: domain.RateUnitDay, BaseRate: 100}, domain.ErrVenueNameRequired},
			{"zero capacity", CreateVenueInput{Name: "X", RateUnit: domain.RateUnitDay, BaseRate: 100}, domain.ErrInvalidCapacity},
			{"zero rate", CreateVenueInput{Name: "X", Capacity: 5, RateUnit: domain.RateUnitDay}, domain.ErrInvalidRate},
			{"bad unit", CreateVenueInput{Name: "X", Capacity: 5, RateUnit: "week", BaseRate: 100}, domain.ErrInvalidRate},
		}
		for _, tc := range cases {
			if _, err := svc.CreateVenue(ctx, tc.in); err != tc.want {
				t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
			}
		}
	})
}

func TestVenueAdminService_SetRateOverride(t *testing.T) {
	t.Parallel()

	repo := newFakeVenueAdminRepo()
	svc := NewVenueAdminService(repo, clock.NewFixed(testNow))
	ctx := context.Background()

	venue, err := svc.CreateVenue(ctx, CreateVenueInput{
		HostID: testHostID, Name: "East Yacht", Capacity: 8,
		RateUnit: domain.RateUnitDay, BaseRate: 90000, Currency: "EUR",
	})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}

	rate := int64(120000)
	if err := svc.SetRateOverride(ctx, SetRateOverrideInput{
		VenueID: venue.ID, Date: time.Date(2025, 8, 15, 13, 30, 0, 0, time.UTC), Rate: &rate,
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := repo.overrides[venue.ID]
	if got.Rate == nil || *got.Rate != rate {
		t.Fatalf("expected override stored, got %+v", got)
	}
	if got.Date.Hour() != 0 {
		t.Fatalf("expected date truncated to midnight, got %v", got.Date)
	}

	bad := int64(-5)
	if err := svc.SetRateOverride(ctx, SetRateOverrideInput{VenueID: venue.ID, Date: testNow, Rate: &bad}); err != domain.ErrInvalidRate {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
	if err := svc.SetRateOverride(ctx, SetRateOverrideInput{VenueID: "venue-missing", Date: testNow, Closed: true}); err != domain.ErrVenueNotFound {
		t.Fatalf("expected ErrVenueNotFound, got %v", err)
	}
}

func TestVenueAdminService_SetRateOverrideEvictsCache(t *testing.T) {
	t.Parallel()

	repo := newFakeVenueAdminRepo()
	inv := &fakeRateInvalidator{}
	svc := NewVenueAdminService(repo, clock.NewFixed(testNow), WithRateInvalidator(inv))
	ctx := context.Background()

	venue, err := svc.CreateVenue(ctx, CreateVenueInput{
		HostID: testHostID, Name: "North Beach", Capacity: 12,
		RateUnit: domain.RateUnitDay, BaseRate: 30000,
	})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}

	rate := int64(45000)
	if err := svc.SetRateOverride(ctx, SetRateOverrideInput{
		VenueID: venue.ID, Date: time.Date(2025, 8, 15, 13, 30, 0, 0, time.UTC), Rate: &rate,
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(inv.calls) != 1 {
		t.Fatalf("expected one eviction, got %d", len(inv.calls))
	}
	if inv.calls[0].venueID != venue.ID {
		t.Fatalf("expected eviction for venue %s, got %s", venue.ID, inv.calls[0].venueID)
	}
	if want := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC); !inv.calls[0].date.Equal(want) {
		t.Fatalf("expected eviction for stored date %v, got %v", want, inv.calls[0].date)
	}

	// closing a date evicts too, so a cached open rate cannot survive it
	if err := svc.SetRateOverride(ctx, SetRateOverrideInput{VenueID: venue.ID, Date: testNow, Closed: true}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(inv.calls) != 2 {
		t.Fatalf("expected second eviction, got %d", len(inv.calls))
	}

	// rejected writes leave the cache alone
	if err := svc.SetRateOverride(ctx, SetRateOverrideInput{VenueID: "venue-missing", Date: testNow, Closed: true}); err != domain.ErrVenueNotFound {
		t.Fatalf("expected ErrVenueNotFound, got %v", err)
	}
	if len(inv.calls) != 2 {
		t.Fatalf("expected no eviction on failed write, got %d", len(inv.calls))
	}
}

type fakeRateInvalidator struct {
	calls []struct {
		venueID string
		date    time.Time
	}
}

func (f *fakeRateInvalidator) Invalidate(_ context.Context, venueID string, date time.Time) {
	f.calls = append(f.calls, struct {
		venueID string
		date    time.Time
	}{venueID, date})
}

type fakeVenueAdminRepo struct {
	venues    map[string]domain.Venue
	overrides map[string]domain.RateOverride
}

func newFakeVenueAdminRepo() *fakeVenueAdminRepo {
	return &fakeVenueAdminRepo{
		venues:    make(map[string]domain.Venue),
		overrides: make(map[string]domain.RateOverride),
	}
}

func (f *fakeVenueAdminRepo) CreateVenue(_ context.Context, venue domain.Venue) error {
	f.venues[venue.ID] = venue
	return nil
}

func (f *fakeVenueAdminRepo) GetVenue(_ context.Context, id string) (domain.Venue, error) {
	v, ok := f.venues[id]
	if !ok {
		return domain.Venue{}, domain.ErrVenueNotFound
	}
	return v, nil
}

func (f *fakeVenueAdminRepo) ListVenues(_ context.Context) ([]domain.Venue, error) {
	out := make([]domain.Venue, 0, len(f.venues))
	for _, v := range f.venues {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVenueAdminRepo) UpsertRateOverride(_ context.Context, override domain.RateOverride) error {
	f.overrides[override.VenueID] = override
	return nil
}
