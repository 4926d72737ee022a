package booking

import (
	"context"
	"time"

	"github.com/kaancelik05/swimago-api-sub001/internal/clock"
	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

// VenueAdminRepository is the write surface for venue provisioning. The
// booking engine itself only ever reads venues; provisioning exists so the
// surrounding system has somewhere to put rate data.
type VenueAdminRepository interface {
	CreateVenue(ctx context.Context, venue domain.Venue) error
	GetVenue(ctx context.Context, id string) (domain.Venue, error)
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	UpsertRateOverride(ctx context.Context, override domain.RateOverride) error
}

// RateInvalidator drops any cached rate for a venue and date after the
// stored value changes.
type RateInvalidator interface {
	Invalidate(ctx context.Context, venueID string, date time.Time)
}

type VenueAdminService struct {
	repo        VenueAdminRepository
	clock       clock.Clock
	invalidator RateInvalidator
}

func NewVenueAdminService(repo VenueAdminRepository, clk clock.Clock, opts ...AdminOption) *VenueAdminService {
	svc := &VenueAdminService{repo: repo, clock: clk}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type AdminOption func(*VenueAdminService)

// WithRateInvalidator makes rate override writes evict the matching cache
// entry, so bookings never quote a stale price for the rest of the TTL.
func WithRateInvalidator(inv RateInvalidator) AdminOption {
	return func(s *VenueAdminService) {
		s.invalidator = inv
	}
}

type CreateVenueInput struct {
	HostID   string
	Name     string
	Capacity int
	RateUnit domain.RateUnit
	BaseRate int64
	Currency string
}

func (s *VenueAdminService) CreateVenue(ctx context.Context, in CreateVenueInput) (domain.Venue, error) {
	if in.Name == "" {
		return domain.Venue{}, domain.ErrVenueNameRequired
	}
	if in.Capacity <= 0 {
		return domain.Venue{}, domain.ErrInvalidCapacity
	}
	if in.BaseRate <= 0 {
		return domain.Venue{}, domain.ErrInvalidRate
	}
	if in.RateUnit != domain.RateUnitDay && in.RateUnit != domain.RateUnitHour {
		return domain.Venue{}, domain.ErrInvalidRate
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	venue := domain.Venue{
		ID:        newUUID(),
		HostID:    in.HostID,
		Name:      in.Name,
		Capacity:  in.Capacity,
		RateUnit:  in.RateUnit,
		BaseRate:  in.BaseRate,
		Currency:  currency,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateVenue(ctx, venue); err != nil {
		return domain.Venue{}, err
	}
	return venue, nil
}

func (s *VenueAdminService) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	return s.repo.ListVenues(ctx)
}

type SetRateOverrideInput struct {
	VenueID string
	Date    time.Time
	Rate    *int64
	Closed  bool
}

// SetRateOverride records a per-date price or closure for a venue.
func (s *VenueAdminService) SetRateOverride(ctx context.Context, in SetRateOverrideInput) error {
	if in.VenueID == "" {
		return domain.ErrInvalidID
	}
	if in.Rate != nil && *in.Rate <= 0 {
		return domain.ErrInvalidRate
	}
	if _, err := s.repo.GetVenue(ctx, in.VenueID); err != nil {
		return err
	}

	date := in.Date.UTC().Truncate(24 * time.Hour)
	if err := s.repo.UpsertRateOverride(ctx, domain.RateOverride{
		VenueID: in.VenueID,
		Date:    date,
		Rate:    in.Rate,
		Closed:  in.Closed,
	}); err != nil {
		return err
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, in.VenueID, date)
	}
	return nil
}
