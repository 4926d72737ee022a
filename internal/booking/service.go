package booking

import (
	"context"
	"errors"
	"time"

	"github.com/kaancelik05/swimago-api-sub001/internal/clock"
	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
	"github.com/kaancelik05/swimago-api-sub001/internal/notify"
	"github.com/kaancelik05/swimago-api-sub001/internal/pricing"
)

// ReservationStore is the persistence contract for reservations. WithTx
// provides the atomic check-then-insert discipline: every store call made
// with the context handed to fn runs inside one transaction, and the
// transaction spans the venue row lock taken through VenueStore.
type ReservationStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindOverlapping(ctx context.Context, venueID string, window domain.Window, excludeID string) ([]domain.Reservation, error)
	Insert(ctx context.Context, res domain.Reservation) error
	Get(ctx context.Context, id string) (domain.Reservation, error)
	GetForUpdate(ctx context.Context, id string) (domain.Reservation, error)
	GetByCode(ctx context.Context, code string) (domain.Reservation, error)
	ListByVenue(ctx context.Context, venueID string, activeOnly bool) ([]domain.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReservationStatus, at time.Time, reason string) error
}

// VenueStore reads venue data. GetVenueForUpdate locks the venue row so all
// writers against one venue serialize; requests against different venues
// proceed in parallel.
type VenueStore interface {
	GetVenue(ctx context.Context, id string) (domain.Venue, error)
	GetVenueForUpdate(ctx context.Context, id string) (domain.Venue, error)
}

// RateLookup resolves the rate applicable to a venue on a date.
type RateLookup interface {
	GetRate(ctx context.Context, venueID string, date time.Time) (domain.Rate, error)
}

// NotificationSink receives lifecycle events. Delivery is best effort and
// never awaited by the booking path.
type NotificationSink interface {
	Notify(ctx context.Context, ev notify.Event)
}

// Service sequences pricing, availability, code issuance and persistence for
// the reservation lifecycle.
type Service struct {
	store        ReservationStore
	venues       VenueStore
	rates        RateLookup
	checker      *Checker
	sink         NotificationSink
	clock        clock.Clock
	policy       Policy
	codeAttempts int
}

const defaultCodeAttempts = 5

const notifyTimeout = 5 * time.Second

// systemRequester marks transitions initiated by the engine itself (the
// no-show sweep); they bypass the requester check.
const systemRequester = ""

func NewService(store ReservationStore, venues VenueStore, rates RateLookup, sink NotificationSink, clk clock.Clock, opts ...Option) *Service {
	svc := &Service{
		store:        store,
		venues:       venues,
		rates:        rates,
		checker:      NewChecker(store),
		sink:         sink,
		clock:        clk,
		policy:       DefaultPolicy(),
		codeAttempts: defaultCodeAttempts,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type Option func(*Service)

// WithPolicy overrides the default lifecycle policy.
func WithPolicy(p Policy) Option {
	return func(s *Service) {
		if p.MinimumNotice > 0 {
			s.policy.MinimumNotice = p.MinimumNotice
		}
		if p.CancellationWindow > 0 {
			s.policy.CancellationWindow = p.CancellationWindow
		}
		if p.CheckInGrace > 0 {
			s.policy.CheckInGrace = p.CheckInGrace
		}
	}
}

// WithCodeAttempts overrides how many confirmation-code collisions are
// retried before the create fails.
func WithCodeAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.codeAttempts = n
		}
	}
}

type CreateInput struct {
	VenueID    string
	GuestID    string
	Start      time.Time
	End        time.Time
	GuestCount int
	Guests     domain.GuestBreakdown
	Selections []domain.Selection
}

// CreateReservation validates the request, prices it, and commits the new
// reservation atomically with a fresh availability check. The venue row lock
// makes "check and insert" one unit with respect to other writers on the
// same venue; the store's exclusion constraint backstops it across
// processes.
func (s *Service) CreateReservation(ctx context.Context, in CreateInput) (domain.Reservation, error) {
	window, err := domain.NewWindow(in.Start, in.End)
	if err != nil {
		return domain.Reservation{}, err
	}

	now := s.clock.Now()
	if window.Start.Before(now) {
		return domain.Reservation{}, domain.ErrInvalidWindow
	}
	if window.Start.Before(now.Add(s.policy.MinimumNotice)) {
		return domain.Reservation{}, domain.ErrNotEnoughNotice
	}
	if in.GuestCount <= 0 {
		return domain.Reservation{}, domain.ErrInvalidGuestCount
	}

	venue, err := s.venues.GetVenue(ctx, in.VenueID)
	if err != nil {
		return domain.Reservation{}, s.mapTimeout(err)
	}
	if in.GuestCount > venue.Capacity {
		return domain.Reservation{}, domain.ErrCapacityExceeded
	}

	rate, err := s.rates.GetRate(ctx, in.VenueID, window.Start)
	if err != nil {
		return domain.Reservation{}, s.mapTimeout(err)
	}
	quote, err := pricing.Quote(rate, window, in.GuestCount, in.Selections)
	if err != nil {
		return domain.Reservation{}, err
	}

	res := domain.Reservation{
		ID:         newUUID(),
		VenueID:    in.VenueID,
		GuestID:    in.GuestID,
		Window:     window,
		GuestCount: in.GuestCount,
		Guests:     in.Guests,
		Selections: in.Selections,
		UnitPrice:  quote.UnitPrice,
		UnitCount:  quote.UnitCount,
		TotalPrice: quote.Total,
		FinalPrice: quote.Total,
		Currency:   quote.Currency,
		Status:     domain.StatusPending,
		CreatedAt:  now,
	}

	err = s.store.WithTx(ctx, func(txCtx context.Context) error {
		// Serialize writers on this venue before deciding.
		if _, err := s.venues.GetVenueForUpdate(txCtx, in.VenueID); err != nil {
			return err
		}

		free, err := s.checker.IsFree(txCtx, in.VenueID, window, "")
		if err != nil {
			return err
		}
		if !free {
			return domain.ErrOverlap
		}

		for attempt := 0; attempt < s.codeAttempts; attempt++ {
			res.Code = NewCode()
			if res.Code == "" {
				continue
			}
			err := s.store.Insert(txCtx, res)
			if err == nil {
				return nil
			}
			if errors.Is(err, domain.ErrCodeConflict) {
				continue
			}
			return err
		}
		return domain.ErrCodeConflict
	})
	if err != nil {
		return domain.Reservation{}, s.mapTimeout(err)
	}

	s.emit(notify.TypeReservationCreated, res)
	return res, nil
}

// Confirm moves a pending reservation to confirmed on behalf of the host
// (or the surrounding system).
func (s *Service) Confirm(ctx context.Context, id, requesterID string) (domain.Reservation, error) {
	return s.transition(ctx, id, requesterID, domain.EventConfirm, "")
}

// CancelReservation cancels a pending or confirmed reservation, subject to
// the cancellation-window guard. The reason is recorded on the reservation.
func (s *Service) CancelReservation(ctx context.Context, id, requesterID, reason string) (domain.Reservation, error) {
	return s.transition(ctx, id, requesterID, domain.EventCancel, reason)
}

// CheckIn moves a confirmed reservation to in_progress within the check-in
// window.
func (s *Service) CheckIn(ctx context.Context, id, requesterID string) (domain.Reservation, error) {
	return s.transition(ctx, id, requesterID, domain.EventCheckIn, "")
}

// Complete finishes an in-progress reservation.
func (s *Service) Complete(ctx context.Context, id, requesterID string) (domain.Reservation, error) {
	return s.transition(ctx, id, requesterID, domain.EventComplete, "")
}

// MarkNoShow is the system-initiated confirmed -> no_show transition used by
// the sweeper. It is never exposed to requesters.
func (s *Service) MarkNoShow(ctx context.Context, id string) (domain.Reservation, error) {
	return s.transition(ctx, id, systemRequester, domain.EventNoShow, "")
}

func (s *Service) transition(ctx context.Context, id, requesterID string, event domain.TransitionEvent, reason string) (domain.Reservation, error) {
	var result domain.Reservation

	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.store.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		if requesterID != systemRequester {
			venue, err := s.venues.GetVenue(txCtx, res.VenueID)
			if err != nil {
				return err
			}
			if requesterID != res.GuestID && requesterID != venue.HostID {
				return domain.ErrUnauthorized
			}
			// Confirmation is the host accepting the request; the guest
			// only waits for it.
			if event == domain.EventConfirm && requesterID != venue.HostID {
				return domain.ErrUnauthorized
			}
		}

		now := s.clock.Now()
		if err := Transition(&res, event, now, s.policy); err != nil {
			return err
		}
		if event == domain.EventCancel {
			res.CancellationReason = reason
		}

		if err := s.store.UpdateStatus(txCtx, res.ID, res.Status, now, res.CancellationReason); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, s.mapTimeout(err)
	}

	s.emit(eventType(event), result)
	return result, nil
}

func (s *Service) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	res, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Reservation{}, s.mapTimeout(err)
	}
	return res, nil
}

// GetByCode looks a reservation up by its confirmation code.
func (s *Service) GetByCode(ctx context.Context, code string) (domain.Reservation, error) {
	res, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return domain.Reservation{}, s.mapTimeout(err)
	}
	return res, nil
}

// ListByVenue returns a venue's reservations, optionally restricted to the
// occupying statuses.
func (s *Service) ListByVenue(ctx context.Context, venueID string, activeOnly bool) ([]domain.Reservation, error) {
	list, err := s.store.ListByVenue(ctx, venueID, activeOnly)
	if err != nil {
		return nil, s.mapTimeout(err)
	}
	return list, nil
}

// mapTimeout converts a deadline expiry into the Timeout error kind. The
// transaction has already rolled back by then; no partial state remains.
func (s *Service) mapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	return err
}

func (s *Service) emit(typ string, res domain.Reservation) {
	if s.sink == nil {
		return
	}
	ev := notify.Event{
		Type:          typ,
		ReservationID: res.ID,
		Code:          res.Code,
		VenueID:       res.VenueID,
		GuestID:       res.GuestID,
		Status:        string(res.Status),
		StartsAt:      res.Window.Start,
		EndsAt:        res.Window.End,
		FinalPrice:    res.FinalPrice,
		Currency:      res.Currency,
		OccurredAt:    s.clock.Now(),
	}
	// Fire and forget: the booking path never waits on delivery.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		s.sink.Notify(ctx, ev)
	}()
}

func eventType(event domain.TransitionEvent) string {
	switch event {
	case domain.EventConfirm:
		return notify.TypeReservationConfirmed
	case domain.EventCancel:
		return notify.TypeReservationCancelled
	case domain.EventCheckIn:
		return notify.TypeReservationCheckedIn
	case domain.EventNoShow:
		return notify.TypeReservationNoShow
	case domain.EventComplete:
		return notify.TypeReservationCompleted
	}
	return string(event)
}
