package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kaancelik05/swimago-api-sub001/internal/booking"
	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

type stubReservationService struct {
	res domain.Reservation
	err error

	lastCreate    booking.CreateInput
	lastRequester string
	lastReason    string
}

func (s *stubReservationService) CreateReservation(ctx context.Context, in booking.CreateInput) (domain.Reservation, error) {
	s.lastCreate = in
	if s.err != nil {
		return domain.Reservation{}, s.err
	}
	return s.res, nil
}

func (s *stubReservationService) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	if s.err != nil {
		return domain.Reservation{}, s.err
	}
	return s.res, nil
}

func (s *stubReservationService) GetByCode(ctx context.Context, code string) (domain.Reservation, error) {
	if s.err != nil {
		return domain.Reservation{}, s.err
	}
	return s.res, nil
}

func (s *stubReservationService) Confirm(ctx context.Context, id, requesterID string) (domain.Reservation, error) {
	s.lastRequester = requesterID
	if s.err != nil {
		return domain.Reservation{}, s.err
	}
	return s.res, nil
}

func (s *stubReservationService) CancelReservation(ctx context.Context, id, requesterID, reason string) (domain.Reservation, error) {
	s.lastRequester = requesterID
	s.lastReason = reason
	if s.err != nil {
		return domain.Reservation{}, s.err
	}
	return s.res, nil
}

func (s *stubReservationService) CheckIn(ctx context.Context, id, requesterID string) (domain.Reservation, error) {
	s.lastRequester = requesterID
	if s.err != nil {
		return domain.Reservation{}, s.err
	}
	return s.res, nil
}

func (s *stubReservationService) Complete(ctx context.Context, id, requesterID string) (domain.Reservation, error) {
	s.lastRequester = requesterID
	if s.err != nil {
		return domain.Reservation{}, s.err
	}
	return s.res, nil
}

func sampleReservation() domain.Reservation {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	window, _ := domain.NewWindow(start, start.Add(48*time.Hour))
	return domain.Reservation{
		ID:         "res-123",
		Code:       "ABCD2345",
		VenueID:    "venue-1",
		GuestID:    "guest-1",
		Window:     window,
		GuestCount: 2,
		UnitPrice:  10000,
		UnitCount:  2,
		TotalPrice: 20000,
		FinalPrice: 20000,
		Currency:   "USD",
		Status:     domain.StatusPending,
		CreatedAt:  start.Add(-72 * time.Hour),
	}
}

func TestHandleCreateReservation(t *testing.T) {
	t.Parallel()

	validBody := `{"venue_id":"venue-1","guest_id":"guest-1","starts_at":"2025-07-01T00:00:00Z","ends_at":"2025-07-03T00:00:00Z","guest_count":2}`

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           validBody,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"code":"ABCD2345"`,
		},
		{
			name:           "invalid json",
			body:           `{"venue_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing ids",
			body:           `{"starts_at":"2025-07-01T00:00:00Z","ends_at":"2025-07-03T00:00:00Z","guest_count":2}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad timestamp",
			body:           `{"venue_id":"venue-1","guest_id":"guest-1","starts_at":"tomorrow","ends_at":"2025-07-03T00:00:00Z","guest_count":2}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "window rejected",
			body:           validBody,
			serviceErr:     domain.ErrInvalidWindow,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: codeInvalidWindow,
		},
		{
			name:           "not enough notice",
			body:           validBody,
			serviceErr:     domain.ErrNotEnoughNotice,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: codeNotEnoughNotice,
		},
		{
			name:           "venue not found",
			body:           validBody,
			serviceErr:     domain.ErrVenueNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "window taken",
			body:           validBody,
			serviceErr:     domain.ErrOverlap,
			expectedStatus: http.StatusConflict,
			expectedSubstr: codeOverlap,
		},
		{
			name:           "pricing unavailable",
			body:           validBody,
			serviceErr:     domain.ErrPricingUnavailable,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "timeout",
			body:           validBody,
			serviceErr:     domain.ErrTimeout,
			expectedStatus: http.StatusGatewayTimeout,
		},
		{
			name:           "internal error",
			body:           validBody,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubReservationService{res: sampleReservation(), err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleCreateReservation(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %s", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleCreateReservation_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
	rec := httptest.NewRecorder()
	HandleCreateReservation(&stubReservationService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandleCreateReservation_ForwardsSelections(t *testing.T) {
	t.Parallel()

	body := `{"venue_id":"venue-1","guest_id":"guest-1","starts_at":"2025-07-01T00:00:00Z","ends_at":"2025-07-03T00:00:00Z","guest_count":3,"guests":{"adults":2,"children":1},"selections":[{"label":"Cabana","unit_amount":2500,"quantity":1}]}`
	svc := &stubReservationService{res: sampleReservation()}
	req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	HandleCreateReservation(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastCreate.Guests.Adults != 2 || svc.lastCreate.Guests.Children != 1 {
		t.Fatalf("unexpected guest breakdown: %+v", svc.lastCreate.Guests)
	}
	if len(svc.lastCreate.Selections) != 1 || svc.lastCreate.Selections[0].Label != "Cabana" {
		t.Fatalf("unexpected selections: %+v", svc.lastCreate.Selections)
	}
}
