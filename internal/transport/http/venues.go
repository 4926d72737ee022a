package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kaancelik05/swimago-api-sub001/internal/booking"
	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

// ReservationLister is the minimal interface needed to list a venue's
// reservations.
type ReservationLister interface {
	ListByVenue(ctx context.Context, venueID string, activeOnly bool) ([]domain.Reservation, error)
}

// VenueAdminService is the minimal interface needed for venue admin
// endpoints.
type VenueAdminService interface {
	CreateVenue(ctx context.Context, in booking.CreateVenueInput) (domain.Venue, error)
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	SetRateOverride(ctx context.Context, in booking.SetRateOverrideInput) error
}

// HandleVenueReservations returns a handler for
// GET /venues/{id}/reservations.
func HandleVenueReservations(svc ReservationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		venueID, ok := parseVenueReservationsPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		activeOnly := r.URL.Query().Get("active") == "true"
		reservations, err := svc.ListByVenue(r.Context(), venueID, activeOnly)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]reservationResponse, 0, len(reservations))
		for _, res := range reservations {
			resp = append(resp, toReservationResponse(res))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleAdminVenues returns a handler for venue creation and listing.
func HandleAdminVenues(svc VenueAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			venues, err := svc.ListVenues(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]venueResponse, 0, len(venues))
			for _, venue := range venues {
				resp = append(resp, toVenueResponse(venue))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req createVenueRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			venue, err := svc.CreateVenue(r.Context(), booking.CreateVenueInput{
				HostID:   req.HostID,
				Name:     req.Name,
				Capacity: req.Capacity,
				RateUnit: domain.RateUnit(req.RateUnit),
				BaseRate: req.BaseRate,
				Currency: req.Currency,
			})
			if err != nil {
				switch err {
				case domain.ErrVenueNameRequired:
					writeError(w, http.StatusBadRequest, codeVenueNameRequired, err.Error())
				case domain.ErrInvalidCapacity:
					writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
				case domain.ErrInvalidRate:
					writeError(w, http.StatusBadRequest, codeInvalidRate, err.Error())
				default:
					writeDomainError(w, err)
				}
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toVenueResponse(venue))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleAdminRateOverrides returns a handler for
// POST /admin/venues/{id}/overrides.
func HandleAdminRateOverrides(svc VenueAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		venueID, ok := parseAdminOverridesPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req rateOverrideRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid date format, expected YYYY-MM-DD")
			return
		}

		err = svc.SetRateOverride(r.Context(), booking.SetRateOverrideInput{
			VenueID: venueID,
			Date:    date,
			Rate:    req.Rate,
			Closed:  req.Closed,
		})
		if err != nil {
			switch err {
			case domain.ErrInvalidRate:
				writeError(w, http.StatusBadRequest, codeInvalidRate, err.Error())
			default:
				writeDomainError(w, err)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type createVenueRequest struct {
	HostID   string `json:"host_id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	RateUnit string `json:"rate_unit"`
	BaseRate int64  `json:"base_rate"`
	Currency string `json:"currency,omitempty"`
}

type venueResponse struct {
	ID        string    `json:"id"`
	HostID    string    `json:"host_id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	RateUnit  string    `json:"rate_unit"`
	BaseRate  int64     `json:"base_rate"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

func toVenueResponse(venue domain.Venue) venueResponse {
	return venueResponse{
		ID:        venue.ID,
		HostID:    venue.HostID,
		Name:      venue.Name,
		Capacity:  venue.Capacity,
		RateUnit:  string(venue.RateUnit),
		BaseRate:  venue.BaseRate,
		Currency:  venue.Currency,
		CreatedAt: venue.CreatedAt,
	}
}

type rateOverrideRequest struct {
	Date   string `json:"date"`
	Rate   *int64 `json:"rate,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

func parseVenueReservationsPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "venues" || parts[2] != "reservations" {
		return "", false
	}
	if parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func parseAdminOverridesPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != "admin" || parts[1] != "venues" || parts[3] != "overrides" {
		return "", false
	}
	if parts[2] == "" {
		return "", false
	}
	return parts[2], true
}
