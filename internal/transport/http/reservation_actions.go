package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

const requesterHeader = "X-Requester-ID"

// ReservationReader is the minimal interface needed to look up reservations.
type ReservationReader interface {
	GetReservation(ctx context.Context, id string) (domain.Reservation, error)
	GetByCode(ctx context.Context, code string) (domain.Reservation, error)
}

// ReservationTransitioner is the minimal interface needed to move a
// reservation through its lifecycle.
type ReservationTransitioner interface {
	Confirm(ctx context.Context, id, requesterID string) (domain.Reservation, error)
	CancelReservation(ctx context.Context, id, requesterID, reason string) (domain.Reservation, error)
	CheckIn(ctx context.Context, id, requesterID string) (domain.Reservation, error)
	Complete(ctx context.Context, id, requesterID string) (domain.Reservation, error)
}

// ReservationService combines lookup and lifecycle operations for routing.
type ReservationService interface {
	ReservationReader
	ReservationTransitioner
}

// HandleReservationByID returns a handler for GET /reservations/{id} and
// POST /reservations/{id}/{action}.
func HandleReservationByID(svc ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, action, ok := parseReservationPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if action == "" {
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			res, err := svc.GetReservation(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toReservationResponse(res))
			return
		}

		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		requester := r.Header.Get(requesterHeader)
		if requester == "" {
			writeError(w, http.StatusForbidden, codeForbidden, "requester id is required")
			return
		}

		var res domain.Reservation
		var err error
		switch action {
		case "confirm":
			res, err = svc.Confirm(r.Context(), id, requester)
		case "cancel":
			var req cancelRequest
			if r.Body != nil && r.ContentLength != 0 {
				dec := json.NewDecoder(r.Body)
				dec.DisallowUnknownFields()
				if decErr := dec.Decode(&req); decErr != nil {
					writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
					return
				}
			}
			res, err = svc.CancelReservation(r.Context(), id, requester, req.Reason)
		case "check-in":
			res, err = svc.CheckIn(r.Context(), id, requester)
		case "complete":
			res, err = svc.Complete(r.Context(), id, requester)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toReservationResponse(res))
	}
}

// HandleReservationByCode returns a handler for GET /reservations/code/{code}.
func HandleReservationByCode(svc ReservationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		code, ok := parseReservationCodePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		res, err := svc.GetByCode(r.Context(), code)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toReservationResponse(res))
	}
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func parseReservationPath(path string) (id, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "reservations" {
		return "", "", false
	}
	if parts[1] == "" || parts[1] == "code" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], "", true
	}
	if parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func parseReservationCodePath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "reservations" || parts[1] != "code" {
		return "", false
	}
	if parts[2] == "" {
		return "", false
	}
	return parts[2], true
}
