package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidWindow       = "invalid_window"
	codeNotEnoughNotice     = "not_enough_notice"
	codeInvalidGuestCount   = "invalid_guest_count"
	codeCapacityExceeded    = "capacity_exceeded"
	codeInvalidSelection    = "invalid_selection"
	codeInvalidID           = "invalid_id"
	codeVenueNameRequired   = "venue_name_required"
	codeInvalidCapacity     = "invalid_capacity"
	codeInvalidRate         = "invalid_rate"
	codeForbidden           = "forbidden"
	codeVenueNotFound       = "venue_not_found"
	codeReservationNotFound = "reservation_not_found"
	codeOverlap             = "window_unavailable"
	codeCodeConflict        = "code_conflict"
	codeInvalidTransition   = "invalid_transition"
	codePricingUnavailable  = "pricing_unavailable"
	codeTimeout             = "timeout"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps service errors onto the shared response envelope.
// Handlers with extra cases switch before falling back to it.
func writeDomainError(w http.ResponseWriter, err error) {
	if domain.IsInvalidTransition(err) {
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, codeInvalidWindow, err.Error())
	case errors.Is(err, domain.ErrNotEnoughNotice):
		writeError(w, http.StatusBadRequest, codeNotEnoughNotice, err.Error())
	case errors.Is(err, domain.ErrInvalidGuestCount):
		writeError(w, http.StatusBadRequest, codeInvalidGuestCount, err.Error())
	case errors.Is(err, domain.ErrCapacityExceeded):
		writeError(w, http.StatusBadRequest, codeCapacityExceeded, err.Error())
	case errors.Is(err, domain.ErrInvalidSelection):
		writeError(w, http.StatusBadRequest, codeInvalidSelection, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case errors.Is(err, domain.ErrVenueNotFound):
		writeError(w, http.StatusNotFound, codeVenueNotFound, err.Error())
	case errors.Is(err, domain.ErrReservationNotFound):
		writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
	case errors.Is(err, domain.ErrOverlap):
		writeError(w, http.StatusConflict, codeOverlap, err.Error())
	case errors.Is(err, domain.ErrCodeConflict):
		writeError(w, http.StatusConflict, codeCodeConflict, err.Error())
	case errors.Is(err, domain.ErrPricingUnavailable):
		writeError(w, http.StatusUnprocessableEntity, codePricingUnavailable, err.Error())
	case errors.Is(err, domain.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, codeTimeout, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
