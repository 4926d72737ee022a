package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kaancelik05/swimago-api-sub001/internal/booking"
	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

// ReservationCreator is the minimal interface needed to create a reservation.
type ReservationCreator interface {
	CreateReservation(ctx context.Context, in booking.CreateInput) (domain.Reservation, error)
}

// HandleCreateReservation returns an HTTP handler for creating reservations.
func HandleCreateReservation(svc ReservationCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createReservationRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, err.Error())
			return
		}

		res, err := svc.CreateReservation(r.Context(), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toReservationResponse(res))
	}
}

type createReservationRequest struct {
	VenueID    string             `json:"venue_id"`
	GuestID    string             `json:"guest_id"`
	StartsAt   string             `json:"starts_at"`
	EndsAt     string             `json:"ends_at"`
	GuestCount int                `json:"guest_count"`
	Guests     *guestBreakdown    `json:"guests,omitempty"`
	Selections []selectionRequest `json:"selections,omitempty"`
}

type guestBreakdown struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

type selectionRequest struct {
	Label      string `json:"label"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int    `json:"quantity"`
}

func (r createReservationRequest) toInput() (booking.CreateInput, error) {
	if r.VenueID == "" || r.GuestID == "" {
		return booking.CreateInput{}, errors.New("venue_id and guest_id are required")
	}

	start, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return booking.CreateInput{}, errors.New("invalid starts_at format")
	}
	end, err := time.Parse(time.RFC3339, r.EndsAt)
	if err != nil {
		return booking.CreateInput{}, errors.New("invalid ends_at format")
	}

	in := booking.CreateInput{
		VenueID:    r.VenueID,
		GuestID:    r.GuestID,
		Start:      start,
		End:        end,
		GuestCount: r.GuestCount,
	}
	if r.Guests != nil {
		in.Guests = domain.GuestBreakdown{
			Adults:   r.Guests.Adults,
			Children: r.Guests.Children,
			Infants:  r.Guests.Infants,
		}
	}
	for _, sel := range r.Selections {
		in.Selections = append(in.Selections, domain.Selection{
			Label:      sel.Label,
			UnitAmount: sel.UnitAmount,
			Quantity:   sel.Quantity,
		})
	}
	return in, nil
}

type reservationResponse struct {
	ID                 string             `json:"id"`
	Code               string             `json:"code"`
	VenueID            string             `json:"venue_id"`
	GuestID            string             `json:"guest_id"`
	StartsAt           time.Time          `json:"starts_at"`
	EndsAt             time.Time          `json:"ends_at"`
	GuestCount         int                `json:"guest_count"`
	Guests             guestBreakdown     `json:"guests"`
	Selections         []selectionRequest `json:"selections,omitempty"`
	UnitPrice          int64              `json:"unit_price"`
	UnitCount          int                `json:"unit_count"`
	TotalPrice         int64              `json:"total_price"`
	Discount           int64              `json:"discount"`
	FinalPrice         int64              `json:"final_price"`
	Currency           string             `json:"currency"`
	Status             string             `json:"status"`
	CancellationReason string             `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	ConfirmedAt        *time.Time         `json:"confirmed_at,omitempty"`
	CheckedInAt        *time.Time         `json:"checked_in_at,omitempty"`
	CancelledAt        *time.Time         `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time         `json:"completed_at,omitempty"`
}

func toReservationResponse(res domain.Reservation) reservationResponse {
	resp := reservationResponse{
		ID:         res.ID,
		Code:       res.Code,
		VenueID:    res.VenueID,
		GuestID:    res.GuestID,
		StartsAt:   res.Window.Start,
		EndsAt:     res.Window.End,
		GuestCount: res.GuestCount,
		Guests: guestBreakdown{
			Adults:   res.Guests.Adults,
			Children: res.Guests.Children,
			Infants:  res.Guests.Infants,
		},
		UnitPrice:          res.UnitPrice,
		UnitCount:          res.UnitCount,
		TotalPrice:         res.TotalPrice,
		Discount:           res.Discount,
		FinalPrice:         res.FinalPrice,
		Currency:           res.Currency,
		Status:             string(res.Status),
		CancellationReason: res.CancellationReason,
		CreatedAt:          res.CreatedAt,
		ConfirmedAt:        res.ConfirmedAt,
		CheckedInAt:        res.CheckedInAt,
		CancelledAt:        res.CancelledAt,
		CompletedAt:        res.CompletedAt,
	}
	for _, sel := range res.Selections {
		resp.Selections = append(resp.Selections, selectionRequest{
			Label:      sel.Label,
			UnitAmount: sel.UnitAmount,
			Quantity:   sel.Quantity,
		})
	}
	return resp
}
