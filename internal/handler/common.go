// Package handler exposes the booking core over HTTP.  Handlers bind
// and shape requests, delegate every decision to the service layer, and
// translate fault kinds into stable HTTP statuses.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
	"github.com/ericfaux/dockslot-app-sub004/internal/service"
)

// Health handles GET /healthz for load balancers and monitoring.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// captainID extracts the authenticated captain id injected by the
// CaptainAuth middleware.
func captainID(c echo.Context) (uint64, bool) {
	v, ok := c.Get("captain_id").(uint64)
	return v, ok && v > 0
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// faultStatus maps each fault kind to its HTTP status.  Kinds are part
// of the API contract: the body always carries the kind and message so
// clients can present a precise, stable error.
func faultStatus(kind service.FaultKind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindCapacity, service.KindInvalidTransition,
		service.KindBlackout, service.KindOutsideHours, service.KindHibernating:
		return http.StatusUnprocessableEntity
	case service.KindUnauthorized:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// fail renders a service error as JSON.  Every failure body has the
// same shape: {"error": KIND, "message": ...}.
func fail(c echo.Context, err error) error {
	kind := service.KindOf(err)
	msg := "internal error"
	var f *service.Fault
	if ok := asFault(err, &f); ok {
		msg = f.Message
	}
	return c.JSON(faultStatus(kind), echo.Map{"error": string(kind), "message": msg})
}

func asFault(err error, target **service.Fault) bool {
	f, ok := err.(*service.Fault)
	if ok {
		*target = f
	}
	return ok
}

// parseTimeField parses an RFC3339 timestamp from a request body field.
func parseTimeField(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	return t.UTC(), err == nil
}

// bookingResponse is the JSON shape of a booking returned to captains.
type bookingResponse struct {
	ID                  uint64  `json:"id"`
	CaptainID           uint64  `json:"captain_id"`
	VesselID            *uint64 `json:"vessel_id,omitempty"`
	TripTypeID          *uint64 `json:"trip_type_id,omitempty"`
	ScheduledStart      string  `json:"scheduled_start"`
	ScheduledEnd        string  `json:"scheduled_end"`
	OriginalStart       *string `json:"original_start,omitempty"`
	PartySize           int     `json:"party_size"`
	GuestCount          *int    `json:"guest_count,omitempty"`
	GuestName           string  `json:"guest_name"`
	GuestEmail          string  `json:"guest_email"`
	GuestPhone          *string `json:"guest_phone,omitempty"`
	SpecialRequests     *string `json:"special_requests,omitempty"`
	Status              string  `json:"status"`
	WeatherHoldReason   *string `json:"weather_hold_reason,omitempty"`
	TotalPriceCents     int64   `json:"total_price_cents"`
	DepositPaidCents    int64   `json:"deposit_paid_cents"`
	BalanceDueCents     int64   `json:"balance_due_cents"`
	PaymentStatus       string  `json:"payment_status"`
	InternalNotes       *string `json:"internal_notes,omitempty"`
	CaptainInstructions *string `json:"captain_instructions,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

func toBookingResponse(b *model.Booking) bookingResponse {
	resp := bookingResponse{
		ID:                  b.ID,
		CaptainID:           b.CaptainID,
		VesselID:            b.VesselID,
		TripTypeID:          b.TripTypeID,
		ScheduledStart:      b.ScheduledStart.UTC().Format(time.RFC3339),
		ScheduledEnd:        b.ScheduledEnd.UTC().Format(time.RFC3339),
		PartySize:           b.PartySize,
		GuestCount:          b.GuestCount,
		GuestName:           b.GuestName,
		GuestEmail:          b.GuestEmail,
		GuestPhone:          b.GuestPhone,
		SpecialRequests:     b.SpecialRequests,
		Status:              b.Status.String(),
		WeatherHoldReason:   b.WeatherHoldReason,
		TotalPriceCents:     b.TotalPriceCents,
		DepositPaidCents:    b.DepositPaidCents,
		BalanceDueCents:     b.BalanceDueCents,
		PaymentStatus:       string(b.PaymentStatus),
		InternalNotes:       b.InternalNotes,
		CaptainInstructions: b.CaptainInstructions,
		CreatedAt:           b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           b.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if b.OriginalStart != nil {
		s := b.OriginalStart.UTC().Format(time.RFC3339)
		resp.OriginalStart = &s
	}
	return resp
}

// offerResponse is the JSON shape of a reschedule offer.
type offerResponse struct {
	ID        uint64 `json:"id"`
	BookingID uint64 `json:"booking_id"`
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
	Selected  bool   `json:"selected"`
	ExpiresAt string `json:"expires_at"`
}

func toOfferResponses(offers []model.RescheduleOffer) []offerResponse {
	out := make([]offerResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, offerResponse{
			ID:        o.ID,
			BookingID: o.BookingID,
			StartsAt:  o.Start.UTC().Format(time.RFC3339),
			EndsAt:    o.End.UTC().Format(time.RFC3339),
			Selected:  o.Selected,
			ExpiresAt: o.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
