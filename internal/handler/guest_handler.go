package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
	"github.com/ericfaux/dockslot-app-sub004/internal/service"
)

// GuestHandler serves the token-addressed guest surface.  There is no
// login: the booking code in the path is the whole credential, so these
// routes sit behind the Redis rate limiter and the responses omit
// operator-only fields.
type GuestHandler struct {
	svc *service.BookingService
}

// NewGuestHandler builds the guest handler set.
func NewGuestHandler(svc *service.BookingService) *GuestHandler {
	return &GuestHandler{svc: svc}
}

// guestBookingResponse is the guest view of a booking.  Internal notes,
// captain instructions and captain ids stay operator-side.
type guestBookingResponse struct {
	GuestName         string  `json:"guest_name"`
	ScheduledStart    string  `json:"scheduled_start"`
	ScheduledEnd      string  `json:"scheduled_end"`
	PartySize         int     `json:"party_size"`
	Status            string  `json:"status"`
	WeatherHoldReason *string `json:"weather_hold_reason,omitempty"`
	TotalPriceCents   int64   `json:"total_price_cents"`
	DepositPaidCents  int64   `json:"deposit_paid_cents"`
	BalanceDueCents   int64   `json:"balance_due_cents"`
	PaymentStatus     string  `json:"payment_status"`
	SpecialRequests   *string `json:"special_requests,omitempty"`
}

func toGuestBookingResponse(b *model.Booking) guestBookingResponse {
	return guestBookingResponse{
		GuestName:         b.GuestName,
		ScheduledStart:    b.ScheduledStart.UTC().Format(time.RFC3339),
		ScheduledEnd:      b.ScheduledEnd.UTC().Format(time.RFC3339),
		PartySize:         b.PartySize,
		Status:            b.Status.String(),
		WeatherHoldReason: b.WeatherHoldReason,
		TotalPriceCents:   b.TotalPriceCents,
		DepositPaidCents:  b.DepositPaidCents,
		BalanceDueCents:   b.BalanceDueCents,
		PaymentStatus:     string(b.PaymentStatus),
		SpecialRequests:   b.SpecialRequests,
	}
}

// Lookup handles GET /v1/guest/:token.
func (h *GuestHandler) Lookup(c echo.Context) error {
	b, err := h.svc.LookupByToken(c.Request().Context(), c.Param("token"), c.RealIP())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toGuestBookingResponse(b)})
}

// Offers handles GET /v1/guest/:token/offers.  Only offers the guest
// can still act on are returned.
func (h *GuestHandler) Offers(c echo.Context) error {
	offers, err := h.svc.GuestOffers(c.Request().Context(), c.Param("token"), c.RealIP())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"offers": toOfferResponses(offers)})
}

// AcceptOffer handles POST /v1/guest/:token/offers/:offerID/accept.
func (h *GuestHandler) AcceptOffer(c echo.Context) error {
	offerID, ok := pathID(c, "offerID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "offer id must be a positive integer"})
	}
	b, err := h.svc.GuestAcceptOffer(c.Request().Context(), c.Param("token"), c.RealIP(), offerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toGuestBookingResponse(b)})
}

// RequestDates handles POST /v1/guest/:token/request-dates.
func (h *GuestHandler) RequestDates(c echo.Context) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "malformed request body"})
	}
	if err := h.svc.GuestRequestDates(c.Request().Context(), c.Param("token"), c.RealIP(), req.Message); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusAccepted, echo.Map{"status": "received"})
}
