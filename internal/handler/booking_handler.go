package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
	"github.com/ericfaux/dockslot-app-sub004/internal/service"
)

// BookingHandler serves the operator surface.  Every route here sits
// behind the captain JWT middleware, so ownership checks inside the
// service always have an authenticated captain id to work with.
type BookingHandler struct {
	svc *service.BookingService
}

// NewBookingHandler builds the operator handler set.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// createBookingRequest is the POST /v1/bookings body.  Timestamps are
// RFC3339 strings; money is integer cents.
type createBookingRequest struct {
	VesselID            *uint64 `json:"vessel_id"`
	TripTypeID          *uint64 `json:"trip_type_id"`
	ScheduledStart      string  `json:"scheduled_start"`
	ScheduledEnd        string  `json:"scheduled_end"`
	PartySize           int     `json:"party_size"`
	GuestName           string  `json:"guest_name"`
	GuestEmail          string  `json:"guest_email"`
	GuestPhone          *string `json:"guest_phone"`
	SpecialRequests     *string `json:"special_requests"`
	TotalPriceCents     *int64  `json:"total_price_cents"`
	InternalNotes       *string `json:"internal_notes"`
	CaptainInstructions *string `json:"captain_instructions"`
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "malformed request body"})
	}
	start, okS := parseTimeField(req.ScheduledStart)
	end, okE := parseTimeField(req.ScheduledEnd)
	if !okS || !okE {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "scheduled_start and scheduled_end must be RFC3339 timestamps"})
	}
	created, err := h.svc.Create(c.Request().Context(), service.CaptainActor(cid), &service.CreateBookingInput{
		CaptainID:           cid,
		VesselID:            req.VesselID,
		TripTypeID:          req.TripTypeID,
		Start:               start,
		End:                 end,
		PartySize:           req.PartySize,
		GuestName:           req.GuestName,
		GuestEmail:          req.GuestEmail,
		GuestPhone:          req.GuestPhone,
		SpecialRequests:     req.SpecialRequests,
		TotalPriceCents:     req.TotalPriceCents,
		InternalNotes:       req.InternalNotes,
		CaptainInstructions: req.CaptainInstructions,
	})
	if err != nil {
		return fail(c, err)
	}
	resp := echo.Map{"booking": toBookingResponse(created.Booking)}
	if created.GuestToken != "" {
		// The raw guest code is surfaced exactly once, here.
		resp["guest_token"] = created.GuestToken
	}
	return c.JSON(http.StatusCreated, resp)
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "booking id must be a positive integer"})
	}
	b, err := h.svc.Get(c.Request().Context(), cid, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingResponse(b)})
}

// List handles GET /v1/bookings.
func (h *BookingHandler) List(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	bookings, err := h.svc.List(c.Request().Context(), cid)
	if err != nil {
		return fail(c, err)
	}
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// updateBookingRequest is the PATCH /v1/bookings/:id body.  Absent
// fields are left unchanged.
type updateBookingRequest struct {
	VesselID            *uint64 `json:"vessel_id"`
	TripTypeID          *uint64 `json:"trip_type_id"`
	ScheduledStart      *string `json:"scheduled_start"`
	ScheduledEnd        *string `json:"scheduled_end"`
	PartySize           *int    `json:"party_size"`
	GuestCount          *int    `json:"guest_count"`
	GuestName           *string `json:"guest_name"`
	GuestEmail          *string `json:"guest_email"`
	GuestPhone          *string `json:"guest_phone"`
	SpecialRequests     *string `json:"special_requests"`
	InternalNotes       *string `json:"internal_notes"`
	CaptainInstructions *string `json:"captain_instructions"`
}

// Update handles PATCH /v1/bookings/:id.
func (h *BookingHandler) Update(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "booking id must be a positive integer"})
	}
	var req updateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "malformed request body"})
	}
	in := &service.UpdateBookingInput{
		VesselID:            req.VesselID,
		TripTypeID:          req.TripTypeID,
		PartySize:           req.PartySize,
		GuestCount:          req.GuestCount,
		GuestName:           req.GuestName,
		GuestEmail:          req.GuestEmail,
		GuestPhone:          req.GuestPhone,
		SpecialRequests:     req.SpecialRequests,
		InternalNotes:       req.InternalNotes,
		CaptainInstructions: req.CaptainInstructions,
	}
	if req.ScheduledStart != nil {
		t, ok := parseTimeField(*req.ScheduledStart)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "scheduled_start must be an RFC3339 timestamp"})
		}
		in.Start = &t
	}
	if req.ScheduledEnd != nil {
		t, ok := parseTimeField(*req.ScheduledEnd)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "scheduled_end must be an RFC3339 timestamp"})
		}
		in.End = &t
	}
	b, err := h.svc.Update(c.Request().Context(), cid, id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingResponse(b)})
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "booking id must be a positive integer"})
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&req) // an empty body is a valid cancel
	b, err := h.svc.Cancel(c.Request().Context(), service.CaptainActor(cid), cid, id, req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingResponse(b)})
}

// NoShow handles POST /v1/bookings/:id/no-show.
func (h *BookingHandler) NoShow(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "booking id must be a positive integer"})
	}
	b, err := h.svc.MarkNoShow(c.Request().Context(), cid, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingResponse(b)})
}

// Complete handles POST /v1/bookings/:id/complete.
func (h *BookingHandler) Complete(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "booking id must be a positive integer"})
	}
	b, err := h.svc.Complete(c.Request().Context(), cid, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingResponse(b)})
}

// SetWeatherHold handles POST /v1/bookings/:id/weather-hold.
func (h *BookingHandler) SetWeatherHold(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "booking id must be a positive integer"})
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "malformed request body"})
	}
	b, err := h.svc.SetWeatherHold(c.Request().Context(), cid, id, req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingResponse(b)})
}

// ClearWeatherHold handles DELETE /v1/bookings/:id/weather-hold.
func (h *BookingHandler) ClearWeatherHold(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "booking id must be a positive integer"})
	}
	b, err := h.svc.ClearWeatherHold(c.Request().Context(), cid, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingResponse(b)})
}

// createOffersRequest is the POST /v1/bookings/:id/offers body.
type createOffersRequest struct {
	Offers []struct {
		StartsAt string `json:"starts_at"`
		EndsAt   string `json:"ends_at"`
	} `json:"offers"`
}

// CreateOffers handles POST /v1/bookings/:id/offers.
func (h *BookingHandler) CreateOffers(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "booking id must be a positive integer"})
	}
	var req createOffersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "malformed request body"})
	}
	ranges := make([]service.TimeRange, 0, len(req.Offers))
	for _, o := range req.Offers {
		start, okS := parseTimeField(o.StartsAt)
		end, okE := parseTimeField(o.EndsAt)
		if !okS || !okE {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "offer timestamps must be RFC3339"})
		}
		ranges = append(ranges, service.TimeRange{Start: start, End: end})
	}
	offers, err := h.svc.CreateOffers(c.Request().Context(), cid, id, ranges)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"offers": toOfferResponses(offers)})
}

// ListOffers handles GET /v1/bookings/:id/offers.
func (h *BookingHandler) ListOffers(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "booking id must be a positive integer"})
	}
	offers, err := h.svc.ListOffers(c.Request().Context(), cid, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"offers": toOfferResponses(offers)})
}

// AcceptOffer handles POST /v1/bookings/:id/offers/:offerID/accept,
// the operator-side acceptance used when the guest confirms by phone.
func (h *BookingHandler) AcceptOffer(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "booking id must be a positive integer"})
	}
	offerID, ok := pathID(c, "offerID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "offer id must be a positive integer"})
	}
	b, err := h.svc.AcceptOfferForCaptain(c.Request().Context(), cid, id, offerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingResponse(b)})
}

// recordPaymentRequest is the POST /v1/bookings/:id/payments body.
type recordPaymentRequest struct {
	AmountCents  int64  `json:"amount_cents"`
	Type         string `json:"type"`
	ProcessorRef string `json:"processor_ref"`
}

// RecordPayment handles POST /v1/bookings/:id/payments.
func (h *BookingHandler) RecordPayment(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "booking id must be a positive integer"})
	}
	var req recordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "malformed request body"})
	}
	rec, err := h.svc.RecordPayment(c.Request().Context(), cid, id, req.AmountCents, model.PaymentType(req.Type), req.ProcessorRef)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"payment": echo.Map{
			"id":            rec.Payment.ID,
			"booking_id":    rec.Payment.BookingID,
			"amount_cents":  rec.Payment.AmountCents,
			"type":          string(rec.Payment.Type),
			"processor_ref": rec.Payment.ProcessorRef,
		},
		"booking": toBookingResponse(rec.Booking),
	})
}

// CheckAvailability handles GET /v1/availability/check.  Query params:
// start, end (RFC3339), party_size, and optionally vessel_id.  The
// result is advisory; creation re-checks under lock.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	cid, ok := captainID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "missing captain identity"})
	}
	start, okS := parseTimeField(c.QueryParam("start"))
	end, okE := parseTimeField(c.QueryParam("end"))
	if !okS || !okE {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "start and end must be RFC3339 timestamps"})
	}
	partySize, err := strconv.Atoi(c.QueryParam("party_size"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "party_size must be an integer"})
	}
	var vesselID *uint64
	if raw := c.QueryParam("vessel_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || v == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION", "message": "vessel_id must be a positive integer"})
		}
		vesselID = &v
	}
	if err := h.svc.CheckAvailability(c.Request().Context(), cid, vesselID, start, end, partySize); err != nil {
		kind := service.KindOf(err)
		if kind == service.KindUnknown || kind == service.KindValidation || kind == service.KindNotFound {
			return fail(c, err)
		}
		// Rule violations are a negative answer, not a request failure.
		var f *service.Fault
		msg := ""
		if asFault(err, &f) {
			msg = f.Message
		}
		return c.JSON(http.StatusOK, echo.Map{"available": false, "reason": string(kind), "message": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{"available": true})
}
