package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
	"github.com/ericfaux/dockslot-app-sub004/internal/queue"
	"github.com/ericfaux/dockslot-app-sub004/internal/repository"
	"github.com/ericfaux/dockslot-app-sub004/internal/utils"
)

// BookingService owns the booking lifecycle: creation, field updates,
// the status state machine, the weather-hold reschedule workflow and
// payment bookkeeping.  Each method is one independent unit of work.
type BookingService struct {
	bookings BookingStore
	fleet    FleetStore
	offers   OfferStore
	payments PaymentStore
	tokens   TokenStore
	engine   *AvailabilityEngine
	audit    *auditWriter
	notifier Notifier
	limiter  Limiter
	clock    Clock
}

// NewBookingService wires the service to its stores and collaborators.
// notifier and limiter may be nil, in which case notifications are
// skipped and guest lookups are unthrottled.
func NewBookingService(
	bookings BookingStore,
	fleet FleetStore,
	offers OfferStore,
	payments PaymentStore,
	tokens TokenStore,
	auditStore AuditStore,
	schedule ScheduleStore,
	notifier Notifier,
	limiter Limiter,
	clock Clock,
) *BookingService {
	if clock == nil {
		clock = UTCClock{}
	}
	return &BookingService{
		bookings: bookings,
		fleet:    fleet,
		offers:   offers,
		payments: payments,
		tokens:   tokens,
		engine:   NewAvailabilityEngine(bookings, schedule, clock),
		audit:    &auditWriter{store: auditStore, clock: clock},
		notifier: notifier,
		limiter:  limiter,
		clock:    clock,
	}
}

// CreatedBooking is the result of a successful create: the stored
// booking plus the raw guest token, which is surfaced exactly once.
type CreatedBooking struct {
	Booking    *model.Booking
	GuestToken string
}

// Create validates a new booking, checks availability, and inserts it
// with status pending_deposit and the full price as the open balance.
// The storage layer re-checks the range under a subject lock, so a
// CONFLICT can still surface here when a concurrent create wins.
func (s *BookingService) Create(ctx context.Context, actor Actor, in *CreateBookingInput) (*CreatedBooking, error) {
	if f := validateCreate(in, s.clock.Now()); f != nil {
		return nil, f
	}
	cpt, err := s.fleet.GetCaptain(ctx, in.CaptainID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Faultf(KindNotFound, "captain %d not found", in.CaptainID)
		}
		return nil, internalFault("load captain", err)
	}
	var vessel *model.Vessel
	if in.VesselID != nil {
		vessel, err = s.loadOwnedVessel(ctx, cpt.ID, *in.VesselID)
		if err != nil {
			return nil, err
		}
	}
	totalPrice := int64(0)
	if in.TotalPriceCents != nil {
		totalPrice = *in.TotalPriceCents
	}
	if in.TripTypeID != nil {
		tt, err := s.fleet.GetTripType(ctx, *in.TripTypeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, Faultf(KindNotFound, "trip type %d not found", *in.TripTypeID)
			}
			return nil, internalFault("load trip type", err)
		}
		if tt.CaptainID != cpt.ID || !tt.IsActive {
			return nil, Faultf(KindNotFound, "trip type %d not found", *in.TripTypeID)
		}
		if in.TotalPriceCents == nil {
			totalPrice = tt.PriceCents
		}
	} else if in.TotalPriceCents == nil {
		return nil, Faultf(KindValidation, "total_price_cents is required when no trip type is given")
	}
	if totalPrice <= 0 {
		// A zero total would leave the booking unable to record the
		// deposit that moves it out of pending_deposit.
		return nil, Faultf(KindValidation, "total price must be a positive amount of cents")
	}
	if f := s.engine.Check(ctx, CheckRequest{
		Captain:    cpt,
		Vessel:     vessel,
		Start:      in.Start,
		End:        in.End,
		PartySize:  in.PartySize,
		NewBooking: true,
	}); f != nil {
		return nil, f
	}

	b := &model.Booking{
		CaptainID:           cpt.ID,
		VesselID:            in.VesselID,
		TripTypeID:          in.TripTypeID,
		ScheduledStart:      in.Start,
		ScheduledEnd:        in.End,
		PartySize:           in.PartySize,
		GuestName:           in.GuestName,
		GuestEmail:          in.GuestEmail,
		GuestPhone:          in.GuestPhone,
		SpecialRequests:     in.SpecialRequests,
		Status:              model.StatusPendingDeposit,
		TotalPriceCents:     totalPrice,
		DepositPaidCents:    0,
		BalanceDueCents:     totalPrice,
		PaymentStatus:       model.PaymentUnpaid,
		InternalNotes:       in.InternalNotes,
		CaptainInstructions: in.CaptainInstructions,
	}
	if err := s.bookings.Insert(ctx, b, cpt.BufferMinutes); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, Faultf(KindConflict, "the requested time overlaps another booking")
		case errors.Is(err, repository.ErrNotFound):
			return nil, Faultf(KindNotFound, "booking subject not found")
		default:
			return nil, internalFault("insert booking", err)
		}
	}

	raw, err := utils.NewGuestToken()
	if err == nil {
		err = s.tokens.Insert(ctx, &model.GuestToken{
			BookingID: b.ID,
			TokenHash: utils.HashGuestToken(raw),
			CreatedAt: s.clock.Now(),
		})
	}
	if err != nil {
		// The booking is already committed; a missing token only costs
		// the guest self-service access, so the create still succeeds.
		log.Printf("booking-core: guest token issue failed for booking %d: %v", b.ID, err)
		raw = ""
	}

	s.audit.record(ctx, b.ID, model.LogBookingCreated,
		fmt.Sprintf("booking created for %s, party of %d", b.GuestName, b.PartySize),
		nil, snapshot(b), actor)
	s.notify(ctx, queue.EventBookingCreated, b, "")
	return &CreatedBooking{Booking: b, GuestToken: raw}, nil
}

// CheckAvailability runs the advisory availability probe for a
// candidate range without writing anything.  A nil error means the
// range looked bookable at the moment of the check; only the
// transactional re-check at create/accept time is authoritative.
func (s *BookingService) CheckAvailability(ctx context.Context, captainID uint64, vesselID *uint64, start, end time.Time, partySize int) error {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return Faultf(KindValidation, "a well-formed time range is required")
	}
	if partySize < 1 {
		return Faultf(KindValidation, "party_size must be a positive integer")
	}
	cpt, err := s.fleet.GetCaptain(ctx, captainID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Faultf(KindNotFound, "captain %d not found", captainID)
		}
		return internalFault("load captain", err)
	}
	var vessel *model.Vessel
	if vesselID != nil {
		vessel, err = s.loadOwnedVessel(ctx, captainID, *vesselID)
		if err != nil {
			return err
		}
	}
	if f := s.engine.Check(ctx, CheckRequest{
		Captain:    cpt,
		Vessel:     vessel,
		Start:      start,
		End:        end,
		PartySize:  partySize,
		NewBooking: true,
	}); f != nil {
		return f
	}
	return nil
}

// Get returns one booking owned by the captain.
func (s *BookingService) Get(ctx context.Context, captainID, bookingID uint64) (*model.Booking, error) {
	return s.loadOwnedBooking(ctx, captainID, bookingID)
}

// List returns all of a captain's bookings, newest first.
func (s *BookingService) List(ctx context.Context, captainID uint64) ([]model.Booking, error) {
	out, err := s.bookings.ListByCaptain(ctx, captainID)
	if err != nil {
		return nil, internalFault("list bookings", err)
	}
	return out, nil
}

// Update applies a partial field edit to a non-terminal booking.  When
// the edit touches scheduling (times, vessel, party size) the
// availability engine re-checks the result, excluding the booking
// itself so re-saving its own slot does not self-conflict.
func (s *BookingService) Update(ctx context.Context, captainID, bookingID uint64, in *UpdateBookingInput) (*model.Booking, error) {
	if f := validateUpdate(in); f != nil {
		return nil, f
	}
	b, err := s.loadOwnedBooking(ctx, captainID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() {
		return nil, Faultf(KindValidation, "booking is %s and can no longer be edited", b.Status)
	}
	before := snapshot(b)

	touchesSchedule := in.Start != nil || in.VesselID != nil || in.PartySize != nil
	if in.VesselID != nil {
		b.VesselID = in.VesselID
	}
	if in.TripTypeID != nil {
		b.TripTypeID = in.TripTypeID
	}
	if in.Start != nil {
		b.ScheduledStart = *in.Start
		b.ScheduledEnd = *in.End
	}
	if in.PartySize != nil {
		b.PartySize = *in.PartySize
	}
	if in.GuestCount != nil {
		b.GuestCount = in.GuestCount
	}
	if in.GuestName != nil {
		b.GuestName = *in.GuestName
	}
	if in.GuestEmail != nil {
		b.GuestEmail = *in.GuestEmail
	}
	if in.GuestPhone != nil {
		b.GuestPhone = in.GuestPhone
	}
	if in.SpecialRequests != nil {
		b.SpecialRequests = in.SpecialRequests
	}
	if in.InternalNotes != nil {
		b.InternalNotes = in.InternalNotes
	}
	if in.CaptainInstructions != nil {
		b.CaptainInstructions = in.CaptainInstructions
	}

	if touchesSchedule {
		cpt, vessel, f := s.loadSubjects(ctx, b)
		if f != nil {
			return nil, f
		}
		if f := s.engine.Check(ctx, CheckRequest{
			Captain:          cpt,
			Vessel:           vessel,
			Start:            b.ScheduledStart,
			End:              b.ScheduledEnd,
			PartySize:        b.PartySize,
			ExcludeBookingID: b.ID,
		}); f != nil {
			return nil, f
		}
	}
	b.UpdatedAt = s.clock.Now()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, internalFault("update booking", err)
	}
	s.audit.record(ctx, b.ID, model.LogBookingUpdated, "booking details updated",
		before, snapshot(b), CaptainActor(captainID))
	return b, nil
}

// Transition moves a booking to targetStatus when the state machine
// allows it.  The new status and its side-effect fields land as a
// single write, followed by one audit entry.
func (s *BookingService) Transition(ctx context.Context, actor Actor, captainID, bookingID uint64, target model.BookingStatus, reason string) (*model.Booking, error) {
	if !target.IsValid() {
		return nil, Faultf(KindValidation, "unknown status %q", target)
	}
	b, err := s.loadOwnedBooking(ctx, captainID, bookingID)
	if err != nil {
		return nil, err
	}
	return s.applyTransition(ctx, actor, b, target, reason)
}

// Cancel is a thin wrapper over Transition with an optional reason.
func (s *BookingService) Cancel(ctx context.Context, actor Actor, captainID, bookingID uint64, reason string) (*model.Booking, error) {
	return s.Transition(ctx, actor, captainID, bookingID, model.StatusCancelled, reason)
}

// MarkNoShow is a thin wrapper over Transition.
func (s *BookingService) MarkNoShow(ctx context.Context, captainID, bookingID uint64) (*model.Booking, error) {
	return s.Transition(ctx, CaptainActor(captainID), captainID, bookingID, model.StatusNoShow, "")
}

// Complete is a thin wrapper over Transition.
func (s *BookingService) Complete(ctx context.Context, captainID, bookingID uint64) (*model.Booking, error) {
	return s.Transition(ctx, CaptainActor(captainID), captainID, bookingID, model.StatusCompleted, "")
}

// applyTransition performs the status change on an already-loaded and
// ownership-checked booking.
func (s *BookingService) applyTransition(ctx context.Context, actor Actor, b *model.Booking, target model.BookingStatus, reason string) (*model.Booking, error) {
	if target == model.StatusWeatherHold {
		// Placing a hold requires a reason; only the dedicated
		// weather-hold operation may enter this status.
		return nil, Faultf(KindValidation, "use the weather-hold operation to place a booking on hold")
	}
	if !b.Status.CanTransitionTo(target) {
		return nil, Faultf(KindInvalidTransition, "cannot move booking from %s to %s", b.Status, target)
	}
	before := snapshot(b)
	from := b.Status
	b.Status = target
	b.WeatherHoldReason = nil
	b.UpdatedAt = s.clock.Now()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, internalFault("update booking status", err)
	}
	desc := fmt.Sprintf("status changed from %s to %s", from, target)
	if reason != "" {
		desc += ": " + reason
	}
	s.audit.record(ctx, b.ID, model.LogStatusChanged, desc, before, snapshot(b), actor)
	if target == model.StatusCancelled {
		s.notify(ctx, queue.EventBookingCancelled, b, reason)
	}
	return b, nil
}

// loadOwnedBooking fetches a booking and enforces captain ownership.
// Bookings owned by someone else read as NOT_FOUND rather than
// revealing their existence.
func (s *BookingService) loadOwnedBooking(ctx context.Context, captainID, bookingID uint64) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Faultf(KindNotFound, "booking %d not found", bookingID)
		}
		return nil, internalFault("load booking", err)
	}
	if b.CaptainID != captainID {
		return nil, Faultf(KindNotFound, "booking %d not found", bookingID)
	}
	return b, nil
}

// loadOwnedVessel fetches a vessel and enforces ownership and the
// active flag.
func (s *BookingService) loadOwnedVessel(ctx context.Context, captainID, vesselID uint64) (*model.Vessel, error) {
	v, err := s.fleet.GetVessel(ctx, vesselID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Faultf(KindNotFound, "vessel %d not found", vesselID)
		}
		return nil, internalFault("load vessel", err)
	}
	if v.CaptainID != captainID || !v.IsActive {
		return nil, Faultf(KindNotFound, "vessel %d not found", vesselID)
	}
	return v, nil
}

// loadSubjects resolves the captain settings and optional vessel for a
// booking's availability checks.
func (s *BookingService) loadSubjects(ctx context.Context, b *model.Booking) (*model.Captain, *model.Vessel, *Fault) {
	cpt, err := s.fleet.GetCaptain(ctx, b.CaptainID)
	if err != nil {
		return nil, nil, internalFault("load captain", err)
	}
	var vessel *model.Vessel
	if b.VesselID != nil {
		v, err := s.loadOwnedVessel(ctx, b.CaptainID, *b.VesselID)
		if err != nil {
			var f *Fault
			if errors.As(err, &f) {
				return nil, nil, f
			}
			return nil, nil, internalFault("load vessel", err)
		}
		vessel = v
	}
	return cpt, vessel, nil
}

// notify requests a fire-and-forget delivery attempt.  Failures are
// logged and never change the command's result.
func (s *BookingService) notify(ctx context.Context, event string, b *model.Booking, detail string) {
	if s.notifier == nil {
		return
	}
	ev := queue.NotificationEvent{
		MessageID:  uuid.NewString(),
		Event:      event,
		BookingID:  b.ID,
		CaptainID:  b.CaptainID,
		GuestName:  b.GuestName,
		GuestEmail: b.GuestEmail,
		StartsAt:   b.ScheduledStart.UTC().Format(time.RFC3339),
		EndsAt:     b.ScheduledEnd.UTC().Format(time.RFC3339),
		Detail:     detail,
		OccurredAt: s.clock.Now().Format(time.RFC3339),
	}
	if b.GuestPhone != nil {
		ev.GuestPhone = *b.GuestPhone
	}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		log.Printf("booking-core: notification dispatch failed for booking %d (%s): %v", b.ID, event, err)
	}
}
