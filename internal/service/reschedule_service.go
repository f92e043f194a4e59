package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
	"github.com/ericfaux/dockslot-app-sub004/internal/queue"
	"github.com/ericfaux/dockslot-app-sub004/internal/repository"
)

// maxOffersPerBatch bounds one weather-hold offer batch.
const maxOffersPerBatch = 5

// TimeRange is one candidate slot in a reschedule offer batch.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// SetWeatherHold suspends a confirmed booking pending a new date.  The
// reason is required and recorded on the booking for as long as the
// hold lasts.
func (s *BookingService) SetWeatherHold(ctx context.Context, captainID, bookingID uint64, reason string) (*model.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, Faultf(KindValidation, "weather_hold_reason is required")
	}
	if len(reason) > maxReasonLen {
		return nil, Faultf(KindValidation, "weather_hold_reason must not exceed %d characters", maxReasonLen)
	}
	b, err := s.loadOwnedBooking(ctx, captainID, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(model.StatusWeatherHold) {
		return nil, Faultf(KindInvalidTransition, "cannot move booking from %s to %s", b.Status, model.StatusWeatherHold)
	}
	before := snapshot(b)
	b.Status = model.StatusWeatherHold
	b.WeatherHoldReason = &reason
	b.UpdatedAt = s.clock.Now()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, internalFault("update booking status", err)
	}
	s.audit.record(ctx, b.ID, model.LogWeatherHoldSet,
		"weather hold declared: "+reason, before, snapshot(b), CaptainActor(captainID))
	s.notify(ctx, queue.EventWeatherHoldSet, b, reason)
	return b, nil
}

// ClearWeatherHold returns a held booking to confirmed at its original
// schedule, dropping the hold reason.
func (s *BookingService) ClearWeatherHold(ctx context.Context, captainID, bookingID uint64) (*model.Booking, error) {
	b, err := s.loadOwnedBooking(ctx, captainID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != model.StatusWeatherHold {
		return nil, Faultf(KindInvalidTransition, "cannot move booking from %s to %s", b.Status, model.StatusConfirmed)
	}
	before := snapshot(b)
	b.Status = model.StatusConfirmed
	b.WeatherHoldReason = nil
	b.UpdatedAt = s.clock.Now()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, internalFault("update booking status", err)
	}
	s.audit.record(ctx, b.ID, model.LogWeatherHoldCleared,
		"weather hold cleared, original schedule stands", before, snapshot(b), CaptainActor(captainID))
	return b, nil
}

// CreateOffers persists a batch of alternative slots for a booking on
// weather hold.  Each range must be well-formed and future-dated; the
// ranges are deliberately not availability-checked here, since the
// captain may offer times before the vessel's calendar is settled.  The
// authoritative check runs at acceptance.  All offers in the batch
// expire seven days after creation.
func (s *BookingService) CreateOffers(ctx context.Context, captainID, bookingID uint64, ranges []TimeRange) ([]model.RescheduleOffer, error) {
	if len(ranges) == 0 {
		return nil, Faultf(KindValidation, "at least one time range is required")
	}
	if len(ranges) > maxOffersPerBatch {
		return nil, Faultf(KindValidation, "at most %d offers may be created at once", maxOffersPerBatch)
	}
	now := s.clock.Now()
	for i, tr := range ranges {
		if f := validateRange(tr.Start, tr.End, now); f != nil {
			return nil, Faultf(KindValidation, "offer %d: %s", i+1, f.Message)
		}
	}
	b, err := s.loadOwnedBooking(ctx, captainID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != model.StatusWeatherHold {
		return nil, Faultf(KindValidation, "offers can only be created while the booking is on weather hold")
	}
	offers := make([]model.RescheduleOffer, len(ranges))
	for i, tr := range ranges {
		offers[i] = model.RescheduleOffer{
			BookingID: b.ID,
			Start:     tr.Start,
			End:       tr.End,
			ExpiresAt: now.Add(model.OfferTTL),
			CreatedAt: now,
		}
	}
	if err := s.offers.InsertBatch(ctx, offers); err != nil {
		return nil, internalFault("insert offers", err)
	}
	// One audit entry covers the whole batch.
	s.audit.record(ctx, b.ID, model.LogOffersCreated,
		fmt.Sprintf("%d reschedule offers created", len(offers)), nil, nil, CaptainActor(captainID))
	s.notify(ctx, queue.EventOffersCreated, b, fmt.Sprintf("%d alternative dates offered", len(offers)))
	return offers, nil
}

// ListOffers returns all offers for a booking owned by the captain.
func (s *BookingService) ListOffers(ctx context.Context, captainID, bookingID uint64) ([]model.RescheduleOffer, error) {
	b, err := s.loadOwnedBooking(ctx, captainID, bookingID)
	if err != nil {
		return nil, err
	}
	offers, err := s.offers.ListByBooking(ctx, b.ID)
	if err != nil {
		return nil, internalFault("list offers", err)
	}
	return offers, nil
}

// AcceptOffer resolves a weather hold by accepting one offer.  The
// offer must belong to the booking and still be usable (unselected,
// unexpired).  When a vessel is assigned, availability for the offer's
// range is re-checked, excluding the booking itself; the storage layer
// then repeats that check under the subject lock while it applies the
// new schedule and marks the offer selected.
func (s *BookingService) AcceptOffer(ctx context.Context, actor Actor, b *model.Booking, offerID uint64) (*model.Booking, error) {
	if b.Status != model.StatusWeatherHold {
		return nil, Faultf(KindInvalidTransition, "cannot move booking from %s to %s", b.Status, model.StatusRescheduled)
	}
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Faultf(KindNotFound, "offer %d not found", offerID)
		}
		return nil, internalFault("load offer", err)
	}
	if offer.BookingID != b.ID {
		return nil, Faultf(KindNotFound, "offer %d not found", offerID)
	}
	if offer.Selected {
		return nil, Faultf(KindValidation, "an offer has already been accepted for this booking")
	}
	now := s.clock.Now()
	if !offer.Usable(now) {
		return nil, Faultf(KindValidation, "the offer expired on %s", offer.ExpiresAt.Format(time.RFC3339))
	}

	cpt, vessel, f := s.loadSubjects(ctx, b)
	if f != nil {
		return nil, f
	}
	if vessel != nil {
		if f := s.engine.Check(ctx, CheckRequest{
			Captain:          cpt,
			Vessel:           vessel,
			Start:            offer.Start,
			End:              offer.End,
			PartySize:        b.PartySize,
			ExcludeBookingID: b.ID,
		}); f != nil {
			return nil, f
		}
	}

	before := snapshot(b)
	preHoldStart := b.ScheduledStart
	b.OriginalStart = &preHoldStart
	b.ScheduledStart = offer.Start
	b.ScheduledEnd = offer.End
	b.Status = model.StatusRescheduled
	b.WeatherHoldReason = nil
	b.UpdatedAt = now
	if err := s.bookings.Reschedule(ctx, b, offer.ID, cpt.BufferMinutes); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, Faultf(KindConflict, "the offered time now overlaps another booking")
		case errors.Is(err, repository.ErrNotFound):
			return nil, Faultf(KindValidation, "an offer has already been accepted for this booking")
		default:
			return nil, internalFault("reschedule booking", err)
		}
	}
	s.audit.record(ctx, b.ID, model.LogOfferAccepted,
		fmt.Sprintf("offer %d accepted, trip moved to %s", offer.ID, offer.Start.UTC().Format(time.RFC3339)),
		before, snapshot(b), actor)
	s.notify(ctx, queue.EventBookingRescheduled, b, "")
	return b, nil
}

// AcceptOfferForCaptain is the operator entry point for acceptance.
func (s *BookingService) AcceptOfferForCaptain(ctx context.Context, captainID, bookingID, offerID uint64) (*model.Booking, error) {
	b, err := s.loadOwnedBooking(ctx, captainID, bookingID)
	if err != nil {
		return nil, err
	}
	return s.AcceptOffer(ctx, CaptainActor(captainID), b, offerID)
}
