package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
	"github.com/ericfaux/dockslot-app-sub004/internal/repository"
	"github.com/ericfaux/dockslot-app-sub004/internal/utils"
)

// LookupByToken resolves a booking through its guest token.  The call
// is throttled per client address by the injected limiter before any
// storage read happens.
func (s *BookingService) LookupByToken(ctx context.Context, rawToken, clientAddr string) (*model.Booking, error) {
	rawToken = strings.ToUpper(strings.TrimSpace(rawToken))
	if rawToken == "" {
		return nil, Faultf(KindValidation, "token is required")
	}
	if s.limiter != nil && clientAddr != "" && !s.limiter.Allow(clientAddr) {
		return nil, Faultf(KindUnauthorized, "too many lookup attempts, slow down")
	}
	b, err := s.bookings.GetByTokenHash(ctx, utils.HashGuestToken(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Faultf(KindNotFound, "no booking matches that code")
		}
		return nil, internalFault("lookup booking by token", err)
	}
	return b, nil
}

// GuestOffers lists the reschedule offers for the booking behind a
// guest token.  Expiry is lazy: expired or already-selected offers are
// filtered out at read time, nothing is deleted.
func (s *BookingService) GuestOffers(ctx context.Context, rawToken, clientAddr string) ([]model.RescheduleOffer, error) {
	b, err := s.LookupByToken(ctx, rawToken, clientAddr)
	if err != nil {
		return nil, err
	}
	offers, err := s.offers.ListByBooking(ctx, b.ID)
	if err != nil {
		return nil, internalFault("list offers", err)
	}
	now := s.clock.Now()
	usable := offers[:0]
	for _, o := range offers {
		if o.Usable(now) {
			usable = append(usable, o)
		}
	}
	return usable, nil
}

// GuestAcceptOffer lets the guest behind a token accept a reschedule
// offer.  The audit trail attributes the acceptance to the guest.
func (s *BookingService) GuestAcceptOffer(ctx context.Context, rawToken, clientAddr string, offerID uint64) (*model.Booking, error) {
	b, err := s.LookupByToken(ctx, rawToken, clientAddr)
	if err != nil {
		return nil, err
	}
	return s.AcceptOffer(ctx, GuestActor(b.ID), b, offerID)
}

// GuestRequestDates records a guest's free-text request for different
// dates while the booking is on weather hold.  It mutates nothing on
// the booking: the message lands as a guest_communication audit entry
// for the captain to read and act on.
func (s *BookingService) GuestRequestDates(ctx context.Context, rawToken, clientAddr, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return Faultf(KindValidation, "message is required")
	}
	if len(message) > maxNotesLen {
		return Faultf(KindValidation, "message must not exceed %d characters", maxNotesLen)
	}
	b, err := s.LookupByToken(ctx, rawToken, clientAddr)
	if err != nil {
		return err
	}
	if b.Status != model.StatusWeatherHold {
		return Faultf(KindValidation, "date requests are only possible while the booking is on weather hold")
	}
	s.audit.record(ctx, b.ID, model.LogGuestCommunication,
		"guest requested different dates: "+message, nil, nil, GuestActor(b.ID))
	return nil
}
