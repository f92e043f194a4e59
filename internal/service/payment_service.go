package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
	"github.com/ericfaux/dockslot-app-sub004/internal/queue"
)

// RecordedPayment is the result of a successful recordPayment command:
// the appended payment plus the booking with its refreshed money fields.
type RecordedPayment struct {
	Payment *model.Payment
	Booking *model.Booking
}

// RecordPayment appends a payment event and folds it into the booking's
// money fields.  All arithmetic is integer cents.  The first deposit on
// a pending_deposit booking also performs the transition to confirmed;
// later payments never re-trigger a transition.  This core does not
// capture money, it only records the processor's outcome.
func (s *BookingService) RecordPayment(ctx context.Context, captainID, bookingID uint64, amountCents int64, typ model.PaymentType, processorRef string) (*RecordedPayment, error) {
	if amountCents <= 0 {
		return nil, Faultf(KindValidation, "amount_cents must be a positive integer")
	}
	if !typ.IsValid() {
		return nil, Faultf(KindValidation, "payment type %q is not one of deposit, balance, tip", typ)
	}
	b, err := s.loadOwnedBooking(ctx, captainID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == model.StatusCancelled || b.Status == model.StatusNoShow {
		return nil, Faultf(KindValidation, "cannot record a payment against a %s booking", b.Status)
	}
	if processorRef == "" {
		processorRef = "manual-" + uuid.NewString()
	}
	p := &model.Payment{
		BookingID:    b.ID,
		AmountCents:  amountCents,
		Type:         typ,
		ProcessorRef: processorRef,
		CreatedAt:    s.clock.Now(),
	}

	before := snapshot(b)
	hadPaid := b.DepositPaidCents > 0
	b.ApplyPayment(amountCents, typ)
	confirmed := false
	if typ == model.PaymentTypeDeposit && !hadPaid && b.DepositPaidCents > 0 &&
		b.Status == model.StatusPendingDeposit {
		// Recording the first deposit is the trigger that confirms the
		// booking; the status and money fields land in one write.
		b.Status = model.StatusConfirmed
		confirmed = true
	}
	b.UpdatedAt = s.clock.Now()
	// One store call so the payment row and the booking's money fields
	// commit together.
	if err := s.payments.Record(ctx, p, b); err != nil {
		return nil, internalFault("record payment", err)
	}
	s.audit.record(ctx, b.ID, model.LogPaymentRecorded,
		fmt.Sprintf("%s payment of %d cents recorded (%s)", typ, amountCents, processorRef),
		before, snapshot(b), CaptainActor(captainID))
	if confirmed {
		s.notify(ctx, queue.EventDepositReceived, b, "")
	}
	return &RecordedPayment{Payment: p, Booking: b}, nil
}
