package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
	"github.com/ericfaux/dockslot-app-sub004/internal/queue"
)

// brokenPaymentStore refuses every write, standing in for a rolled-back
// transaction.
type brokenPaymentStore struct{}

func (brokenPaymentStore) Record(context.Context, *model.Payment, *model.Booking) error {
	return errors.New("write failed")
}

func TestFirstDepositConfirmsBooking(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(createInput()) // 45000 total

	rec, err := f.svc.RecordPayment(context.Background(), testCaptainID,
		created.Booking.ID, 15000, model.PaymentTypeDeposit, "ch_123")
	require.NoError(t, err)

	b := rec.Booking
	assert.Equal(t, model.StatusConfirmed, b.Status)
	assert.Equal(t, model.PaymentDepositPaid, b.PaymentStatus)
	assert.Equal(t, int64(15000), b.DepositPaidCents)
	assert.Equal(t, int64(30000), b.BalanceDueCents)
	assert.Equal(t, b.TotalPriceCents, b.DepositPaidCents+b.BalanceDueCents)
	assert.Contains(t, f.notifier.eventNames(), queue.EventDepositReceived)
}

func TestSecondDepositDoesNotRetransition(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(createInput())
	_, err := f.svc.RecordPayment(context.Background(), testCaptainID,
		created.Booking.ID, 15000, model.PaymentTypeDeposit, "ch_1")
	require.NoError(t, err)

	rec, err := f.svc.RecordPayment(context.Background(), testCaptainID,
		created.Booking.ID, 5000, model.PaymentTypeDeposit, "ch_2")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, rec.Booking.Status)
	assert.Equal(t, int64(20000), rec.Booking.DepositPaidCents)
}

func TestBalancePaymentReachesFullyPaid(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(createInput())
	_, err := f.svc.RecordPayment(context.Background(), testCaptainID,
		created.Booking.ID, 15000, model.PaymentTypeDeposit, "ch_1")
	require.NoError(t, err)

	rec, err := f.svc.RecordPayment(context.Background(), testCaptainID,
		created.Booking.ID, 30000, model.PaymentTypeBalance, "ch_2")
	require.NoError(t, err)

	b := rec.Booking
	assert.Equal(t, int64(0), b.BalanceDueCents)
	assert.Equal(t, model.PaymentFullyPaid, b.PaymentStatus)
	assert.Equal(t, b.TotalPriceCents, b.DepositPaidCents+b.BalanceDueCents)
}

func TestOverpaymentFlooredAtOpenBalance(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(createInput())

	rec, err := f.svc.RecordPayment(context.Background(), testCaptainID,
		created.Booking.ID, 99999999, model.PaymentTypeDeposit, "ch_big")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Booking.BalanceDueCents)
	assert.Equal(t, rec.Booking.TotalPriceCents, rec.Booking.DepositPaidCents)
	assert.Equal(t, model.PaymentFullyPaid, rec.Booking.PaymentStatus)
	// The payment record keeps the real received amount.
	assert.Equal(t, int64(99999999), rec.Payment.AmountCents)
}

func TestTipLeavesMoneyFieldsAlone(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(createInput())

	rec, err := f.svc.RecordPayment(context.Background(), testCaptainID,
		created.Booking.ID, 5000, model.PaymentTypeTip, "ch_tip")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Booking.DepositPaidCents)
	assert.Equal(t, rec.Booking.TotalPriceCents, rec.Booking.BalanceDueCents)
	assert.Equal(t, model.PaymentUnpaid, rec.Booking.PaymentStatus)
	// A tip is not a deposit, so the booking stays pending.
	assert.Equal(t, model.StatusPendingDeposit, rec.Booking.Status)
}

func TestPaymentRejectedOnCancelledBooking(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(createInput())
	_, err := f.svc.Cancel(context.Background(), CaptainActor(testCaptainID),
		testCaptainID, created.Booking.ID, "")
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(context.Background(), testCaptainID,
		created.Booking.ID, 5000, model.PaymentTypeDeposit, "ch_late")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestPaymentValidation(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(createInput())

	_, err := f.svc.RecordPayment(context.Background(), testCaptainID,
		created.Booking.ID, 0, model.PaymentTypeDeposit, "")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.svc.RecordPayment(context.Background(), testCaptainID,
		created.Booking.ID, 100, model.PaymentType("refund"), "")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestFailedPaymentWriteLeavesBookingUntouched(t *testing.T) {
	// The payment row and the booking's money fields commit together,
	// so a refused write must leave no trace of either.
	f := newFixture()
	created := f.mustCreate(createInput())
	f.svc.payments = brokenPaymentStore{}

	_, err := f.svc.RecordPayment(context.Background(), testCaptainID,
		created.Booking.ID, 15000, model.PaymentTypeDeposit, "ch_1")
	require.Error(t, err)
	assert.Equal(t, KindUnknown, KindOf(err))

	b, err := f.svc.Get(context.Background(), testCaptainID, created.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingDeposit, b.Status)
	assert.Equal(t, int64(0), b.DepositPaidCents)
	assert.Equal(t, b.TotalPriceCents, b.BalanceDueCents)
	assert.Empty(t, f.store.payments)
	assert.NotContains(t, f.notifier.eventNames(), queue.EventDepositReceived)
}

func TestManualPaymentsGetAProcessorRef(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(createInput())

	rec, err := f.svc.RecordPayment(context.Background(), testCaptainID,
		created.Booking.ID, 100, model.PaymentTypeDeposit, "")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Payment.ProcessorRef)
	assert.Contains(t, rec.Payment.ProcessorRef, "manual-")
}
