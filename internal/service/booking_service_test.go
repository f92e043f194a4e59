package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
	"github.com/ericfaux/dockslot-app-sub004/internal/queue"
	"github.com/ericfaux/dockslot-app-sub004/internal/utils"
)

func TestCreateBookingHappyPath(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Create(context.Background(), CaptainActor(testCaptainID), createInput())
	require.NoError(t, err)

	b := created.Booking
	assert.Equal(t, model.StatusPendingDeposit, b.Status)
	assert.Equal(t, model.PaymentUnpaid, b.PaymentStatus)
	assert.Equal(t, int64(45000), b.TotalPriceCents)
	assert.Equal(t, int64(0), b.DepositPaidCents)
	assert.Equal(t, int64(45000), b.BalanceDueCents)

	// The raw guest code is returned once and its hash resolves back to
	// the booking.
	require.NotEmpty(t, created.GuestToken)
	assert.Len(t, created.GuestToken, 10)
	stored, err := f.store.GetByTokenHash(context.Background(), utils.HashGuestToken(created.GuestToken))
	require.NoError(t, err)
	assert.Equal(t, b.ID, stored.ID)

	require.NotNil(t, f.store.lastLog())
	assert.Equal(t, model.LogBookingCreated, f.store.lastLog().EntryType)
	assert.Equal(t, []string{queue.EventBookingCreated}, f.notifier.eventNames())
}

func TestCreateBookingOverlapConflict(t *testing.T) {
	f := newFixture()
	f.mustCreate(createInput())

	in := createInput()
	in.Start = time.Date(2026, 6, 6, 10, 0, 0, 0, time.UTC)
	in.End = time.Date(2026, 6, 6, 14, 0, 0, 0, time.UTC)
	_, err := f.svc.Create(context.Background(), CaptainActor(testCaptainID), in)

	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture()

	cases := map[string]func(*CreateBookingInput){
		"missing guest name": func(in *CreateBookingInput) { in.GuestName = "  " },
		"malformed email":    func(in *CreateBookingInput) { in.GuestEmail = "not-an-email" },
		"end before start":   func(in *CreateBookingInput) { in.End = in.Start.Add(-time.Hour) },
		"start in the past":  func(in *CreateBookingInput) { in.Start = f.clock.Now().Add(-time.Hour); in.End = f.clock.Now() },
		"zero party size":    func(in *CreateBookingInput) { in.PartySize = 0 },
		"negative price":     func(in *CreateBookingInput) { p := int64(-1); in.TotalPriceCents = &p },
		"malformed phone":    func(in *CreateBookingInput) { p := "call me maybe"; in.GuestPhone = &p },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := createInput()
			mutate(in)
			_, err := f.svc.Create(context.Background(), CaptainActor(testCaptainID), in)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestCreatePartySizeOverGlobalMax(t *testing.T) {
	f := newFixture()
	in := createInput()
	in.VesselID = nil
	in.PartySize = model.MaxPartySize + 1

	_, err := f.svc.Create(context.Background(), CaptainActor(testCaptainID), in)
	require.Error(t, err)
	assert.Equal(t, KindCapacity, KindOf(err))
}

func TestCreateRequiresPriceWithoutTripType(t *testing.T) {
	f := newFixture()
	in := createInput()
	in.TotalPriceCents = nil

	_, err := f.svc.Create(context.Background(), CaptainActor(testCaptainID), in)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCreateRejectsNonPositivePrice(t *testing.T) {
	// A booking with no money owed could never record the deposit that
	// confirms it, so zero totals are refused up front, whether given
	// explicitly or inherited from a free trip type.
	f := newFixture()
	in := createInput()
	zero := int64(0)
	in.TotalPriceCents = &zero

	_, err := f.svc.Create(context.Background(), CaptainActor(testCaptainID), in)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	f.store.tripTypes[3] = &model.TripType{
		ID: 3, CaptainID: testCaptainID, Name: "Marina open house",
		DurationMinutes: 240, PriceCents: 0, IsActive: true,
	}
	in = createInput()
	in.TotalPriceCents = nil
	tt := uint64(3)
	in.TripTypeID = &tt

	_, err = f.svc.Create(context.Background(), CaptainActor(testCaptainID), in)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCreateDefaultsPriceFromTripType(t *testing.T) {
	f := newFixture()
	f.store.tripTypes[7] = &model.TripType{
		ID: 7, CaptainID: testCaptainID, Name: "Half-day inshore",
		DurationMinutes: 240, PriceCents: 62500, IsActive: true,
	}
	in := createInput()
	in.TotalPriceCents = nil
	tt := uint64(7)
	in.TripTypeID = &tt

	created, err := f.svc.Create(context.Background(), CaptainActor(testCaptainID), in)
	require.NoError(t, err)
	assert.Equal(t, int64(62500), created.Booking.TotalPriceCents)
	assert.Equal(t, int64(62500), created.Booking.BalanceDueCents)
}

func TestCreateRejectsForeignVessel(t *testing.T) {
	f := newFixture()
	f.store.vessels[9] = &model.Vessel{ID: 9, CaptainID: 2, Name: "Someone Else's", Capacity: 8, IsActive: true}
	in := createInput()
	other := uint64(9)
	in.VesselID = &other

	_, err := f.svc.Create(context.Background(), CaptainActor(testCaptainID), in)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGetHidesOtherCaptainsBookings(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(createInput())

	_, err := f.svc.Get(context.Background(), 2, created.Booking.ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdateRejectsTerminalBooking(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(createInput())
	_, err := f.svc.Cancel(context.Background(), CaptainActor(testCaptainID),
		testCaptainID, created.Booking.ID, "")
	require.NoError(t, err)

	notes := "late note"
	_, err = f.svc.Update(context.Background(), testCaptainID, created.Booking.ID,
		&UpdateBookingInput{InternalNotes: &notes})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestUpdateOwnSlotDoesNotSelfConflict(t *testing.T) {
	// Nudging a booking by 15 minutes keeps it overlapping its own old
	// range; the exclusion keeps that from reading as a conflict.
	f := newFixture()
	created := f.mustCreate(createInput())

	start := time.Date(2026, 6, 6, 9, 15, 0, 0, time.UTC)
	end := time.Date(2026, 6, 6, 13, 15, 0, 0, time.UTC)
	b, err := f.svc.Update(context.Background(), testCaptainID, created.Booking.ID,
		&UpdateBookingInput{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, start, b.ScheduledStart)
	assert.Equal(t, end, b.ScheduledEnd)
}

func TestUpdateScheduleRechecksAvailability(t *testing.T) {
	f := newFixture()
	first := f.mustCreate(createInput())

	in := createInput()
	in.Start = time.Date(2026, 6, 6, 15, 0, 0, 0, time.UTC)
	in.End = time.Date(2026, 6, 6, 18, 0, 0, 0, time.UTC)
	second := f.mustCreate(in)

	// Moving the second booking onto the first must fail.
	start := first.Booking.ScheduledStart
	end := first.Booking.ScheduledEnd
	_, err := f.svc.Update(context.Background(), testCaptainID, second.Booking.ID,
		&UpdateBookingInput{Start: &start, End: &end})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestInvalidTransitionRejected(t *testing.T) {
	// pending_deposit cannot jump straight to completed.
	f := newFixture()
	created := f.mustCreate(createInput())

	_, err := f.svc.Complete(context.Background(), testCaptainID, created.Booking.ID)
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, KindOf(err))

	// The stored booking is untouched.
	b, err := f.svc.Get(context.Background(), testCaptainID, created.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingDeposit, b.Status)
}

func TestGenericTransitionCannotEnterWeatherHold(t *testing.T) {
	// weather_hold carries a mandatory reason, so only the dedicated
	// weather-hold operation may set it.
	f := newFixture()
	b := confirmedBooking(t, f)

	_, err := f.svc.Transition(context.Background(), CaptainActor(testCaptainID),
		testCaptainID, b.ID, model.StatusWeatherHold, "")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	got, err := f.svc.Get(context.Background(), testCaptainID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, got.Status)
}

func TestCancelEmitsNotification(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(createInput())

	b, err := f.svc.Cancel(context.Background(), CaptainActor(testCaptainID),
		testCaptainID, created.Booking.ID, "weather looks grim")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, b.Status)
	assert.Contains(t, f.notifier.eventNames(), queue.EventBookingCancelled)
}

func TestListReturnsOnlyOwnBookings(t *testing.T) {
	f := newFixture()
	f.store.captains[2] = &model.Captain{ID: 2, Name: "Other", TimeZone: "UTC"}
	f.mustCreate(createInput())

	out, err := f.svc.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = f.svc.List(context.Background(), testCaptainID)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
