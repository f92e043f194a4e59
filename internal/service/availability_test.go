package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHibernatingCaptainRefusesEverything(t *testing.T) {
	f := newFixture()
	f.store.captains[testCaptainID].Hibernating = true

	err := f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 13, 0, 0, 0, time.UTC), 4)

	require.Error(t, err)
	assert.Equal(t, KindHibernating, KindOf(err))
}

func TestCheckPartySizeAgainstVesselCapacity(t *testing.T) {
	// The vessel holds 6; a party of 8 is refused even though it is
	// under the global maximum.
	f := newFixture()

	err := f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 13, 0, 0, 0, time.UTC), 8)

	require.Error(t, err)
	assert.Equal(t, KindCapacity, KindOf(err))
}

func TestCheckPartySizeAgainstCaptainCap(t *testing.T) {
	f := newFixture()
	f.store.captains[testCaptainID].MaxPartySize = 3

	err := f.svc.CheckAvailability(context.Background(), testCaptainID, nil,
		time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 13, 0, 0, 0, time.UTC), 4)

	require.Error(t, err)
	assert.Equal(t, KindCapacity, KindOf(err))
}

func TestCheckAdvanceHorizon(t *testing.T) {
	f := newFixture()
	f.store.captains[testCaptainID].MaxAdvanceDays = 30

	start := f.clock.Now().AddDate(0, 0, 45)
	err := f.svc.CheckAvailability(context.Background(), testCaptainID, nil,
		start, start.Add(4*time.Hour), 4)

	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCheckOutsideWeeklyWindow(t *testing.T) {
	f := newFixture()

	// 21:00-23:00 falls after the 08:00-20:00 window.
	err := f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 21, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 23, 0, 0, 0, time.UTC), 4)

	require.Error(t, err)
	assert.Equal(t, KindOutsideHours, KindOf(err))
}

func TestCheckCrossMidnightRejected(t *testing.T) {
	f := newFixture()

	err := f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 19, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 7, 1, 0, 0, 0, time.UTC), 4)

	require.Error(t, err)
	assert.Equal(t, KindOutsideHours, KindOf(err))
}

func TestCheckBlackoutDate(t *testing.T) {
	f := newFixture()
	f.store.blackouts[testCaptainID] = map[string]bool{"2026-06-06": true}

	err := f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 13, 0, 0, 0, time.UTC), 4)

	require.Error(t, err)
	assert.Equal(t, KindBlackout, KindOf(err))
}

func TestCheckWindowEvaluatedInCaptainZone(t *testing.T) {
	// 13:00-17:00 UTC is 09:00-13:00 in New York during June, which
	// fits the window even though a 20:00 UTC end minute would not.
	f := newFixture()
	f.store.captains[testCaptainID].TimeZone = "America/New_York"

	err := f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 13, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 17, 0, 0, 0, time.UTC), 4)
	assert.NoError(t, err)

	// 22:00 UTC start is 18:00 local, ending 23:00 local, past 20:00.
	err = f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 22, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 7, 3, 0, 0, 0, time.UTC), 4)
	require.Error(t, err)
	assert.Equal(t, KindOutsideHours, KindOf(err))
}

func TestCheckBufferPadsTheOverlapCheck(t *testing.T) {
	// An existing trip ends at 13:00 with a 30 minute buffer.  A gap of
	// exactly the buffer still conflicts; the next slot must leave
	// strictly more than 30 minutes.
	f := newFixture()
	f.mustCreate(createInput())

	err := f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 13, 15, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 17, 15, 0, 0, time.UTC), 4)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	err = f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 13, 30, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 17, 30, 0, 0, time.UTC), 4)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	err = f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 13, 45, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 17, 45, 0, 0, time.UTC), 4)
	assert.NoError(t, err)
}

func TestCheckExactBufferGapConflicts(t *testing.T) {
	// A trip from 10:00 to 12:00 with a 30 minute buffer blocks a
	// candidate starting at 12:30 on the dot; 13:00 is clear.
	f := newFixture()
	in := createInput()
	in.Start = time.Date(2026, 6, 6, 10, 0, 0, 0, time.UTC)
	in.End = time.Date(2026, 6, 6, 12, 0, 0, 0, time.UTC)
	f.mustCreate(in)

	err := f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 12, 30, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 14, 30, 0, 0, time.UTC), 4)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	err = f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 13, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 15, 0, 0, 0, time.UTC), 4)
	assert.NoError(t, err)
}

func TestCheckZeroBufferAllowsBackToBackTrips(t *testing.T) {
	f := newFixture()
	f.store.captains[testCaptainID].BufferMinutes = 0
	f.mustCreate(createInput()) // ends 13:00

	err := f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 13, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 17, 0, 0, 0, time.UTC), 4)
	assert.NoError(t, err)
}

func TestCheckCancelledBookingsFreeTheirSlot(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(createInput())

	_, err := f.svc.Cancel(context.Background(), CaptainActor(testCaptainID),
		testCaptainID, created.Booking.ID, "guest asked")
	require.NoError(t, err)

	err = f.svc.CheckAvailability(context.Background(), testCaptainID, vid(),
		time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 13, 0, 0, 0, time.UTC), 4)
	assert.NoError(t, err)
}

func TestCheckCaptainLevelOverlapWithoutVessel(t *testing.T) {
	// A booking with no vessel assigned still blocks the captain's own
	// calendar for the same range.
	f := newFixture()
	in := createInput()
	in.VesselID = nil
	f.mustCreate(in)

	err := f.svc.CheckAvailability(context.Background(), testCaptainID, nil,
		time.Date(2026, 6, 6, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 14, 0, 0, 0, time.UTC), 4)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}
