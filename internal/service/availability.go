package service

import (
	"context"
	"time"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
)

// AvailabilityEngine decides whether a time range is bookable for a
// subject: no overlapping active booking (buffer-padded), inside an
// active weekly window, not on a blackout date, within the
// advance-booking horizon, within party/capacity limits, and only while
// the captain is taking bookings at all.
//
// The overlap rule evaluated here is advisory: the authoritative check
// happens inside the storage transaction at commit time (see
// BookingStore.Insert and BookingStore.Reschedule), which is what
// guarantees at most one active booking per subject and range.
type AvailabilityEngine struct {
	bookings BookingStore
	schedule ScheduleStore
	clock    Clock
}

// NewAvailabilityEngine wires the engine to its stores and clock.
func NewAvailabilityEngine(bookings BookingStore, schedule ScheduleStore, clock Clock) *AvailabilityEngine {
	return &AvailabilityEngine{bookings: bookings, schedule: schedule, clock: clock}
}

// CheckRequest describes one availability probe.  Vessel is nil when
// the probe is against the captain's calendar as a whole.  ExcludeBookingID
// removes the booking being modified from the overlap test so re-saving
// a booking at its own time does not self-conflict.  NewBooking enables
// the advance-horizon rule, which only applies to fresh bookings.
type CheckRequest struct {
	Captain          *model.Captain
	Vessel           *model.Vessel
	Start            time.Time
	End              time.Time
	PartySize        int
	ExcludeBookingID uint64
	NewBooking       bool
}

// Check runs every availability rule and returns nil when the range is
// bookable.  Each failing rule yields a distinct fault kind so callers
// can present a precise message.  Cheap local rules run before the
// store reads.
func (e *AvailabilityEngine) Check(ctx context.Context, req CheckRequest) *Fault {
	cpt := req.Captain
	if cpt.Hibernating {
		return Faultf(KindHibernating, "captain is not currently accepting bookings")
	}
	if f := e.checkCapacity(req); f != nil {
		return f
	}
	if req.NewBooking && cpt.MaxAdvanceDays > 0 {
		horizon := e.clock.Now().AddDate(0, 0, cpt.MaxAdvanceDays)
		if req.Start.After(horizon) {
			return Faultf(KindValidation, "trips may be booked at most %d days in advance", cpt.MaxAdvanceDays)
		}
	}
	loc, err := time.LoadLocation(cpt.TimeZone)
	if err != nil {
		return internalFault("load captain time zone", err)
	}
	if f := e.checkWindow(ctx, cpt.ID, req.Start.In(loc), req.End.In(loc)); f != nil {
		return f
	}
	if f := e.checkBlackout(ctx, cpt.ID, req.Start.In(loc), req.End.In(loc)); f != nil {
		return f
	}
	var vesselID *uint64
	if req.Vessel != nil {
		vesselID = &req.Vessel.ID
	}
	n, err := e.bookings.CountOverlapping(ctx, cpt.ID, vesselID, req.Start, req.End, cpt.BufferMinutes, req.ExcludeBookingID)
	if err != nil {
		return internalFault("overlap probe", err)
	}
	if n > 0 {
		return Faultf(KindConflict, "the requested time overlaps another booking")
	}
	return nil
}

// checkCapacity enforces the party-size limits: the global maximum, the
// captain's own cap, and the assigned vessel's capacity.
func (e *AvailabilityEngine) checkCapacity(req CheckRequest) *Fault {
	if req.PartySize > req.Captain.PartyCap() {
		return Faultf(KindCapacity, "party_size exceeds the maximum of %d", req.Captain.PartyCap())
	}
	if req.Vessel != nil && req.PartySize > req.Vessel.Capacity {
		return Faultf(KindCapacity, "party_size exceeds the vessel capacity of %d", req.Vessel.Capacity)
	}
	return nil
}

// checkWindow verifies the requested local range sits inside an active
// weekly window.  Trips must start and end on the same local day for
// window containment to be decidable.
func (e *AvailabilityEngine) checkWindow(ctx context.Context, captainID uint64, localStart, localEnd time.Time) *Fault {
	if localDate(localStart) != localDate(localEnd) {
		return Faultf(KindOutsideHours, "trips must start and end on the same day")
	}
	windows, err := e.schedule.WindowsForWeekday(ctx, captainID, localStart.Weekday())
	if err != nil {
		return internalFault("load availability windows", err)
	}
	startMin := minuteOfDay(localStart)
	endMin := minuteOfDay(localEnd)
	for _, w := range windows {
		if w.Contains(startMin, endMin) {
			return nil
		}
	}
	return Faultf(KindOutsideHours, "the requested time is outside bookable hours")
}

// checkBlackout rejects ranges touching a blacked-out local date.
func (e *AvailabilityEngine) checkBlackout(ctx context.Context, captainID uint64, localStart, localEnd time.Time) *Fault {
	for _, date := range []string{localDate(localStart), localDate(localEnd)} {
		blocked, err := e.schedule.IsBlackout(ctx, captainID, date)
		if err != nil {
			return internalFault("load blackout dates", err)
		}
		if blocked {
			return Faultf(KindBlackout, "the requested date is not available for booking")
		}
	}
	return nil
}

func minuteOfDay(t time.Time) int { return t.Hour()*60 + t.Minute() }

func localDate(t time.Time) string { return t.Format("2006-01-02") }
