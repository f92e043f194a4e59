package model

import "time"

// AvailabilityWindow describes a recurring bookable window for one
// captain on one weekday, expressed as minutes-of-day in the captain's
// time zone.  Absence of an active window for a weekday means the
// captain does not sail that day.  Corresponds to a row in the
// `availability_windows` table.
//
// Fields:
//  ID          – primary key identifier.
//  CaptainID   – owning captain.
//  Weekday     – day of week the window applies to (time.Sunday..).
//  StartMinute – window opening, minutes after local midnight.
//  EndMinute   – window closing, minutes after local midnight.
//  Active      – inactive windows are ignored by the availability engine.
type AvailabilityWindow struct {
	ID          uint64       // availability_windows.id
	CaptainID   uint64       // availability_windows.captain_id
	Weekday     time.Weekday // availability_windows.weekday
	StartMinute int          // availability_windows.start_minute
	EndMinute   int          // availability_windows.end_minute
	Active      bool         // availability_windows.active
}

// Contains reports whether the window fully covers the local
// time-of-day span [startMinute, endMinute].
func (w AvailabilityWindow) Contains(startMinute, endMinute int) bool {
	return w.Active && w.StartMinute <= startMinute && endMinute <= w.EndMinute
}

// BlackoutDate excludes one calendar date (in the captain's time zone)
// from booking regardless of weekly windows.  Corresponds to a row in
// the `blackout_dates` table.
//
// Fields:
//  ID        – primary key identifier.
//  CaptainID – owning captain.
//  Date      – the excluded local date, formatted YYYY-MM-DD.
//  Reason    – optional note shown to the captain.
type BlackoutDate struct {
	ID        uint64  // blackout_dates.id
	CaptainID uint64  // blackout_dates.captain_id
	Date      string  // blackout_dates.date
	Reason    *string // blackout_dates.reason (nullable)
}
