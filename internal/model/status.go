package model

import "fmt"

// BookingStatus represents the lifecycle state of a booking.  The status
// field is a closed enumeration; every status change must pass through
// CanTransitionTo so that free-form assignment is impossible.
type BookingStatus string

const (
	StatusPendingDeposit BookingStatus = "pending_deposit"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusWeatherHold    BookingStatus = "weather_hold"
	StatusRescheduled    BookingStatus = "rescheduled"
	StatusCompleted      BookingStatus = "completed"
	StatusCancelled      BookingStatus = "cancelled"
	StatusNoShow         BookingStatus = "no_show"
)

// validTransitions is the single source of truth for the booking state
// machine.  Terminal statuses map to an empty target list.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPendingDeposit: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusWeatherHold, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusWeatherHold:    {StatusConfirmed, StatusRescheduled, StatusCancelled},
	StatusRescheduled:    {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted:      {},
	StatusCancelled:      {},
	StatusNoShow:         {},
}

// IsValid reports whether s is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo reports whether the state machine permits moving from s
// to target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
// Terminal bookings also reject all field-level updates.
func (s BookingStatus) IsTerminal() bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return true
	}
	return len(allowed) == 0
}

// IsActive reports whether a booking in this status still occupies its
// time slot.  Active bookings participate in overlap checks; terminal
// ones do not.
func (s BookingStatus) IsActive() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return false
	}
	return true
}

// String returns the wire representation of the status.
func (s BookingStatus) String() string { return string(s) }

// ParseBookingStatus converts a raw string into a BookingStatus.  Rows
// read back from storage pass through here so a corrupted status column
// surfaces as an error instead of an impossible state.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown booking status %q", raw)
	}
	return s, nil
}
