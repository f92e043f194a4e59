package model

import "time"

// Captain holds the operator-level settings the booking engine reads on
// every scheduling decision.  The engine treats these rows as read-only;
// they are managed elsewhere.  Corresponds to a row in the `captains`
// table.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – display name of the operation.
//  TimeZone        – IANA zone name; weekly windows and blackout dates
//                    are evaluated in this zone.
//  BufferMinutes   – minimum gap enforced between trips on a vessel.
//  MaxAdvanceDays  – advance-booking horizon for new bookings.
//  MaxPartySize    – per-captain party cap; 0 means use the global cap.
//  Hibernating     – when true, all new bookings are refused.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Captain struct {
	ID             uint64    // captains.id
	Name           string    // captains.name
	TimeZone       string    // captains.time_zone
	BufferMinutes  int       // captains.buffer_minutes
	MaxAdvanceDays int       // captains.max_advance_days
	MaxPartySize   int       // captains.max_party_size
	Hibernating    bool      // captains.hibernating
	CreatedAt      time.Time // captains.created_at
	UpdatedAt      time.Time // captains.updated_at
}

// PartyCap returns the effective party-size limit for this captain.
func (c Captain) PartyCap() int {
	if c.MaxPartySize > 0 && c.MaxPartySize < MaxPartySize {
		return c.MaxPartySize
	}
	return MaxPartySize
}

// Vessel is a bookable boat owned by a captain.  Corresponds to a row
// in the `vessels` table.
//
// Fields:
//  ID        – primary key identifier.
//  CaptainID – owning captain.
//  Name      – vessel name, unique per captain.
//  Capacity  – maximum guests the vessel carries.
//  IsActive  – inactive vessels cannot receive new bookings.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Vessel struct {
	ID        uint64    // vessels.id
	CaptainID uint64    // vessels.captain_id
	Name      string    // vessels.name
	Capacity  int       // vessels.capacity
	IsActive  bool      // vessels.is_active
	CreatedAt time.Time // vessels.created_at
	UpdatedAt time.Time // vessels.updated_at
}

// TripType is a captain-defined trip template carrying a default
// duration and price.  Corresponds to a row in the `trip_types` table.
//
// Fields:
//  ID              – primary key identifier.
//  CaptainID       – owning captain.
//  Name            – template name (e.g. "Half-day inshore").
//  DurationMinutes – default trip length.
//  PriceCents      – default total price in cents.
//  IsActive        – inactive templates cannot be booked.
type TripType struct {
	ID              uint64 // trip_types.id
	CaptainID       uint64 // trip_types.captain_id
	Name            string // trip_types.name
	DurationMinutes int    // trip_types.duration_minutes
	PriceCents      int64  // trip_types.price_cents
	IsActive        bool   // trip_types.is_active
}
