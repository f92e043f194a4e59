package model

import "time"

// ActorType identifies who performed an audited mutation.
type ActorType string

const (
	ActorSystem  ActorType = "system"
	ActorCaptain ActorType = "captain"
	ActorGuest   ActorType = "guest"
)

// Log entry types written by the booking engine.  The set is open-ended
// on the storage side; these constants cover every mutation this core
// performs.
const (
	LogBookingCreated     = "booking_created"
	LogBookingUpdated     = "booking_updated"
	LogStatusChanged      = "status_changed"
	LogWeatherHoldSet     = "weather_hold_set"
	LogWeatherHoldCleared = "weather_hold_cleared"
	LogOffersCreated      = "offers_created"
	LogOfferAccepted      = "offer_accepted"
	LogPaymentRecorded    = "payment_recorded"
	LogGuestCommunication = "guest_communication"
)

// BookingLogEntry is an append-only audit record of one mutation against
// a booking.  Entries are never updated or deleted.  Old and new value
// snapshots are stored as JSON so the change can be reconstructed.
// Corresponds to a row in the `booking_log` table.
//
// Fields:
//  ID          – primary key identifier.
//  BookingID   – booking the entry belongs to.
//  CorrelationID – UUID grouping entries emitted by one command.
//  EntryType   – one of the Log* constants above.
//  Description – human-readable summary of the change.
//  OldValue    – JSON snapshot before the change (nil when creating).
//  NewValue    – JSON snapshot after the change (nil for pure notes).
//  ActorType   – system, captain or guest.
//  ActorID     – identifier of the actor when known.
//  CreatedAt   – when the entry was written.
type BookingLogEntry struct {
	ID            uint64    // booking_log.id
	BookingID     uint64    // booking_log.booking_id
	CorrelationID string    // booking_log.correlation_id
	EntryType     string    // booking_log.entry_type
	Description   string    // booking_log.description
	OldValue      *string   // booking_log.old_value (nullable JSON)
	NewValue      *string   // booking_log.new_value (nullable JSON)
	ActorType     ActorType // booking_log.actor_type
	ActorID       *uint64   // booking_log.actor_id (nullable)
	CreatedAt     time.Time // booking_log.created_at
}
