package model

import "time"

// GuestToken is the self-service lookup credential bound 1:1 to a
// booking.  The raw code is returned to the guest exactly once, at
// booking creation; only its SHA-256 hash is stored.  Tokens never
// expire; abuse is bounded by rate limiting on the lookup path, not by
// a usability window.  Corresponds to a row in the `guest_tokens` table.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – booking the token unlocks.
//  TokenHash – SHA-256 hex digest of the raw code.
//  CreatedAt – when the token was issued.
type GuestToken struct {
	ID        uint64    // guest_tokens.id
	BookingID uint64    // guest_tokens.booking_id
	TokenHash string    // guest_tokens.token_hash
	CreatedAt time.Time // guest_tokens.created_at
}
