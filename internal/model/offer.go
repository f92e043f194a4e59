package model

import "time"

// OfferTTL is how long a reschedule offer stays usable after creation.
const OfferTTL = 7 * 24 * time.Hour

// RescheduleOffer is a candidate replacement time range proposed to
// resolve a weather hold.  Offers are created in a batch when the hold
// is declared and resolved lazily: an unselected offer simply becomes
// unusable once its expiration passes; there is no background sweeper.
// At most one offer per booking is ever selected.  Corresponds to a row
// in the `reschedule_offers` table.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – booking the offer belongs to.
//  Start     – proposed trip start (UTC).
//  End       – proposed trip end (UTC).
//  Selected  – whether this offer was accepted; terminal once set.
//  ExpiresAt – creation time plus OfferTTL.
//  CreatedAt – when the offer was created.
type RescheduleOffer struct {
	ID        uint64    // reschedule_offers.id
	BookingID uint64    // reschedule_offers.booking_id
	Start     time.Time // reschedule_offers.starts_at
	End       time.Time // reschedule_offers.ends_at
	Selected  bool      // reschedule_offers.selected
	ExpiresAt time.Time // reschedule_offers.expires_at
	CreatedAt time.Time // reschedule_offers.created_at
}

// Usable is the single expiry predicate for offers: an offer can be
// accepted only while it is unselected and its expiration has not
// passed at the given instant.
func (o RescheduleOffer) Usable(now time.Time) bool {
	return !o.Selected && !now.After(o.ExpiresAt)
}
