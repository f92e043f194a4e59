package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Actor identifies who issued a command, for audit attribution.
type Actor struct {
	Type model.ActorType
	ID   uint64
}

// SystemActor attributes a mutation to the platform itself.
var SystemActor = Actor{Type: model.ActorSystem}

// CaptainActor attributes a mutation to an authenticated captain.
func CaptainActor(id uint64) Actor { return Actor{Type: model.ActorCaptain, ID: id} }

// GuestActor attributes a mutation to a guest acting through a token.
func GuestActor(bookingID uint64) Actor { return Actor{Type: model.ActorGuest, ID: bookingID} }

// bookingSnapshot is the JSON shape stored in booking_log old/new
// columns.  It captures enough state to reconstruct a change without
// replaying the whole row.
type bookingSnapshot struct {
	Status           model.BookingStatus `json:"status"`
	ScheduledStart   time.Time           `json:"scheduled_start"`
	ScheduledEnd     time.Time           `json:"scheduled_end"`
	PartySize        int                 `json:"party_size"`
	VesselID         *uint64             `json:"vessel_id,omitempty"`
	TotalPriceCents  int64               `json:"total_price_cents"`
	DepositPaidCents int64               `json:"deposit_paid_cents"`
	BalanceDueCents  int64               `json:"balance_due_cents"`
	PaymentStatus    model.PaymentStatus `json:"payment_status"`
	WeatherHold      *string             `json:"weather_hold_reason,omitempty"`
}

func snapshot(b *model.Booking) *string {
	if b == nil {
		return nil
	}
	snap := bookingSnapshot{
		Status:           b.Status,
		ScheduledStart:   b.ScheduledStart,
		ScheduledEnd:     b.ScheduledEnd,
		PartySize:        b.PartySize,
		VesselID:         b.VesselID,
		TotalPriceCents:  b.TotalPriceCents,
		DepositPaidCents: b.DepositPaidCents,
		BalanceDueCents:  b.BalanceDueCents,
		PaymentStatus:    b.PaymentStatus,
		WeatherHold:      b.WeatherHoldReason,
	}
	raw, err := json.MarshalToString(snap)
	if err != nil {
		log.Printf("booking-core: snapshot marshal failed: %v", err)
		return nil
	}
	return &raw
}

// auditWriter appends booking log entries.  A failed append is logged
// and swallowed; audit writes never fail the command that produced them.
type auditWriter struct {
	store AuditStore
	clock Clock
}

func (a *auditWriter) record(ctx context.Context, bookingID uint64, entryType, description string, oldVal, newVal *string, actor Actor) {
	entry := &model.BookingLogEntry{
		BookingID:     bookingID,
		CorrelationID: uuid.NewString(),
		EntryType:     entryType,
		Description:   description,
		OldValue:      oldVal,
		NewValue:      newVal,
		ActorType:     actor.Type,
		CreatedAt:     a.clock.Now(),
	}
	if actor.ID != 0 {
		id := actor.ID
		entry.ActorID = &id
	}
	if err := a.store.Insert(ctx, entry); err != nil {
		log.Printf("booking-core: audit append failed for booking %d (%s): %v", bookingID, entryType, err)
	}
}
