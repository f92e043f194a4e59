package model

import "time"

// MaxPartySize is the global upper bound on guests per trip.  Individual
// vessels may restrict the party further via their capacity.
const MaxPartySize = 12

// Booking is the aggregate root of the reservation domain.  It records a
// guest's claim on a captain's time, optionally tied to a specific vessel
// and trip type, together with the money owed and the lifecycle status.
// This struct corresponds to a row in the `bookings` table.
//
// Fields:
//  ID               – primary key identifier.
//  CaptainID        – operator who owns the booking.
//  VesselID         – vessel assigned to the trip (nil when unassigned).
//  TripTypeID       – trip type booked (nil for custom trips).
//  ScheduledStart   – when the trip begins (UTC).
//  ScheduledEnd     – when the trip ends; always after ScheduledStart.
//  OriginalStart    – pre-hold start time, set only once rescheduled.
//  PartySize        – number of guests, 1..MaxPartySize.
//  GuestCount       – confirmed headcount at departure (nil until known).
//  GuestName        – primary guest contact name.
//  GuestEmail       – primary guest contact email.
//  GuestPhone       – optional phone number.
//  SpecialRequests  – optional free text from the guest.
//  Status           – lifecycle status; see status.go for the machine.
//  WeatherHoldReason– why the trip is on hold; set only while on hold.
//  TotalPriceCents  – full trip price in cents.
//  DepositPaidCents – cents received so far toward the deposit/balance.
//  BalanceDueCents  – cents still owed; TotalPriceCents minus payments.
//  PaymentStatus    – derived payment state; see payment.go.
//  InternalNotes    – captain-only operational notes.
//  CaptainInstructions – guest-visible instructions (meeting dock etc).
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Booking struct {
	ID                  uint64        // bookings.id
	CaptainID           uint64        // bookings.captain_id
	VesselID            *uint64       // bookings.vessel_id (nullable)
	TripTypeID          *uint64       // bookings.trip_type_id (nullable)
	ScheduledStart      time.Time     // bookings.scheduled_start
	ScheduledEnd        time.Time     // bookings.scheduled_end
	OriginalStart       *time.Time    // bookings.original_start (nullable)
	PartySize           int           // bookings.party_size
	GuestCount          *int          // bookings.guest_count (nullable)
	GuestName           string        // bookings.guest_name
	GuestEmail          string        // bookings.guest_email
	GuestPhone          *string       // bookings.guest_phone (nullable)
	SpecialRequests     *string       // bookings.special_requests (nullable)
	Status              BookingStatus // bookings.status
	WeatherHoldReason   *string       // bookings.weather_hold_reason (nullable)
	TotalPriceCents     int64         // bookings.total_price_cents
	DepositPaidCents    int64         // bookings.deposit_paid_cents
	BalanceDueCents     int64         // bookings.balance_due_cents
	PaymentStatus       PaymentStatus // bookings.payment_status
	InternalNotes       *string       // bookings.internal_notes (nullable)
	CaptainInstructions *string       // bookings.captain_instructions (nullable)
	CreatedAt           time.Time     // bookings.created_at
	UpdatedAt           time.Time     // bookings.updated_at
}
