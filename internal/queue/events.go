// Package queue defines the notification payloads exchanged over the
// message broker.  The booking core only requests that a delivery
// attempt be made; rendering and transport of the actual email/SMS live
// downstream of the broker.
package queue

// Notification event names published by the booking core.
const (
	EventBookingCreated     = "booking.created"
	EventDepositReceived    = "booking.deposit_received"
	EventWeatherHoldSet     = "booking.weather_hold"
	EventOffersCreated      = "booking.offers_created"
	EventBookingRescheduled = "booking.rescheduled"
	EventBookingCancelled   = "booking.cancelled"
)

// NotificationEvent asks downstream consumers to notify a guest about a
// booking lifecycle change.  It carries enough context to render a
// message without querying the primary database.
type NotificationEvent struct {
	MessageID  string `json:"message_id"`
	Event      string `json:"event"`
	BookingID  uint64 `json:"booking_id"`
	CaptainID  uint64 `json:"captain_id"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone,omitempty"`
	StartsAt   string `json:"starts_at,omitempty"`
	EndsAt     string `json:"ends_at,omitempty"`
	Detail     string `json:"detail,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
