package service

import (
	"context"
	"time"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
	"github.com/ericfaux/dockslot-app-sub004/internal/queue"
)

// The services accept narrow store interfaces instead of concrete
// repositories so the lifecycle logic can be exercised against
// in-memory fakes.  The MySQL repositories in internal/repository
// satisfy these interfaces.

// BookingStore persists bookings.  Insert and Reschedule are the two
// writes racing on availability; implementations must serialize the
// overlap check and the write per subject (the MySQL implementation
// locks the vessel or captain row inside a transaction) and report a
// lost race as repository.ErrOverlap.
type BookingStore interface {
	// Insert atomically re-checks for overlapping active bookings on
	// the same subject, padded by bufferMin minutes, and inserts.
	Insert(ctx context.Context, b *model.Booking, bufferMin int) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	GetByTokenHash(ctx context.Context, hash string) (*model.Booking, error)
	ListByCaptain(ctx context.Context, captainID uint64) ([]model.Booking, error)
	// Update overwrites all mutable columns of the booking row,
	// including status and money fields, in one statement.
	Update(ctx context.Context, b *model.Booking) error
	// CountOverlapping is the advisory overlap probe used by the
	// availability engine outside any transaction.
	CountOverlapping(ctx context.Context, captainID uint64, vesselID *uint64, start, end time.Time, bufferMin int, excludeID uint64) (int, error)
	// Reschedule atomically re-checks availability for the accepted
	// offer's range (excluding the booking itself), applies the new
	// schedule and status, and marks the offer selected.
	Reschedule(ctx context.Context, b *model.Booking, offerID uint64, bufferMin int) error
}

// ScheduleStore reads the captain's recurring availability.  These rows
// are owned elsewhere and read-only from the booking core.
type ScheduleStore interface {
	WindowsForWeekday(ctx context.Context, captainID uint64, weekday time.Weekday) ([]model.AvailabilityWindow, error)
	IsBlackout(ctx context.Context, captainID uint64, localDate string) (bool, error)
}

// FleetStore reads captain settings, vessels and trip types.
type FleetStore interface {
	GetCaptain(ctx context.Context, id uint64) (*model.Captain, error)
	GetVessel(ctx context.Context, id uint64) (*model.Vessel, error)
	GetTripType(ctx context.Context, id uint64) (*model.TripType, error)
}

// OfferStore persists reschedule offers.
type OfferStore interface {
	InsertBatch(ctx context.Context, offers []model.RescheduleOffer) error
	ListByBooking(ctx context.Context, bookingID uint64) ([]model.RescheduleOffer, error)
	GetByID(ctx context.Context, id uint64) (*model.RescheduleOffer, error)
}

// PaymentStore appends payment records.  Payments are never mutated.
type PaymentStore interface {
	// Record appends the payment and persists the booking's refreshed
	// money fields in one atomic write.
	Record(ctx context.Context, p *model.Payment, b *model.Booking) error
}

// TokenStore persists guest lookup tokens.
type TokenStore interface {
	Insert(ctx context.Context, t *model.GuestToken) error
}

// AuditStore appends booking log entries.  Failures are non-fatal to
// the command that triggered the write.
type AuditStore interface {
	Insert(ctx context.Context, e *model.BookingLogEntry) error
}

// Notifier requests a fire-and-forget delivery attempt.  Errors are
// logged by callers and never change a command's result.
type Notifier interface {
	Notify(ctx context.Context, ev queue.NotificationEvent) error
}
