package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
)

// BookingRepo provides persistence for bookings.  All timestamps are
// stored in UTC (the DSN sets parseTime=true and loc=UTC).
//
// The two availability-racing writes, Insert and Reschedule, run inside
// a transaction that first locks the booking's subject row (the vessel,
// or the captain when no vessel is assigned) with SELECT ... FOR UPDATE
// and then re-runs the overlap probe.  Serializing writers per subject
// closes the check-then-act window: of two concurrent attempts on the
// same range, the second re-probes after the first commits and fails
// with ErrOverlap.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, captain_id, vessel_id, trip_type_id,
	scheduled_start, scheduled_end, original_start,
	party_size, guest_count, guest_name, guest_email, guest_phone, special_requests,
	status, weather_hold_reason,
	total_price_cents, deposit_paid_cents, balance_due_cents, payment_status,
	internal_notes, captain_instructions, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanBooking maps one bookings row into a model.Booking.  The status
// column passes through ParseBookingStatus so a malformed stored value
// surfaces as an error instead of an impossible domain state.
func scanBooking(s rowScanner) (*model.Booking, error) {
	var (
		b            model.Booking
		vesselID     sql.NullInt64
		tripTypeID   sql.NullInt64
		origStart    sql.NullTime
		guestCount   sql.NullInt64
		guestPhone   sql.NullString
		requests     sql.NullString
		status       string
		holdReason   sql.NullString
		payStatus    string
		internal     sql.NullString
		instructions sql.NullString
	)
	err := s.Scan(
		&b.ID, &b.CaptainID, &vesselID, &tripTypeID,
		&b.ScheduledStart, &b.ScheduledEnd, &origStart,
		&b.PartySize, &guestCount, &b.GuestName, &b.GuestEmail, &guestPhone, &requests,
		&status, &holdReason,
		&b.TotalPriceCents, &b.DepositPaidCents, &b.BalanceDueCents, &payStatus,
		&internal, &instructions, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status, err = model.ParseBookingStatus(status)
	if err != nil {
		return nil, err
	}
	b.PaymentStatus = model.PaymentStatus(payStatus)
	if vesselID.Valid {
		v := uint64(vesselID.Int64)
		b.VesselID = &v
	}
	if tripTypeID.Valid {
		v := uint64(tripTypeID.Int64)
		b.TripTypeID = &v
	}
	if origStart.Valid {
		t := origStart.Time
		b.OriginalStart = &t
	}
	if guestCount.Valid {
		n := int(guestCount.Int64)
		b.GuestCount = &n
	}
	if guestPhone.Valid {
		v := guestPhone.String
		b.GuestPhone = &v
	}
	if requests.Valid {
		v := requests.String
		b.SpecialRequests = &v
	}
	if holdReason.Valid {
		v := holdReason.String
		b.WeatherHoldReason = &v
	}
	if internal.Valid {
		v := internal.String
		b.InternalNotes = &v
	}
	if instructions.Valid {
		v := instructions.String
		b.CaptainInstructions = &v
	}
	return &b, nil
}

// lockSubjectTx takes a row lock on the booking's subject so concurrent
// writers against the same vessel (or captain calendar) serialize.
func lockSubjectTx(ctx context.Context, tx *sql.Tx, captainID uint64, vesselID *uint64) error {
	var id uint64
	if vesselID != nil {
		return tx.QueryRowContext(ctx, `SELECT id FROM vessels WHERE id = ? FOR UPDATE`, *vesselID).Scan(&id)
	}
	return tx.QueryRowContext(ctx, `SELECT id FROM captains WHERE id = ? FOR UPDATE`, captainID).Scan(&id)
}

// countOverlapping counts active bookings whose range intersects the
// probe range padded by the buffer on both sides.  With a nonzero buffer
// the comparison is inclusive, so a gap of exactly the buffer still
// conflicts; at zero buffer it stays strict and back-to-back trips are
// legal.  q abstracts over the pool and a transaction.
func countOverlapping(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, captainID uint64, vesselID *uint64, start, end time.Time, bufferMin int, excludeID uint64) (int, error) {
	padded := time.Duration(bufferMin) * time.Minute
	padStart := start.Add(-padded)
	padEnd := end.Add(padded)

	query := `SELECT COUNT(*) FROM bookings
	          WHERE status NOT IN ('cancelled', 'completed', 'no_show')
	            AND id <> ?
	            AND scheduled_start < ? AND scheduled_end > ?`
	if bufferMin > 0 {
		query = `SELECT COUNT(*) FROM bookings
	          WHERE status NOT IN ('cancelled', 'completed', 'no_show')
	            AND id <> ?
	            AND scheduled_start <= ? AND scheduled_end >= ?`
	}
	args := []any{excludeID, padEnd, padStart}
	if vesselID != nil {
		query += ` AND vessel_id = ?`
		args = append(args, *vesselID)
	} else {
		query += ` AND captain_id = ?`
		args = append(args, captainID)
	}
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountOverlapping is the advisory overlap probe used outside any
// transaction by the availability engine.
func (r *BookingRepo) CountOverlapping(ctx context.Context, captainID uint64, vesselID *uint64, start, end time.Time, bufferMin int, excludeID uint64) (int, error) {
	return countOverlapping(ctx, r.db, captainID, vesselID, start, end, bufferMin, excludeID)
}

// Insert creates a booking after an authoritative overlap re-check under
// a subject row lock.  On success the generated ID and timestamps are
// populated on b.  Returns ErrOverlap when the range was taken between
// the caller's advisory check and this commit.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking, bufferMin int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := lockSubjectTx(ctx, tx, b.CaptainID, b.VesselID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	n, err := countOverlapping(ctx, tx, b.CaptainID, b.VesselID, b.ScheduledStart, b.ScheduledEnd, bufferMin, 0)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrOverlap
	}
	const ins = `INSERT INTO bookings (captain_id, vessel_id, trip_type_id,
		scheduled_start, scheduled_end, original_start,
		party_size, guest_count, guest_name, guest_email, guest_phone, special_requests,
		status, weather_hold_reason,
		total_price_cents, deposit_paid_cents, balance_due_cents, payment_status,
		internal_notes, captain_instructions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		b.CaptainID, b.VesselID, b.TripTypeID,
		b.ScheduledStart, b.ScheduledEnd, b.OriginalStart,
		b.PartySize, b.GuestCount, b.GuestName, b.GuestEmail, b.GuestPhone, b.SpecialRequests,
		b.Status.String(), b.WeatherHoldReason,
		b.TotalPriceCents, b.DepositPaidCents, b.BalanceDueCents, string(b.PaymentStatus),
		b.InternalNotes, b.CaptainInstructions,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Read the row back to pick up database-generated timestamps.
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID)
	stored, err := scanBooking(row)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*b = *stored
	return nil
}

// GetByID fetches one booking.  Returns ErrNotFound when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// GetByTokenHash resolves a booking through its guest token hash.
func (r *BookingRepo) GetByTokenHash(ctx context.Context, hash string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE id = (SELECT booking_id FROM guest_tokens WHERE token_hash = ?)`
	row := r.db.QueryRowContext(ctx, q, hash)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// ListByCaptain returns all bookings for a captain, newest first.
func (r *BookingRepo) ListByCaptain(ctx context.Context, captainID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE captain_id = ? ORDER BY scheduled_start DESC`
	rows, err := r.db.QueryContext(ctx, q, captainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// updateBooking overwrites every mutable column of the booking row in a
// single statement, so a status transition together with its side-effect
// fields lands as one atomic write.  q abstracts over the pool and a
// transaction.  The bookings table carries no optimistic version column;
// concurrent plain updates to the same row resolve as last write wins.
func updateBooking(ctx context.Context, q interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, b *model.Booking) error {
	const stmt = `UPDATE bookings SET
		vessel_id = ?, trip_type_id = ?,
		scheduled_start = ?, scheduled_end = ?, original_start = ?,
		party_size = ?, guest_count = ?, guest_name = ?, guest_email = ?, guest_phone = ?, special_requests = ?,
		status = ?, weather_hold_reason = ?,
		total_price_cents = ?, deposit_paid_cents = ?, balance_due_cents = ?, payment_status = ?,
		internal_notes = ?, captain_instructions = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := q.ExecContext(ctx, stmt,
		b.VesselID, b.TripTypeID,
		b.ScheduledStart, b.ScheduledEnd, b.OriginalStart,
		b.PartySize, b.GuestCount, b.GuestName, b.GuestEmail, b.GuestPhone, b.SpecialRequests,
		b.Status.String(), b.WeatherHoldReason,
		b.TotalPriceCents, b.DepositPaidCents, b.BalanceDueCents, string(b.PaymentStatus),
		b.InternalNotes, b.CaptainInstructions, b.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Update persists every mutable column of the booking row.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	return updateBooking(ctx, r.db, b)
}

// Reschedule applies an accepted offer: under the subject row lock it
// re-checks the new range for overlap (excluding the booking itself),
// rewrites the booking's schedule, status and hold fields, and marks
// the offer selected.  Everything commits or nothing does.
func (r *BookingRepo) Reschedule(ctx context.Context, b *model.Booking, offerID uint64, bufferMin int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := lockSubjectTx(ctx, tx, b.CaptainID, b.VesselID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if b.VesselID != nil {
		n, err := countOverlapping(ctx, tx, b.CaptainID, b.VesselID, b.ScheduledStart, b.ScheduledEnd, bufferMin, b.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrOverlap
		}
	}
	const upd = `UPDATE bookings SET
		scheduled_start = ?, scheduled_end = ?, original_start = ?,
		status = ?, weather_hold_reason = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd,
		b.ScheduledStart, b.ScheduledEnd, b.OriginalStart, b.Status.String(), b.ID,
	); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE reschedule_offers SET selected = 1 WHERE id = ? AND booking_id = ? AND selected = 0`,
		offerID, b.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
