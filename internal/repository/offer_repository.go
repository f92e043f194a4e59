package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
)

// OfferRepo persists reschedule offers.  Selection happens through
// BookingRepo.Reschedule so the flag flips in the same transaction as
// the booking's new schedule.
type OfferRepo struct {
	db *sql.DB
}

// NewOfferRepo returns an OfferRepo bound to the given database.
func NewOfferRepo(db *sql.DB) *OfferRepo { return &OfferRepo{db: db} }

// InsertBatch inserts all offers of one weather-hold batch in a single
// statement and populates the generated IDs.  Passing an empty slice
// has no effect.
func (r *OfferRepo) InsertBatch(ctx context.Context, offers []model.RescheduleOffer) error {
	if len(offers) == 0 {
		return nil
	}
	query := `INSERT INTO reschedule_offers (booking_id, starts_at, ends_at, selected, expires_at) VALUES `
	args := make([]any, 0, len(offers)*5)
	for i, o := range offers {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, 0, ?)"
		args = append(args, o.BookingID, o.Start, o.End, o.ExpiresAt)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	// MySQL reports the first generated ID of a multi-row insert; the
	// rest follow sequentially.
	first, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i := range offers {
		offers[i].ID = uint64(first) + uint64(i)
	}
	return nil
}

// ListByBooking returns all offers for a booking, oldest first.
func (r *OfferRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.RescheduleOffer, error) {
	const q = `SELECT id, booking_id, starts_at, ends_at, selected, expires_at, created_at
	           FROM reschedule_offers WHERE booking_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RescheduleOffer, 0)
	for rows.Next() {
		var o model.RescheduleOffer
		if err := rows.Scan(&o.ID, &o.BookingID, &o.Start, &o.End, &o.Selected, &o.ExpiresAt, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetByID fetches one offer.  Returns ErrNotFound when absent.
func (r *OfferRepo) GetByID(ctx context.Context, id uint64) (*model.RescheduleOffer, error) {
	const q = `SELECT id, booking_id, starts_at, ends_at, selected, expires_at, created_at
	           FROM reschedule_offers WHERE id = ?`
	var o model.RescheduleOffer
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&o.ID, &o.BookingID, &o.Start, &o.End, &o.Selected, &o.ExpiresAt, &o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
