package repository

import (
	"context"
	"database/sql"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
)

// PaymentRepo appends payment records.  Payments are immutable: there
// is deliberately no update or delete here.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Record appends one payment and writes the booking's refreshed money
// fields in the same transaction, so a committed payment can never be
// left without its effect on the booking row.  Populates the payment's
// generated ID and creation timestamp on success.
func (r *PaymentRepo) Record(ctx context.Context, p *model.Payment, b *model.Booking) error {
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
	const ins = `INSERT INTO payments (booking_id, amount_cents, type, processor_ref) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, p.BookingID, p.AmountCents, string(p.Type), p.ProcessorRef)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM payments WHERE id = ?`, p.ID,
	).Scan(&p.CreatedAt); err != nil {
		return err
	}
	if err := updateBooking(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
