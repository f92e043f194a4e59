package repository

import (
	"context"
	"database/sql"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
)

// AuditRepo appends booking log entries.  The log is write-only from
// this core's perspective; entries are never updated or deleted.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns an AuditRepo bound to the given database.
func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// Insert appends one log entry.
func (r *AuditRepo) Insert(ctx context.Context, e *model.BookingLogEntry) error {
	const q = `INSERT INTO booking_log
		(booking_id, correlation_id, entry_type, description, old_value, new_value, actor_type, actor_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.BookingID, e.CorrelationID, e.EntryType, e.Description,
		e.OldValue, e.NewValue, string(e.ActorType), e.ActorID,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}
