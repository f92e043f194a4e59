package repository

import (
	"context"
	"database/sql"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
)

// TokenRepo persists guest lookup tokens.  Only the SHA-256 hash of a
// token is stored; the raw code is handed to the guest once, at booking
// creation, and never kept.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo returns a TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// Insert stores the hash of a freshly issued guest token.
func (r *TokenRepo) Insert(ctx context.Context, t *model.GuestToken) error {
	const q = `INSERT INTO guest_tokens (booking_id, token_hash) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.BookingID, t.TokenHash)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}
