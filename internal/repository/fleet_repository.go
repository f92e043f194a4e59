package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
)

// FleetRepo reads captain settings, vessels and trip types.  The
// booking core performs ownership checks against these rows but never
// writes them.
type FleetRepo struct {
	db *sql.DB
}

// NewFleetRepo returns a FleetRepo bound to the given database.
func NewFleetRepo(db *sql.DB) *FleetRepo { return &FleetRepo{db: db} }

// GetCaptain fetches one captain's settings.  Returns ErrNotFound when
// absent.
func (r *FleetRepo) GetCaptain(ctx context.Context, id uint64) (*model.Captain, error) {
	const q = `SELECT id, name, time_zone, buffer_minutes, max_advance_days,
	                  max_party_size, hibernating, created_at, updated_at
	           FROM captains WHERE id = ?`
	var c model.Captain
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.TimeZone, &c.BufferMinutes, &c.MaxAdvanceDays,
		&c.MaxPartySize, &c.Hibernating, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetVessel fetches one vessel.  Returns ErrNotFound when absent.
func (r *FleetRepo) GetVessel(ctx context.Context, id uint64) (*model.Vessel, error) {
	const q = `SELECT id, captain_id, name, capacity, is_active, created_at, updated_at
	           FROM vessels WHERE id = ?`
	var v model.Vessel
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.CaptainID, &v.Name, &v.Capacity, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetTripType fetches one trip type.  Returns ErrNotFound when absent.
func (r *FleetRepo) GetTripType(ctx context.Context, id uint64) (*model.TripType, error) {
	const q = `SELECT id, captain_id, name, duration_minutes, price_cents, is_active
	           FROM trip_types WHERE id = ?`
	var t model.TripType
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.CaptainID, &t.Name, &t.DurationMinutes, &t.PriceCents, &t.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
