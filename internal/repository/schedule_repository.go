package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ericfaux/dockslot-app-sub004/internal/model"
)

// ScheduleRepo reads a captain's recurring availability windows and
// blackout dates.  These rows are managed by the operator-settings
// surface; the booking core only ever reads them.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// WindowsForWeekday returns the active windows a captain has configured
// for one weekday.  Weekdays are stored as 0=Sunday..6=Saturday,
// matching time.Weekday.
func (r *ScheduleRepo) WindowsForWeekday(ctx context.Context, captainID uint64, weekday time.Weekday) ([]model.AvailabilityWindow, error) {
	const q = `SELECT id, captain_id, weekday, start_minute, end_minute, active
	           FROM availability_windows
	           WHERE captain_id = ? AND weekday = ? AND active = 1
	           ORDER BY start_minute`
	rows, err := r.db.QueryContext(ctx, q, captainID, int(weekday))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AvailabilityWindow, 0)
	for rows.Next() {
		var w model.AvailabilityWindow
		var wd int
		if err := rows.Scan(&w.ID, &w.CaptainID, &wd, &w.StartMinute, &w.EndMinute, &w.Active); err != nil {
			return nil, err
		}
		w.Weekday = time.Weekday(wd)
		out = append(out, w)
	}
	return out, rows.Err()
}

// IsBlackout reports whether the captain has excluded the given local
// date (YYYY-MM-DD) from booking.
func (r *ScheduleRepo) IsBlackout(ctx context.Context, captainID uint64, localDate string) (bool, error) {
	const q = `SELECT COUNT(*) FROM blackout_dates WHERE captain_id = ? AND date = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, captainID, localDate).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
