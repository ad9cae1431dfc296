package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// HotelRepo provides persistence for hotels, including the availability
// search that drives the public hotel listing.
type HotelRepo struct {
	db       *sql.DB
	turnover bool // same-day turnover policy used by availability queries
}

// NewHotelRepo constructs a HotelRepo bound to the given database.  The
// allowSameDayTurnover flag selects the boundary policy for availability
// queries and must match the one used by the booking repository.
func NewHotelRepo(db *sql.DB, allowSameDayTurnover bool) *HotelRepo {
	return &HotelRepo{db: db, turnover: allowSameDayTurnover}
}

// DB exposes the underlying handle for callers that manage their own
// transactions.
func (r *HotelRepo) DB() *sql.DB { return r.db }

// HotelSearchQuery defines filters and pagination for searching hotels
// with at least one free room in a date range.  Location and Title are
// case-insensitive substring filters.  Limit/Offset paginate the result,
// which is ordered by hotel id so pages are stable across calls.
type HotelSearchQuery struct {
	DateFrom time.Time
	DateTo   time.Time
	Location string
	Title    string
	Limit    uint64
	Offset   uint64
}

// SearchAvailable returns hotels that have at least one room with a free
// unit throughout the query range.  It is a pure read: no locks are taken
// and results reflect committed state at query time.
func (r *HotelRepo) SearchAvailable(ctx context.Context, q HotelSearchQuery) ([]model.Hotel, error) {
	roomsSQL, roomsArgs, err := availableRoomIDs(q.DateFrom, q.DateTo, nil, r.turnover)
	if err != nil {
		return nil, err
	}

	sel := qb.
		Select("h.id", "h.title", "h.location").
		From("hotels h").
		Where("h.id IN (SELECT r2.hotel_id FROM rooms r2 WHERE r2.id IN ("+roomsSQL+"))", roomsArgs...)

	if loc := strings.TrimSpace(q.Location); loc != "" {
		sel = sel.Where("LOWER(h.location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}
	if title := strings.TrimSpace(q.Title); title != "" {
		sel = sel.Where("LOWER(h.title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}

	sel = sel.OrderBy("h.id ASC").Limit(q.Limit).Offset(q.Offset)

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStore(err)
	}
	defer rows.Close()

	out := make([]model.Hotel, 0, q.Limit)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Title, &h.Location); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetByID returns a single hotel or ErrHotelNotFound.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (model.Hotel, error) {
	var h model.Hotel
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, location FROM hotels WHERE id = ?", id).
		Scan(&h.ID, &h.Title, &h.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Hotel{}, ErrHotelNotFound
	}
	return h, wrapStore(err)
}

// Create inserts a hotel and populates its generated id.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO hotels (title, location) VALUES (?, ?)", h.Title, h.Location)
	if err != nil {
		return wrapStore(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// Update replaces every mutable field of a hotel.  It returns
// ErrHotelNotFound when the hotel does not exist.
func (r *HotelRepo) Update(ctx context.Context, h model.Hotel) error {
	if _, err := r.GetByID(ctx, h.ID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE hotels SET title = ?, location = ? WHERE id = ?", h.Title, h.Location, h.ID)
	return wrapStore(err)
}

// HotelPatch carries optional field updates for a partial edit.  Nil
// fields are left untouched.
type HotelPatch struct {
	Title    *string
	Location *string
}

// Patch applies a partial update.  When no field is set the call is a
// no-op beyond the existence check.
func (r *HotelRepo) Patch(ctx context.Context, id uint64, p HotelPatch) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	upd := qb.Update("hotels").Where(sq.Eq{"id": id})
	changed := false
	if p.Title != nil {
		upd = upd.Set("title", *p.Title)
		changed = true
	}
	if p.Location != nil {
		upd = upd.Set("location", *p.Location)
		changed = true
	}
	if !changed {
		return nil
	}
	query, args, err := upd.ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return wrapStore(err)
}

// Delete removes a hotel.  Hotels that still own rooms cannot be deleted
// and yield ErrConflict.
func (r *HotelRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rooms WHERE hotel_id = ?", id).Scan(&n); err != nil {
		return wrapStore(err)
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM hotels WHERE id = ?", id)
	if err != nil {
		return wrapStore(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrHotelNotFound
	}
	return nil
}
