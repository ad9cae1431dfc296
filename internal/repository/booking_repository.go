package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// BookingRepo provides persistence for bookings.  Allocate is the single
// mutating path that may consume room capacity; everything else is plain
// CRUD.  All timestamp fields are stored in UTC.
type BookingRepo struct {
	db       *sql.DB
	turnover bool // same-day turnover policy; must match the read-side repos
}

// NewBookingRepo constructs a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB, allowSameDayTurnover bool) *BookingRepo {
	return &BookingRepo{db: db, turnover: allowSameDayTurnover}
}

// DB exposes the underlying handle for callers that manage their own
// transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = "id, user_id, room_id, date_from, date_to, price_cents"

// Allocate attempts to create exactly one booking such that the room's
// unit quantity is never exceeded by the set of committed overlapping
// bookings.  The check and the insert run inside one transaction:
//
//  1. The room row is locked with SELECT ... FOR UPDATE, serializing
//     concurrent allocations for the same room.  Two racing requests for
//     the last unit therefore observe each other: the second waits on the
//     lock and sees the first one's insert when it re-counts.
//  2. Committed overlapping bookings for the room are counted under the
//     lock, using the same overlap predicate as the availability queries.
//  3. If count < quantity the booking row is inserted and the generated
//     id populated on b; otherwise the transaction rolls back and
//     ErrNoVacancy is returned.
//
// The date range is validated before any store access.  A cancelled
// context or transient lock failure rolls back fully; no partial row is
// ever left behind.  Allocation is not idempotent: identical repeated
// calls create distinct bookings while capacity remains.
func (r *BookingRepo) Allocate(ctx context.Context, b *model.Booking) error {
	if !model.ValidRange(b.DateFrom, b.DateTo) {
		return ErrInvalidDateRange
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the room row for the duration of the check-then-insert.
	var quantity uint32
	err = tx.QueryRowContext(ctx,
		"SELECT quantity FROM rooms WHERE id = ? FOR UPDATE", b.RoomID).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	if err != nil {
		return wrapStore(err)
	}

	countSQL, countArgs, err := qb.
		Select("COUNT(*)").
		From("bookings b").
		Where(sq.Eq{"b.room_id": b.RoomID}).
		Where(overlapCond(b.DateFrom, b.DateTo, r.turnover)).
		ToSql()
	if err != nil {
		return err
	}
	var booked uint32
	if err := tx.QueryRowContext(ctx, countSQL, countArgs...).Scan(&booked); err != nil {
		return wrapStore(err)
	}
	if booked >= quantity {
		return ErrNoVacancy
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, room_id, date_from, date_to, price_cents) VALUES (?, ?, ?, ?, ?)",
		b.UserID, b.RoomID, b.DateFrom.Format(dateLayout), b.DateTo.Format(dateLayout), b.PriceCents)
	if err != nil {
		return wrapStore(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if err := tx.Commit(); err != nil {
		return wrapStore(err)
	}
	committed = true
	return nil
}

// GetByID returns a single booking or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, wrapStore(err)
}

// ListAll returns every booking ordered by id.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY id ASC")
}

// ListByUser returns the bookings made by one user, newest range first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.list(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id = ? ORDER BY date_from DESC, id DESC",
		userID)
}

// CheckinsOn returns the bookings whose check-in falls on the given day.
// The check-in reminder worker uses it once per day.
func (r *BookingRepo) CheckinsOn(ctx context.Context, day time.Time) ([]model.Booking, error) {
	return r.list(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE date_from = ? ORDER BY id ASC",
		day.Format(dateLayout))
}

// Update rewrites the mutable fields of a booking.  This is plain
// persistence for administrative edits; it deliberately does not re-run
// the allocation check.
func (r *BookingRepo) Update(ctx context.Context, b model.Booking) error {
	if !model.ValidRange(b.DateFrom, b.DateTo) {
		return ErrInvalidDateRange
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET room_id = ?, date_from = ?, date_to = ?, price_cents = ? WHERE id = ?",
		b.RoomID, b.DateFrom.Format(dateLayout), b.DateTo.Format(dateLayout), b.PriceCents, b.ID)
	if err != nil {
		return wrapStore(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the booking is missing or the values were identical;
		// distinguish by looking the row up.
		if _, err := r.GetByID(ctx, b.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a booking owned by the given user.  It returns
// ErrBookingNotFound when the booking does not exist and ErrForbidden
// when it belongs to someone else.
func (r *BookingRepo) Delete(ctx context.Context, id, userID uint64) error {
	var owner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id FROM bookings WHERE id = ?", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return wrapStore(err)
	}
	if owner != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	return wrapStore(err)
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStore(err)
	}
	defer rows.Close()

	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(row interface{ Scan(...interface{}) error }) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &b.DateFrom, &b.DateTo, &b.PriceCents)
	return b, err
}
