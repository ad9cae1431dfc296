package repository

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

// This file holds the shared construction of the room-availability query.
// For a date range, a room is available when its quantity exceeds the
// number of committed bookings whose ranges overlap the requested one:
//
//	rooms_left = rooms.quantity - COUNT(overlapping bookings) > 0
//
// The derived rooms_left value is never stored; every query recomputes it
// from committed state so results always reflect the latest bookings.
// Both the hotel search and the per-hotel room listing reuse these
// builders, and the allocation transaction reuses the overlap predicate.

// dateLayout is how DATE column parameters are rendered for MySQL.
const dateLayout = "2006-01-02"

// qb builds statements with MySQL-style ? placeholders.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// overlapCond returns the predicate matching bookings that conflict with
// the [from, to] range.  The default comparison is inclusive on both
// ends, so ranges that merely touch at a boundary day conflict.  With
// allowSameDayTurnover the comparisons become strict and a new guest may
// check in on another's checkout day.
func overlapCond(from, to time.Time, allowSameDayTurnover bool) sq.Sqlizer {
	f := from.Format(dateLayout)
	t := to.Format(dateLayout)
	if allowSameDayTurnover {
		return sq.And{
			sq.Lt{"b.date_from": t},
			sq.Gt{"b.date_to": f},
		}
	}
	return sq.And{
		sq.LtOrEq{"b.date_from": t},
		sq.GtOrEq{"b.date_to": f},
	}
}

// availableRoomIDs builds the SELECT returning ids of rooms with at least
// one unbooked unit throughout [from, to], optionally scoped to a hotel.
// The result is deterministic (ordered by room id) so callers can paginate.
func availableRoomIDs(from, to time.Time, hotelID *uint64, allowSameDayTurnover bool) (string, []interface{}, error) {
	booked, bookedArgs, err := qb.
		Select("b.room_id", "COUNT(*) AS booked").
		From("bookings b").
		Where(overlapCond(from, to, allowSameDayTurnover)).
		GroupBy("b.room_id").
		ToSql()
	if err != nil {
		return "", nil, err
	}

	q := qb.
		Select("r.id").
		From("rooms r").
		LeftJoin("("+booked+") bc ON bc.room_id = r.id", bookedArgs...).
		Where("r.quantity - COALESCE(bc.booked, 0) > 0")
	if hotelID != nil {
		q = q.Where(sq.Eq{"r.hotel_id": *hotelID})
	}
	return q.OrderBy("r.id ASC").ToSql()
}
