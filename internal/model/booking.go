package model

import "time"

// Booking records a user's reservation of one unit of a room type for a
// date range.  DateFrom is the check-in day and DateTo the checkout day.
// PriceCents is a snapshot of the room's nightly price at booking time;
// it is never recomputed afterwards.
//
// Fields:
//
//	ID         – primary key identifier.
//	UserID     – user who made the booking.
//	RoomID     – room type being booked.
//	DateFrom   – check-in date (inclusive).
//	DateTo     – checkout date.
//	PriceCents – nightly price snapshot in cents.
type Booking struct {
	ID         uint64    `json:"id"`          // bookings.id
	UserID     uint64    `json:"user_id"`     // bookings.user_id
	RoomID     uint64    `json:"room_id"`     // bookings.room_id
	DateFrom   time.Time `json:"date_from"`   // bookings.date_from
	DateTo     time.Time `json:"date_to"`     // bookings.date_to
	PriceCents uint32    `json:"price_cents"` // bookings.price_cents
}

// Nights returns the number of nights covered by the booking.
func (b Booking) Nights() int {
	return Nights(b.DateFrom, b.DateTo)
}

// TotalCents returns the full price of the stay: nightly snapshot times
// the number of nights.
func (b Booking) TotalCents() uint32 {
	n := b.Nights()
	if n <= 0 {
		return 0
	}
	return b.PriceCents * uint32(n)
}

// ValidRange reports whether from/to form a bookable date range.  The
// check-in must be strictly before the checkout day.
func ValidRange(from, to time.Time) bool {
	return from.Before(to)
}

// Nights returns the number of nights between two dates.  Both values are
// expected to be date-resolution (midnight UTC), which is how the store
// returns DATE columns.
func Nights(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// Overlaps reports whether two date ranges conflict for the same room.
// With allowSameDayTurnover false (the default policy), ranges that touch
// at a boundary day conflict: a checkout morning still occupies the night
// before.  With it true, one guest may check in on another's checkout day.
// The predicate is symmetric in its two ranges.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time, allowSameDayTurnover bool) bool {
	if allowSameDayTurnover {
		return aFrom.Before(bTo) && aTo.After(bFrom)
	}
	return !aFrom.After(bTo) && !aTo.Before(bFrom)
}
