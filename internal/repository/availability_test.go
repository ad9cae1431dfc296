package repository

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestOverlapCond_InclusiveByDefault(t *testing.T) {
	query, args, err := sq.Select("COUNT(*)").From("bookings b").
		Where(overlapCond(d("2026-09-01"), d("2026-09-05"), false)).
		PlaceholderFormat(sq.Question).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "b.date_from <= ?")
	assert.Contains(t, query, "b.date_to >= ?")
	assert.Equal(t, []interface{}{"2026-09-05", "2026-09-01"}, args)
}

func TestOverlapCond_SameDayTurnover(t *testing.T) {
	query, _, err := sq.Select("COUNT(*)").From("bookings b").
		Where(overlapCond(d("2026-09-01"), d("2026-09-05"), true)).
		PlaceholderFormat(sq.Question).ToSql()
	require.NoError(t, err)

	// Strict comparisons let a range start on another's checkout day.
	assert.Contains(t, query, "b.date_from < ?")
	assert.Contains(t, query, "b.date_to > ?")
	assert.NotContains(t, query, "<=")
	assert.NotContains(t, query, ">=")
}

func TestAvailableRoomIDs_Unscoped(t *testing.T) {
	query, args, err := availableRoomIDs(d("2026-09-01"), d("2026-09-05"), nil, false)
	require.NoError(t, err)

	// quantity minus the count of overlapping bookings must stay positive.
	assert.Contains(t, query, "r.quantity - COALESCE(bc.booked, 0) > 0")
	assert.Contains(t, query, "GROUP BY b.room_id")
	assert.Contains(t, query, "ORDER BY r.id ASC")
	assert.NotContains(t, query, "hotel_id")
	assert.Len(t, args, 2)
}

func TestAvailableRoomIDs_ScopedToHotel(t *testing.T) {
	hotelID := uint64(42)
	query, args, err := availableRoomIDs(d("2026-09-01"), d("2026-09-05"), &hotelID, false)
	require.NoError(t, err)

	assert.Contains(t, query, "r.hotel_id = ?")
	require.Len(t, args, 3)
	assert.Equal(t, hotelID, args[2])
}
