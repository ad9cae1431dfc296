package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestValidRange(t *testing.T) {
	assert.True(t, ValidRange(day("2026-09-01"), day("2026-09-05")))
	assert.False(t, ValidRange(day("2026-09-05"), day("2026-09-01")))
	// Zero-night stays are not bookable.
	assert.False(t, ValidRange(day("2026-09-01"), day("2026-09-01")))
}

func TestNights(t *testing.T) {
	assert.Equal(t, 4, Nights(day("2026-09-01"), day("2026-09-05")))
	assert.Equal(t, 1, Nights(day("2026-09-01"), day("2026-09-02")))
	// Month boundary.
	assert.Equal(t, 3, Nights(day("2026-08-30"), day("2026-09-02")))
}

func TestTotalCents(t *testing.T) {
	b := Booking{
		DateFrom:   day("2026-09-01"),
		DateTo:     day("2026-09-04"),
		PriceCents: 12050,
	}
	assert.Equal(t, 3, b.Nights())
	assert.Equal(t, uint32(36150), b.TotalCents())

	// Degenerate range never yields a negative total.
	b.DateTo = b.DateFrom
	assert.Equal(t, uint32(0), b.TotalCents())
}

func TestOverlaps_DefaultPolicy(t *testing.T) {
	// Plain overlap in the middle of a range.
	assert.True(t, Overlaps(
		day("2026-09-01"), day("2026-09-10"),
		day("2026-09-05"), day("2026-09-07"), false))

	// Touching at the boundary conflicts: checkout day equals check-in day.
	assert.True(t, Overlaps(
		day("2026-09-01"), day("2026-09-05"),
		day("2026-09-05"), day("2026-09-08"), false))

	// Fully disjoint ranges never conflict.
	assert.False(t, Overlaps(
		day("2026-09-01"), day("2026-09-03"),
		day("2026-09-04"), day("2026-09-08"), false))
}

func TestOverlaps_SameDayTurnover(t *testing.T) {
	// With turnover enabled a new guest may check in on checkout day.
	assert.False(t, Overlaps(
		day("2026-09-01"), day("2026-09-05"),
		day("2026-09-05"), day("2026-09-08"), true))

	// Real overlap still conflicts under either policy.
	assert.True(t, Overlaps(
		day("2026-09-01"), day("2026-09-06"),
		day("2026-09-05"), day("2026-09-08"), true))
}

func TestOverlaps_Symmetric(t *testing.T) {
	cases := []struct {
		aFrom, aTo, bFrom, bTo string
	}{
		{"2026-09-01", "2026-09-10", "2026-09-05", "2026-09-07"},
		{"2026-09-01", "2026-09-05", "2026-09-05", "2026-09-08"},
		{"2026-09-01", "2026-09-03", "2026-09-04", "2026-09-08"},
		{"2026-09-01", "2026-09-08", "2026-09-01", "2026-09-08"},
	}
	for _, tc := range cases {
		for _, turnover := range []bool{false, true} {
			got := Overlaps(day(tc.aFrom), day(tc.aTo), day(tc.bFrom), day(tc.bTo), turnover)
			rev := Overlaps(day(tc.bFrom), day(tc.bTo), day(tc.aFrom), day(tc.aTo), turnover)
			assert.Equal(t, got, rev, "overlap must be symmetric for %+v turnover=%v", tc, turnover)
		}
	}
}
