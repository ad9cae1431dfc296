// Package worker contains long-running background loops that do not serve
// HTTP traffic.  The check-in reminder scans tomorrow's arrivals once per
// day and emits a log line per booking, mirroring what a notification
// integration would send.
package worker

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/hotel-booking/internal/repository"
)

// CheckinReminder wakes up on a fixed interval, looks up bookings whose
// check-in is tomorrow and logs a reminder for each.  Interval is daily in
// production; tests use shorter ones.
type CheckinReminder struct {
	Bookings *repository.BookingRepo
	Interval time.Duration
}

func NewCheckinReminder(bookings *repository.BookingRepo, interval time.Duration) *CheckinReminder {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &CheckinReminder{Bookings: bookings, Interval: interval}
}

// Run blocks until ctx is cancelled.  One pass runs immediately so a
// restart never skips a day.
func (w *CheckinReminder) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.pass(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pass(ctx)
		}
	}
}

func (w *CheckinReminder) pass(ctx context.Context) {
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	bookings, err := w.Bookings.CheckinsOn(ctx, tomorrow)
	if err != nil {
		log.Printf("checkin-reminder: query failed: %v", err)
		return
	}
	for _, b := range bookings {
		log.Printf("checkin-reminder: booking_id=%d user_id=%d room_id=%d checks in %s",
			b.ID, b.UserID, b.RoomID, b.DateFrom.Format("2006-01-02"))
	}
}
