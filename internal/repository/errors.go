// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a missing
// room is a client input error, an exhausted room is a normal business
// outcome, and a lock-wait timeout is a transient store condition that
// the caller may retry from scratch.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrHotelNotFound is returned when a referenced hotel does not exist.
var ErrHotelNotFound = errors.New("hotel not found")

// ErrRoomNotFound is returned when a referenced room does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound is returned when a referenced booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrFacilityNotFound is returned when a referenced facility does not exist.
var ErrFacilityNotFound = errors.New("facility not found")

// ErrNoVacancy is returned by the allocation path when every unit of the
// requested room is already booked somewhere in the requested range.  It
// is detected inside the allocation transaction, after the room row has
// been locked, and always triggers a full rollback.  Handlers translate
// it into an HTTP 409; it must never be conflated with a server error.
var ErrNoVacancy = errors.New("no rooms left for the requested dates")

// ErrInvalidDateRange is returned when date_from is not strictly earlier
// than date_to.  It is validated before any store access.
var ErrInvalidDateRange = errors.New("date_from must be before date_to")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into an HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete cannot be performed because of
// dependent records, such as removing a room that still has bookings.
// Handlers translate this into an HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrStoreBusy wraps transient MySQL failures (lock wait timeout,
// deadlock victim).  Unlike ErrNoVacancy the whole operation is safe to
// retry from scratch.  Handlers translate it into an HTTP 503.
var ErrStoreBusy = errors.New("store busy")

// MySQL server error numbers for transient lock conditions.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// wrapStore classifies a driver error: transient lock conditions become
// ErrStoreBusy so callers can distinguish retryable failures from real
// ones.  Everything else passes through unchanged.
func wrapStore(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		if me.Number == mysqlErrLockWaitTimeout || me.Number == mysqlErrDeadlock {
			return fmt.Errorf("%w: %v", ErrStoreBusy, err)
		}
	}
	return err
}
