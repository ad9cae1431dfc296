package handler // handler defines http handlers

import (
	"errors"  // sentinel values used in getUserID
	"net/http"
	"strconv" // string-to-numeric conversion
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/repository"
)

// dateLayout is the wire format for booking and availability dates.
const dateLayout = "2006-01-02"

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWT numeric claims arrive as float64; other encodings are tolerated.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter; zero-valued parameters are invalid.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// parseDate parses a YYYY-MM-DD query or body value into a UTC midnight time.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// storeError maps repository sentinel errors onto HTTP responses.  Anything
// unrecognized becomes a 500 with a generic message so internals never leak.
func storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalidDateRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_from must be before date_to"})
	case errors.Is(err, repository.ErrHotelNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	case errors.Is(err, repository.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrNoVacancy):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no rooms left for these dates"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not yours"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "resource is still referenced"})
	case errors.Is(err, repository.ErrStoreBusy):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store busy, retry"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
