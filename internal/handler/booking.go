package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/repository"
	queue_publisher "github.com/iliyamo/hotel-booking/internal/service"
)

// BookingHandler bundles persistence for booking endpoints.  Create is the
// write path that consumes room capacity; everything else reads.
type BookingHandler struct {
	Hotels   *repository.HotelRepo
	Rooms    *repository.RoomRepo
	Bookings *repository.BookingRepo
}

func NewBookingHandler(hotels *repository.HotelRepo, rooms *repository.RoomRepo, bookings *repository.BookingRepo) *BookingHandler {
	if hotels == nil || rooms == nil || bookings == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Hotels: hotels, Rooms: rooms, Bookings: bookings}
}

type bookingReq struct {
	RoomID   uint64 `json:"room_id"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

type bookingResp struct {
	model.Booking
	Nights         int    `json:"nights"`
	TotalCostCents uint64 `json:"total_cost_cents"`
}

func toResp(b model.Booking) bookingResp {
	return bookingResp{
		Booking:        b,
		Nights:         b.Nights(),
		TotalCostCents: uint64(b.TotalCents()),
	}
}

// Create books one unit of a room for a date range.  The nightly price is
// snapshotted from the room at booking time.  When every unit is taken the
// caller gets a 409; transient lock failures surface as 503 so clients can
// retry.  A booking.confirmed event is published after commit; publish
// failures never undo the booking.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id required"})
	}
	from, ok := parseDate(req.DateFrom)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_from must be YYYY-MM-DD"})
	}
	to, ok := parseDate(req.DateTo)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_to must be YYYY-MM-DD"})
	}
	if !model.ValidRange(from, to) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_from must be before date_to"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// Resolve the price snapshot and the owning hotel before allocating.
	room, err := h.Rooms.Get(ctx, req.RoomID)
	if err != nil {
		return storeError(c, err)
	}

	booking := model.Booking{
		UserID:     uid,
		RoomID:     room.ID,
		DateFrom:   from,
		DateTo:     to,
		PriceCents: room.PriceCents,
	}
	if err := h.Bookings.Allocate(ctx, &booking); err != nil {
		return storeError(c, err)
	}

	// Best-effort event; the booking is already committed.
	go func(b model.Booking, hotelID uint64, roomTitle string) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		hotelTitle := ""
		if hotel, err := h.Hotels.GetByID(pubCtx, hotelID); err == nil {
			hotelTitle = hotel.Title
		}
		_ = queue_publisher.PublishBookingConfirmed(pubCtx, queue.BookingConfirmedEvent{
			BookingID:      b.ID,
			UserID:         b.UserID,
			RoomID:         b.RoomID,
			HotelID:        hotelID,
			HotelTitle:     hotelTitle,
			RoomTitle:      roomTitle,
			DateFrom:       b.DateFrom.Format(dateLayout),
			DateTo:         b.DateTo.Format(dateLayout),
			Nights:         b.Nights(),
			TotalCostCents: uint64(b.TotalCents()),
			ConfirmedAt:    time.Now().UTC().Format(time.RFC3339),
		})
	}(booking, room.HotelID, room.Title)

	return c.JSON(http.StatusCreated, toResp(booking))
}

// ListAll returns every booking (protected).
func (h *BookingHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return storeError(c, err)
	}
	out := make([]bookingResp, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// ListMine returns the caller's bookings, newest range first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return storeError(c, err)
	}
	out := make([]bookingResp, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Get returns one booking of the caller.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return storeError(c, err)
	}
	if b.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not yours"})
	}
	return c.JSON(http.StatusOK, toResp(b))
}

// Delete cancels a booking of the caller, freeing its unit for the range.
func (h *BookingHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.Delete(ctx, id, uid); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
