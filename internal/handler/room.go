package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// RoomHandler bundles persistence for room endpoints.
type RoomHandler struct {
	Hotels     *repository.HotelRepo
	Rooms      *repository.RoomRepo
	Facilities *repository.FacilityRepo
}

func NewRoomHandler(hotels *repository.HotelRepo, rooms *repository.RoomRepo, facilities *repository.FacilityRepo) *RoomHandler {
	if hotels == nil || rooms == nil || facilities == nil {
		panic("nil repository passed to NewRoomHandler")
	}
	return &RoomHandler{Hotels: hotels, Rooms: rooms, Facilities: facilities}
}

type roomReq struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	PriceCents  uint32   `json:"price_cents"`
	Quantity    uint32   `json:"quantity"`
	FacilityIDs []uint64 `json:"facility_ids"`
}

// ListAvailable lists the rooms of one hotel that still have a free unit
// across the requested range, each with rooms_left-style semantics applied
// up front: fully booked rooms are simply absent.
func (h *RoomHandler) ListAvailable(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	from, ok := parseDate(c.QueryParam("date_from"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_from must be YYYY-MM-DD"})
	}
	to, ok := parseDate(c.QueryParam("date_to"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_to must be YYYY-MM-DD"})
	}
	if !model.ValidRange(from, to) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_from must be before date_to"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Missing hotel must be a 404, not an empty list.
	if _, err := h.Hotels.GetByID(ctx, hotelID); err != nil {
		return storeError(c, err)
	}
	rooms, err := h.Rooms.AvailableByHotel(ctx, hotelID, from, to)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// Get returns a single room with its facilities.
func (h *RoomHandler) Get(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, hotelID, roomID)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// Create adds a room to a hotel (protected).  Facility ids must all exist.
func (h *RoomHandler) Create(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Hotels.GetByID(ctx, hotelID); err != nil {
		return storeError(c, err)
	}
	if ok, err := h.Facilities.Exist(ctx, req.FacilityIDs); err != nil {
		return storeError(c, err)
	} else if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown facility id"})
	}

	room := model.Room{
		HotelID:     hotelID,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Quantity:    req.Quantity,
	}
	if err := h.Rooms.Create(ctx, &room, req.FacilityIDs); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// Update replaces every field of a room and its facility links (protected).
func (h *RoomHandler) Update(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if ok, err := h.Facilities.Exist(ctx, req.FacilityIDs); err != nil {
		return storeError(c, err)
	} else if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown facility id"})
	}

	room := model.Room{
		ID:          roomID,
		HotelID:     hotelID,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Quantity:    req.Quantity,
	}
	if err := h.Rooms.Update(ctx, room, req.FacilityIDs); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type roomPatchReq struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	PriceCents  *uint32   `json:"price_cents"`
	Quantity    *uint32   `json:"quantity"`
	FacilityIDs *[]uint64 `json:"facility_ids"`
}

// Patch applies a partial update to a room (protected).
func (h *RoomHandler) Patch(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity != nil && *req.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.FacilityIDs != nil {
		if ok, err := h.Facilities.Exist(ctx, *req.FacilityIDs); err != nil {
			return storeError(c, err)
		} else if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown facility id"})
		}
	}

	patch := repository.RoomPatch{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Quantity:    req.Quantity,
		FacilityIDs: req.FacilityIDs,
	}
	if err := h.Rooms.Patch(ctx, hotelID, roomID, patch); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a room without bookings (protected).
func (h *RoomHandler) Delete(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.Delete(ctx, hotelID, roomID); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
