package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// HotelHandler bundles persistence for hotel endpoints.
type HotelHandler struct {
	Hotels *repository.HotelRepo
}

func NewHotelHandler(hotels *repository.HotelRepo) *HotelHandler {
	if hotels == nil {
		panic("nil repository passed to NewHotelHandler")
	}
	return &HotelHandler{Hotels: hotels}
}

type hotelReq struct {
	Title    string `json:"title"`
	Location string `json:"location"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Search lists hotels with at least one free room across the requested
// range.  date_from and date_to are required YYYY-MM-DD query params;
// location and title are optional substring filters; page/per_page
// paginate.
func (h *HotelHandler) Search(c echo.Context) error {
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

	page := uint64(1)
	if v, err := strconv.ParseUint(c.QueryParam("page"), 10, 64); err == nil && v > 0 {
		page = v
	}
	perPage := uint64(defaultPageSize)
	if v, err := strconv.ParseUint(c.QueryParam("per_page"), 10, 64); err == nil && v > 0 {
		perPage = v
		if perPage > maxPageSize {
			perPage = maxPageSize
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotels, err := h.Hotels.SearchAvailable(ctx, repository.HotelSearchQuery{
		DateFrom: from,
		DateTo:   to,
		Location: c.QueryParam("location"),
		Title:    c.QueryParam("title"),
		Limit:    perPage,
		Offset:   (page - 1) * perPage,
	})
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"hotels":   hotels,
		"page":     page,
		"per_page": perPage,
	})
}

// Get returns a single hotel by id.
func (h *HotelHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotel, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, hotel)
}

// Create adds a hotel (protected).
func (h *HotelHandler) Create(c echo.Context) error {
	var req hotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	if req.Title == "" || req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/location required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotel := model.Hotel{Title: req.Title, Location: req.Location}
	if err := h.Hotels.Create(ctx, &hotel); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, hotel)
}

// Update replaces every field of a hotel (protected).
func (h *HotelHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req hotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	if req.Title == "" || req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/location required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Hotels.Update(ctx, model.Hotel{ID: id, Title: req.Title, Location: req.Location}); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type hotelPatchReq struct {
	Title    *string `json:"title"`
	Location *string `json:"location"`
}

// Patch applies a partial update to a hotel (protected).
func (h *HotelHandler) Patch(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req hotelPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Hotels.Patch(ctx, id, repository.HotelPatch{Title: req.Title, Location: req.Location}); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a hotel without rooms (protected).
func (h *HotelHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Hotels.Delete(ctx, id); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
