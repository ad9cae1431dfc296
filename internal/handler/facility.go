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

// FacilityHandler bundles persistence for the facilities catalogue.
type FacilityHandler struct {
	Facilities *repository.FacilityRepo
}

func NewFacilityHandler(facilities *repository.FacilityRepo) *FacilityHandler {
	if facilities == nil {
		panic("nil repository passed to NewFacilityHandler")
	}
	return &FacilityHandler{Facilities: facilities}
}

// List returns the whole facilities catalogue.
func (h *FacilityHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	facilities, err := h.Facilities.ListAll(ctx)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"facilities": facilities})
}

type facilityReq struct {
	Title string `json:"title"`
}

// Create adds a facility (protected).
func (h *FacilityHandler) Create(c echo.Context) error {
	var req facilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f := model.Facility{Title: req.Title}
	if err := h.Facilities.Create(ctx, &f); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}
