package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-client/internal/repository"
)

// CatalogHandler serves the public bus browsing endpoints.
type CatalogHandler struct {
	Store *repository.Store
}

func NewCatalogHandler(s *repository.Store) *CatalogHandler { return &CatalogHandler{Store: s} }

// Cities lists cities, optionally filtered by name or popularity.
func (h *CatalogHandler) Cities(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Cities(repository.CityFilter{
		Search:      c.QueryParam("search"),
		PopularOnly: c.QueryParam("popular_only") == "true",
	}))
}

// Search lists trips for from_city, to_city and travel_date.
func (h *CatalogHandler) Search(c echo.Context) error {
	from := strings.TrimSpace(c.QueryParam("from_city"))
	to := strings.TrimSpace(c.QueryParam("to_city"))
	date := strings.TrimSpace(c.QueryParam("travel_date"))
	if from == "" || to == "" || date == "" {
		return detail(http.StatusBadRequest, "from_city, to_city and travel_date are required")
	}
	list, err := h.Store.Search(from, to, date)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// Schedule returns one trip with seats and stops.
func (h *CatalogHandler) Schedule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	sc, err := h.Store.ScheduleDetail(id)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, sc)
}

func (h *CatalogHandler) Seats(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	seats, err := h.Store.Seats(id)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, seats)
}
