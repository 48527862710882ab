package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/repository"
)

// AdminHandler serves catalog management for the admin role.
type AdminHandler struct {
	Store *repository.Store
	Log   *zap.Logger
}

func NewAdminHandler(s *repository.Store, log *zap.Logger) *AdminHandler {
	return &AdminHandler{Store: s, Log: log}
}

type busReq struct {
	OperatorID uint64   `json:"operator_id" validate:"required"`
	BusNumber  string   `json:"bus_number" validate:"required,min=2,max=20"`
	BusType    string   `json:"bus_type" validate:"required,max=50"`
	TotalSeats int      `json:"total_seats" validate:"min=1,max=80"`
	SeatLayout string   `json:"seat_layout" validate:"required,max=20"`
	Amenities  []string `json:"amenities"`
}

func (r busReq) bus() repository.Bus {
	return repository.Bus{
		OperatorID: r.OperatorID,
		BusNumber:  r.BusNumber,
		BusType:    r.BusType,
		TotalSeats: r.TotalSeats,
		SeatLayout: r.SeatLayout,
		Amenities:  r.Amenities,
	}
}

type routeReq struct {
	FromCityID      uint64  `json:"from_city_id" validate:"required"`
	ToCityID        uint64  `json:"to_city_id" validate:"required,nefield=FromCityID"`
	DistanceKM      float64 `json:"distance_km" validate:"gt=0"`
	DurationMinutes int     `json:"duration_minutes" validate:"gt=0"`
}

type scheduleReq struct {
	BusID         uint64      `json:"bus_id" validate:"required"`
	RouteID       uint64      `json:"route_id" validate:"required"`
	TravelDate    string      `json:"travel_date" validate:"required,datetime=2006-01-02"`
	DepartureTime string      `json:"departure_time" validate:"required,datetime=15:04:05"`
	ArrivalTime   string      `json:"arrival_time" validate:"omitempty,datetime=15:04:05"`
	BasePrice     model.Money `json:"base_price" validate:"gt=0"`
}

type cityReq struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	State     string `json:"state" validate:"required,max=100"`
	Code      string `json:"code" validate:"required,min=2,max=10,alphanum"`
	IsPopular bool   `json:"is_popular"`
}

func (h *AdminHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Stats())
}

func (h *AdminHandler) Operators(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Operators())
}

func (h *AdminHandler) Buses(c echo.Context) error {
	skip, limit := pageParams(c)
	return c.JSON(http.StatusOK, h.Store.Buses(skip, limit))
}

func (h *AdminHandler) CreateBus(c echo.Context) error {
	var req busReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	b, err := h.Store.CreateBus(req.bus())
	if err != nil {
		return storeError(err)
	}
	h.Log.Info("bus created", zap.Uint64("bus_id", b.ID), zap.String("bus_number", b.BusNumber))
	return c.JSON(http.StatusCreated, b)
}

func (h *AdminHandler) UpdateBus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req busReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	b, err := h.Store.UpdateBus(id, req.bus())
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) DeleteBus(c echo.Context) error {
	return h.remove(c, "bus", h.Store.DeleteBus)
}

func (h *AdminHandler) Routes(c echo.Context) error {
	skip, limit := pageParams(c)
	return c.JSON(http.StatusOK, h.Store.Routes(skip, limit))
}

func (h *AdminHandler) CreateRoute(c echo.Context) error {
	var req routeReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	r, err := h.Store.CreateRoute(repository.Route{
		FromCityID:      req.FromCityID,
		ToCityID:        req.ToCityID,
		DistanceKM:      req.DistanceKM,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *AdminHandler) DeleteRoute(c echo.Context) error {
	return h.remove(c, "route", h.Store.DeleteRoute)
}

func (h *AdminHandler) Schedules(c echo.Context) error {
	skip, limit := pageParams(c)
	return c.JSON(http.StatusOK, h.Store.Schedules(skip, limit))
}

func (h *AdminHandler) CreateSchedule(c echo.Context) error {
	var req scheduleReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	sc, err := h.Store.CreateSchedule(repository.Schedule{
		BusID:         req.BusID,
		RouteID:       req.RouteID,
		TravelDate:    req.TravelDate,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		BasePrice:     req.BasePrice,
	})
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusCreated, sc)
}

func (h *AdminHandler) DeleteSchedule(c echo.Context) error {
	return h.remove(c, "schedule", h.Store.DeleteSchedule)
}

func (h *AdminHandler) CreateCity(c echo.Context) error {
	var req cityReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	city, err := h.Store.CreateCity(model.City{Name: req.Name, State: req.State, Code: req.Code, IsPopular: req.IsPopular})
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusCreated, city)
}

func (h *AdminHandler) Bookings(c echo.Context) error {
	skip, limit := pageParams(c)
	return c.JSON(http.StatusOK, h.Store.AllBookings(skip, limit))
}

// CancelBooking cancels any user's booking.
func (h *AdminHandler) CancelBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b, err := h.Store.CancelBooking(currentUser(c), id, true)
	if err != nil {
		return storeError(err)
	}
	h.Log.Info("booking cancelled by admin", zap.Uint64("booking_id", b.ID), zap.Uint64("admin_id", currentUser(c)))
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking cancelled successfully", "refund_amount": b.TotalAmount})
}

func (h *AdminHandler) remove(c echo.Context, entity string, del func(uint64) error) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := del(id); err != nil {
		return storeError(err)
	}
	h.Log.Info(entity+" deleted", zap.Uint64("id", id))
	return c.NoContent(http.StatusNoContent)
}
