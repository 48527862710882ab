package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/repository"
)

// BookingHandler serves the signed-in user's bookings.
type BookingHandler struct {
	Store *repository.Store
	Log   *zap.Logger
}

func NewBookingHandler(s *repository.Store, log *zap.Logger) *BookingHandler {
	return &BookingHandler{Store: s, Log: log}
}

// Create books seats; passenger and seat checks live in the store.
func (h *BookingHandler) Create(c echo.Context) error {
	var req model.BookingRequest
	if err := c.Bind(&req); err != nil {
		return detail(http.StatusBadRequest, "Invalid request body")
	}
	uid := currentUser(c)
	b, err := h.Store.CreateBooking(uid, req)
	if err != nil {
		return storeError(err)
	}
	h.Log.Info("booking created",
		zap.Uint64("user_id", uid),
		zap.String("code", b.Code),
		zap.Int("seats", len(b.Passengers)),
		zap.Stringer("total", b.TotalAmount))
	return c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, model.BookingList{Bookings: h.Store.Bookings(currentUser(c))})
}

func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b, err := h.Store.Booking(currentUser(c), id, false)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel cancels one of the caller's bookings and refunds the wallet.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b, err := h.Store.CancelBooking(currentUser(c), id, false)
	if err != nil {
		return storeError(err)
	}
	h.Log.Info("booking cancelled", zap.Uint64("booking_id", b.ID), zap.String("code", b.Code))
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Booking cancelled successfully",
		"refund_amount": b.TotalAmount,
	})
}
