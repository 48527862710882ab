package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/repository"
)

type WalletHandler struct {
	Store *repository.Store
}

func NewWalletHandler(s *repository.Store) *WalletHandler { return &WalletHandler{Store: s} }

func (h *WalletHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Wallet(currentUser(c)))
}

func (h *WalletHandler) Transactions(c echo.Context) error {
	return c.JSON(http.StatusOK, model.TransactionList{Transactions: h.Store.Transactions(currentUser(c))})
}

// Add credits the wallet and returns the new balance.
func (h *WalletHandler) Add(c echo.Context) error {
	var req model.TopUpRequest
	if err := c.Bind(&req); err != nil {
		return detail(http.StatusBadRequest, "Invalid amount")
	}
	w, err := h.Store.AddMoney(currentUser(c), req.Amount)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, w)
}
