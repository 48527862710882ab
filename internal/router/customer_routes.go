package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-client/internal/handler"
	"github.com/iliyamo/bus-booking-client/internal/middleware"
)

// RegisterCustomer registers the signed-in user's bookings and wallet.
// Any authenticated role may use them.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, w *handler.WalletHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)

	bookings := e.Group("/bookings", auth)
	bookings.POST("", b.Create)
	bookings.GET("", b.List)
	bookings.GET("/:id", b.Get)
	bookings.PUT("/:id/cancel", b.Cancel)

	wallet := e.Group("/wallet", auth)
	wallet.GET("", w.Get)
	wallet.GET("/transactions", w.Transactions)
	wallet.POST("/add", w.Add)
}
