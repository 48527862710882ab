package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-client/internal/handler"
	"github.com/iliyamo/bus-booking-client/internal/middleware"
	"github.com/iliyamo/bus-booking-client/internal/model"
)

// RegisterAdmin registers catalog management under /admin.  Every route
// requires a valid JWT carrying the admin role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/stats", h.Stats)
	g.GET("/operators", h.Operators)

	g.GET("/buses", h.Buses)
	g.POST("/buses", h.CreateBus)
	g.PUT("/buses/:id", h.UpdateBus)
	g.DELETE("/buses/:id", h.DeleteBus)

	g.GET("/routes", h.Routes)
	g.POST("/routes", h.CreateRoute)
	g.DELETE("/routes/:id", h.DeleteRoute)

	g.GET("/schedules", h.Schedules)
	g.POST("/schedules", h.CreateSchedule)
	g.DELETE("/schedules/:id", h.DeleteSchedule)

	g.POST("/cities", h.CreateCity)

	g.GET("/bookings", h.Bookings)
	g.PUT("/bookings/:id/cancel", h.CancelBooking)
}
