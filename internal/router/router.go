// Package router maps the development API's endpoints onto handlers.
// Paths match the ones the client calls, with no version prefix.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-client/internal/handler"
	"github.com/iliyamo/bus-booking-client/internal/middleware"
)

// RegisterRoutes registers the unauthenticated service routes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.Health)
}

// RegisterAuth registers the auth endpoints.  Register, login, refresh and
// logout work without an access token; /auth/me requires one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterCatalog registers the public browse endpoints.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler) {
	g := e.Group("/buses")
	g.GET("/cities", h.Cities)
	g.GET("/search", h.Search)
	g.GET("/:id", h.Schedule)
	g.GET("/:id/seats", h.Seats)
}
