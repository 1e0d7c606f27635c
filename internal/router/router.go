// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/handler"
)

// RegisterRoutes wires the public API onto the Echo instance.  Every route is
// unauthenticated; the boundary contract is the four reservation endpoints
// plus a health check for load balancers.
func RegisterRoutes(e *echo.Echo, h *handler.ReservationHandler) {
	e.GET("/healthz", handler.Health)

	e.GET("/rooms", h.ListRooms)
	e.GET("/rooms/:id/reservations", h.ListRoomReservations)
	e.POST("/reservations", h.CreateReservation)
	e.DELETE("/reservations/:id", h.CancelReservation)
}
