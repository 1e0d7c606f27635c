// Package handler exposes the HTTP handlers for the reservation API.  No
// endpoint requires authentication; user identity is the opaque user_id
// string clients supply.  Handlers parse and bound-check input, delegate to
// the service layer and translate its sentinel errors into HTTP statuses:
// validation failures become 422, unknown entities 404 and scheduling
// clashes 409, each with a human-readable reason.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/service"
)

// ReservationHandler serves the room catalog and the reservation lifecycle
// endpoints.  Publisher may be nil when no broker is configured; events are
// then skipped.
type ReservationHandler struct {
	Service   *service.ReservationService
	Publisher *service.EventPublisher
}

// NewReservationHandler constructs the handler.  The service must be non-nil.
func NewReservationHandler(svc *service.ReservationService, pub *service.EventPublisher) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Service: svc, Publisher: pub}
}

// reservationResponse is the public shape of a reservation.  Times render as
// RFC 3339 in UTC, the storage timezone.
type reservationResponse struct {
	ReservationID string    `json:"reservation_id"`
	UserID        string    `json:"user_id"`
	RoomID        string    `json:"room_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

// cancelResponse confirms a cancellation.
type cancelResponse struct {
	Cancelled     bool   `json:"cancelled"`
	ReservationID string `json:"reservation_id"`
}

func toReservationResponse(rec *model.Reservation) reservationResponse {
	return reservationResponse{
		ReservationID: rec.ID,
		UserID:        rec.UserID,
		RoomID:        rec.RoomID,
		StartTime:     rec.StartTime,
		EndTime:       rec.EndTime,
	}
}

// ListRooms handles GET /rooms.  It returns the full catalog as an id to
// display name object and always succeeds.
func (h *ReservationHandler) ListRooms(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Service.Rooms())
}

// CreateReservation handles POST /reservations.  The body must carry
// user_id, room_id and offset-bearing RFC 3339 start/end times.  Timestamps
// without an explicit offset fail RFC 3339 parsing and are rejected here,
// before the service runs.  Responses: 201 with the stored reservation,
// 422 for validation failures, 404 for an unknown room, 409 on overlap.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var body struct {
		UserID    string `json:"user_id"`
		RoomID    string `json:"room_id"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid request body"})
	}
	if l := len(body.UserID); l < 1 || l > 64 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "user_id must be between 1 and 64 characters"})
	}
	if l := len(body.RoomID); l < 1 || l > 32 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "room_id must be between 1 and 32 characters"})
	}
	start, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "start_time must include a timezone offset (e.g. 2026-01-19T10:00:00+02:00)"})
	}
	end, err := time.Parse(time.RFC3339, body.EndTime)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "end_time must include a timezone offset (e.g. 2026-01-19T11:00:00+02:00)"})
	}

	rec, err := h.Service.Create(c.Request().Context(), body.UserID, body.RoomID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTimeRange), errors.Is(err, service.ErrStartInPast):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrReservationConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	h.Publisher.ReservationCreated(rec)
	return c.JSON(http.StatusCreated, toReservationResponse(rec))
}

// CancelReservation handles DELETE /reservations/:id.  Cancellation frees
// the time slot for future bookings; cancelling an unknown (or already
// cancelled) id returns 404.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	id := c.Param("id")
	rec, err := h.Service.Cancel(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	h.Publisher.ReservationCancelled(rec)
	return c.JSON(http.StatusOK, cancelResponse{Cancelled: true, ReservationID: rec.ID})
}

// ListRoomReservations handles GET /rooms/:id/reservations.  Results are
// sorted ascending by start time and can be narrowed to one user with the
// optional user_id query parameter.  An empty array is a valid response;
// an unknown room returns 404.
func (h *ReservationHandler) ListRoomReservations(c echo.Context) error {
	records, err := h.Service.ListForRoom(c.Request().Context(), c.Param("id"), c.QueryParam("user_id"))
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	out := make([]reservationResponse, len(records))
	for i, rec := range records {
		out[i] = toReservationResponse(rec)
	}
	return c.JSON(http.StatusOK, out)
}
