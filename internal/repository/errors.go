// Package repository implements the in-memory data layer: the fixed room
// catalog and the mutex-guarded reservation store.  The sentinel values
// defined here let handlers distinguish failure scenarios without inspecting
// error strings; for example ErrReservationConflict maps to an HTTP 409 while
// the two not-found errors map to 404 responses that name the missing entity.
package repository

import "errors"

// ErrRoomNotFound is returned when an operation references a room id that is
// not part of the catalog.
var ErrRoomNotFound = errors.New("room not found")

// ErrReservationNotFound is returned when a reservation id does not exist in
// the store, including a second cancellation of the same id.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrReservationConflict is returned when a requested time range overlaps an
// existing reservation for the same room.  Handlers should translate this
// into an HTTP 409 response.
var ErrReservationConflict = errors.New("reservation overlaps with an existing reservation for this room")
