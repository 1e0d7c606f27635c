package model

import "time"

// Reservation is a time-bounded claim by a user on a room.  A record is
// immutable once created: the admission path builds it fully before inserting
// it into the store, and no update-in-place operation exists.  Reservations
// disappear only through cancellation.
//
// Fields:
//  ID        – system-generated identifier (random UUID), never client-supplied.
//  UserID    – opaque client-supplied user identifier (1–64 characters).
//  RoomID    – identifier of the booked room; always a catalog room.
//  StartTime – reservation start, stored in UTC.
//  EndTime   – reservation end, stored in UTC; strictly after StartTime.
type Reservation struct {
	ID        string
	UserID    string
	RoomID    string
	StartTime time.Time
	EndTime   time.Time
}
