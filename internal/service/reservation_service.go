// Package service implements the business operations on top of the in-memory
// data layer: reservation admission, cancellation and per-room queries, plus
// the optional broker publisher for lifecycle events.
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// Validation errors surfaced directly to clients.  Handlers translate both
// into 422-class responses.
var (
	// ErrInvalidTimeRange is returned when start_time is not strictly
	// before end_time.
	ErrInvalidTimeRange = errors.New("start_time must be before end_time")

	// ErrStartInPast is returned when the requested start has already
	// passed at validation time.
	ErrStartInPast = errors.New("reservations cannot be placed in the past")
)

// Clock abstracts wall-clock time so the past-start check is testable.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// ReservationService validates booking requests against the catalog and the
// store and performs cancellations and per-room queries.  It is stateless;
// the store owns all mutable data.
type ReservationService struct {
	catalog *repository.RoomCatalog
	store   *repository.ReservationStore
	clock   Clock
}

// NewReservationService constructs the service.  A nil clock defaults to the
// system clock.
func NewReservationService(catalog *repository.RoomCatalog, store *repository.ReservationStore, clock Clock) *ReservationService {
	if catalog == nil || store == nil {
		panic("nil dependency passed to NewReservationService")
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &ReservationService{catalog: catalog, store: store, clock: clock}
}

// Rooms returns the full catalog as an id to display name mapping.
func (s *ReservationService) Rooms() map[string]string {
	return s.catalog.List()
}

// Create validates a booking request and, on acceptance, atomically inserts
// a new reservation.  Validation fails fast, in order: temporal ordering,
// past start, room existence, then the conflict check inside the store's
// critical section.  Times are normalized to UTC for storage and comparison.
//
// The past-start check reads the clock at validation time, outside the store
// lock; a request delayed between validation and insert can commit a start
// that has just passed.  That staleness window is accepted, the overlap
// invariant does not depend on it.
func (s *ReservationService) Create(ctx context.Context, userID, roomID string, start, end time.Time) (*model.Reservation, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}
	startUTC := start.UTC()
	endUTC := end.UTC()
	if startUTC.Before(s.clock.Now().UTC()) {
		return nil, ErrStartInPast
	}
	if !s.catalog.Exists(roomID) {
		return nil, repository.ErrRoomNotFound
	}

	rec := &model.Reservation{
		ID:        uuid.NewString(),
		UserID:    userID,
		RoomID:    roomID,
		StartTime: startUTC,
		EndTime:   endUTC,
	}
	if err := s.store.Insert(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Cancel removes a reservation by id and returns the removed record.
// Cancelling a reservation whose time window has already elapsed is allowed;
// repeating the call after success returns ErrReservationNotFound.
func (s *ReservationService) Cancel(ctx context.Context, id string) (*model.Reservation, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return s.store.Remove(id)
}

// ListForRoom returns the room's reservations sorted ascending by start time,
// with the id as deterministic tie-break.  When userID is non-empty only that
// user's reservations are returned.  An empty result is a valid response, not
// an error; an unknown room is.
func (s *ReservationService) ListForRoom(ctx context.Context, roomID, userID string) ([]*model.Reservation, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !s.catalog.Exists(roomID) {
		return nil, repository.ErrRoomNotFound
	}

	records := s.store.ListForRoom(roomID)
	if userID != "" {
		filtered := make([]*model.Reservation, 0, len(records))
		for _, rec := range records {
			if rec.UserID == userID {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].StartTime.Equal(records[j].StartTime) {
			return records[i].ID < records[j].ID
		}
		return records[i].StartTime.Before(records[j].StartTime)
	})
	return records, nil
}
