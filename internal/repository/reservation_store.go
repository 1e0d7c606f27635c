package repository

import (
	"sync"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// Overlaps reports whether two half-open time intervals intersect.  Touching
// endpoints, one interval ending exactly when the other starts, do not count
// as an overlap.  Callers guarantee aStart < aEnd and bStart < bEnd.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ReservationStore owns all reservation records.  It keeps two indexes: a
// primary index by reservation id and a secondary index mapping each room to
// the ids booked in it.  Every room of the catalog is present in the
// secondary index from construction, even with no reservations.
//
// All operations run under the store mutex.  In particular the overlap scan
// and the insert in Insert form a single critical section, which is what
// keeps a room's reservations pairwise non-overlapping when requests race.
// Critical sections do no I/O and touch at most one room's reservations.
type ReservationStore struct {
	mu     sync.Mutex
	byID   map[string]*model.Reservation
	byRoom map[string][]string // room id -> reservation ids, insertion order
}

// NewReservationStore returns an empty store with an id slice seeded for
// every room in the catalog.
func NewReservationStore(catalog *RoomCatalog) *ReservationStore {
	if catalog == nil {
		panic("nil catalog passed to NewReservationStore")
	}
	byRoom := make(map[string][]string, len(catalog.rooms))
	for id := range catalog.rooms {
		byRoom[id] = []string{}
	}
	return &ReservationStore{
		byID:   make(map[string]*model.Reservation),
		byRoom: byRoom,
	}
}

// Insert adds rec to both indexes unless its time range overlaps an existing
// reservation for the same room, in which case it returns
// ErrReservationConflict and mutates nothing.  rec must carry UTC times with
// StartTime before EndTime; the caller validates that before calling.
func (s *ReservationStore) Insert(rec *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.byRoom[rec.RoomID] {
		existing := s.byID[id]
		if Overlaps(rec.StartTime, rec.EndTime, existing.StartTime, existing.EndTime) {
			return ErrReservationConflict
		}
	}

	s.byID[rec.ID] = rec
	s.byRoom[rec.RoomID] = append(s.byRoom[rec.RoomID], rec.ID)
	return nil
}

// Remove deletes the reservation from the primary index and drops its id
// from the room's slice.  The secondary cleanup tolerates an already-absent
// id.  Returns ErrReservationNotFound for unknown ids.
func (s *ReservationStore) Remove(id string) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	delete(s.byID, id)

	ids := s.byRoom[rec.RoomID]
	for i, rid := range ids {
		if rid == id {
			s.byRoom[rec.RoomID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return rec, nil
}

// Get returns a copy of the record for id, if present.
func (s *ReservationStore) Get(id string) (*model.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	cp := *rec
	return &cp, true
}

// ListIDsForRoom returns a snapshot copy of the room's reservation ids in
// insertion order, so callers may iterate without holding the lock.
func (s *ReservationStore) ListIDsForRoom(roomID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byRoom[roomID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// ListForRoom returns snapshot copies of the room's records, taken under the
// lock, so callers can filter and sort outside it without blocking writers.
func (s *ReservationStore) ListForRoom(roomID string) []*model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byRoom[roomID]
	out := make([]*model.Reservation, 0, len(ids))
	for _, id := range ids {
		cp := *s.byID[id]
		out = append(out, &cp)
	}
	return out
}
