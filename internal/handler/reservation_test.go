package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/router"
	"github.com/iliyamo/room-reservation/internal/service"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// The fixed "current instant" for every test: 2030-01-19 08:00 UTC, which is
// 10:00 in the +02:00 offset used by the request payloads.
var testNow = time.Date(2030, time.January, 19, 8, 0, 0, 0, time.UTC)

func newTestServer() *echo.Echo {
	catalog := repository.NewRoomCatalog()
	store := repository.NewReservationStore(catalog)
	svc := service.NewReservationService(catalog, store, fixedClock{now: testNow})

	e := echo.New()
	router.RegisterRoutes(e, handler.NewReservationHandler(svc, nil))
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func reservationBody(user, room, start, end string) string {
	return fmt.Sprintf(`{"user_id":%q,"room_id":%q,"start_time":%q,"end_time":%q}`, user, room, start, end)
}

type reservationPayload struct {
	ReservationID string    `json:"reservation_id"`
	UserID        string    `json:"user_id"`
	RoomID        string    `json:"room_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

func decodeReservation(t *testing.T, body string) reservationPayload {
	t.Helper()
	var p reservationPayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("decode reservation payload %q: %v", body, err)
	}
	return p
}

func TestHealth(t *testing.T) {
	rec := do(newTestServer(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestListRooms(t *testing.T) {
	rec := do(newTestServer(), http.MethodGet, "/rooms", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /rooms code = %d", rec.Code)
	}
	var rooms map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("decode rooms: %v", err)
	}
	if len(rooms) != 6 || rooms["aurora"] != "Aurora" {
		t.Fatalf("rooms = %v", rooms)
	}
}

// Booking aurora 10:00-11:00 (+02:00) succeeds, 10:30-11:30 conflicts, and
// 11:00-12:00 starts exactly at the first booking's end so it succeeds too.
func TestCreateOverlapAndTouchingBoundary(t *testing.T) {
	e := newTestServer()

	rec := do(e, http.MethodPost, "/reservations",
		reservationBody("user1", "aurora", "2030-01-19T10:00:00+02:00", "2030-01-19T11:00:00+02:00"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first booking: code=%d body=%s", rec.Code, rec.Body.String())
	}
	created := decodeReservation(t, rec.Body.String())
	if created.ReservationID == "" {
		t.Fatal("first booking returned empty reservation_id")
	}
	// Stored times are normalized to UTC: 10:00+02:00 is 08:00Z.
	if !created.StartTime.Equal(testNow) {
		t.Fatalf("start_time = %v, want %v", created.StartTime, testNow)
	}

	rec = do(e, http.MethodPost, "/reservations",
		reservationBody("user2", "aurora", "2030-01-19T10:30:00+02:00", "2030-01-19T11:30:00+02:00"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("overlapping booking: code=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/reservations",
		reservationBody("user2", "aurora", "2030-01-19T11:00:00+02:00", "2030-01-19T12:00:00+02:00"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("touching booking: code=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateUnknownRoom(t *testing.T) {
	rec := do(newTestServer(), http.MethodPost, "/reservations",
		reservationBody("user1", "nonexistent", "2030-01-19T10:00:00+02:00", "2030-01-19T11:00:00+02:00"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown room: code=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateValidationFailures(t *testing.T) {
	e := newTestServer()
	cases := []struct {
		name string
		body string
	}{
		{"naive start_time", reservationBody("user1", "aurora", "2030-01-19T10:00:00", "2030-01-19T11:00:00+02:00")},
		{"naive end_time", reservationBody("user1", "aurora", "2030-01-19T10:00:00+02:00", "2030-01-19T11:00:00")},
		{"malformed start_time", reservationBody("user1", "aurora", "not-a-time", "2030-01-19T11:00:00+02:00")},
		{"inverted range", reservationBody("user1", "aurora", "2030-01-19T11:00:00+02:00", "2030-01-19T10:00:00+02:00")},
		{"zero-length range", reservationBody("user1", "aurora", "2030-01-19T10:00:00+02:00", "2030-01-19T10:00:00+02:00")},
		{"past start", reservationBody("user1", "aurora", "2030-01-19T07:00:00+02:00", "2030-01-19T11:00:00+02:00")},
		{"empty user_id", reservationBody("", "aurora", "2030-01-19T10:00:00+02:00", "2030-01-19T11:00:00+02:00")},
		{"oversized user_id", reservationBody(strings.Repeat("u", 65), "aurora", "2030-01-19T10:00:00+02:00", "2030-01-19T11:00:00+02:00")},
		{"oversized room_id", reservationBody("user1", strings.Repeat("r", 33), "2030-01-19T10:00:00+02:00", "2030-01-19T11:00:00+02:00")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/reservations", tc.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("code=%d body=%s, want 422", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCancelFlow(t *testing.T) {
	e := newTestServer()

	rec := do(e, http.MethodPost, "/reservations",
		reservationBody("user1", "borealis", "2030-01-19T10:00:00+02:00", "2030-01-19T11:00:00+02:00"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: code=%d", rec.Code)
	}
	id := decodeReservation(t, rec.Body.String()).ReservationID

	rec = do(e, http.MethodDelete, "/reservations/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: code=%d body=%s", rec.Code, rec.Body.String())
	}
	var cancel struct {
		Cancelled     bool   `json:"cancelled"`
		ReservationID string `json:"reservation_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cancel); err != nil {
		t.Fatalf("decode cancel payload: %v", err)
	}
	if !cancel.Cancelled || cancel.ReservationID != id {
		t.Fatalf("cancel payload = %+v", cancel)
	}

	rec = do(e, http.MethodDelete, "/reservations/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second cancel: code=%d, want 404", rec.Code)
	}
}

func TestListFilteredByUser(t *testing.T) {
	e := newTestServer()

	for _, b := range []string{
		reservationBody("user1", "sauna", "2030-01-19T10:00:00+02:00", "2030-01-19T11:00:00+02:00"),
		reservationBody("user2", "sauna", "2030-01-19T11:00:00+02:00", "2030-01-19T12:00:00+02:00"),
	} {
		if rec := do(e, http.MethodPost, "/reservations", b); rec.Code != http.StatusCreated {
			t.Fatalf("setup create: code=%d body=%s", rec.Code, rec.Body.String())
		}
	}

	rec := do(e, http.MethodGet, "/rooms/sauna/reservations?user_id=user1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered list: code=%d", rec.Code)
	}
	var records []reservationPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(records) != 1 || records[0].UserID != "user1" {
		t.Fatalf("filtered listing = %+v, want only user1", records)
	}
}

func TestListSortedByStartTime(t *testing.T) {
	e := newTestServer()

	// Created out of chronological order.
	for _, b := range []string{
		reservationBody("user1", "taiga", "2030-01-19T14:00:00+02:00", "2030-01-19T15:00:00+02:00"),
		reservationBody("user1", "taiga", "2030-01-19T10:00:00+02:00", "2030-01-19T11:00:00+02:00"),
		reservationBody("user1", "taiga", "2030-01-19T12:00:00+02:00", "2030-01-19T13:00:00+02:00"),
	} {
		if rec := do(e, http.MethodPost, "/reservations", b); rec.Code != http.StatusCreated {
			t.Fatalf("setup create: code=%d body=%s", rec.Code, rec.Body.String())
		}
	}

	rec := do(e, http.MethodGet, "/rooms/taiga/reservations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: code=%d", rec.Code)
	}
	var records []reservationPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("listed %d reservations, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].StartTime.Before(records[i-1].StartTime) {
			t.Fatalf("listing not sorted by start time: %+v", records)
		}
	}
}

func TestListUnknownRoom(t *testing.T) {
	rec := do(newTestServer(), http.MethodGet, "/rooms/nonexistent/reservations", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown room listing: code=%d", rec.Code)
	}
}

func TestListEmptyRoom(t *testing.T) {
	rec := do(newTestServer(), http.MethodGet, "/rooms/helmi/reservations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("empty room listing: code=%d", rec.Code)
	}
	var records []reservationPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("empty room returned %d records", len(records))
	}
}

// N parallel attempts on the same room and slot: exactly one 201, the rest
// 409, and the room ends up with a single stored reservation.
func TestConcurrentCreateSameSlot(t *testing.T) {
	e := newTestServer()
	body := reservationBody("user1", "sisu", "2030-01-19T10:00:00+02:00", "2030-01-19T11:00:00+02:00")

	const n = 16
	codes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- do(e, http.MethodPost, "/reservations", body).Code
		}()
	}
	wg.Wait()
	close(codes)

	var created, conflicted int
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	if created != 1 || conflicted != n-1 {
		t.Fatalf("created=%d conflicted=%d, want exactly one winner out of %d", created, conflicted, n)
	}

	rec := do(e, http.MethodGet, "/rooms/sisu/reservations", "")
	var records []reservationPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("room holds %d reservations after the race, want 1", len(records))
	}
}
