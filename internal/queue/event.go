// Package queue defines the payloads exchanged over the message broker and
// the background consumer that turns them into log lines.
package queue

// ReservationQueueName is the durable queue carrying reservation lifecycle
// events.
const ReservationQueueName = "reservation.events"

// Actions carried in a ReservationEvent.
const (
	ActionCreated   = "created"
	ActionCancelled = "cancelled"
)

// ReservationEvent is published after a reservation is successfully created
// or cancelled.  It contains enough information for downstream consumers to
// log or notify without querying the service.  Times are RFC 3339 UTC.
type ReservationEvent struct {
	Action        string `json:"action"`
	ReservationID string `json:"reservation_id"`
	UserID        string `json:"user_id"`
	RoomID        string `json:"room_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	OccurredAt    string `json:"occurred_at"`
}
