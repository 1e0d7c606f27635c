package service

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
)

// EventPublisher emits reservation lifecycle events to RabbitMQ.  Publishing
// is fire-and-forget: failures are logged and never surface to the request
// path.  A nil *EventPublisher is valid and publishes nothing, so the broker
// stays strictly optional infrastructure.
type EventPublisher struct {
	url string
}

// NewEventPublisherFromEnv returns a publisher when RABBITMQ_URL or AMQP_URL
// is set and nil otherwise.
func NewEventPublisherFromEnv() *EventPublisher {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	if url == "" {
		return nil
	}
	return &EventPublisher{url: url}
}

// ReservationCreated publishes a created event for rec in the background.
func (p *EventPublisher) ReservationCreated(rec *model.Reservation) {
	p.emit(queue.ActionCreated, rec)
}

// ReservationCancelled publishes a cancelled event for rec in the background.
func (p *EventPublisher) ReservationCancelled(rec *model.Reservation) {
	p.emit(queue.ActionCancelled, rec)
}

func (p *EventPublisher) emit(action string, rec *model.Reservation) {
	if p == nil {
		return
	}
	ev := queue.ReservationEvent{
		Action:        action,
		ReservationID: rec.ID,
		UserID:        rec.UserID,
		RoomID:        rec.RoomID,
		StartTime:     rec.StartTime.Format(time.RFC3339),
		EndTime:       rec.EndTime.Format(time.RFC3339),
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		if err := p.publish(ev); err != nil {
			log.Printf("rabbitmq: publish %s event failed: %v", action, err)
		}
	}()
}

// publish dials the broker, declares the durable queue (idempotent) and
// publishes one persistent JSON message on the default exchange.
func (p *EventPublisher) publish(ev queue.ReservationEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.ReservationQueueName, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ch.PublishWithContext(ctx,
		"",                         // default exchange
		queue.ReservationQueueName, // routing key = queue name
		false,                      // mandatory
		false,                      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
