// The worker consumes reservation lifecycle events from RabbitMQ and appends
// them to logs/reservations.log.  It runs separately from the HTTP server so
// the API never blocks on broker availability.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/iliyamo/room-reservation/internal/queue"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using environment variables")
	}

	log.Println("reservation worker: starting consumer")
	if err := queue.StartReservationConsumer(); err != nil {
		log.Fatal(err)
	}
}
