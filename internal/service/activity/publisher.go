// Package activity publishes marketplace activity events to RabbitMQ.
// Publishing is fire-and-forget: errors are logged and swallowed so a broker
// outage never fails the HTTP request that triggered the event.
package activity

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/flatmates/marketplace/internal/queue"
)

// Publisher dials the broker per publish.  Connections are short-lived on
// purpose: event volume is low and a held connection would need its own
// reconnect handling.
type Publisher struct{}

func NewPublisher() *Publisher { return &Publisher{} }

// ListingCreated queues a listing.created event.
func (p *Publisher) ListingCreated(ev q.ListingCreatedEvent) {
	go publish(q.Envelope{Type: q.TypeListingCreated, Listing: &ev})
}

// PaymentCompleted queues a payment.completed event.
func (p *Publisher) PaymentCompleted(ev q.PaymentCompletedEvent) {
	go publish(q.Envelope{Type: q.TypePaymentCompleted, Payment: &ev})
}

func publish(env q.Envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(q.ActivityQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return
	}

	body, err := json.Marshal(env)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", q.ActivityQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
	}
}
