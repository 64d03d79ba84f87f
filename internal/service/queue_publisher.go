// Package queue_publisher publishes domain events to RabbitMQ.
// Publishing is best-effort: errors are logged and returned so callers
// can ignore failures without interrupting the request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/arashkm/vidhub/internal/queue"
)

// Publisher emits events to a RabbitMQ broker. A fresh connection per
// publish keeps the implementation robust against broker restarts at
// the cost of throughput, which is fine for the low event volume here.
type Publisher struct {
	URL string
}

func New(url string) *Publisher { return &Publisher{URL: url} }

// PublishUserRegistered emits a UserRegisteredEvent to user.registered.
func (p *Publisher) PublishUserRegistered(ctx context.Context, ev q.UserRegisteredEvent) error {
	return p.publish(ctx, q.UserRegisteredQueue, ev)
}

// PublishVideoPublished emits a VideoPublishedEvent to video.published.
func (p *Publisher) PublishVideoPublished(ctx context.Context, ev q.VideoPublishedEvent) error {
	return p.publish(ctx, q.VideoPublishedQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queueName string, event interface{}) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
