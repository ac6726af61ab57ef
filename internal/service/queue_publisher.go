// Package service provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures without
// interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/handwash-service/internal/model"
	q "github.com/iliyamo/handwash-service/internal/queue"
)

// Publisher sends ObservationRecordedEvent messages to a durable queue.
// Each publish dials its own connection; submits are infrequent and this
// keeps no broker state alive between requests.
type Publisher struct {
	URL         string        // AMQP broker URL
	Queue       string        // durable queue, also used as routing key on the default exchange
	DialTimeout time.Duration // connect and handshake limit; defaultDialTimeout when zero
}

const defaultDialTimeout = 5 * time.Second

func (p *Publisher) dial() (*amqp.Connection, error) {
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	return amqp.DialConfig(p.URL, amqp.Config{
		Locale: "en_US",
		Dial:   amqp.DefaultDial(timeout),
	})
}

// PublishObservationRecorded publishes event as a persistent JSON message.
func (p *Publisher) PublishObservationRecorded(ctx context.Context, event q.ObservationRecordedEvent) error {
	conn, err := p.dial()
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

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
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
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// Hook adapts the publisher to the submit handler's post-insert hook
// signature.  The dial is bounded by DialTimeout and the publish by its
// own 5s deadline.
func (p *Publisher) Hook(ctx context.Context, o model.Observation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.PublishObservationRecorded(ctx, q.NewObservationRecordedEvent(o, model.FormatTimestamp(time.Now())))
}
