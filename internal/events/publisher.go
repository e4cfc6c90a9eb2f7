package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultQueue receives ImportCompleted events when no queue is configured.
	DefaultQueue = "customers.imported"
	// DefaultDialTimeout bounds the broker connection and handshake.
	DefaultDialTimeout = 3 * time.Second
)

// Publisher delivers domain events. Callers treat failures as non-fatal and
// own the logging of them.
type Publisher interface {
	PublishImportCompleted(ctx context.Context, event ImportCompleted) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishImportCompleted(context.Context, ImportCompleted) error { return nil }

// AMQPPublisher dials the broker per event and publishes a persistent JSON
// message to a durable queue on the default exchange.
type AMQPPublisher struct {
	url         string
	queue       string
	dialTimeout time.Duration
}

// NewPublisher returns an AMQP publisher, or a NopPublisher when url is empty.
func NewPublisher(url, queue string, dialTimeout time.Duration) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	if queue == "" {
		queue = DefaultQueue
	}
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	return &AMQPPublisher{url: url, queue: queue, dialTimeout: dialTimeout}
}

func (p *AMQPPublisher) PublishImportCompleted(ctx context.Context, event ImportCompleted) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.publish(ctx, body); err != nil {
		return fmt.Errorf("publish to %s: %w", p.queue, err)
	}
	return nil
}

// timeout is the dial budget: the configured timeout, shortened to the
// context deadline when that comes first.
func (p *AMQPPublisher) timeout(ctx context.Context) time.Duration {
	t := p.dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < t {
			t = left
		}
	}
	return t
}

func (p *AMQPPublisher) publish(ctx context.Context, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := p.timeout(ctx)
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	return ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
