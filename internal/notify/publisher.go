package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/bus-booking-client/internal/logging"
)

// Publisher sends booking events.  Callers treat failures as best effort.
type Publisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
}

// Nop discards every event.  It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, BookingEvent) error { return nil }

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher opens a connection per event.  Events are rare (one per
// booking) so there is no long-lived connection to keep healthy.
type AMQPPublisher struct {
	url   string
	queue string
	log   *zap.Logger
	dial  func(url string) (channel, func() error, error)
}

// NewAMQPPublisher publishes to QueueName on the broker at url.
func NewAMQPPublisher(url string, log *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: QueueName, log: logging.OrNop(log), dial: dialChannel}
}

func dialChannel(url string) (channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	return ch, conn.Close, nil
}

// Publish declares the durable queue and sends ev as a persistent JSON
// message through the default exchange.
func (p *AMQPPublisher) Publish(ctx context.Context, ev BookingEvent) error {
	ch, closeConn, err := p.dial(p.url)
	if err != nil {
		p.log.Warn("booking event not published", zap.String("type", ev.Type), zap.Error(err))
		return err
	}
	defer func() { _ = closeConn() }()
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.log.Warn("booking event not published", zap.String("type", ev.Type), zap.Error(err))
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("booking event not published", zap.String("type", ev.Type), zap.Error(err))
		return fmt.Errorf("marshal booking event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.log.Warn("booking event not published", zap.String("type", ev.Type), zap.Error(err))
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	p.log.Debug("booking event published", zap.String("type", ev.Type), zap.Uint64("booking_id", ev.BookingID))
	return nil
}

// FromURL returns an AMQP publisher, or Nop when url is empty.
func FromURL(url string, log *zap.Logger) Publisher {
	if url == "" {
		return Nop{}
	}
	return NewAMQPPublisher(url, log)
}
