// Package events fans acknowledged state changes out to the dashboard's
// push channels: the WebSocket hub for connected browsers and a RabbitMQ
// topic exchange for downstream consumers (courier apps, notification
// workers). Publishing is fire-and-forget; a broker hiccup never fails the
// operation that triggered the event.
package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Exchange is the topic exchange order events are published to.
const Exchange = "napoli.orders"

const publishTimeout = 5 * time.Second

// Channel is the slice of an AMQP channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher pushes order events to the broker. A nil Publisher is valid and
// publishes nothing, so the broker stays optional in development.
type Publisher struct {
	ch     Channel
	logger *zap.Logger
}

// NewPublisher declares the topic exchange and returns a publisher over ch.
func NewPublisher(ch *amqp.Channel, logger *zap.Logger) (*Publisher, error) {
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, logger: logger}, nil
}

// Publish sends one event under the given routing key. Failures are logged
// and swallowed.
func (p *Publisher) Publish(routingKey string, payload any) {
	if p == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn("encode event", zap.String("routing_key", routingKey), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	err = p.ch.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		p.logger.Warn("publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err))
	}
}
