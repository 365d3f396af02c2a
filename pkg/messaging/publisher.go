package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/medflow/idscan-service/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher handles publishing events to RabbitMQ
type Publisher struct {
	channel   func() Channel
	reconnect func(context.Context) error
	exchange  string
	source    string
	logger    *logger.Logger
}

// NewPublisher declares exchange and returns a publisher bound to it. A publish that
// fails because the channel closed triggers one reconnect and retry.
func NewPublisher(rmq *RabbitMQ, exchange, source string, log *logger.Logger) (*Publisher, error) {
	if err := rmq.DeclareExchange(exchange); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Publisher{
		channel:   func() Channel { return rmq.Channel() },
		reconnect: rmq.Reconnect,
		exchange:  exchange,
		source:    source,
		logger:    log,
	}, nil
}

// NewChannelPublisher publishes on a fixed channel without reconnecting.
func NewChannelPublisher(ch Channel, exchange, source string, log *logger.Logger) *Publisher {
	return &Publisher{
		channel:  func() Channel { return ch },
		exchange: exchange,
		source:   source,
		logger:   log,
	}
}

// Publish wraps data in an Event and publishes it with eventType as routing key.
func (p *Publisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	correlationID := getCorrelationID(ctx)

	event, err := NewEvent(eventType, p.source, correlationID, data)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     event.ID,
		CorrelationId: correlationID,
		Timestamp:     event.Timestamp,
		Type:          eventType,
		AppId:         p.source,
		Body:          body,
	}

	err = p.channel().PublishWithContext(ctx, p.exchange, eventType, false, false, msg)
	if errors.Is(err, amqp.ErrClosed) && p.reconnect != nil {
		p.logger.Warn().Err(err).Msg("channel closed, reconnecting before retry")
		if rerr := p.reconnect(ctx); rerr != nil {
			return fmt.Errorf("failed to publish event: %w", rerr)
		}
		err = p.channel().PublishWithContext(ctx, p.exchange, eventType, false, false, msg)
	}
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug().
		Str("event_type", eventType).
		Str("event_id", event.ID).
		Str("correlation_id", correlationID).
		Msg("event published")

	return nil
}

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// WithCorrelationID adds a correlation ID to the context
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

func getCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}
