package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/types"
)

// DefaultExchange is the topic exchange match notifications go to.
const DefaultExchange = "internship_matches"

type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes match notifications to a RabbitMQ topic exchange,
// routed by "matches.<user id>".
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
	logger   *zap.Logger
	channel  func() (publisher, error)
	now      func() time.Time
}

// Dial connects to the broker and declares the exchange.
func Dial(url, exchange string, logger *zap.Logger) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()
	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	p := newPublisher(func() (publisher, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	}, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(channel func() (publisher, error), exchange string, logger *zap.Logger) *AMQPPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{exchange: exchange, logger: logger, channel: channel, now: time.Now}
}

// RoutingKey returns the routing key for a user's notifications.
func RoutingKey(userID uuid.UUID) string {
	return "matches." + userID.String()
}

// NotifyMatches publishes one persistent JSON message holding all matches. No matches, no message.
func (p *AMQPPublisher) NotifyMatches(ctx context.Context, userID uuid.UUID, matches []types.ScoredPosting) error {
	if len(matches) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := BuildMessage(userID, matches, p.now())
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	ch, err := p.channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.Publish(p.exchange, RoutingKey(userID), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    msg.SentAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	p.logger.Info("published match notification",
		zap.Stringer("user_id", userID),
		zap.Int("matches", len(matches)),
	)
	return nil
}

// Close closes the broker connection.
func (p *AMQPPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
