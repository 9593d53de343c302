package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
)

// Notifier publishes settlement lifecycle events to a durable direct
// exchange. A consumer on the queue turns them into household pings
// (Telegram bot, mail digest, whatever is bound); this side only guarantees
// the message reaches the broker.
type Notifier struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

// envelope is the wire shape of one published event.
type envelope struct {
	Kind         string         `json:"kind"`
	Participants []string       `json:"participants"`
	Payload      map[string]any `json:"payload,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// NewNotifier dials the broker and declares the exchange, queue and binding.
func NewNotifier(url, exchangeName, queueName string) (*Notifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	notifier := &Notifier{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := notifier.setup(); err != nil {
		notifier.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return notifier, nil
}

var _ portssvc.Notifier = (*Notifier)(nil)

func (n *Notifier) setup() error {
	err := n.channel.ExchangeDeclare(
		n.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = n.channel.QueueDeclare(
		n.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = n.channel.QueueBind(
		n.queueName,    // queue name
		n.queueName,    // routing key (same as queue name for direct exchange)
		n.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// Notify publishes one event. The caller treats failures as fire-and-forget;
// this method still reports them so the service layer can log the loss.
func (n *Notifier) Notify(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(envelope{
		Kind:         string(event.Kind),
		Participants: event.Participants,
		Payload:      event.Payload,
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = n.channel.PublishWithContext(
		ctx,
		n.exchangeName, // exchange
		n.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event %s: %w", event.Kind, err)
	}
	return nil
}

// Close releases the channel and connection.
func (n *Notifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
