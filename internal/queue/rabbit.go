package queue

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// RabbitQueue publishes to and consumes from a durable RabbitMQ queue
// through the default exchange. The message type travels in the AMQP Type
// property.
type RabbitQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     zerolog.Logger
}

// NewRabbitQueue dials url and declares the queue.
func NewRabbitQueue(url, queue string, log zerolog.Logger) (*RabbitQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare %s: %w", queue, err)
	}
	log.Info().Str("queue", queue).Msg("rabbitmq queue ready")
	return &RabbitQueue{conn: conn, channel: ch, queue: queue, log: log}, nil
}

// Publish sends a persistent message.
func (q *RabbitQueue) Publish(ctx context.Context, msg Message) error {
	return q.channel.PublishWithContext(ctx, "", q.queue, false, false, toPublishing(msg, time.Now()))
}

// Consume delivers messages until ctx is done. Deliveries are acked once
// handed to the caller.
func (q *RabbitQueue) Consume(ctx context.Context) (<-chan Message, error) {
	deliveries, err := q.channel.ConsumeWithContext(ctx, q.queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume: %w", err)
	}
	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			select {
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				select {
				case out <- fromDelivery(d):
					if err := d.Ack(false); err != nil {
						q.log.Warn().Err(err).Msg("rabbitmq ack failed")
					}
				case <-ctx.Done():
					_ = d.Nack(false, true)
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close closes the channel and connection.
func (q *RabbitQueue) Close() {
	if q.channel != nil {
		_ = q.channel.Close()
	}
	if q.conn != nil {
		_ = q.conn.Close()
	}
}

func toPublishing(msg Message, now time.Time) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         msg.Type,
		Body:         msg.Body,
		Timestamp:    now,
	}
}

func fromDelivery(d amqp.Delivery) Message {
	return Message{Type: d.Type, Body: d.Body}
}
