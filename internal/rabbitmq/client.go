package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/config"
	"github.com/GoArmGo/DailyTrack/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Client публикует события активности в RabbitMQ.
// Если задан exchange, события уходят в topic-exchange с ключом маршрутизации, равным типу события,
// а очередь привязывается к нему по "#". Иначе сообщение кладётся прямо в очередь.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    amqp.Queue
	exchange string
	logger   *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет очередь (и exchange, если он задан).
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	client := &Client{conn: conn, exchange: cfg.RabbitMQ.RabbitMQExchange, logger: logger}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	client.channel = ch

	if err := client.declare(cfg.RabbitMQ.RabbitMQQueueName); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("rabbitmq publisher ready",
		"queue", client.queue.Name,
		"exchange", client.exchange,
		"messages", client.queue.Messages,
	)
	return client, nil
}

// declare идемпотентно объявляет топологию.
func (c *Client) declare(queueName string) error {
	q, err := c.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare a queue: %w", err)
	}
	c.queue = q

	if c.exchange == "" {
		return nil
	}
	if err := c.channel.ExchangeDeclare(c.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", c.exchange, err)
	}
	if err := c.channel.QueueBind(q.Name, "#", c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s to exchange %s: %w", q.Name, c.exchange, err)
	}
	return nil
}

// Close закрывает канал и соединение RabbitMQ.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	c.logger.Info("rabbitmq connection closed")
	return errors.Join(errs...)
}

// PublishActivity публикует событие. Реализует ports.ActivityPublisher.
func (c *Client) PublishActivity(ctx context.Context, event payloads.ActivityEvent) error {
	msg, err := newPublishing(event)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	exchange, key := route(c.exchange, c.queue.Name, event.Type)
	if err := c.channel.PublishWithContext(publishCtx, exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}

	c.logger.Debug("activity event published",
		"type", event.Type,
		"username", event.Username,
		"exchange", exchange,
		"routing_key", key,
	)
	return nil
}

// route возвращает exchange и ключ маршрутизации для события.
func route(exchange, queue, eventType string) (string, string) {
	if exchange == "" {
		return "", queue
	}
	return exchange, eventType
}

func newPublishing(event payloads.ActivityEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         event.Type,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}, nil
}
