// Package amqp publishes cash-book change and reminder events to RabbitMQ so
// external consumers (backup sync, notifications) can react without the
// ledgers knowing about them.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// maxPublishAttempts bounds the reconnect-and-retry loop for one publish.
const maxPublishAttempts = 3

type Client struct {
	mu           sync.Mutex
	url          string
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		url:          url,
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
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

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishChange publishes a collection change event.
func (c *Client) PublishChange(ctx context.Context, collection, op, id string) error {
	msg := NewChangeMessage(collection, op, id)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published change message",
		"collection", collection,
		"op", op,
		"id", id,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// PublishReminder publishes a loan reminder event.
func (c *Client) PublishReminder(ctx context.Context, msg *ReminderMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published reminder message",
		"loan_id", msg.LoanID,
		"borrower", msg.BorrowerName,
		"due_date", msg.DueDate)
	return nil
}

// publish delivers one message, redialing the broker and retrying with
// backoff when the connection turns out to be broken.
func (c *Client) publish(ctx context.Context, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for attempt := 0; ; attempt++ {
		err := c.publishOnce(ctx, body)
		if err == nil {
			return nil
		}
		delay, retry := retryAfter(attempt, err)
		if !retry {
			return err
		}
		slog.WarnContext(ctx, "Publish failed on broken connection, retrying",
			"attempt", attempt+1, "error", err)
		if !sleepCtx(ctx, delay) {
			return ctx.Err()
		}
		if rerr := c.redial(); rerr != nil {
			slog.WarnContext(ctx, "Reconnect failed", "error", rerr)
		}
	}
}

func (c *Client) publishOnce(ctx context.Context, body []byte) error {
	if c.channel == nil {
		// a failed redial left us without a channel; phrased so the retry
		// loop treats it as a connection failure
		return fmt.Errorf("publish message: channel/connection is not open")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
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
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// redial tears the broken connection down and dials a fresh one, redeclaring
// the exchange and queue. Caller holds c.mu.
func (c *Client) redial() error {
	c.closeLocked()
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	c.conn = conn
	c.channel = channel
	if err := c.setup(); err != nil {
		c.closeLocked()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// retryAfter decides whether a failed publish attempt is worth another go and
// how long to back off first. Only connection failures are retried; protocol
// and marshalling errors fail straight away.
func retryAfter(attempt int, err error) (time.Duration, bool) {
	if attempt+1 >= maxPublishAttempts || !isConnectionError(err) {
		return 0, false
	}
	return exponentialBackoff(attempt), true
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// exponentialBackoff returns the wait before retry attempt, doubling from one
// second and capped at 30s.
func exponentialBackoff(attempt int) time.Duration {
	d := time.Second << attempt
	if d > 30*time.Second || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// isConnectionError reports whether err looks like a broken broker
// connection, the class of failure worth a reconnect and retry.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{"connection refused", "connection reset", "broken pipe", "channel/connection is not open", "EOF"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
