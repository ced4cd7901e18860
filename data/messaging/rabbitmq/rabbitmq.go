// Package rabbitmq publishes messages to a topic exchange with amqp091-go.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ncobase/screener/data/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultExchange       = "screener"
	defaultConnectTimeout = 10 * time.Second
	defaultHeartbeat      = 10 * time.Second
	confirmTimeout        = 30 * time.Second
)

// RabbitMQ represents RabbitMQ implementation
type RabbitMQ struct {
	conn     *amqp.Connection
	exchange string
	mu       sync.Mutex
}

// New dials the broker and declares the durable topic exchange
func New(ctx context.Context, cfg *config.RabbitMQ) (*RabbitMQ, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("rabbitmq: url is empty")
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Heartbeat: durationOr(cfg.HeartbeatInterval, defaultHeartbeat),
		Dial:      amqp.DefaultDial(durationOr(cfg.ConnectionTimeout, defaultConnectTimeout)),
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: failed to connect: %w", err)
	}

	s := &RabbitMQ{conn: conn, exchange: cfg.Exchange}
	if s.exchange == "" {
		s.exchange = defaultExchange
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		s.exchange, // exchange name
		"topic",    // exchange type
		true,       // durable
		false,      // auto-delete
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return s, nil
}

// IsConnected checks if the RabbitMQ connection is valid
func (s *RabbitMQ) IsConnected() bool {
	return s.conn != nil && !s.conn.IsClosed()
}

// Publish sends body with routingKey and waits for the broker confirm
func (s *RabbitMQ) Publish(ctx context.Context, routingKey string, key, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.IsConnected() {
		return errors.New("rabbitmq connection is not available")
	}

	ch, err := s.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err = ch.Confirm(false); err != nil {
		return fmt.Errorf("failed to put channel in confirm mode: %w", err)
	}
	confirms := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	ctx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		s.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    string(key),
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	select {
	case confirmed, ok := <-confirms:
		if !ok {
			return errors.New("confirmation channel closed")
		}
		if !confirmed.Ack {
			return errors.New("failed to receive publish confirmation")
		}
	case <-ctx.Done():
		return fmt.Errorf("publish confirmation timed out: %w", ctx.Err())
	}
	return nil
}

// Close closes the RabbitMQ connection
func (s *RabbitMQ) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.IsConnected() {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close RabbitMQ connection: %w", err)
	}
	return nil
}

func durationOr(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
