// Package messaging publishes application events to a broker.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ncobase/screener/data/config"
	"github.com/ncobase/screener/data/messaging/kafka"
	"github.com/ncobase/screener/data/messaging/rabbitmq"
	"github.com/ncobase/screener/logging/logger"
)

// Publisher sends a message to a topic, or routing key for RabbitMQ
type Publisher interface {
	Publish(ctx context.Context, topic string, key, body []byte) error
	Close() error
}

// Event is the JSON envelope of every published message
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// PublishEvent encodes an Event and publishes it under key
func PublishEvent(ctx context.Context, p Publisher, topic, key, eventType string, payload any) error {
	body, err := json.Marshal(Event{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", eventType, err)
	}
	return p.Publish(ctx, topic, []byte(key), body)
}

// New creates the publisher selected by cfg.Driver. An empty driver
// yields a publisher that discards messages.
func New(ctx context.Context, cfg *config.Messaging) (Publisher, error) {
	if cfg == nil {
		return Noop{}, nil
	}

	switch cfg.Driver {
	case "":
		return Noop{}, nil
	case "kafka":
		k, err := kafka.New(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		return k, nil
	case "rabbitmq":
		r, err := rabbitmq.New(ctx, cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("messaging: unknown driver %q", cfg.Driver)
	}
}

// Noop discards every message
type Noop struct{}

// Publish implements Publisher
func (Noop) Publish(ctx context.Context, topic string, key, body []byte) error {
	logger.Debugf(ctx, "messaging disabled, dropping message for %s", topic)
	return nil
}

// Close implements Publisher
func (Noop) Close() error { return nil }

// Message is a message kept by Memory
type Message struct {
	Topic string
	Key   []byte
	Body  []byte
}

// Memory keeps published messages in process
type Memory struct {
	mu       sync.Mutex
	messages []Message
}

// NewMemory creates an in-process publisher
func NewMemory() *Memory {
	return &Memory{}
}

// Publish implements Publisher
func (m *Memory) Publish(_ context.Context, topic string, key, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, Message{Topic: topic, Key: key, Body: body})
	return nil
}

// Messages returns a copy of the published messages
func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}

// Close implements Publisher
func (m *Memory) Close() error { return nil }
