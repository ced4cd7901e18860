// Package kafka publishes messages with segmentio/kafka-go.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ncobase/screener/data/config"
	"github.com/ncobase/screener/logging/logger"
	"github.com/segmentio/kafka-go"
)

const (
	defaultWriteTimeout = 10 * time.Second
	retryAttempts       = 3
	retryBackoffMax     = 5 * time.Second
)

// Kafka represents Kafka implementation
type Kafka struct {
	mu      sync.Mutex
	writer  *kafka.Writer
	timeout time.Duration
}

// New creates a Kafka publisher for the configured brokers. Topics are
// created on first write when the broker allows it.
func New(cfg *config.Kafka) (*Kafka, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}

	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           timeout,
		AllowAutoTopicCreation: true,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Errorf(context.Background(), "kafka: "+msg, args...)
		}),
	}
	if cfg.ClientID != "" {
		w.Transport = &kafka.Transport{ClientID: cfg.ClientID}
	}

	return &Kafka{writer: w, timeout: timeout}, nil
}

// Publish writes one message, retrying with exponential backoff
func (s *Kafka) Publish(ctx context.Context, topic string, key, value []byte) error {
	writer := s.getWriter()
	if writer == nil {
		return errors.New("kafka writer is closed")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout*time.Duration(retryAttempts+1))
	defer cancel()

	msg := kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
		Time:  time.Now(),
	}

	var err error
	backoff := 100 * time.Millisecond
	for attempt := 0; attempt <= retryAttempts; attempt++ {
		if err = writer.WriteMessages(timeoutCtx, msg); err == nil {
			return nil
		}
		if timeoutCtx.Err() != nil {
			return fmt.Errorf("publish context timeout: %w", timeoutCtx.Err())
		}

		if attempt < retryAttempts {
			logger.Warnf(ctx, "kafka publish to %s failed (attempt %d): %v", topic, attempt+1, err)
			select {
			case <-time.After(backoff):
			case <-timeoutCtx.Done():
				return fmt.Errorf("publish context timeout: %w", timeoutCtx.Err())
			}
			backoff = nextBackoff(backoff)
		}
	}

	return fmt.Errorf("failed to write message after %d attempts: %w", retryAttempts+1, err)
}

func nextBackoff(d time.Duration) time.Duration {
	return min(d*2, retryBackoffMax)
}

func (s *Kafka) getWriter() *kafka.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer
}

// Close flushes and closes the writer
func (s *Kafka) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writer == nil {
		return nil
	}
	err := s.writer.Close()
	s.writer = nil
	if err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}
	return nil
}
