package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/ncobase/screener/concurrency/worker"
	"github.com/ncobase/screener/ctxutil"
	"github.com/ncobase/screener/logging/logger"
)

// publishTimeout bounds a single queued publish
const publishTimeout = 30 * time.Second

// Async publishes through a worker pool so callers never wait on the broker.
type Async struct {
	inner Publisher
	pool  *worker.Pool
}

// NewAsync wraps p. Non-positive sizes fall back to the pool defaults.
func NewAsync(p Publisher, workers, queueSize int) (*Async, error) {
	cfg := worker.DefaultConfig()
	cfg.TaskTimeout = 0
	if workers > 0 {
		cfg.MaxWorkers = workers
	}
	if queueSize > 0 {
		cfg.QueueSize = queueSize
	}

	pool, err := worker.NewPool(cfg, func(err error) {
		logger.Warnf(context.Background(), "async publish failed: %v", err)
	})
	if err != nil {
		return nil, err
	}
	return &Async{inner: p, pool: pool}, nil
}

// Publish queues the message. The context values, such as the trace id,
// are kept; its cancellation is not.
func (a *Async) Publish(ctx context.Context, topic string, key, body []byte) error {
	err := a.pool.Submit(func(context.Context) error {
		pctx, cancel := ctxutil.WithAsyncContext(ctx, publishTimeout)
		defer cancel()
		return a.inner.Publish(pctx, topic, key, body)
	})
	if errors.Is(err, worker.ErrQueueFull) {
		return errors.New("messaging: publish queue is full")
	}
	return err
}

// Metrics reports the pool counters
func (a *Async) Metrics() worker.Metrics {
	return a.pool.Metrics()
}

// Close waits up to ten seconds for queued messages, then closes the
// wrapped publisher.
func (a *Async) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	stopErr := a.pool.Stop(ctx)
	return errors.Join(stopErr, a.inner.Close())
}
