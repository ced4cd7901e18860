package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ncobase/screener/data/cache"
	"github.com/ncobase/screener/data/repository"
	"github.com/ncobase/screener/logging/logger"
	"github.com/ncobase/screener/logging/observes"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultCacheTTL is how long a fetched snapshot is served without refetching
const DefaultCacheTTL = 300 * time.Second

// DefaultRetryDelay is how long a fallback snapshot is served before the
// provider is tried again
const DefaultRetryDelay = 30 * time.Second

const snapshotKey = "snapshot"

// ErrBondNotFound is returned by Bond for unknown codes
var ErrBondNotFound = errors.New("bond not found")

// Snapshot is a market snapshot with its fetch time
type Snapshot struct {
	Bonds     []*Bond   `json:"bonds"`
	FetchedAt time.Time `json:"fetched_at"`
	Source    string    `json:"source"`
}

// Options configures a Service
type Options struct {
	CacheTTL time.Duration
	// RetryDelay caps how long a fallback snapshot is served without
	// retrying the provider; never longer than CacheTTL
	RetryDelay time.Duration
	// Redis shares the snapshot between instances, optional
	Redis *redis.Client
	// KeyPrefix namespaces the Redis key
	KeyPrefix string
	// Store persists the last good snapshot for provider outages, optional
	Store repository.BondRepository
}

// Service serves bond data from a TTL cache in front of a Provider
type Service struct {
	provider Provider
	ttl      time.Duration
	retry    time.Duration
	shared   *cache.Cache[Snapshot]
	store    repository.BondRepository
	now      func() time.Time

	mu        sync.RWMutex
	snapshot  *Snapshot
	retryAt   time.Time // set while a fallback snapshot is served
	refreshMu sync.Mutex
}

// NewService creates a bond data service
func NewService(provider Provider, opts Options) *Service {
	s := &Service{
		provider: provider,
		ttl:      opts.CacheTTL,
		retry:    opts.RetryDelay,
		store:    opts.Store,
		now:      time.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultCacheTTL
	}
	if s.retry <= 0 {
		s.retry = DefaultRetryDelay
	}
	s.retry = min(s.retry, s.ttl)
	if opts.Redis != nil {
		prefix := "bonds"
		if opts.KeyPrefix != "" {
			prefix = opts.KeyPrefix + ":bonds"
		}
		s.shared = cache.NewCache[Snapshot](opts.Redis, prefix)
	}
	return s
}

// Bonds returns every bond. The cached snapshot is served while younger
// than the TTL unless force is set.
func (s *Service) Bonds(ctx context.Context, force bool) ([]*Bond, error) {
	snap, err := s.Snapshot(ctx, force)
	if err != nil {
		return nil, err
	}
	return snap.Bonds, nil
}

// Snapshot returns the current snapshot, refreshing it when stale or forced
func (s *Service) Snapshot(ctx context.Context, force bool) (*Snapshot, error) {
	if !force {
		if snap := s.fresh(); snap != nil {
			return snap, nil
		}
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// another caller may have refreshed while we waited
	if !force {
		if snap := s.fresh(); snap != nil {
			return snap, nil
		}
		if snap := s.loadShared(ctx); snap != nil {
			s.setSnapshot(snap)
			return snap, nil
		}
	}

	return s.refresh(ctx, true)
}

// Bond returns the bond with code
func (s *Service) Bond(ctx context.Context, code string) (*Bond, error) {
	bonds, err := s.Bonds(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, b := range bonds {
		if b.Code == code {
			return b, nil
		}
	}
	return nil, ErrBondNotFound
}

// Refresh refetches the snapshot and returns the number of bonds.
// Unlike Bonds it fails when the provider fails.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	snap, err := s.refresh(ctx, false)
	if err != nil {
		return 0, err
	}
	return len(snap.Bonds), nil
}

// LastUpdated returns the fetch time of the cached snapshot
func (s *Service) LastUpdated() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return time.Time{}, false
	}
	return s.snapshot.FetchedAt, true
}

// Start refreshes the snapshot every interval until ctx is done
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := s.Refresh(ctx); err != nil {
					logger.Warnf(ctx, "bond auto refresh failed: %v", err)
				} else {
					logger.Debugf(ctx, "bond auto refresh loaded %d bonds", n)
				}
			}
		}
	}()
}

func (s *Service) fresh() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil
	}
	now := s.now()
	if now.Sub(s.snapshot.FetchedAt) < s.ttl || now.Before(s.retryAt) {
		return s.snapshot
	}
	return nil
}

func (s *Service) setSnapshot(snap *Snapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.retryAt = time.Time{}
	s.mu.Unlock()
}

// holdFallback serves snap until the retry delay passes. FetchedAt is kept
// so LastUpdated still reports the age of the data.
func (s *Service) holdFallback(snap *Snapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.retryAt = s.now().Add(s.retry)
	s.mu.Unlock()
}

func (s *Service) loadShared(ctx context.Context) *Snapshot {
	if s.shared == nil {
		return nil
	}
	snap, err := s.shared.Get(ctx, snapshotKey)
	if err != nil {
		logger.Warnf(ctx, "failed to read shared bond snapshot: %v", err)
		return nil
	}
	if snap == nil || s.now().Sub(snap.FetchedAt) >= s.ttl {
		return nil
	}
	return snap
}

func (s *Service) refresh(ctx context.Context, allowFallback bool) (snap *Snapshot, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "market.refresh",
		attribute.String("provider", s.provider.Name()))
	defer func() { observes.EndSpan(span, err) }()

	bonds, fetchErr := s.provider.Fetch(ctx)
	if fetchErr != nil {
		logger.Errorf(ctx, "bond provider %s failed: %v", s.provider.Name(), fetchErr)
		if !allowFallback {
			return nil, asFetchError(s.provider.Name(), fetchErr)
		}
		return s.fallback(ctx, fetchErr)
	}

	snap = &Snapshot{Bonds: bonds, FetchedAt: s.now().UTC(), Source: s.provider.Name()}
	s.setSnapshot(snap)
	logger.Infof(ctx, "loaded %d bonds from %s", len(bonds), s.provider.Name())

	if s.shared != nil {
		if err := s.shared.Set(ctx, snapshotKey, snap, s.ttl); err != nil {
			logger.Warnf(ctx, "failed to share bond snapshot: %v", err)
		}
	}
	if s.store != nil {
		if err := s.persist(ctx, snap); err != nil {
			logger.Warnf(ctx, "failed to persist bond snapshot: %v", err)
		}
	}
	return snap, nil
}

// fallback serves the stale in-process snapshot, then the persisted one
func (s *Service) fallback(ctx context.Context, cause error) (*Snapshot, error) {
	s.mu.RLock()
	stale := s.snapshot
	s.mu.RUnlock()
	if stale != nil {
		logger.Warnf(ctx, "serving stale bond snapshot from %s", stale.FetchedAt.Format(time.RFC3339))
		s.holdFallback(stale)
		return stale, nil
	}

	if s.store != nil {
		snap, err := s.restore(ctx)
		if err != nil {
			logger.Warnf(ctx, "failed to restore bond snapshot: %v", err)
		} else if len(snap.Bonds) > 0 {
			logger.Warnf(ctx, "serving %d persisted bonds", len(snap.Bonds))
			s.holdFallback(snap)
			return snap, nil
		}
	}

	return nil, asFetchError(s.provider.Name(), cause)
}

func asFetchError(source string, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{Source: source, Err: err}
}

func (s *Service) persist(ctx context.Context, snap *Snapshot) error {
	rows := make([]*repository.BondSnapshot, 0, len(snap.Bonds))
	for _, b := range snap.Bonds {
		payload, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to encode bond %s: %w", b.Code, err)
		}
		rows = append(rows, &repository.BondSnapshot{Code: b.Code, Data: payload, UpdatedAt: snap.FetchedAt})
	}
	return s.store.Replace(ctx, rows)
}

func (s *Service) restore(ctx context.Context) (*Snapshot, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Bonds: make([]*Bond, 0, len(rows)), Source: "store"}
	for _, row := range rows {
		var b Bond
		if err := json.Unmarshal(row.Data, &b); err != nil {
			logger.Warnf(ctx, "skipping corrupt persisted bond %s: %v", row.Code, err)
			continue
		}
		snap.Bonds = append(snap.Bonds, &b)
		if row.UpdatedAt.After(snap.FetchedAt) {
			snap.FetchedAt = row.UpdatedAt
		}
	}
	return snap, nil
}
