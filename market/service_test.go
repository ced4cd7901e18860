package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ncobase/screener/data/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu    sync.Mutex
	bonds []*Bond
	err   error
	calls int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Fetch(ctx context.Context) ([]*Bond, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.bonds, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *fakeProvider) set(bonds []*Bond, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bonds, p.err = bonds, err
}

type memoryStore struct {
	mu    sync.Mutex
	bonds map[string]*repository.BondSnapshot
	lists int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{bonds: map[string]*repository.BondSnapshot{}}
}

func (m *memoryStore) Replace(ctx context.Context, bonds []*repository.BondSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bonds = map[string]*repository.BondSnapshot{}
	for _, b := range bonds {
		m.bonds[b.Code] = b
	}
	return nil
}

func (m *memoryStore) Upsert(ctx context.Context, b *repository.BondSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bonds[b.Code] = b
	return nil
}

func (m *memoryStore) Get(ctx context.Context, code string) (*repository.BondSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bonds[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (m *memoryStore) List(ctx context.Context) ([]*repository.BondSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	out := make([]*repository.BondSnapshot, 0, len(m.bonds))
	for _, b := range m.bonds {
		out = append(out, b)
	}
	return out, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func sampleBonds() []*Bond {
	return []*Bond{
		{Code: "110001", Name: "Alpha", Price: 100, DoubleLow: 110},
		{Code: "110002", Name: "Beta", Price: 130, DoubleLow: 160},
	}
}

func TestServiceCachesWithinTTL(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{bonds: sampleBonds()}
	clk := &clock{t: time.Unix(1700000000, 0)}
	s := NewService(p, Options{CacheTTL: time.Minute})
	s.now = clk.now

	bonds, err := s.Bonds(ctx, false)
	require.NoError(t, err)
	assert.Len(t, bonds, 2)

	_, err = s.Bonds(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)

	clk.t = clk.t.Add(2 * time.Minute)
	_, err = s.Bonds(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)

	_, err = s.Bonds(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, p.calls)

	updated, ok := s.LastUpdated()
	assert.True(t, ok)
	assert.True(t, updated.Equal(clk.t))
}

func TestServiceBond(t *testing.T) {
	ctx := context.Background()
	s := NewService(&fakeProvider{bonds: sampleBonds()}, Options{})

	b, err := s.Bond(ctx, "110002")
	require.NoError(t, err)
	assert.Equal(t, "Beta", b.Name)

	_, err = s.Bond(ctx, "999999")
	assert.ErrorIs(t, err, ErrBondNotFound)
}

func TestServiceServesStaleSnapshotOnFailure(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{bonds: sampleBonds()}
	clk := &clock{t: time.Unix(1700000000, 0)}
	s := NewService(p, Options{CacheTTL: time.Minute})
	s.now = clk.now

	_, err := s.Bonds(ctx, false)
	require.NoError(t, err)

	p.set(nil, errors.New("upstream down"))
	clk.t = clk.t.Add(time.Hour)

	bonds, err := s.Bonds(ctx, false)
	require.NoError(t, err)
	assert.Len(t, bonds, 2)

	_, err = s.Refresh(ctx)
	var fe *FetchError
	assert.ErrorAs(t, err, &fe)
}

func TestServiceRestoresPersistedSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()

	first := NewService(&fakeProvider{bonds: sampleBonds()}, Options{Store: store})
	n, err := first.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	second := NewService(&fakeProvider{err: errors.New("upstream down")}, Options{Store: store})
	bonds, err := second.Bonds(ctx, false)
	require.NoError(t, err)
	require.Len(t, bonds, 2)

	codes := map[string]bool{}
	for _, b := range bonds {
		codes[b.Code] = true
	}
	assert.True(t, codes["110001"] && codes["110002"])
}

func TestServiceHoldsFallbackUntilRetry(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	_, err := NewService(&fakeProvider{bonds: sampleBonds()}, Options{Store: store}).Refresh(ctx)
	require.NoError(t, err)

	p := &fakeProvider{err: errors.New("upstream down")}
	clk := &clock{t: time.Now().Add(time.Hour).Round(0)}
	s := NewService(p, Options{Store: store, CacheTTL: time.Minute, RetryDelay: 10 * time.Second})
	s.now = clk.now

	for i := 0; i < 3; i++ {
		bonds, err := s.Bonds(ctx, false)
		require.NoError(t, err)
		require.Len(t, bonds, 2)
	}
	assert.Equal(t, 1, p.callCount())
	assert.Equal(t, 1, store.lists)

	clk.t = clk.t.Add(11 * time.Second)
	_, err = s.Bonds(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, p.callCount(), "provider retried after the delay")
	assert.Equal(t, 1, store.lists, "in-process snapshot preferred over the store")

	p.set(sampleBonds()[:1], nil)
	clk.t = clk.t.Add(11 * time.Second)
	bonds, err := s.Bonds(ctx, false)
	require.NoError(t, err)
	assert.Len(t, bonds, 1)
	assert.Equal(t, 3, p.callCount())

	updated, ok := s.LastUpdated()
	require.True(t, ok)
	assert.True(t, updated.Equal(clk.t))
}

func TestServiceFailsWithoutFallback(t *testing.T) {
	s := NewService(&fakeProvider{err: errors.New("upstream down")}, Options{Store: newMemoryStore()})

	_, err := s.Bonds(context.Background(), false)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "fake", fe.Source)
}

func TestServiceAutoRefresh(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &fakeProvider{bonds: sampleBonds()}
	s := NewService(p, Options{})
	s.Start(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.calls >= 2
	}, time.Second, 5*time.Millisecond)
}
