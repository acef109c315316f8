package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeanGrijp/products-rate-limiter/internal/core/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// setRaw grava um valor sem validação para simular dados corrompidos.
func (s *Storage) setRaw(key, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{raw: raw}
}

func newTestStorage() (*Storage, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)}
	return New(WithClock(clock.Now)), clock
}

func TestStorage_SetGetIncrement(t *testing.T) {
	s, _ := newTestStorage()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetWithExpiry(ctx, "k", 1, domain.Window))

	got, err := s.Increment(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)

	value, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(2), value)
}

func TestStorage_IncrementDoesNotExtendTTL(t *testing.T) {
	s, clock := newTestStorage()
	ctx := context.Background()

	require.NoError(t, s.SetWithExpiry(ctx, "k", 1, domain.Window))
	clock.Advance(600 * time.Millisecond)
	_, err := s.Increment(ctx, "k")
	require.NoError(t, err)

	clock.Advance(400 * time.Millisecond)

	_, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "window is anchored to the first request")
}

func TestStorage_IncrementMissingKey(t *testing.T) {
	s, _ := newTestStorage()

	_, err := s.Increment(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrCounterMissing)
	assert.True(t, domain.IsStoreUnavailable(err))
}

func TestStorage_MalformedValue(t *testing.T) {
	s, _ := newTestStorage()
	s.setRaw("k", "1.5")
	ctx := context.Background()

	_, _, err := s.Get(ctx, "k")
	assert.True(t, domain.IsSerializationError(err))

	_, err = s.Increment(ctx, "k")
	assert.True(t, domain.IsSerializationError(err))
}

func TestStorage_ConcurrentIncrement(t *testing.T) {
	s, _ := newTestStorage()
	ctx := context.Background()
	require.NoError(t, s.SetWithExpiry(ctx, "k", 0, time.Minute))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Increment(ctx, "k")
		}()
	}
	wg.Wait()

	value, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(100), value)
}

func (s *Storage) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func TestStorage_CleanupRemovesExpiredEntries(t *testing.T) {
	s, clock := newTestStorage()
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.NoError(t, s.SetWithExpiry(ctx, fmt.Sprintf("one-off-%d", i), 1, domain.Window))
	}
	require.NoError(t, s.SetWithExpiry(ctx, "long-lived", 1, time.Hour))
	require.Equal(t, 1001, s.size())

	clock.Advance(domain.Window)
	s.Cleanup()

	assert.Equal(t, 1, s.size())
	_, found, err := s.Get(ctx, "long-lived")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestStorage_JanitorSweepsUntilCancelled(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)}
	s := New(WithClock(clock.Now), WithCleanupEvery(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.SetWithExpiry(ctx, "k", 1, domain.Window))
	clock.Advance(domain.Window)
	s.StartJanitor(ctx)

	assert.Eventually(t, func() bool { return s.size() == 0 }, time.Second, 5*time.Millisecond)
}

func TestStorage_JanitorDisabled(t *testing.T) {
	s := New(WithCleanupEvery(0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.StartJanitor(ctx)
	require.NoError(t, s.SetWithExpiry(ctx, "k", 1, time.Nanosecond))
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 1, s.size(), "entries are only dropped lazily without a janitor")
}
