// Package memory disponibiliza um storage em processo, útil para execução local.
// Os contadores não são compartilhados entre instâncias.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/JeanGrijp/products-rate-limiter/internal/core/domain"
	"github.com/JeanGrijp/products-rate-limiter/internal/core/ports"
)

type entry struct {
	raw       string
	expiresAt time.Time
}

const DefaultCleanupEvery = time.Minute

type Storage struct {
	mu           sync.Mutex
	entries      map[string]entry
	now          func() time.Time
	cleanupEvery time.Duration
}

var (
	_ ports.CounterStore  = (*Storage)(nil)
	_ ports.HealthChecker = (*Storage)(nil)
)

type Option func(*Storage)

// WithClock substitui o relógio usado para expirar as chaves.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

// WithCleanupEvery define o intervalo do janitor. Zero desativa a limpeza periódica.
func WithCleanupEvery(d time.Duration) Option {
	return func(s *Storage) { s.cleanupEvery = d }
}

func New(opts ...Option) *Storage {
	s := &Storage{
		entries:      make(map[string]entry),
		now:          time.Now,
		cleanupEvery: DefaultCleanupEvery,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Storage) Ping(context.Context) error { return nil }

func (s *Storage) Close() error { return nil }

func (s *Storage) Get(_ context.Context, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.ParseInt(e.raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("get %q: %w: %q", key, domain.ErrSerialization, e.raw)
	}
	return value, true, nil
}

func (s *Storage) SetWithExpiry(_ context.Context, key string, value int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{raw: strconv.FormatInt(value, 10)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *Storage) Increment(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key)
	if !ok {
		return 0, fmt.Errorf("increment %q: %w", key, domain.ErrCounterMissing)
	}
	value, err := strconv.ParseInt(e.raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("increment %q: %w: %q", key, domain.ErrSerialization, e.raw)
	}
	value++
	e.raw = strconv.FormatInt(value, 10)
	s.entries[key] = e
	return value, nil
}

// Cleanup remove as chaves cujo TTL já passou.
func (s *Storage) Cleanup() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor executa Cleanup periodicamente até o contexto ser cancelado.
func (s *Storage) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// lookup deve ser chamado com o mutex travado.
func (s *Storage) lookup(key string) (entry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return entry{}, false
	}
	return e, true
}
