// Package redis disponibiliza a implementação do storage baseada em Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/JeanGrijp/products-rate-limiter/internal/core/domain"
	"github.com/JeanGrijp/products-rate-limiter/internal/core/ports"
)

const (
	DefaultDialTimeout     = time.Second
	DefaultReadTimeout     = 100 * time.Millisecond
	DefaultWriteTimeout    = 100 * time.Millisecond
	DefaultPoolSize        = 64
	DefaultMaxIdleConns    = 32
	DefaultConnMaxIdleTime = 60 * time.Second
)

type Storage struct {
	client *redis.Client
}

var (
	_ ports.CounterStore  = (*Storage)(nil)
	_ ports.HealthChecker = (*Storage)(nil)
)

type Config struct {
	Addr     string
	Password string
	DB       int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MaxIdleConns int
}

// incrementScript só incrementa chaves existentes. INCR sozinho criaria a
// chave sem TTL caso ela expirasse entre o GET e o INCR.
//
// KEYS[1] = identificador
var incrementScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
    return false
end
return redis.call("INCR", KEYS[1])
`)

func New(cfg Config) (*Storage, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(options(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Storage{client: client}, nil
}

// NewFromClient reaproveita um client já configurado.
func NewFromClient(client *redis.Client) *Storage {
	return &Storage{client: client}
}

func options(cfg Config) *redis.Options {
	opts := &redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     orDefault(cfg.DialTimeout, DefaultDialTimeout),
		ReadTimeout:     orDefault(cfg.ReadTimeout, DefaultReadTimeout),
		WriteTimeout:    orDefault(cfg.WriteTimeout, DefaultWriteTimeout),
		PoolSize:        cfg.PoolSize,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxIdleTime: DefaultConnMaxIdleTime,
		// Falhas são tratadas como fail-open pelo limiter; retry só adicionaria latência.
		MaxRetries: -1,
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = DefaultPoolSize
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = DefaultMaxIdleConns
	}
	return opts
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return classify("ping", "", err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) (int64, bool, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, classify("get", key, err)
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("get %q: %w: %q", key, domain.ErrSerialization, raw)
	}
	return value, true, nil
}

func (s *Storage) SetWithExpiry(ctx context.Context, key string, value int64, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, strconv.FormatInt(value, 10), ttl).Err(); err != nil {
		return classify("set", key, err)
	}
	return nil
}

func (s *Storage) Increment(ctx context.Context, key string) (int64, error) {
	value, err := incrementScript.Run(ctx, s.client, []string{key}).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("increment %q: %w", key, domain.ErrCounterMissing)
	}
	if err != nil {
		return 0, classify("increment", key, err)
	}
	return value, nil
}

// classify converte erros do go-redis na taxonomia do domínio. Erros
// levantados dentro de scripts chegam embrulhados em "ERR Error ...".
func classify(op, key string, err error) error {
	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		msg := replyErr.Error()
		if strings.Contains(msg, "not an integer") || strings.Contains(msg, "WRONGTYPE") {
			return fmt.Errorf("%s %q: %w: %v", op, key, domain.ErrSerialization, err)
		}
	}
	return fmt.Errorf("%s %q: %w: %v", op, key, domain.ErrStoreUnavailable, err)
}
