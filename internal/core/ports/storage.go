// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"context"
	"time"
)

// CounterStore é o store compartilhado de contadores inteiros com expiração.
// As operações precisam ser atômicas entre chamadores concorrentes.
type CounterStore interface {
	// Get devolve found=false quando não existe contador para a chave.
	Get(ctx context.Context, key string) (value int64, found bool, err error)
	SetWithExpiry(ctx context.Context, key string, value int64, ttl time.Duration) error
	// Increment soma 1 a um contador existente sem alterar o TTL.
	Increment(ctx context.Context, key string) (int64, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}
