// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"context"

	"github.com/JeanGrijp/products-rate-limiter/internal/core/domain"
)

type RateLimiter interface {
	Evaluate(ctx context.Context, id domain.ClientIdentifier) domain.Decision
}
