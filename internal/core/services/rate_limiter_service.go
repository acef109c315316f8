package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JeanGrijp/products-rate-limiter/internal/core/domain"
	"github.com/JeanGrijp/products-rate-limiter/internal/core/ports"
)

// RateLimiterService implementa a janela fixa por identificador.
// Não guarda estado entre requisições: todo contador vive no store.
type RateLimiterService struct {
	storage ports.CounterStore
	logger  *zap.Logger
}

var _ ports.RateLimiter = (*RateLimiterService)(nil)

// NewRateLimiterService cria uma nova instância do serviço.
func NewRateLimiterService(storage ports.CounterStore, logger *zap.Logger) (*RateLimiterService, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RateLimiterService{storage: storage, logger: logger}, nil
}

// Evaluate decide se a requisição pode seguir. Falhas do store nunca
// produzem Deny: são registradas e a requisição é liberada.
func (s *RateLimiterService) Evaluate(ctx context.Context, id domain.ClientIdentifier) domain.Decision {
	key := string(id)

	current, found, err := s.storage.Get(ctx, key)
	if err != nil {
		s.logFailure("get", key, err)
		found = false
	}

	switch {
	case !found:
		if err := s.storage.SetWithExpiry(ctx, key, domain.InitialCount, domain.Window); err != nil {
			s.logFailure("set", key, err)
		}
		return domain.Allow
	case current < domain.Threshold:
		if _, err := s.storage.Increment(ctx, key); err != nil {
			s.logFailure("increment", key, err)
		}
		return domain.Allow
	default:
		s.logger.Debug("rate limit exceeded",
			zap.String("key", key),
			zap.Int64("current", current))
		return domain.Deny
	}
}

func (s *RateLimiterService) logFailure(op, key string, err error) {
	s.logger.Error("counter store operation failed, allowing request",
		zap.String("op", op),
		zap.String("key", key),
		zap.String("error_kind", domain.ErrorKind(err)),
		zap.Error(err))
}
