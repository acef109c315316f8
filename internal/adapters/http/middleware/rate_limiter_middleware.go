// Package middleware disponibiliza middlewares HTTP específicos da aplicação.
package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/JeanGrijp/products-rate-limiter/internal/core/domain"
	"github.com/JeanGrijp/products-rate-limiter/internal/core/ports"
)

const DefaultAPIKeyHeader = "api-key"

type rateLimiterOptions struct {
	header string
}

type Option func(*rateLimiterOptions)

// WithHeader define o header que carrega o identificador do cliente.
func WithHeader(name string) Option {
	return func(o *rateLimiterOptions) {
		if strings.TrimSpace(name) != "" {
			o.header = name
		}
	}
}

func NewRateLimiterMiddleware(limiter ports.RateLimiter, logger *zap.Logger, opts ...Option) func(http.Handler) http.Handler {
	cfg := rateLimiterOptions{header: DefaultAPIKeyHeader}
	for _, opt := range opts {
		opt(&cfg)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := strings.TrimSpace(r.Header.Get(cfg.header))
			if apiKey == "" {
				http.Error(w, "missing "+cfg.header+" header", http.StatusBadRequest)
				return
			}

			if limiter.Evaluate(r.Context(), domain.ClientIdentifier(apiKey)) == domain.Deny {
				logger.Info("request throttled",
					zap.String("key", apiKey),
					zap.String("path", r.URL.Path),
					zap.String("request_id", GetRequestID(r.Context())))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
