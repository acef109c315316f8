// Package router monta as rotas HTTP da aplicação.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	httpHandlers "github.com/JeanGrijp/products-rate-limiter/internal/adapters/http/handlers"
	httpMiddleware "github.com/JeanGrijp/products-rate-limiter/internal/adapters/http/middleware"
	"github.com/JeanGrijp/products-rate-limiter/internal/core/ports"
)

type Deps struct {
	Limiter      ports.RateLimiter
	Health       ports.HealthChecker
	Logger       *zap.Logger
	APIKeyHeader string
}

func New(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(httpMiddleware.RequestID)
	r.Use(httpMiddleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", httpHandlers.NewHealthHandler(deps.Health))

	r.Group(func(r chi.Router) {
		r.Use(httpMiddleware.NewRateLimiterMiddleware(deps.Limiter, logger,
			httpMiddleware.WithHeader(deps.APIKeyHeader)))
		r.Get("/products", httpHandlers.ProductsHandler)
	})

	return r
}
