package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JeanGrijp/products-rate-limiter/internal/adapters/http/router"
	memorystorage "github.com/JeanGrijp/products-rate-limiter/internal/adapters/storage/memory"
	redisstorage "github.com/JeanGrijp/products-rate-limiter/internal/adapters/storage/redis"
	"github.com/JeanGrijp/products-rate-limiter/internal/config"
	"github.com/JeanGrijp/products-rate-limiter/internal/core/ports"
	"github.com/JeanGrijp/products-rate-limiter/internal/core/services"
	"github.com/JeanGrijp/products-rate-limiter/internal/observability"
)

type counterStore interface {
	ports.CounterStore
	ports.HealthChecker
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run retorna em vez de encerrar o processo para que os defers de limpeza rodem.
func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := initStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init %s storage: %w", cfg.Storage.Type, err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
	}()

	limiter, err := services.NewRateLimiterService(storage, logger.Named("limiter"))
	if err != nil {
		return fmt.Errorf("create limiter: %w", err)
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router.New(router.Deps{
			Limiter:      limiter,
			Health:       storage,
			Logger:       logger.Named("http"),
			APIKeyHeader: cfg.Server.APIKeyHeader,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage.Type))
		err := srv.ListenAndServe()
		if err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// initStorage cria o store configurado. O janitor do store em memória
// roda até ctx ser cancelado.
func initStorage(ctx context.Context, cfg config.StorageConfig) (counterStore, error) {
	switch cfg.Type {
	case config.StorageRedis:
		storage, err := redisstorage.New(redisstorage.Config{
			Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			PoolSize:     cfg.Redis.PoolSize,
			MaxIdleConns: cfg.Redis.MaxIdleConns,
		})
		if err != nil {
			return nil, err
		}
		return storage, nil
	case config.StorageMemory:
		storage := memorystorage.New()
		storage.StartJanitor(ctx)
		return storage, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
