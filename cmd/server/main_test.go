package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	memorystorage "github.com/JeanGrijp/products-rate-limiter/internal/adapters/storage/memory"
	"github.com/JeanGrijp/products-rate-limiter/internal/config"
)

func TestInitStorage_Memory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage, err := initStorage(ctx, config.StorageConfig{Type: config.StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &memorystorage.Storage{}, storage)
	assert.NoError(t, storage.Ping(ctx))
	assert.NoError(t, storage.Close())
}

func TestInitStorage_Unsupported(t *testing.T) {
	_, err := initStorage(context.Background(), config.StorageConfig{Type: "etcd"})
	require.Error(t, err)
}

func TestInitStorage_RedisUnreachable(t *testing.T) {
	_, err := initStorage(context.Background(), config.StorageConfig{
		Type:  config.StorageRedis,
		Redis: config.RedisConfig{Host: "127.0.0.1", Port: 1},
	})
	require.Error(t, err)
}

func TestRun_ReturnsStorageError(t *testing.T) {
	cfg := config.Config{Storage: config.StorageConfig{Type: "etcd"}}

	err := run(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "etcd")
}
