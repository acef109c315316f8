// Package config centraliza o carregamento de configurações da aplicação.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port         string
	APIKeyHeader string
}

type StorageConfig struct {
	Type  string
	Redis RedisConfig
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	PoolSize     int
	MaxIdleConns int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	server := ServerConfig{
		Port:         getEnv("SERVER_PORT", "8080"),
		APIKeyHeader: getEnv("API_KEY_HEADER", "api-key"),
	}

	storageType := strings.ToLower(getEnv("STORAGE_TYPE", StorageRedis))
	if storageType != StorageRedis && storageType != StorageMemory {
		return Config{}, fmt.Errorf("invalid STORAGE_TYPE: %q", storageType)
	}

	redisConfig, err := buildRedisConfig()
	if err != nil {
		return Config{}, err
	}

	logConfig := LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}
	if logConfig.Format != "json" && logConfig.Format != "console" {
		return Config{}, fmt.Errorf("invalid LOG_FORMAT: %q", logConfig.Format)
	}

	return Config{
		Server: server,
		Storage: StorageConfig{
			Type:  storageType,
			Redis: redisConfig,
		},
		Log: logConfig,
	}, nil
}

func buildRedisConfig() (RedisConfig, error) {
	port, err := getEnvInt("REDIS_PORT", 6379)
	if err != nil {
		return RedisConfig{}, err
	}
	db, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return RedisConfig{}, err
	}
	dialMillis, err := getEnvInt("REDIS_DIAL_TIMEOUT_MS", 1000)
	if err != nil {
		return RedisConfig{}, err
	}
	readMillis, err := getEnvInt("REDIS_READ_TIMEOUT_MS", 100)
	if err != nil {
		return RedisConfig{}, err
	}
	poolSize, err := getEnvInt("REDIS_POOL_SIZE", 64)
	if err != nil {
		return RedisConfig{}, err
	}
	maxIdle, err := getEnvInt("REDIS_MAX_IDLE_CONNS", 32)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Host:         getEnv("REDIS_HOST", "localhost"),
		Port:         port,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           db,
		DialTimeout:  time.Duration(dialMillis) * time.Millisecond,
		ReadTimeout:  time.Duration(readMillis) * time.Millisecond,
		PoolSize:     poolSize,
		MaxIdleConns: maxIdle,
	}, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := getEnv(key, strconv.Itoa(fallback))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return value, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
