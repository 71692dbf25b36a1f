// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package secrets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultRedisPrefix namespaces secret keys in a shared Redis instance.
const DefaultRedisPrefix = "deploycfg:secret:"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string // Redis server address (host:port)
	Password string // Redis password (optional)
	DB       int    // Redis database number
	Prefix   string // Key prefix, defaults to DefaultRedisPrefix
}

// RedisSource reads secrets shared by a team from Redis.
type RedisSource struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedisSource connects to Redis and verifies the connection with PING.
func NewRedisSource(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) (*RedisSource, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	logger.Debug().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("connected to redis secret store")

	return &RedisSource{client: client, prefix: prefix, logger: logger}, nil
}

// Name implements Source.
func (s *RedisSource) Name() string { return "redis" }

// Lookup implements Source.
func (s *RedisSource) Lookup(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && val == "") {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Put stores a secret. Used by provisioning tooling and tests.
func (s *RedisSource) Put(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

// Close releases the connection pool.
func (s *RedisSource) Close() error {
	return s.client.Close()
}
