package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore builds the store selected by idempotency.backend.
// When redis is selected but unreachable, development environments fall back
// to the in-memory store; other environments fail.
func NewIdempotencyStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if cfg.Idempotency.Backend != "redis" {
		logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(0), nil
	}

	store, err := NewRedisIdempotencyStore(ctx, &redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err == nil {
		logger.Info("using Redis idempotency store", zap.String("addr", cfg.Redis.Addr()))
		return store, nil
	}
	if !cfg.IsDevelopment() {
		return nil, fmt.Errorf("redis idempotency store unavailable: %w", err)
	}

	logger.Warn("Redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
	return NewInMemoryIdempotencyStore(0), nil
}
