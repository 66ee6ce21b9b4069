package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"havenrp-web/pkg/redis"
)

// CacheService provides the JSON cache-aside plumbing the read paths share.
// Cached copies are only ever replaced wholesale after a successful fetch;
// nothing mutates a cached object in place. A nil CacheService disables
// caching entirely, so the app runs without Redis configured.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

// Keys exposes the environment-prefixed key builder
func (c *CacheService) Keys() *redis.KeyBuilder {
	if c == nil || c.redis == nil {
		return redis.NewKeyBuilder("")
	}
	return c.redis.KeyBuilder
}

// GetJSON loads and decodes a cached value into out, reporting whether the
// cache had a usable copy. Cache errors and corrupted entries degrade to a
// miss; the caller falls through to the remote source.
func (c *CacheService) GetJSON(ctx context.Context, key string, out interface{}) bool {
	if c == nil || c.redis == nil {
		return false
	}

	cached, err := c.redis.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			c.logger.Warn("Cache read failed, falling back to remote",
				zap.String("key", key),
				zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), out); err != nil {
		c.logger.Warn("Cache entry corrupted, falling back to remote",
			zap.String("key", key),
			zap.Error(err))
		return false
	}

	return true
}

// SetJSONAsync encodes and stores a value without blocking the request
// path. Failures are logged and otherwise ignored; the cache is an
// optimization, never the source of truth.
func (c *CacheService) SetJSONAsync(key string, value interface{}, ttl time.Duration) {
	if c == nil || c.redis == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		encoded, err := json.Marshal(value)
		if err != nil {
			c.logger.Warn("Failed to encode cache value",
				zap.String("key", key),
				zap.Error(err))
			return
		}

		if err := c.redis.Set(ctx, key, encoded, ttl); err != nil {
			c.logger.Warn("Failed to write cache value",
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}

// Invalidate drops cached copies after a mutation so the next read
// re-fetches from the owning service
func (c *CacheService) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.redis == nil || len(keys) == 0 {
		return
	}

	if err := c.redis.Delete(ctx, keys...); err != nil {
		c.logger.Warn("Cache invalidation failed",
			zap.Int("keys", len(keys)),
			zap.Error(err))
	}
}
