package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shos/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// BundleKey is the redis key holding the serialized product bundle
	BundleKey = "catalog:bundle"
	// GenerationKey counts catalog writes; a bundle is only stored for the generation it was loaded under
	GenerationKey = "catalog:bundle:generation"
)

// BundleCache caches the aggregate catalog read.
// Callers read Generation before loading from the store and pass it to Set,
// so a load that overlaps a write is never cached.
type BundleCache interface {
	Get(ctx context.Context) (*domain.ProductBundle, bool)
	Generation(ctx context.Context) (int64, bool)
	Set(ctx context.Context, bundle *domain.ProductBundle, generation int64)
	Invalidate(ctx context.Context)
}

var errStaleBundle = errors.New("bundle generation changed")

type redisBundleCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisBundleCache creates a redis-backed bundle cache.
// Redis errors are logged and treated as cache misses.
func NewRedisBundleCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) BundleCache {
	return &redisBundleCache{client: client, ttl: ttl, logger: logger}
}

func (c *redisBundleCache) Get(ctx context.Context) (*domain.ProductBundle, bool) {
	data, err := c.client.Get(ctx, BundleKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Failed to read bundle cache", zap.Error(err))
		}
		return nil, false
	}

	var bundle domain.ProductBundle
	if err := json.Unmarshal(data, &bundle); err != nil || bundle.Product == nil {
		c.logger.Warn("Discarding corrupt bundle cache entry", zap.Error(err))
		c.client.Del(ctx, BundleKey)
		return nil, false
	}

	return &bundle, true
}

func (c *redisBundleCache) Generation(ctx context.Context) (int64, bool) {
	generation, err := c.client.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.logger.Warn("Failed to read bundle cache generation", zap.Error(err))
		return 0, false
	}
	return generation, true
}

func (c *redisBundleCache) Set(ctx context.Context, bundle *domain.ProductBundle, generation int64) {
	data, err := json.Marshal(bundle)
	if err != nil {
		c.logger.Error("Failed to encode bundle for cache", zap.Error(err))
		return
	}

	// EXEC aborts when a write bumps the generation after WATCH
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, GenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleBundle
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, BundleKey, data, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleBundle), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("Skipped caching bundle loaded before a write", zap.Int64("generation", generation))
	default:
		c.logger.Warn("Failed to write bundle cache", zap.Error(err))
	}
}

func (c *redisBundleCache) Invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, BundleKey)
		return nil
	})
	if err != nil {
		c.logger.Warn("Failed to invalidate bundle cache", zap.Error(err))
	}
}

type noopBundleCache struct{}

// NewNoopBundleCache returns a cache that never stores anything
func NewNoopBundleCache() BundleCache {
	return noopBundleCache{}
}

func (noopBundleCache) Get(context.Context) (*domain.ProductBundle, bool) { return nil, false }
func (noopBundleCache) Generation(context.Context) (int64, bool)          { return 0, false }
func (noopBundleCache) Set(context.Context, *domain.ProductBundle, int64) {}
func (noopBundleCache) Invalidate(context.Context)                        {}
