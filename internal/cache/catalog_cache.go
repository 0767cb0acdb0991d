package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/bayuahr/storefront-admin/internal/models"
)

const catalogRowsKey = "catalog:rows"

// CatalogCache caches the flattened catalog row view in Redis. The flattened
// view is rebuilt from the product collection on every miss and invalidated
// by any bulk import or delete. Cache failures are logged and treated as
// misses so the store stays the source of truth.
type CatalogCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewCatalogCache creates a CatalogCache with the given row TTL.
func NewCatalogCache(redis *RedisClient, ttl time.Duration) *CatalogCache {
	return &CatalogCache{redis: redis, ttl: ttl}
}

// GetRows returns the cached flattened rows, or (nil, false) on a miss.
func (c *CatalogCache) GetRows(ctx context.Context) ([]models.CatalogRow, bool) {
	raw, err := c.redis.Get(ctx, catalogRowsKey)
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("catalog cache read failed")
		}
		return nil, false
	}

	var rows []models.CatalogRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		log.Warn().Err(err).Msg("catalog cache entry corrupt, dropping")
		_ = c.redis.Delete(ctx, catalogRowsKey)
		return nil, false
	}
	return rows, true
}

// SetRows stores the flattened rows with the configured TTL.
func (c *CatalogCache) SetRows(ctx context.Context, rows []models.CatalogRow) {
	b, err := json.Marshal(rows)
	if err != nil {
		log.Warn().Err(err).Msg("catalog cache encode failed")
		return
	}
	if err := c.redis.Set(ctx, catalogRowsKey, string(b), c.ttl); err != nil {
		log.Warn().Err(err).Msg("catalog cache write failed")
	}
}

// Invalidate drops the cached row view.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if err := c.redis.Delete(ctx, catalogRowsKey); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
