package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/stylespizza/pizza-api/internal/models"
)

const (
	pizzaListPrefix = "pizzas:v:"
	versionKey      = "pizzas:version"

	defaultTTL = 5 * time.Minute
)

// PizzaList is a cached page of the public pizza catalog.
type PizzaList struct {
	Pizzas []models.Pizza `json:"pizzas"`
	Total  int64          `json:"total"`
}

// CatalogCache caches pizza list pages in Redis, keyed by a version counter
// that is bumped on every catalog write. A nil *CatalogCache is valid and
// behaves as a cache that never hits, so the catalog works without Redis.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis at addr. It returns nil when addr is empty.
func New(addr string) *CatalogCache {
	if addr == "" {
		return nil
	}
	return &CatalogCache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: defaultTTL,
	}
}

// Close releases the underlying Redis connection.
func (c *CatalogCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// GetPizzaList retrieves a cached pizza list page for the given query key.
func (c *CatalogCache) GetPizzaList(ctx context.Context, key string) (*PizzaList, bool) {
	if c == nil {
		return nil, false
	}

	version, err := c.version(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cached, err := c.rdb.Get(ctx, c.listKey(version, key)).Result()
	if err != nil {
		return nil, false
	}

	var list PizzaList
	if err := json.Unmarshal([]byte(cached), &list); err != nil {
		log.WithError(err).Warn("Failed to unmarshal cached pizza list")
		return nil, false
	}
	return &list, true
}

// SetPizzaList caches a pizza list page under the current catalog version.
func (c *CatalogCache) SetPizzaList(ctx context.Context, key string, list *PizzaList) {
	if c == nil {
		return
	}

	version, err := c.version(ctx)
	if err != nil {
		return
	}
	if version == 0 {
		if err := c.rdb.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return
		}
		version = 1
	}

	payload, err := json.Marshal(list)
	if err != nil {
		log.WithError(err).Warn("Failed to marshal pizza list for cache")
		return
	}

	if err := c.rdb.Set(ctx, c.listKey(version, key), payload, c.ttl).Err(); err != nil {
		log.WithError(err).Warn("Failed to cache pizza list")
	}
}

// Invalidate bumps the catalog version, orphaning every cached page. Called
// after any catalog write.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	newVersion, err := c.rdb.Incr(ctx, versionKey).Result()
	if err != nil {
		log.WithError(err).Error("Failed to invalidate catalog cache")
		return
	}
	log.WithField("new_version", newVersion).Debug("Catalog cache invalidated")
}

func (c *CatalogCache) version(ctx context.Context) (int64, error) {
	version, err := c.rdb.Get(ctx, versionKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return version, err
}

func (c *CatalogCache) listKey(version int64, key string) string {
	return fmt.Sprintf("%s%d:%s", pizzaListPrefix, version, key)
}
