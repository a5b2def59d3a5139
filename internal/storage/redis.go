package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CatalogCache is a read-through TTL cache for catalog queries. The
// catalog is effectively immutable during a session, so staleness within
// the TTL window is acceptable.
type CatalogCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{Client: client, TTL: ttl}
}

func (c *CatalogCache) SearchKey(area, cuisine string) string {
	return "catalog:search:" + strings.ToLower(area) + ":" + strings.ToLower(cuisine)
}

func (c *CatalogCache) MenuKey(restaurantID int) string {
	return "catalog:menu:" + strconv.Itoa(restaurantID)
}

// Get unmarshals the cached value into dest and reports whether the key
// was present. A missing key is not an error.
func (c *CatalogCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *CatalogCache) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, payload, c.TTL).Err()
}
