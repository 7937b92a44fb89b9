// internal/workers/enrichment/locate-source/cache.go
package locatesource

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"orion-enrichment/internal/common/database"
	"orion-enrichment/internal/common/errors"
	"orion-enrichment/internal/models"
)

// URLCache remembers which source URL a place resolved to, so repeat
// itineraries skip the search call. Only the discovered URL is cached, never
// scraped data.
type URLCache interface {
	GetURL(ctx context.Context, place models.Place) (string, error)
	SetURL(ctx context.Context, place models.Place, url string) error
}

// RedisURLCache backs URLCache with Redis and a TTL.
type RedisURLCache struct {
	client *database.RedisClient
	ttl    time.Duration
}

func NewRedisURLCache(client *database.RedisClient, ttl time.Duration) *RedisURLCache {
	return &RedisURLCache{client: client, ttl: ttl}
}

func (c *RedisURLCache) GetURL(ctx context.Context, place models.Place) (string, error) {
	val, err := c.client.Get(ctx, cacheKey(place))
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.NewCacheUnavailableError(err)
	}
	return val, nil
}

func (c *RedisURLCache) SetURL(ctx context.Context, place models.Place, url string) error {
	if err := c.client.Set(ctx, cacheKey(place), url, c.ttl); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}

// cacheKey hashes the normalized place identity for a stable, bounded key.
func cacheKey(place models.Place) string {
	normalized := strings.ToLower(strings.TrimSpace(place.Place)) + "|" + strings.ToLower(strings.TrimSpace(place.Note))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("locator:url:%s", hex.EncodeToString(sum[:]))
}
