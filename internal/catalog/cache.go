// internal/catalog/cache.go
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	serrors "gridiron-workers/internal/common/errors"
	"gridiron-workers/internal/models"
)

// Cache keeps the raw catalog records in Redis so worker restarts within the
// reference-data horizon (6h by default) skip the Postgres load.
type Cache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

type cachePayload struct {
	Teams   []models.Team   `json:"teams"`
	Players []models.Player `json:"players"`
}

func NewCache(client *redis.Client, key string, ttl time.Duration) *Cache {
	return &Cache{client: client, key: key, ttl: ttl}
}

// Get returns the cached records, or (nil, nil, nil) on a clean miss.
func (c *Cache) Get(ctx context.Context) ([]models.Team, []models.Player, error) {
	raw, err := c.client.Get(ctx, c.key).Result()
	if err == redis.Nil {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, serrors.NewCatalogCacheFailedError(err)
	}

	var payload cachePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		// A corrupt entry behaves like a miss; the store reload overwrites it.
		return nil, nil, nil
	}
	return payload.Teams, payload.Players, nil
}

// Put stores the records with the configured TTL.
func (c *Cache) Put(ctx context.Context, teams []models.Team, players []models.Player) error {
	raw, err := json.Marshal(cachePayload{Teams: teams, Players: players})
	if err != nil {
		return serrors.NewCatalogCacheFailedError(err)
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return serrors.NewCatalogCacheFailedError(err)
	}
	return nil
}
