package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lifepath/internal/category/models"
)

const groupedKey = "categories:grouped"

// Redis is a Redis-backed cache for distributed deployments where multiple
// instances must see invalidations from each other.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (c *Redis) GetGrouped(ctx context.Context) (models.GroupedCategories, bool, error) {
	raw, err := c.client.Get(ctx, groupedKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", groupedKey, err)
	}

	var grouped models.GroupedCategories
	if err := json.Unmarshal(raw, &grouped); err != nil {
		// A corrupt entry is treated as a miss so the caller refreshes it.
		return nil, false, nil
	}
	return grouped, true, nil
}

func (c *Redis) SetGrouped(ctx context.Context, grouped models.GroupedCategories) error {
	raw, err := json.Marshal(grouped)
	if err != nil {
		return fmt.Errorf("marshal grouped categories: %w", err)
	}
	if err := c.client.Set(ctx, groupedKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", groupedKey, err)
	}
	return nil
}

func (c *Redis) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, groupedKey).Err(); err != nil {
		return fmt.Errorf("del %s: %w", groupedKey, err)
	}
	return nil
}
