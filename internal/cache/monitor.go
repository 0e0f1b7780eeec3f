package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/keywatch/keywatch/internal/model"
)

const (
	monitorKeyPrefix = "monitor:"

	// DefaultMonitorTTL is the TTL for cached monitor data.
	DefaultMonitorTTL = 10 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

func monitorKey(id string) string {
	return monitorKeyPrefix + id
}

// GetMonitor retrieves a monitor from cache by ID.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetMonitor(ctx context.Context, id string) (*model.Monitor, error) {
	cmd := c.client.HGetAll(ctx, monitorKey(id))

	result, err := cmd.Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	var cached model.CachedMonitor
	if err := cmd.Scan(&cached); err != nil {
		return nil, fmt.Errorf("failed to decode cached monitor: %w", err)
	}

	return cached.ToMonitor(id), nil
}

// SetMonitor stores a monitor in cache.
func (c *Cache) SetMonitor(ctx context.Context, monitor *model.Monitor) error {
	key := monitorKey(monitor.ID)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, monitor.ToCachedMonitor())
	pipe.Expire(ctx, key, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache monitor: %w", err)
	}

	return nil
}

// DeleteMonitor removes a monitor from cache.
func (c *Cache) DeleteMonitor(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, monitorKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete monitor from cache: %w", err)
	}
	return nil
}
