package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dukapos/dukapos/internal/shared"
)

const cacheVersionKey = "reports:version"

// Cache wraps Redis-based caching of report results with versioning
// controls. A nil Cache (or a Cache with no client) degrades to calling
// the loader directly, so the report endpoints work without Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising it when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Bump invalidates every cached report by incrementing the version. Writers
// call it after a committed sale, expense, movement or debt change; keys
// built under the old version are left to expire with the TTL.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}

// FetchRange loads the cached report for the window or populates it using
// the loader. The key carries the current version, so a Bump routes the
// next read past every stale entry.
func (c *Cache) FetchRange(ctx context.Context, report string, rng Range, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := c.rangeKey(ctx, report, rng)
	if err != nil {
		return err
	}
	return c.FetchJSON(ctx, key, dest, loader)
}

// FetchJSON loads a cached value or populates it using the loader.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("reports: cache loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if err != redis.Nil {
		return err
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *Cache) rangeKey(ctx context.Context, report string, rng Range) (string, error) {
	joined := strings.Join([]string{
		"reports", report,
		rng.From.UTC().Format(shared.TimestampLayout),
		rng.To.UTC().Format(shared.TimestampLayout),
	}, ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", joined, ver), nil
}
