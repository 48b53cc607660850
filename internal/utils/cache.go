package utils

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL bounds how stale a cached document may get; writers
// invalidate eagerly, so this only matters for out-of-band changes.
const DefaultCacheTTL = 30 * time.Second

// FetchJSON loads the value stored at key into v. The boolean reports
// whether the key was present; a miss is not an error.
func FetchJSON(ctx context.Context, client *redis.Client, key string, v any) (bool, error) {
	data, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

func CacheJSON(ctx context.Context, client *redis.Client, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, ttl).Err()
}

func InvalidateCache(ctx context.Context, client *redis.Client, key string) error {
	return client.Del(ctx, key).Err()
}
