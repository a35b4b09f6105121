package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	r := redis.NewClient(&redis.Options{Addr: addr})
	_ = r.WithTimeout(2 * time.Second)
	return r
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// Cache is a thin best-effort wrapper. Misses and redis errors look the same
// to callers; the database stays the source of truth.
type Cache struct {
	C *redis.Client
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	s, err := c.C.Get(ctx, key).Result()
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	_ = c.C.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Del(ctx context.Context, key string) {
	_ = c.C.Del(ctx, key).Err()
}
