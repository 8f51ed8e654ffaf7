package guard

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGuard backs the marker with SET NX so suppression holds across
// instances.
type RedisGuard struct {
	client *redis.Client
	prefix string
}

func NewRedisGuard(client *redis.Client, prefix string) *RedisGuard {
	if prefix == "" {
		prefix = "guard"
	}
	return &RedisGuard{
		client: client,
		prefix: prefix,
	}
}

var _ SessionGuard = &RedisGuard{}

func (g *RedisGuard) key(key string) string {
	return g.prefix + ":" + key
}

func (g *RedisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return g.client.SetNX(ctx, g.key(key), 1, ttl).Result()
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, g.key(key)).Err()
}
