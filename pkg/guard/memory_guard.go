package guard

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryGuard is the single-instance fallback when Redis is not
// configured. go-cache's Add is atomic under its internal lock.
type MemoryGuard struct {
	cache *gocache.Cache
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{
		cache: gocache.New(gocache.NoExpiration, time.Minute),
	}
}

var _ SessionGuard = &MemoryGuard{}

func (g *MemoryGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := g.cache.Add(key, struct{}{}, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

func (g *MemoryGuard) Release(ctx context.Context, key string) error {
	g.cache.Delete(key)
	return nil
}
