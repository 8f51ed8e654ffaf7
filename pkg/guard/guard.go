package guard

import (
	"context"
	"time"
)

// SessionGuard is a TTL-bound mutual exclusion marker keyed by session. It
// suppresses duplicate analysis runs: the first acquirer wins, later
// attempts within the TTL are dropped rather than queued.
type SessionGuard interface {
	// Acquire returns true when the caller obtained the marker. A false
	// return with nil error means another holder is active.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release removes the marker early, before the TTL expires.
	Release(ctx context.Context, key string) error
}
