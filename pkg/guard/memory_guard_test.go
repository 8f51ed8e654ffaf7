package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuard_FirstAcquirerWins(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "session-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Acquire(ctx, "session-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryGuard_KeysAreIndependent(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	ok, _ := g.Acquire(ctx, "session-1", time.Minute)
	assert.True(t, ok)

	ok, _ = g.Acquire(ctx, "session-2", time.Minute)
	assert.True(t, ok)
}

func TestMemoryGuard_ReleaseAllowsReacquire(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	ok, _ := g.Acquire(ctx, "session-1", time.Minute)
	require.True(t, ok)

	require.NoError(t, g.Release(ctx, "session-1"))

	ok, _ = g.Acquire(ctx, "session-1", time.Minute)
	assert.True(t, ok)
}

func TestMemoryGuard_TTLExpiry(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	ok, _ := g.Acquire(ctx, "session-1", 10*time.Millisecond)
	require.True(t, ok)

	time.Sleep(25 * time.Millisecond)

	ok, _ = g.Acquire(ctx, "session-1", time.Minute)
	assert.True(t, ok)
}
