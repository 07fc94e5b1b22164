package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commune-social/commune/internal/shared"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewLoginLimiter(client, max, window), mr
}

func TestLimiterBlocksAfterThreshold(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(ctx, "ann@x.com", "10.0.0.1"))
		limiter.RecordFailure(ctx, "ann@x.com", "10.0.0.1")
	}

	assert.ErrorIs(t, limiter.Allow(ctx, "ann@x.com", "10.0.0.1"), shared.ErrTooManyAttempts)

	// Other identities and addresses are unaffected.
	assert.NoError(t, limiter.Allow(ctx, "bob@x.com", "10.0.0.1"))
	assert.NoError(t, limiter.Allow(ctx, "ann@x.com", "10.0.0.2"))
}

func TestLimiterResetsOnSuccess(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, 15*time.Minute)
	ctx := context.Background()

	limiter.RecordFailure(ctx, "ann@x.com", "10.0.0.1")
	limiter.RecordFailure(ctx, "ann@x.com", "10.0.0.1")
	require.ErrorIs(t, limiter.Allow(ctx, "ann@x.com", "10.0.0.1"), shared.ErrTooManyAttempts)

	limiter.Reset(ctx, "ann@x.com", "10.0.0.1")
	assert.NoError(t, limiter.Allow(ctx, "ann@x.com", "10.0.0.1"))
}

func TestLimiterWindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	limiter.RecordFailure(ctx, "ann@x.com", "10.0.0.1")
	require.ErrorIs(t, limiter.Allow(ctx, "ann@x.com", "10.0.0.1"), shared.ErrTooManyAttempts)

	mr.FastForward(2 * time.Minute)
	assert.NoError(t, limiter.Allow(ctx, "ann@x.com", "10.0.0.1"))
}

func TestLimiterNilIsNoop(t *testing.T) {
	var limiter *LoginLimiter
	ctx := context.Background()

	assert.NoError(t, limiter.Allow(ctx, "ann@x.com", "10.0.0.1"))
	limiter.RecordFailure(ctx, "ann@x.com", "10.0.0.1")
	limiter.Reset(ctx, "ann@x.com", "10.0.0.1")
}
