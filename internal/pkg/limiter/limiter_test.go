package limiter

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l, err := NewLimiter(client)
	require.NoError(t, err)

	ctx := context.Background()
	limit := redis_rate.PerMinute(2)

	require.NoError(t, l.Allow(ctx, "signin:a@b.c", limit))
	require.NoError(t, l.Allow(ctx, "signin:a@b.c", limit))
	assert.ErrorIs(t, l.Allow(ctx, "signin:a@b.c", limit), ErrRateLimited)

	// other keys have their own budget
	assert.NoError(t, l.Allow(ctx, "signin:x@y.z", limit))

	require.NoError(t, l.Reset(ctx, "signin:a@b.c"))
	assert.NoError(t, l.Allow(ctx, "signin:a@b.c", limit))
}
