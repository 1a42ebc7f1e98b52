package interfaces

import (
	"context"

	"github.com/go-redis/redis_rate/v10"
)

// Limiter throttles by key. Allow returns limiter.ErrRateLimited once the
// budget is spent.
type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
	Reset(ctx context.Context, key string) error
}
