package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// MemoryLimiter keeps its windows in process memory. Counts are not shared
// between replicas.
type MemoryLimiter struct {
	limiter *limiter.Limiter
}

func NewMemoryLimiter(limit int, window time.Duration) (*MemoryLimiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, ErrInvalidLimit
	}
	rate := limiter.Rate{Period: window, Limit: int64(limit)}
	return &MemoryLimiter{limiter: limiter.New(memory.NewStore(), rate)}, nil
}

func (m *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	lctx, err := m.limiter.Get(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("checking rate limit: %w", err)
	}
	return Result{
		Allowed:   !lctx.Reached,
		Limit:     lctx.Limit,
		Remaining: lctx.Remaining,
		Reset:     time.Unix(lctx.Reset, 0),
	}, nil
}
