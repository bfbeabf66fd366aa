package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// RedisLimiter shares windows between replicas with INCR + EXPIRE.
type RedisLimiter struct {
	client rueidis.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client rueidis.Client, prefix string, limit int, window time.Duration) (*RedisLimiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, ErrInvalidLimit
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}, nil
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	start := windowStart(r.now(), r.window)
	redisKey := fmt.Sprintf("%s:ratelimit:%s:%d", r.prefix, key, start.Unix())

	incr := r.client.B().Incr().Key(redisKey).Build()
	count, err := r.client.Do(ctx, incr).AsInt64()
	if err != nil {
		return Result{}, fmt.Errorf("incrementing rate limit counter: %w", err)
	}

	if count == 1 {
		ttl := int64(r.window / time.Second)
		if ttl < 1 {
			ttl = 1
		}
		expire := r.client.B().Expire().Key(redisKey).Seconds(ttl).Build()
		if err := r.client.Do(ctx, expire).Error(); err != nil {
			return Result{}, fmt.Errorf("setting rate limit expiry: %w", err)
		}
	}

	return result(count, r.limit, start.Add(r.window)), nil
}

func result(count, limit int64, reset time.Time) Result {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		Reset:     reset,
	}
}
