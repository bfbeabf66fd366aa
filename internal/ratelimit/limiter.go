package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Result describes the window a hit landed in.
type Result struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	Reset     time.Time
}

// Limiter counts hits per key in fixed windows.
type Limiter interface {
	// Allow records one hit for key.
	Allow(ctx context.Context, key string) (Result, error)
}

var ErrInvalidLimit = errors.New("rate limit and window must be positive")

func windowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}
