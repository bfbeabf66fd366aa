package middleware

import (
	"log/slog"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "taskboard.com/taskboard/internal/errors"
	"taskboard.com/taskboard/internal/ratelimit"
)

// RateLimiter rejects clients that exceed the limiter's window, keyed by
// client IP. Limiter failures let the request through.
func RateLimiter(limiter ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			res, err := limiter.Allow(ctx, c.RealIP())
			if err != nil {
				slog.WarnContext(ctx, "rate limiter unavailable", "error", err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset.Unix(), 10))

			if !res.Allowed {
				return apperrors.ErrTooManyRequests
			}
			return next(c)
		}
	}
}
