package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestLogger tags each request with an id and logs its outcome once the
// handler chain returns.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []any{
				"request_id", requestID,
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"latency_ms", time.Since(start).Milliseconds(),
				"client_ip", c.RealIP(),
			}
			if actor := ActorFrom(c); actor != nil {
				attrs = append(attrs, "user_id", actor.ID, "organization_id", actor.OrganizationID)
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}

			ctx := req.Context()
			switch {
			case status >= 500:
				logger.ErrorContext(ctx, "request failed", attrs...)
			case status >= 400:
				logger.WarnContext(ctx, "request error", attrs...)
			default:
				logger.InfoContext(ctx, "request", attrs...)
			}
			return nil
		}
	}
}
