package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"taskboard.com/taskboard/internal/auth"
	apperrors "taskboard.com/taskboard/internal/errors"
	model "taskboard.com/taskboard/pkg/models"
)

const (
	actorKey  = "actor"
	claimsKey = "claims"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, *auth.Claims, error)
}

// Authenticate resolves the bearer token to the acting user and stores it
// on the context.
func Authenticate(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return apperrors.ErrUnauthenticated
			}

			actor, claims, err := a.Authenticate(c.Request().Context(), strings.TrimSpace(token))
			if err != nil {
				return err
			}

			c.Set(actorKey, actor)
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ActorFrom returns the authenticated user, or nil outside Authenticate.
func ActorFrom(c echo.Context) *model.User {
	actor, _ := c.Get(actorKey).(*model.User)
	return actor
}

func ClaimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}
