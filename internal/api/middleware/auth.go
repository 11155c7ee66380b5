package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tenderdesk/caseforum/internal/core/domain"
)

// Context keys set by the middleware in this package.
const (
	UserKey    = "user"
	TokenKey   = "token"
	SessionKey = "session"
)

// TokenVerifier validates a bearer token, revocation included.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.User, error)
}

// Auth requires a valid, unrevoked bearer token and injects its user.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return authenticate(verifier, true)
}

// OptionalAuth injects the user when a bearer token is present. Requests
// without an Authorization header pass through anonymously; a present but
// invalid token is still rejected.
func OptionalAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return authenticate(verifier, false)
}

func authenticate(verifier TokenVerifier, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if required {
					return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
				}
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := verifier.Verify(c.Request().Context(), parts[1])
			if err != nil {
				var pe *domain.ProviderError
				if errors.As(err, &pe) {
					return err
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(UserKey, user)
			c.Set(TokenKey, parts[1])
			return next(c)
		}
	}
}
