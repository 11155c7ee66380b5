package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/tenderdesk/caseforum/internal/core/domain"
)

// AdminLookup reports whether uid is in the admin set.
type AdminLookup interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

// LoadSession derives the request's domain.Session from the authenticated
// user. The admin flag is read from the admin set on every request.
func LoadSession(admins AdminLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := domain.Session{}
			if user, ok := c.Get(UserKey).(*domain.User); ok && user != nil {
				isAdmin, err := admins.IsAdmin(c.Request().Context(), user.UID)
				if err != nil {
					return err
				}
				session = domain.Session{User: user, IsAdmin: isAdmin}
			}
			c.Set(SessionKey, session)
			return next(c)
		}
	}
}

// SessionFrom returns the session injected by LoadSession, or an anonymous
// session.
func SessionFrom(c echo.Context) domain.Session {
	s, _ := c.Get(SessionKey).(domain.Session)
	return s
}
