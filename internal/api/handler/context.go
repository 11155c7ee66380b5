package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/tenderdesk/caseforum/internal/api/middleware"
	"github.com/tenderdesk/caseforum/internal/core/domain"
)

// ctxSession returns the session injected by middleware.LoadSession. Routes
// that require a user fail fast with domain.ErrUnauthenticated before any
// service call.
func ctxSession(c echo.Context, required bool) (domain.Session, error) {
	session := middleware.SessionFrom(c)
	if required && !session.SignedIn() {
		return domain.Session{}, domain.ErrUnauthenticated
	}
	return session, nil
}

// ctxToken returns the raw bearer token set by middleware.Auth.
func ctxToken(c echo.Context) string {
	token, _ := c.Get(middleware.TokenKey).(string)
	return token
}
