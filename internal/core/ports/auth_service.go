package ports

import (
	"context"

	"github.com/tenderdesk/caseforum/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, displayName, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Verify parses a token and returns its user. Revoked or expired tokens
	// fail with domain.ErrInvalidCredentials.
	Verify(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}
