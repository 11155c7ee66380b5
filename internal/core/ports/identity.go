package ports

import (
	"context"

	"github.com/tenderdesk/caseforum/internal/core/domain"
)

// Credentials identify an account at the identity provider.
type Credentials struct {
	Email    string
	Password string
}

// IdentityProvider is the client-side view of the remote identity provider:
// the current user and a subscription to its changes.
type IdentityProvider interface {
	Current() *domain.User
	// OnSessionChange registers fn, invoked with the new user (nil when signed
	// out) after every sign-in, sign-out and restore.
	OnSessionChange(fn func(*domain.User)) (unsubscribe func())
	SignIn(ctx context.Context, creds Credentials) (*domain.User, error)
	SignOut(ctx context.Context) error
	// Restore re-establishes a session from a previously issued token.
	Restore(ctx context.Context, token string) error
}
