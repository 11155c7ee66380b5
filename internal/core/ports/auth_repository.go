package ports

import (
	"context"

	"github.com/tenderdesk/caseforum/internal/core/domain"
)

// AuthRepository defines the interface for identity-provider account persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUID(ctx context.Context, uid string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// TokenRevoker records tokens invalidated by sign-out.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until int64) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
