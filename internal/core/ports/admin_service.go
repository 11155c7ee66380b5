package ports

import (
	"context"

	"github.com/tenderdesk/caseforum/internal/core/domain"
)

// AdminService manages the admin set.
type AdminService interface {
	ListAdmins(ctx context.Context) ([]domain.Admin, error)
	// AddAdmin and RemoveAdmin trust the actor's cached admin flag.
	AddAdmin(ctx context.Context, actor domain.Session, uid string) error
	RemoveAdmin(ctx context.Context, actor domain.Session, uid string) error
	IsAdmin(ctx context.Context, uid string) (bool, error)
}
