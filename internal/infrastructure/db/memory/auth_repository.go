package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/core/ports"
)

var _ ports.AuthRepository = (*AuthRepository)(nil)

// AuthRepository keeps identity-provider accounts in memory. Emails are
// unique, as with the Mongo index.
type AuthRepository struct {
	mu      sync.RWMutex
	byUID   map[string]domain.User
	byEmail map[string]string
}

func NewAuthRepository() *AuthRepository {
	return &AuthRepository{
		byUID:   make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *AuthRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return nil, domain.ErrUserExists
	}
	u := *user
	u.UID = uuid.NewString()
	r.byUID[u.UID] = u
	r.byEmail[u.Email] = u.UID
	return &u, nil
}

func (r *AuthRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uid, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.byUID[uid]
	return &u, nil
}

func (r *AuthRepository) FindByUID(_ context.Context, uid string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byUID[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}
