package service

import (
	"context"
	"errors"

	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/core/ports"
)

func requireSession(actor domain.Session) error {
	if !actor.SignedIn() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// lookupAdmin reads the admin set directly; the result is never cached.
func lookupAdmin(ctx context.Context, store ports.DocumentStore, uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	if _, err := store.Get(ctx, adminsCollection(), uid); err != nil {
		if errors.Is(err, ports.ErrNoDocument) {
			return false, nil
		}
		return false, domain.NewProviderError("check admin", err)
	}
	return true, nil
}

// ownerOrAdmin re-verifies at call time that actor owns the record or is
// currently an admin.
func ownerOrAdmin(ctx context.Context, store ports.DocumentStore, actor domain.Session, ownerUID string) (bool, error) {
	if actor.UID() != "" && actor.UID() == ownerUID {
		return true, nil
	}
	return lookupAdmin(ctx, store, actor.UID())
}
