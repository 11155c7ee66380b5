package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/core/ports"
)

type AdminService struct {
	store  ports.DocumentStore
	logger zerolog.Logger
}

func NewAdminService(store ports.DocumentStore, logger zerolog.Logger) *AdminService {
	return &AdminService{store: store, logger: logger}
}

// ListAdmins returns the admin set sorted by UID.
func (s *AdminService) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	docs, err := s.store.List(ctx, adminsCollection(), ports.Query{})
	if err != nil {
		return nil, domain.NewProviderError("list admins", err)
	}

	admins := make([]domain.Admin, 0, len(docs))
	for _, d := range docs {
		admins = append(admins, domain.Admin{UID: d.ID, IsAdmin: boolField(d.Fields, "isAdmin")})
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].UID < admins[j].UID })
	return admins, nil
}

// AddAdmin grants admin rights to uid. The actor's session flag is trusted.
func (s *AdminService) AddAdmin(ctx context.Context, actor domain.Session, uid string) error {
	if err := requireAdminSession(actor, "add"); err != nil {
		return err
	}
	return s.Grant(ctx, uid)
}

// RemoveAdmin revokes admin rights from uid. The actor's session flag is trusted.
func (s *AdminService) RemoveAdmin(ctx context.Context, actor domain.Session, uid string) error {
	if err := requireAdminSession(actor, "remove"); err != nil {
		return err
	}
	return s.Revoke(ctx, uid)
}

// IsAdmin reports whether uid is in the admin set.
func (s *AdminService) IsAdmin(ctx context.Context, uid string) (bool, error) {
	return lookupAdmin(ctx, s.store, uid)
}

// Grant writes the admin record for uid without any actor check. It backs
// AddAdmin and the out-of-band bootstrap command.
func (s *AdminService) Grant(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return fmt.Errorf("%w: enter a UID", domain.ErrInvalidInput)
	}
	if err := s.store.Set(ctx, adminsCollection(), uid, ports.Fields{"isAdmin": true}); err != nil {
		return domain.NewProviderError("add admin", err)
	}
	s.logger.Info().Str("uid", uid).Msg("admin granted")
	return nil
}

// Revoke deletes the admin record for uid without any actor check.
func (s *AdminService) Revoke(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return fmt.Errorf("%w: enter a UID", domain.ErrInvalidInput)
	}
	if err := s.store.Delete(ctx, adminsCollection(), uid); err != nil {
		return domain.NewProviderError("remove admin", err)
	}
	s.logger.Info().Str("uid", uid).Msg("admin revoked")
	return nil
}

func requireAdminSession(actor domain.Session, verb string) error {
	if err := requireSession(actor); err != nil {
		return err
	}
	if !actor.IsAdmin {
		return fmt.Errorf("%w: only admins can %s admins", domain.ErrForbidden, verb)
	}
	return nil
}
