package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/core/ports"
)

type CaseService struct {
	store  ports.DocumentStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewCaseService(store ports.DocumentStore, logger zerolog.Logger) *CaseService {
	return &CaseService{store: store, logger: logger, now: time.Now}
}

// ListCases returns every case, or only those of stage when it is non-empty,
// ordered by most recent update first.
func (s *CaseService) ListCases(ctx context.Context, stage domain.Stage) ([]domain.Case, error) {
	q := ports.Query{OrderBy: "updatedAt", Direction: ports.Descending}
	if stage != "" {
		if !stage.Valid() {
			return nil, fmt.Errorf("%w: unknown stage %q", domain.ErrInvalidInput, stage)
		}
		q.Where = []ports.Condition{{Field: "stage", Value: string(stage)}}
	}

	docs, err := s.store.List(ctx, casesCollection(), q)
	if err != nil {
		return nil, domain.NewProviderError("list cases", err)
	}

	cases := make([]domain.Case, 0, len(docs))
	for _, d := range docs {
		cases = append(cases, caseFromDocument(d))
	}
	return cases, nil
}

// GetCase returns the case with id, or domain.ErrCaseNotFound.
func (s *CaseService) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	if id == "" {
		return nil, domain.ErrCaseNotFound
	}
	doc, err := s.store.Get(ctx, casesCollection(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNoDocument) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, domain.NewProviderError("get case", err)
	}
	c := caseFromDocument(doc)
	return &c, nil
}

// CreateCase stores a new case owned by actor and returns its id.
func (s *CaseService) CreateCase(ctx context.Context, actor domain.Session, input ports.CreateCaseInput) (string, error) {
	if err := requireSession(actor); err != nil {
		return "", err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !input.Stage.Valid() {
		return "", fmt.Errorf("%w: stage must be one of pretender, during, post", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	c := domain.Case{
		Title:     title,
		Stage:     input.Stage,
		Summary:   input.Summary,
		Details:   input.Details,
		OwnerUID:  actor.User.UID,
		OwnerName: actor.User.Label(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.store.Create(ctx, casesCollection(), caseFields(c))
	if err != nil {
		s.logger.Error().Err(err).Str("owner_uid", c.OwnerUID).Msg("failed to create case")
		return "", domain.NewProviderError("create case", err)
	}

	s.logger.Info().Str("case_id", id).Str("stage", string(c.Stage)).Str("owner_uid", c.OwnerUID).Msg("case created")
	return id, nil
}

// UpdateCase merges patch into the case. Only the owner or a current admin
// may update it.
func (s *CaseService) UpdateCase(ctx context.Context, actor domain.Session, id string, patch domain.CasePatch) error {
	if err := requireSession(actor); err != nil {
		return err
	}

	current, err := s.GetCase(ctx, id)
	if err != nil {
		return err
	}

	allowed, err := ownerOrAdmin(ctx, s.store, actor, current.OwnerUID)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: you can only edit your own case", domain.ErrForbidden)
	}

	fields := ports.Fields{"updatedAt": toMillis(s.nextUpdate(current.UpdatedAt))}
	if patch.Summary != nil {
		fields["summary"] = *patch.Summary
	}
	if patch.Details != nil {
		fields["details"] = *patch.Details
	}

	if err := s.store.Update(ctx, casesCollection(), id, fields); err != nil {
		if errors.Is(err, ports.ErrNoDocument) {
			return domain.ErrCaseNotFound
		}
		return domain.NewProviderError("update case", err)
	}

	s.logger.Info().Str("case_id", id).Str("actor_uid", actor.UID()).Msg("case updated")
	return nil
}

// DeleteCase removes the case and, best-effort, its comments. Deleting a case
// that does not exist succeeds.
func (s *CaseService) DeleteCase(ctx context.Context, actor domain.Session, id string) error {
	if err := requireSession(actor); err != nil {
		return err
	}

	current, err := s.GetCase(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCaseNotFound) {
			return nil
		}
		return err
	}

	allowed, err := ownerOrAdmin(ctx, s.store, actor, current.OwnerUID)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: you can only delete your own case", domain.ErrForbidden)
	}

	if err := s.store.Delete(ctx, casesCollection(), id); err != nil {
		return domain.NewProviderError("delete case", err)
	}
	s.deleteComments(ctx, id)

	s.logger.Info().Str("case_id", id).Str("actor_uid", actor.UID()).Msg("case deleted")
	return nil
}

// deleteComments clears the comment sub-collection of a deleted case.
// Failures are logged, not returned: the case itself is already gone.
func (s *CaseService) deleteComments(ctx context.Context, caseID string) {
	docs, err := s.store.List(ctx, commentsCollection(caseID), ports.Query{})
	if err != nil {
		s.logger.Warn().Err(err).Str("case_id", caseID).Msg("failed to list comments of deleted case")
		return
	}
	for _, d := range docs {
		if err := s.store.Delete(ctx, commentsCollection(caseID), d.ID); err != nil {
			s.logger.Warn().Err(err).Str("case_id", caseID).Str("comment_id", d.ID).Msg("failed to delete comment of deleted case")
		}
	}
}

// nextUpdate returns the current time, nudged past prev so that updatedAt
// strictly increases at millisecond resolution.
func (s *CaseService) nextUpdate(prev time.Time) time.Time {
	now := s.now().UTC().Truncate(time.Millisecond)
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}
