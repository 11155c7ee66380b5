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

type CommentService struct {
	store  ports.DocumentStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewCommentService(store ports.DocumentStore, logger zerolog.Logger) *CommentService {
	return &CommentService{store: store, logger: logger, now: time.Now}
}

// ListComments returns the thread of caseID oldest first. Hidden comments
// are part of the result.
func (s *CommentService) ListComments(ctx context.Context, caseID string) ([]domain.Comment, error) {
	docs, err := s.store.List(ctx, commentsCollection(caseID), ports.Query{
		OrderBy:   "createdAt",
		Direction: ports.Ascending,
	})
	if err != nil {
		return nil, domain.NewProviderError("list comments", err)
	}

	comments := make([]domain.Comment, 0, len(docs))
	for _, d := range docs {
		comments = append(comments, commentFromDocument(caseID, d))
	}
	return comments, nil
}

// AddComment posts trimmed text under caseID and returns the comment id.
func (s *CommentService) AddComment(ctx context.Context, actor domain.Session, caseID, text string) (string, error) {
	if err := requireSession(actor); err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: comment text is required", domain.ErrInvalidInput)
	}

	if _, err := s.store.Get(ctx, casesCollection(), caseID); err != nil {
		if errors.Is(err, ports.ErrNoDocument) {
			return "", domain.ErrCaseNotFound
		}
		return "", domain.NewProviderError("add comment", err)
	}

	c := domain.Comment{
		CaseID:     caseID,
		Text:       text,
		AuthorUID:  actor.User.UID,
		AuthorName: actor.User.Label(),
		CreatedAt:  s.now().UTC(),
	}
	id, err := s.store.Create(ctx, commentsCollection(caseID), commentFields(c))
	if err != nil {
		s.logger.Error().Err(err).Str("case_id", caseID).Msg("failed to add comment")
		return "", domain.NewProviderError("add comment", err)
	}

	s.logger.Info().Str("case_id", caseID).Str("comment_id", id).Str("author_uid", c.AuthorUID).Msg("comment added")
	return id, nil
}

// DeleteComment removes a comment. Only its author or a current admin may
// delete it; deleting an absent comment succeeds.
func (s *CommentService) DeleteComment(ctx context.Context, actor domain.Session, caseID, commentID string) error {
	if err := requireSession(actor); err != nil {
		return err
	}

	current, err := s.getComment(ctx, caseID, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			return nil
		}
		return err
	}
	if err := s.authorize(ctx, actor, current, "delete"); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, commentsCollection(caseID), commentID); err != nil {
		return domain.NewProviderError("delete comment", err)
	}

	s.logger.Info().Str("case_id", caseID).Str("comment_id", commentID).Str("actor_uid", actor.UID()).Msg("comment deleted")
	return nil
}

// SetCommentHidden flips the hidden flag. Same rule as DeleteComment.
func (s *CommentService) SetCommentHidden(ctx context.Context, actor domain.Session, caseID, commentID string, hidden bool) error {
	if err := requireSession(actor); err != nil {
		return err
	}

	current, err := s.getComment(ctx, caseID, commentID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, current, "moderate"); err != nil {
		return err
	}

	if err := s.store.Update(ctx, commentsCollection(caseID), commentID, ports.Fields{"hidden": hidden}); err != nil {
		if errors.Is(err, ports.ErrNoDocument) {
			return domain.ErrCommentNotFound
		}
		return domain.NewProviderError("hide comment", err)
	}

	s.logger.Info().
		Str("case_id", caseID).
		Str("comment_id", commentID).
		Bool("hidden", hidden).
		Str("actor_uid", actor.UID()).
		Msg("comment visibility changed")
	return nil
}

func (s *CommentService) getComment(ctx context.Context, caseID, commentID string) (*domain.Comment, error) {
	if commentID == "" {
		return nil, domain.ErrCommentNotFound
	}
	doc, err := s.store.Get(ctx, commentsCollection(caseID), commentID)
	if err != nil {
		if errors.Is(err, ports.ErrNoDocument) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, domain.NewProviderError("get comment", err)
	}
	c := commentFromDocument(caseID, doc)
	return &c, nil
}

func (s *CommentService) authorize(ctx context.Context, actor domain.Session, c *domain.Comment, verb string) error {
	allowed, err := ownerOrAdmin(ctx, s.store, actor, c.AuthorUID)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: you can only %s your own comment", domain.ErrForbidden, verb)
	}
	return nil
}
