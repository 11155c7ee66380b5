package ports

import (
	"context"

	"github.com/tenderdesk/caseforum/internal/core/domain"
)

// CommentService defines use-case operations for the comments under a case.
type CommentService interface {
	// ListComments returns comments oldest first, hidden ones included.
	ListComments(ctx context.Context, caseID string) ([]domain.Comment, error)
	AddComment(ctx context.Context, actor domain.Session, caseID, text string) (string, error)
	DeleteComment(ctx context.Context, actor domain.Session, caseID, commentID string) error
	SetCommentHidden(ctx context.Context, actor domain.Session, caseID, commentID string, hidden bool) error
}
