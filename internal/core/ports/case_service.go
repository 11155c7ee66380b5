package ports

import (
	"context"

	"github.com/tenderdesk/caseforum/internal/core/domain"
)

// CreateCaseInput carries the submission form.
type CreateCaseInput struct {
	Title   string
	Stage   domain.Stage
	Summary string
	Details string
}

// CaseService defines use-case operations for cases.
type CaseService interface {
	// ListCases returns cases newest-update first. An empty stage lists all.
	ListCases(ctx context.Context, stage domain.Stage) ([]domain.Case, error)
	GetCase(ctx context.Context, id string) (*domain.Case, error)
	CreateCase(ctx context.Context, actor domain.Session, input CreateCaseInput) (string, error)
	UpdateCase(ctx context.Context, actor domain.Session, id string, patch domain.CasePatch) error
	DeleteCase(ctx context.Context, actor domain.Session, id string) error
}
