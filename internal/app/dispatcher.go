// Package app drives the client: it dispatches structured actions to the
// domain services and keeps the shell state (location, session, render
// generation and local edits) for a presenter.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/core/ports"
	"github.com/tenderdesk/caseforum/internal/router"
	"github.com/tenderdesk/caseforum/internal/view"
)

// Outcome tells the caller what to show after a successful action.
type Outcome struct {
	Redirect string `json:"redirect,omitempty"`
	Rerender bool   `json:"rerender"`
}

// Dispatcher executes view actions against the domain services. It holds no
// session state: the actor is passed in on every call.
type Dispatcher struct {
	cases    ports.CaseService
	comments ports.CommentService
	admins   ports.AdminService
	logger   zerolog.Logger
}

func NewDispatcher(cases ports.CaseService, comments ports.CommentService, admins ports.AdminService, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{cases: cases, comments: comments, admins: admins, logger: logger}
}

// Dispatch runs action on behalf of session. input holds submitted form
// values keyed by field name.
func (d *Dispatcher) Dispatch(ctx context.Context, session domain.Session, action view.Action, input view.Input) (Outcome, error) {
	rerender := Outcome{Rerender: true}

	switch action.Type {
	case view.ActionCreateCase:
		if !session.SignedIn() {
			return Outcome{}, domain.ErrUnauthenticated
		}
		stage, err := domain.ParseStage(input.Get("stage"))
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: select a stage", domain.ErrInvalidInput)
		}
		id, err := d.cases.CreateCase(ctx, session, ports.CreateCaseInput{
			Title:   input.Get("title"),
			Stage:   stage,
			Summary: input.Get("summary"),
			Details: input.Get("details"),
		})
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Redirect: router.CaseLocation(id)}, nil

	case view.ActionSaveCase:
		var patch domain.CasePatch
		if v, ok := input[view.FieldSummary]; ok {
			patch.Summary = &v
		}
		if v, ok := input[view.FieldDetails]; ok {
			patch.Details = &v
		}
		return settle(rerender, d.cases.UpdateCase(ctx, session, action.CaseID, patch))

	case view.ActionDeleteCase:
		if err := d.cases.DeleteCase(ctx, session, action.CaseID); err != nil {
			return Outcome{}, err
		}
		return Outcome{Redirect: router.LibraryLocation}, nil

	case view.ActionAddComment:
		_, err := d.comments.AddComment(ctx, session, action.CaseID, input.Get("text"))
		return settle(rerender, err)

	case view.ActionHideComment, view.ActionUnhideComment:
		hidden := action.Type == view.ActionHideComment
		return settle(rerender, d.comments.SetCommentHidden(ctx, session, action.CaseID, action.CommentID, hidden))

	case view.ActionDeleteComment:
		return settle(rerender, d.comments.DeleteComment(ctx, session, action.CaseID, action.CommentID))

	case view.ActionAddAdmin:
		uid := action.UID
		if uid == "" {
			uid = input.Get("uid")
		}
		return settle(rerender, d.admins.AddAdmin(ctx, session, uid))

	case view.ActionRemoveAdmin:
		return settle(rerender, d.admins.RemoveAdmin(ctx, session, action.UID))

	case view.ActionToggleEdit, view.ActionSignIn, view.ActionSignOut:
		return Outcome{}, fmt.Errorf("%w: %s is handled by the client", domain.ErrInvalidInput, action.Type)
	}

	d.logger.Warn().Str("action", string(action.Type)).Msg("unknown action")
	return Outcome{}, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, action.Type)
}

func settle(o Outcome, err error) (Outcome, error) {
	if err != nil {
		return Outcome{}, err
	}
	return o, nil
}

var noticePrefixes = map[view.ActionType]string{
	view.ActionCreateCase: "Could not save: ",
	view.ActionSaveCase:   "Save failed: ",
	view.ActionDeleteCase: "Delete failed: ",
	view.ActionAddComment: "Could not add comment: ",
}

// FailureNotice is the blocking message shown when action fails.
func FailureNotice(action view.Action, err error) string {
	return noticePrefixes[action.Type] + err.Error()
}
