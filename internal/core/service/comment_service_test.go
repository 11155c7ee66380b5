package service

import (
	"context"
	"testing"
	"time"

	"github.com/tenderdesk/caseforum/internal/core/domain"
)

func TestCommentService_AddTrimsAndStamps(t *testing.T) {
	svc := newServices(newFakeClock(time.Second))
	ctx := context.Background()
	alice := session("u-a", "Alice")
	bob := session("u-b", "Bob")
	caseID := mustCreateCase(t, svc.cases, alice, "Case", domain.StagePreTender)

	id, err := svc.comments.AddComment(ctx, bob, caseID, "  looks late  ")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	comments, _ := svc.comments.ListComments(ctx, caseID)
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	c := comments[0]
	if c.ID != id || c.CaseID != caseID {
		t.Fatalf("unexpected ids %+v", c)
	}
	if c.Text != "looks late" || c.AuthorUID != "u-b" || c.AuthorName != "Bob" || c.Hidden {
		t.Fatalf("unexpected comment %+v", c)
	}
	if c.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt stamped")
	}
}

func TestCommentService_AddValidation(t *testing.T) {
	svc := newServices(nil)
	ctx := context.Background()
	alice := session("u-a", "Alice")

	_, err := svc.comments.AddComment(ctx, domain.Session{}, "any", "hi")
	expectErr(t, err, domain.ErrUnauthenticated)
	if n := svc.store.callCount(); n != 0 {
		t.Fatalf("expected no store calls without session, got %d", n)
	}

	_, err = svc.comments.AddComment(ctx, alice, "any", "   ")
	expectErr(t, err, domain.ErrInvalidInput)

	_, err = svc.comments.AddComment(ctx, alice, "missing-case", "hi")
	expectErr(t, err, domain.ErrMissing)
}

func TestCommentService_ListAscendingIncludesHidden(t *testing.T) {
	svc := newServices(newFakeClock(time.Second))
	ctx := context.Background()
	alice := session("u-a", "Alice")
	caseID := mustCreateCase(t, svc.cases, alice, "Case", domain.StagePreTender)

	var ids []string
	for _, text := range []string{"one", "two", "three"} {
		id, err := svc.comments.AddComment(ctx, alice, caseID, text)
		if err != nil {
			t.Fatalf("AddComment: %v", err)
		}
		ids = append(ids, id)
	}
	if err := svc.comments.SetCommentHidden(ctx, alice, caseID, ids[1], true); err != nil {
		t.Fatalf("SetCommentHidden: %v", err)
	}

	comments, err := svc.comments.ListComments(ctx, caseID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("expected hidden comment included, got %d", len(comments))
	}
	for i, id := range ids {
		if comments[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, comments[i].ID)
		}
	}
	if !comments[1].Hidden || comments[0].Hidden || comments[2].Hidden {
		t.Fatalf("unexpected hidden flags")
	}
}

func TestCommentService_ModerationRequiresAuthorOrAdmin(t *testing.T) {
	svc := newServices(newFakeClock(time.Second))
	ctx := context.Background()
	alice := session("u-a", "Alice")
	bob := session("u-b", "Bob")
	carol := adminSession("u-c", "Carol")
	if err := svc.admins.Grant(ctx, "u-c"); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	caseID := mustCreateCase(t, svc.cases, alice, "Case", domain.StagePreTender)
	id, _ := svc.comments.AddComment(ctx, alice, caseID, "mine")

	err := svc.comments.SetCommentHidden(ctx, bob, caseID, id, true)
	expectErr(t, err, domain.ErrForbidden)
	expectErr(t, svc.comments.DeleteComment(ctx, bob, caseID, id), domain.ErrForbidden)

	if err := svc.comments.SetCommentHidden(ctx, carol, caseID, id, true); err != nil {
		t.Fatalf("admin hide: %v", err)
	}
	if err := svc.comments.SetCommentHidden(ctx, alice, caseID, id, false); err != nil {
		t.Fatalf("author unhide: %v", err)
	}
	if err := svc.comments.DeleteComment(ctx, carol, caseID, id); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	comments, _ := svc.comments.ListComments(ctx, caseID)
	if len(comments) != 0 {
		t.Fatalf("expected comment deleted")
	}
}

func TestCommentService_MissingComment(t *testing.T) {
	svc := newServices(nil)
	ctx := context.Background()
	alice := session("u-a", "Alice")
	caseID := mustCreateCase(t, svc.cases, alice, "Case", domain.StagePreTender)

	if err := svc.comments.DeleteComment(ctx, alice, caseID, "gone"); err != nil {
		t.Fatalf("expected delete of absent comment to succeed, got %v", err)
	}
	expectErr(t, svc.comments.SetCommentHidden(ctx, alice, caseID, "gone", true), domain.ErrMissing)
}
