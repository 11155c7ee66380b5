package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/core/ports"
	"github.com/tenderdesk/caseforum/internal/infrastructure/db/memory"
)

// recordingStore wraps a DocumentStore, counting calls and optionally
// failing all of them.
type recordingStore struct {
	ports.DocumentStore

	mu    sync.Mutex
	calls []string
	fail  error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{DocumentStore: memory.NewStore()}
}

func (s *recordingStore) record(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, op)
	return s.fail
}

func (s *recordingStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *recordingStore) List(ctx context.Context, coll ports.Collection, q ports.Query) ([]ports.Document, error) {
	if err := s.record("list " + coll.Path()); err != nil {
		return nil, err
	}
	return s.DocumentStore.List(ctx, coll, q)
}

func (s *recordingStore) Get(ctx context.Context, coll ports.Collection, id string) (ports.Document, error) {
	if err := s.record("get " + coll.Path()); err != nil {
		return ports.Document{}, err
	}
	return s.DocumentStore.Get(ctx, coll, id)
}

func (s *recordingStore) Create(ctx context.Context, coll ports.Collection, fields ports.Fields) (string, error) {
	if err := s.record("create " + coll.Path()); err != nil {
		return "", err
	}
	return s.DocumentStore.Create(ctx, coll, fields)
}

func (s *recordingStore) Set(ctx context.Context, coll ports.Collection, id string, fields ports.Fields) error {
	if err := s.record("set " + coll.Path()); err != nil {
		return err
	}
	return s.DocumentStore.Set(ctx, coll, id, fields)
}

func (s *recordingStore) Update(ctx context.Context, coll ports.Collection, id string, patch ports.Fields) error {
	if err := s.record("update " + coll.Path()); err != nil {
		return err
	}
	return s.DocumentStore.Update(ctx, coll, id, patch)
}

func (s *recordingStore) Delete(ctx context.Context, coll ports.Collection, id string) error {
	if err := s.record("delete " + coll.Path()); err != nil {
		return err
	}
	return s.DocumentStore.Delete(ctx, coll, id)
}

// fakeClock advances by step on every reading.
type fakeClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), step: step}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type services struct {
	store    *recordingStore
	cases    *CaseService
	comments *CommentService
	admins   *AdminService
}

func newServices(clock *fakeClock) *services {
	store := newRecordingStore()
	cases := NewCaseService(store, zerolog.Nop())
	comments := NewCommentService(store, zerolog.Nop())
	if clock != nil {
		cases.now = clock.Now
		comments.now = clock.Now
	}
	return &services{
		store:    store,
		cases:    cases,
		comments: comments,
		admins:   NewAdminService(store, zerolog.Nop()),
	}
}

func session(uid, name string) domain.Session {
	return domain.Session{User: &domain.User{UID: uid, DisplayName: name}}
}

func adminSession(uid, name string) domain.Session {
	s := session(uid, name)
	s.IsAdmin = true
	return s
}

func mustCreateCase(t *testing.T, svc *CaseService, actor domain.Session, title string, stage domain.Stage) string {
	t.Helper()
	id, err := svc.CreateCase(context.Background(), actor, ports.CreateCaseInput{Title: title, Stage: stage})
	if err != nil {
		t.Fatalf("CreateCase(%q): %v", title, err)
	}
	return id
}

func expectErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}
