package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/core/ports"
	"github.com/tenderdesk/caseforum/internal/core/service"
	"github.com/tenderdesk/caseforum/internal/infrastructure/db/memory"
	"github.com/tenderdesk/caseforum/internal/router"
	"github.com/tenderdesk/caseforum/internal/view"
)

type recordingPresenter struct {
	mu      sync.Mutex
	pages   []view.Page
	notices []string
	confirm bool
	asked   []string
}

func (p *recordingPresenter) Present(page view.Page) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages = append(p.pages, page)
}

func (p *recordingPresenter) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, message)
}

func (p *recordingPresenter) Confirm(question string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asked = append(p.asked, question)
	return p.confirm
}

func (p *recordingPresenter) last() view.Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pages[len(p.pages)-1]
}

func (p *recordingPresenter) kinds() []view.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]view.Kind, 0, len(p.pages))
	for _, page := range p.pages {
		kinds = append(kinds, page.Kind)
	}
	return kinds
}

// fakeIdentity signs in any email whose account is registered.
type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]*domain.User
	current  *domain.User
	subs     []func(*domain.User)
}

func newFakeIdentity(users ...*domain.User) *fakeIdentity {
	id := &fakeIdentity{accounts: map[string]*domain.User{}}
	for _, u := range users {
		id.accounts[u.Email] = u
	}
	return id
}

func (f *fakeIdentity) Current() *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeIdentity) OnSessionChange(fn func(*domain.User)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {}
}

func (f *fakeIdentity) set(u *domain.User) {
	f.mu.Lock()
	f.current = u
	subs := append([]func(*domain.User){}, f.subs...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(u)
	}
}

func (f *fakeIdentity) SignIn(_ context.Context, creds ports.Credentials) (*domain.User, error) {
	u, ok := f.accounts[creds.Email]
	if !ok {
		return nil, &domain.ProviderError{Op: "sign in", Err: errors.New("auth/user-not-found")}
	}
	f.set(u)
	return u, nil
}

func (f *fakeIdentity) SignOut(context.Context) error {
	f.set(nil)
	return nil
}

func (f *fakeIdentity) Restore(context.Context, string) error {
	return errors.New("not supported")
}

var (
	userA = &domain.User{UID: "u-a", DisplayName: "A", Email: "a@example.com"}
	userB = &domain.User{UID: "u-b", DisplayName: "B", Email: "b@example.com"}
	userC = &domain.User{UID: "u-c", DisplayName: "C", Email: "c@example.com"}
)

type harness struct {
	app       *App
	presenter *recordingPresenter
	identity  *fakeIdentity
	cases     *service.CaseService
	comments  *service.CommentService
	admins    *service.AdminService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	h := &harness{
		presenter: &recordingPresenter{confirm: true},
		identity:  newFakeIdentity(userA, userB, userC),
		cases:     service.NewCaseService(store, zerolog.Nop()),
		comments:  service.NewCommentService(store, zerolog.Nop()),
		admins:    service.NewAdminService(store, zerolog.Nop()),
	}
	require.NoError(t, h.admins.Grant(context.Background(), userC.UID))

	builder := view.NewBuilder(h.cases, h.comments, h.admins)
	dispatcher := NewDispatcher(h.cases, h.comments, h.admins, zerolog.Nop())
	h.app = New(h.identity, h.admins, builder, dispatcher, h.presenter, zerolog.Nop())
	h.app.Start(context.Background(), "")
	return h
}

func (h *harness) signIn(t *testing.T, u *domain.User) {
	t.Helper()
	_, err := h.app.SignIn(context.Background(), ports.Credentials{Email: u.Email})
	require.NoError(t, err)
}

func TestApp_StartRendersLoadingThenHome(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, []view.Kind{view.KindLoading, view.KindHome}, h.presenter.kinds())
	assert.False(t, h.app.Session().SignedIn())
}

func TestApp_SessionChangeRecomputesAdminAndRerenders(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.app.Navigate(ctx, "#/admin")
	assert.Equal(t, "You must be an admin to access this page.", h.presenter.last().Message)

	h.signIn(t, userC)
	assert.True(t, h.app.Session().IsAdmin)
	page := h.presenter.last()
	require.NotNil(t, page.Admin, "admin panel shows without a manual navigation")
	require.NotNil(t, page.Header.AdminLink)

	require.NoError(t, h.app.SignOut(ctx))
	assert.False(t, h.app.Session().IsAdmin)
	assert.Nil(t, h.presenter.last().Admin)
}

func TestApp_SignInFailureNotifies(t *testing.T) {
	h := newHarness(t)
	_, err := h.app.SignIn(context.Background(), ports.Credentials{Email: "ghost@example.com"})
	require.Error(t, err)
	assert.Equal(t, []string{"auth/user-not-found"}, h.presenter.notices)
}

func TestApp_CreateRedirectsToDetail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.signIn(t, userA)
	h.app.Navigate(ctx, "#/new")
	require.NotNil(t, h.presenter.last().Form)

	err := h.app.Perform(ctx, h.presenter.last().Form.Submit, view.Input{"title": "Late bid", "stage": "during"})
	require.NoError(t, err)

	route := router.Parse(h.app.Location())
	require.Equal(t, router.Case, route.Name)
	page := h.presenter.last()
	assert.Equal(t, view.KindCaseDetail, page.Kind)
	assert.Equal(t, "Late bid", page.Heading)
}

func TestApp_CreateWithoutSessionNotifies(t *testing.T) {
	h := newHarness(t)
	err := h.app.Perform(context.Background(), view.Action{Type: view.ActionCreateCase}, view.Input{"title": "x", "stage": "post"})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, []string{"Could not save: please login first"}, h.presenter.notices)
	assert.Equal(t, "#/", h.app.Location())
}

func TestApp_DeleteConfirmsThenRedirectsToLibrary(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.signIn(t, userA)
	id, err := h.cases.CreateCase(ctx, h.app.Session(), ports.CreateCaseInput{Title: "X", Stage: domain.StagePostTender})
	require.NoError(t, err)
	h.app.Navigate(ctx, router.CaseLocation(id))
	del := h.presenter.last().Detail.Actions[0]

	h.presenter.confirm = false
	require.NoError(t, h.app.Perform(ctx, del, nil))
	_, err = h.cases.GetCase(ctx, id)
	require.NoError(t, err, "declined confirmation keeps the case")

	h.presenter.confirm = true
	require.NoError(t, h.app.Perform(ctx, del, nil))
	assert.Equal(t, "#/library", h.app.Location())
	assert.Equal(t, []string{"Delete this case?", "Delete this case?"}, h.presenter.asked)
	_, err = h.cases.GetCase(ctx, id)
	assert.ErrorIs(t, err, domain.ErrMissing)
}

func TestApp_EditIsLocalUntilSave(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.signIn(t, userA)
	id, err := h.cases.CreateCase(ctx, h.app.Session(), ports.CreateCaseInput{Title: "X", Stage: domain.StagePreTender, Summary: "old"})
	require.NoError(t, err)
	h.app.Navigate(ctx, router.CaseLocation(id))

	h.app.ToggleEdit(view.FieldSummary)
	page := h.presenter.last()
	assert.True(t, page.Detail.Summary.Editing)
	assert.Equal(t, "old", page.Detail.Summary.Draft)
	assert.False(t, page.Detail.Details.Editing)

	h.app.SetDraft(view.FieldSummary, "new")
	assert.Equal(t, "new", h.presenter.last().Detail.Summary.Draft)
	stored, _ := h.cases.GetCase(ctx, id)
	assert.Equal(t, "old", stored.Summary, "drafts are not persisted")

	save := h.presenter.last().Detail.Actions[0]
	require.Equal(t, view.ActionSaveCase, save.Type)
	require.NoError(t, h.app.Perform(ctx, save, nil))

	stored, _ = h.cases.GetCase(ctx, id)
	assert.Equal(t, "new", stored.Summary)
	page = h.presenter.last()
	assert.False(t, page.Detail.Summary.Editing)
	assert.Equal(t, "new", page.Detail.Summary.Value)
}

func TestApp_ToggleEditIgnoredWithoutRights(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id, err := h.cases.CreateCase(ctx, domain.Session{User: userA}, ports.CreateCaseInput{Title: "X", Stage: domain.StagePreTender})
	require.NoError(t, err)
	h.signIn(t, userB)
	h.app.Navigate(ctx, router.CaseLocation(id))
	before := len(h.presenter.kinds())

	h.app.ToggleEdit(view.FieldSummary)
	assert.Len(t, h.presenter.kinds(), before)
}

func TestApp_CommentActionsRerender(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.signIn(t, userA)
	id, err := h.cases.CreateCase(ctx, h.app.Session(), ports.CreateCaseInput{Title: "X", Stage: domain.StagePreTender})
	require.NoError(t, err)
	h.app.Navigate(ctx, router.CaseLocation(id))

	submit := h.presenter.last().Detail.Comments.Form.Submit
	require.NoError(t, h.app.Perform(ctx, submit, view.Input{"text": "hello"}))
	comments := h.presenter.last().Detail.Comments.Comments
	require.Len(t, comments, 1)

	require.NoError(t, h.app.Perform(ctx, comments[0].Actions[0], nil))
	hidden := h.presenter.last().Detail.Comments.Comments[0]
	assert.True(t, hidden.Hidden)
	assert.Equal(t, view.ActionUnhideComment, hidden.Actions[0].Type)

	require.NoError(t, h.app.Perform(ctx, hidden.Actions[1], nil))
	assert.Empty(t, h.presenter.last().Detail.Comments.Comments)
}

func TestApp_ForbiddenUpdateIsNotified(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id, err := h.cases.CreateCase(ctx, domain.Session{User: userA}, ports.CreateCaseInput{Title: "X", Stage: domain.StagePreTender})
	require.NoError(t, err)
	h.signIn(t, userB)

	err = h.app.Perform(ctx, view.Action{Type: view.ActionSaveCase, CaseID: id}, view.Input{"summary": "b"})
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.Len(t, h.presenter.notices, 1)
	assert.True(t, strings.HasPrefix(h.presenter.notices[0], "Save failed: "))
}

// gatedBuilder blocks builds of one location until released.
type gatedBuilder struct {
	PageBuilder
	gate     string
	entered  chan struct{}
	released chan struct{}
}

func (g *gatedBuilder) Build(ctx context.Context, route router.Route, session domain.Session) (view.Page, error) {
	if route.Location() == g.gate {
		close(g.entered)
		<-g.released
	}
	return g.PageBuilder.Build(ctx, route, session)
}

func TestApp_StaleRenderIsDiscarded(t *testing.T) {
	store := memory.NewStore()
	cases := service.NewCaseService(store, zerolog.Nop())
	comments := service.NewCommentService(store, zerolog.Nop())
	admins := service.NewAdminService(store, zerolog.Nop())
	builder := &gatedBuilder{
		PageBuilder: view.NewBuilder(cases, comments, admins),
		gate:        "#/all",
		entered:     make(chan struct{}),
		released:    make(chan struct{}),
	}
	presenter := &recordingPresenter{}
	a := New(newFakeIdentity(), admins, builder, NewDispatcher(cases, comments, admins, zerolog.Nop()), presenter, zerolog.Nop())
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		a.Navigate(ctx, "#/all")
		close(done)
	}()
	<-builder.entered

	a.Navigate(ctx, "#/new")
	close(builder.released)
	<-done

	last := presenter.last()
	assert.Equal(t, view.KindNewCase, last.Kind)
	for _, page := range presenter.pages {
		assert.NotEqual(t, view.KindCaseList, page.Kind, "the superseded list must never be presented")
	}
}

type failingBuilder struct{}

func (failingBuilder) Build(context.Context, router.Route, domain.Session) (view.Page, error) {
	return view.Page{}, &domain.ProviderError{Op: "list cases", Err: errors.New("unavailable")}
}

func TestApp_BuildErrorPresentsFailure(t *testing.T) {
	store := memory.NewStore()
	admins := service.NewAdminService(store, zerolog.Nop())
	presenter := &recordingPresenter{}
	a := New(newFakeIdentity(), admins, failingBuilder{}, nil, presenter, zerolog.Nop())

	a.Navigate(context.Background(), "#/all")
	page := presenter.last()
	assert.Equal(t, view.KindFailure, page.Kind)
	assert.Equal(t, "unavailable", page.Failure)
}
