package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/core/ports"
	"github.com/tenderdesk/caseforum/internal/router"
	"github.com/tenderdesk/caseforum/internal/view"
)

// Presenter shows pages and blocking notices.
type Presenter interface {
	Present(page view.Page)
	Notify(message string)
}

// Confirmer is implemented by presenters that can ask a yes/no question
// before a destructive action. Without it actions run unconfirmed.
type Confirmer interface {
	Confirm(question string) bool
}

// PageBuilder builds the page of a route.
type PageBuilder interface {
	Build(ctx context.Context, route router.Route, session domain.Session) (view.Page, error)
}

// App is the client shell. All methods are safe for concurrent use; renders
// that overlap are resolved by generation, the latest one wins.
type App struct {
	identity   ports.IdentityProvider
	admins     ports.AdminService
	builder    PageBuilder
	dispatcher *Dispatcher
	presenter  Presenter
	logger     zerolog.Logger

	mu          sync.Mutex
	ctx         context.Context
	location    string
	session     domain.Session
	generation  uint64
	page        view.Page
	pageGen     uint64
	edits       view.Edits
	unsubscribe func()

	presentMu sync.Mutex
}

func New(identity ports.IdentityProvider, admins ports.AdminService, builder PageBuilder, dispatcher *Dispatcher, presenter Presenter, logger zerolog.Logger) *App {
	return &App{
		identity:   identity,
		admins:     admins,
		builder:    builder,
		dispatcher: dispatcher,
		presenter:  presenter,
		logger:     logger,
		ctx:        context.Background(),
		location:   "#/",
		edits:      view.Edits{},
	}
}

// Start subscribes to session changes and renders the initial location.
// ctx bounds the work triggered by later session changes.
func (a *App) Start(ctx context.Context, location string) {
	a.mu.Lock()
	a.ctx = ctx
	if location != "" {
		a.location = location
	}
	a.mu.Unlock()

	unsubscribe := a.identity.OnSessionChange(func(u *domain.User) {
		a.mu.Lock()
		base := a.ctx
		a.mu.Unlock()
		a.refreshSession(base, u)
		a.Render(base)
	})
	a.mu.Lock()
	a.unsubscribe = unsubscribe
	a.mu.Unlock()

	a.refreshSession(ctx, a.identity.Current())
	a.Render(ctx)
}

// Stop detaches from the identity provider.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Session returns the current session context.
func (a *App) Session() domain.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Location returns the current location.
func (a *App) Location() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.location
}

// refreshSession recomputes the admin flag for u. A failed lookup counts as
// not admin.
func (a *App) refreshSession(ctx context.Context, u *domain.User) {
	session := domain.Session{User: u}
	if u != nil {
		isAdmin, err := a.admins.IsAdmin(ctx, u.UID)
		if err != nil {
			a.logger.Warn().Err(err).Str("uid", u.UID).Msg("admin lookup failed")
		}
		session.IsAdmin = isAdmin && err == nil
	}

	a.mu.Lock()
	a.session = session
	a.edits = view.Edits{}
	a.mu.Unlock()
}

// Navigate moves to location and renders it. Local edits are dropped.
func (a *App) Navigate(ctx context.Context, location string) {
	a.mu.Lock()
	a.location = location
	a.edits = view.Edits{}
	a.mu.Unlock()
	a.Render(ctx)
}

// Render presents a loading page, builds the current location and presents
// the result, unless a newer render started in the meantime.
func (a *App) Render(ctx context.Context) {
	a.mu.Lock()
	a.generation++
	gen := a.generation
	route := router.Parse(a.location)
	session := a.session
	a.mu.Unlock()

	a.present(gen, view.Loading(route, session), false)

	page, err := a.builder.Build(ctx, route, session)
	if err != nil {
		a.logger.Error().Err(err).Str("route", string(route.Name)).Msg("render failed")
		page = view.Failure(route, session, err)
	}
	a.present(gen, page, true)
}

// present hands page to the presenter if gen is still current. Built pages
// are kept so local edits can be shown without refetching.
func (a *App) present(gen uint64, page view.Page, built bool) bool {
	a.presentMu.Lock()
	defer a.presentMu.Unlock()

	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		a.logger.Debug().Uint64("generation", gen).Msg("discarding stale render")
		return false
	}
	if built {
		a.page = page
		a.pageGen = gen
	}
	out := page.WithEdits(a.edits)
	a.mu.Unlock()

	a.presenter.Present(out)
	return true
}

// representEdits shows the last built page again with the current edits.
func (a *App) representEdits() {
	a.mu.Lock()
	gen, page := a.pageGen, a.page
	a.mu.Unlock()
	a.present(gen, page, true)
}

// ToggleEdit swaps field between its read and edit representation. Entering
// edit mode starts the draft from the stored value.
func (a *App) ToggleEdit(field string) {
	a.mu.Lock()
	detail := a.page.Detail
	if a.pageGen != a.generation || detail == nil || detail.Field(field) == nil || !detail.Field(field).Editable {
		a.mu.Unlock()
		return
	}
	e := a.edits[field]
	if e.Editing {
		delete(a.edits, field)
	} else {
		a.edits[field] = view.FieldEdit{Editing: true, Draft: detail.Field(field).Value}
	}
	a.mu.Unlock()

	a.representEdits()
}

// SetDraft records unsaved text for a field in edit mode.
func (a *App) SetDraft(field, text string) {
	a.mu.Lock()
	e, ok := a.edits[field]
	if !ok || !e.Editing {
		a.mu.Unlock()
		return
	}
	e.Draft = text
	a.edits[field] = e
	a.mu.Unlock()

	a.representEdits()
}

// draftInput returns the drafts of the fields in edit mode.
func (a *App) draftInput() view.Input {
	a.mu.Lock()
	defer a.mu.Unlock()
	in := view.Input{}
	for name, e := range a.edits {
		if e.Editing {
			in[name] = e.Draft
		}
	}
	return in
}

// Perform runs action. Failures are reported through the presenter and
// returned. Destructive actions are confirmed first when the presenter can
// ask; a declined confirmation is not an error.
func (a *App) Perform(ctx context.Context, action view.Action, input view.Input) error {
	if action.Confirm != "" {
		if c, ok := a.presenter.(Confirmer); ok && !c.Confirm(action.Confirm) {
			return nil
		}
	}

	switch action.Type {
	case view.ActionToggleEdit:
		a.ToggleEdit(action.Field)
		return nil
	case view.ActionSignIn:
		_, err := a.SignIn(ctx, ports.Credentials{Email: input.Get("email"), Password: input.Get("password")})
		return err
	case view.ActionSignOut:
		return a.SignOut(ctx)
	case view.ActionSaveCase:
		if input == nil {
			input = a.draftInput()
		}
	}

	outcome, err := a.dispatcher.Dispatch(ctx, a.Session(), action, input)
	if err != nil {
		a.presenter.Notify(FailureNotice(action, err))
		return err
	}

	switch {
	case outcome.Redirect != "":
		a.Navigate(ctx, outcome.Redirect)
	case outcome.Rerender:
		if action.Type == view.ActionSaveCase {
			a.mu.Lock()
			a.edits = view.Edits{}
			a.mu.Unlock()
		}
		a.Render(ctx)
	}
	return nil
}

// SignIn signs in through the identity provider. The session change it
// causes re-renders the current location.
func (a *App) SignIn(ctx context.Context, creds ports.Credentials) (*domain.User, error) {
	user, err := a.identity.SignIn(ctx, creds)
	if err != nil {
		a.presenter.Notify(err.Error())
		return nil, err
	}
	return user, nil
}

// SignOut signs out through the identity provider.
func (a *App) SignOut(ctx context.Context) error {
	if err := a.identity.SignOut(ctx); err != nil {
		a.presenter.Notify(err.Error())
		return err
	}
	return nil
}
