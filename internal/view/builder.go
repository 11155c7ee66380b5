package view

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/core/ports"
	"github.com/tenderdesk/caseforum/internal/router"
)

const defaultThreadLimit = 8

// Builder turns a route and a session into a Page. Its output depends only
// on its inputs, the fetched data and the clock.
type Builder struct {
	cases       ports.CaseService
	comments    ports.CommentService
	admins      ports.AdminService
	now         func() time.Time
	threadLimit int
}

func NewBuilder(cases ports.CaseService, comments ports.CommentService, admins ports.AdminService) *Builder {
	return &Builder{
		cases:       cases,
		comments:    comments,
		admins:      admins,
		now:         time.Now,
		threadLimit: defaultThreadLimit,
	}
}

// WithClock replaces the clock used for relative ages.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build fetches what route needs and returns its page. Records that do not
// exist produce a not-found page; backend failures are returned.
func (b *Builder) Build(ctx context.Context, route router.Route, session domain.Session) (Page, error) {
	page := newPage(route, session)
	now := b.now()

	var err error
	switch route.Name {
	case router.Home:
		page.Kind = KindHome
		page.Home = home(session)
	case router.All, router.Library:
		err = b.caseList(ctx, &page, session, "", now)
	case router.Category:
		err = b.caseList(ctx, &page, session, route.Stage, now)
	case router.NewCase:
		page.Kind = KindNewCase
		if session.SignedIn() {
			page.Form = caseForm()
		} else {
			page.Message = "Please Login first to submit a case."
		}
	case router.Case:
		err = b.caseDetail(ctx, &page, session, route.CaseID, now)
	case router.Admin:
		err = b.adminPanel(ctx, &page, session)
	default:
		page.Kind = KindNotFound
		page.Message = "Page not found."
	}
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

// Loading is the placeholder shown while Build runs.
func Loading(route router.Route, session domain.Session) Page {
	page := newPage(route, session)
	page.Kind = KindLoading
	page.Message = "Loading…"
	return page
}

// Failure replaces a page whose data could not be fetched.
func Failure(route router.Route, session domain.Session, err error) Page {
	page := newPage(route, session)
	page.Kind = KindFailure
	page.Message = "Something went wrong while loading this page."
	if err != nil {
		page.Failure = err.Error()
	}
	return page
}

func newPage(route router.Route, session domain.Session) Page {
	return Page{Route: route, Heading: heading(route), Header: header(session)}
}

func heading(route router.Route) string {
	switch route.Name {
	case router.All:
		return "All Cases"
	case router.Library:
		return "Case Library"
	case router.Category:
		return route.Stage.Title() + " — Cases"
	case router.NewCase:
		return "Submit a Case"
	case router.Case:
		return "Case"
	case router.Admin:
		return "Admin"
	case router.Home:
		return "Welcome"
	}
	return ""
}

func header(session domain.Session) Header {
	if !session.SignedIn() {
		return Header{Auth: Action{Type: ActionSignIn, Label: "Login"}}
	}
	h := Header{
		Greeting: "Hello, " + session.User.Label(),
		SignedIn: true,
		Auth:     Action{Type: ActionSignOut, Label: "Logout"},
	}
	if session.IsAdmin {
		h.AdminLink = &Link{Label: "Admin", Href: router.Route{Name: router.Admin}.Location()}
	}
	return h
}

var categoryBlurbs = map[domain.Stage]string{
	domain.StagePreTender:    "Eligibility/BEC, evaluation plan, specs.",
	domain.StageDuringTender: "Clarifications, deviations, corrigenda.",
	domain.StagePostTender:   "LD vs EOT, claims, arbitration.",
}

func home(session domain.Session) *HomeView {
	v := &HomeView{
		Welcome: "This webpage has been created for discussion on Contract Management issues. " +
			"Explore cases by stage (Pre-Tender, During Tender, and Post-Tender), submit new cases, and collaborate.",
		Links: []Link{
			{Label: "Submit a Case", Href: router.Route{Name: router.NewCase}.Location()},
			{Label: "View All Cases", Href: router.Route{Name: router.All}.Location()},
		},
	}
	for _, stage := range domain.Stages {
		v.Categories = append(v.Categories, CategoryTile{
			Title: stage.Title(),
			Blurb: categoryBlurbs[stage],
			Href:  router.CategoryLocation(stage),
		})
	}
	if session.IsAdmin {
		v.AdminTip = "Use the Admin page to add/remove moderators."
	}
	return v
}

func submitLink() *Link {
	return &Link{Label: "Submit a Case", Href: router.Route{Name: router.NewCase}.Location()}
}

// caseList fills a list page. The full list shows owners and embeds a comment
// thread per card; stage lists do neither.
func (b *Builder) caseList(ctx context.Context, page *Page, session domain.Session, stage domain.Stage, now time.Time) error {
	page.Kind = KindCaseList

	cases, err := b.cases.ListCases(ctx, stage)
	if err != nil {
		return err
	}

	list := &CaseList{Cards: make([]CaseCard, 0, len(cases))}
	page.List = list
	if len(cases) == 0 {
		list.Empty = &EmptyState{Message: "No cases yet.", Action: submitLink()}
		return nil
	}

	full := stage == ""
	for _, c := range cases {
		card := CaseCard{
			ID:         c.ID,
			Title:      Link{Label: c.Title, Href: router.CaseLocation(c.ID)},
			StageTitle: c.Stage.Title(),
			Age:        TimeAgo(now, c.LastActivity()),
			Summary:    c.Summary,
			Open:       Link{Label: "Open", Href: router.CaseLocation(c.ID)},
		}
		if full {
			card.Owner = c.OwnerName
		}
		list.Cards = append(list.Cards, card)
	}
	if !full {
		return nil
	}

	// Threads load independently: one failing thread does not fail the page.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.threadLimit)
	for i := range list.Cards {
		card := &list.Cards[i]
		g.Go(func() error {
			thread := b.thread(gctx, card.ID, session, now)
			card.Comments = &thread
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (b *Builder) caseDetail(ctx context.Context, page *Page, session domain.Session, id string, now time.Time) error {
	var (
		c      *domain.Case
		thread CommentThread
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = b.cases.GetCase(gctx, id)
		return err
	})
	g.Go(func() error {
		thread = b.thread(gctx, id, session, now)
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrMissing) {
			page.Kind = KindNotFound
			page.Message = "Case not found."
			return nil
		}
		return err
	}

	canEdit := session.CanModerate(c.OwnerUID)
	detail := &CaseDetail{
		ID:         c.ID,
		Title:      c.Title,
		StageTitle: c.Stage.Title(),
		Owner:      c.OwnerName,
		Age:        TimeAgo(now, c.LastActivity()),
		Summary:    editField(c.ID, FieldSummary, "Summary", c.Summary, canEdit),
		Details:    editField(c.ID, FieldDetails, "Details", c.Details, canEdit),
		Comments:   thread,
	}
	if canEdit {
		detail.Actions = []Action{{Type: ActionDeleteCase, Label: "Delete", CaseID: c.ID, Confirm: "Delete this case?"}}
	}

	page.Kind = KindCaseDetail
	page.Heading = c.Title
	page.Detail = detail
	return nil
}

func editField(caseID, name, label, value string, editable bool) EditField {
	f := EditField{Name: name, Label: label, Value: value, Editable: editable}
	if editable {
		f.Toggle = &Action{Type: ActionToggleEdit, Label: "Edit", CaseID: caseID, Field: name}
	}
	return f
}

// thread never fails: a fetch error is reported inside the thread.
func (b *Builder) thread(ctx context.Context, caseID string, session domain.Session, now time.Time) CommentThread {
	t := CommentThread{CaseID: caseID, Comments: []CommentCard{}}

	comments, err := b.comments.ListComments(ctx, caseID)
	switch {
	case err != nil:
		t.Failure = "Could not load comments: " + err.Error()
	case len(comments) == 0:
		t.Empty = "No comments yet."
	}

	for _, c := range comments {
		card := CommentCard{
			ID:     c.ID,
			Author: c.AuthorName,
			Age:    TimeAgo(now, c.CreatedAt),
			Text:   c.Text,
			Hidden: c.Hidden,
		}
		if session.CanModerate(c.AuthorUID) {
			visibility := Action{Type: ActionHideComment, Label: "Hide", CaseID: caseID, CommentID: c.ID}
			if c.Hidden {
				visibility.Type, visibility.Label = ActionUnhideComment, "Unhide"
			}
			card.Actions = []Action{
				visibility,
				{Type: ActionDeleteComment, Label: "Delete", CaseID: caseID, CommentID: c.ID, Confirm: "Delete this comment?"},
			}
		}
		t.Comments = append(t.Comments, card)
	}

	if session.SignedIn() {
		t.Form = &CommentForm{
			Placeholder: "Write a comment…",
			Submit:      Action{Type: ActionAddComment, Label: "Add Comment", CaseID: caseID},
		}
	} else {
		t.Notice = "Login to comment."
	}
	return t
}

func caseForm() *CaseForm {
	options := []Option{{Value: "", Label: "Select stage"}}
	for _, stage := range domain.Stages {
		options = append(options, Option{Value: string(stage), Label: stage.Title()})
	}
	return &CaseForm{
		Fields: []InputField{
			{Name: "title", Label: "Title", Kind: "text", Required: true, Placeholder: "e.g., Whether mutual value counts toward BEC turnover?"},
			{Name: "stage", Label: "Stage", Kind: "select", Required: true, Options: options},
			{Name: "summary", Label: "Short Summary", Kind: "textarea", Rows: 3, Placeholder: "1–3 lines context"},
			{Name: "details", Label: "Details", Kind: "textarea", Rows: 6, Placeholder: "Facts, chronology, clauses, analysis, risks, options…"},
		},
		Submit: Action{Type: ActionCreateCase, Label: "Save"},
	}
}

func (b *Builder) adminPanel(ctx context.Context, page *Page, session domain.Session) error {
	page.Kind = KindAdmin
	if !session.IsAdmin {
		page.Message = "You must be an admin to access this page."
		return nil
	}

	admins, err := b.admins.ListAdmins(ctx)
	if err != nil {
		return err
	}

	panel := &AdminPanel{
		Intro: "Add or remove admins by UID.",
		Input: InputField{Name: "uid", Label: "New Admin UID", Kind: "text", Placeholder: "Paste user UID here"},
		Add:   Action{Type: ActionAddAdmin, Label: "Add Admin"},
		Rows:  make([]AdminRow, 0, len(admins)),
	}
	for _, a := range admins {
		panel.Rows = append(panel.Rows, AdminRow{
			UID:     a.UID,
			IsAdmin: a.IsAdmin,
			Remove:  Action{Type: ActionRemoveAdmin, Label: "Remove", UID: a.UID, Confirm: "Remove this admin?"},
		})
	}
	if len(panel.Rows) == 0 {
		panel.Empty = "No admins found."
	}
	page.Admin = panel
	return nil
}
