package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/tenderdesk/caseforum/internal/app"
	"github.com/tenderdesk/caseforum/internal/core/service"
	"github.com/tenderdesk/caseforum/internal/infrastructure/db/memory"
	"github.com/tenderdesk/caseforum/internal/view"
)

type testServer struct {
	e      *echo.Echo
	admins *service.AdminService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()
	cases := service.NewCaseService(store, log)
	comments := service.NewCommentService(store, log)
	admins := service.NewAdminService(store, log)

	e := NewRouter(Dependencies{
		Auth:       service.NewAuthService(memory.NewAuthRepository(), nil, "test-secret", time.Hour),
		Admins:     admins,
		Builder:    view.NewBuilder(cases, comments, admins),
		Dispatcher: app.NewDispatcher(cases, comments, admins, log),
		Logger:     log,
		Registry:   prometheus.NewRegistry(),
	})
	return &testServer{e: e, admins: admins}
}

func (s *testServer) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// signUp registers and logs in an account, returning its token and uid.
func (s *testServer) signUp(t *testing.T, name, email string) (string, string) {
	t.Helper()
	body := `{"display_name":"` + name + `","email":"` + email + `","password":"secret1"}`
	if rec := s.do(t, http.MethodPost, "/auth/register", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			UID string `json:"uid"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp.Token, resp.User.UID
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) view.Page {
	t.Helper()
	var page view.Page
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return page
}

func TestRouter_CaseLifecycle(t *testing.T) {
	s := newTestServer(t)
	aliceToken, _ := s.signUp(t, "Alice", "alice@example.com")
	bobToken, _ := s.signUp(t, "Bob", "bob@example.com")

	create := `{"action":{"type":"create_case"},"input":{"title":"Bid bond","stage":"during","summary":"s","details":"d"}}`
	rec := s.do(t, http.MethodPost, "/v1/actions", aliceToken, create)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out app.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !strings.HasPrefix(out.Redirect, "#/case/") {
		t.Fatalf("expected case redirect, got %+v", out)
	}
	caseID := strings.TrimPrefix(out.Redirect, "#/case/")

	// Anonymous visitors can read the case.
	page := decodePage(t, s.do(t, http.MethodGet, "/v1/views?location=%23%2Fcase%2F"+caseID, "", ""))
	if page.Kind != view.KindCaseDetail || page.Detail == nil || page.Detail.Title != "Bid bond" {
		t.Fatalf("unexpected detail page %+v", page)
	}

	// Bob is neither owner nor admin.
	save := `{"action":{"type":"save_case","case_id":"` + caseID + `"},"input":{"summary":"hijacked"}}`
	if rec := s.do(t, http.MethodPost, "/v1/actions", bobToken, save); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for stranger, got %d", rec.Code)
	}

	del := `{"action":{"type":"delete_case","case_id":"` + caseID + `"}}`
	rec = s.do(t, http.MethodPost, "/v1/actions", aliceToken, del)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "#/library") {
		t.Fatalf("delete: unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ActionsRequireToken(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/v1/actions", "", `{"action":{"type":"create_case"}}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_LogoutRevokesNothingWithoutRevoker(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "Alice", "alice@example.com")

	if rec := s.do(t, http.MethodPost, "/auth/logout", token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestRouter_AdminsRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	token, uid := s.signUp(t, "Alice", "alice@example.com")

	if rec := s.do(t, http.MethodGet, "/v1/admins", token, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 before grant, got %d", rec.Code)
	}

	if err := s.admins.Grant(context.Background(), uid); err != nil {
		t.Fatalf("grant: %v", err)
	}

	rec := s.do(t, http.MethodGet, "/v1/admins", token, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), uid) {
		t.Fatalf("expected admin list with %s, got %d %s", uid, rec.Code, rec.Body.String())
	}
}

func TestRouter_SecurityHeadersAndProbes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected X-Frame-Options DENY, got %q", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}

	if rec := s.do(t, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected ready with no probes, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected metrics endpoint, got %d", rec.Code)
	}
}
