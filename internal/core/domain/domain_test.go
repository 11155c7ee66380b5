package domain

import (
	"errors"
	"testing"
)

func TestParseStage(t *testing.T) {
	cases := map[string]Stage{
		"pretender": StagePreTender,
		" DURING ":  StageDuringTender,
		"post":      StagePostTender,
	}
	for raw, want := range cases {
		got, err := ParseStage(raw)
		if err != nil {
			t.Fatalf("ParseStage(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseStage(%q) = %q, want %q", raw, got, want)
		}
	}

	if _, err := ParseStage("tender"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStageTitle(t *testing.T) {
	if StageDuringTender.Title() != "During Tender" {
		t.Fatalf("unexpected title %q", StageDuringTender.Title())
	}
	if Stage("odd").Title() != "odd" {
		t.Fatalf("unknown stage should render raw")
	}
}

func TestUserLabel(t *testing.T) {
	var nilUser *User
	if nilUser.Label() != "" {
		t.Fatalf("nil user label should be empty")
	}
	if (&User{Email: "a@example.com"}).Label() != "a@example.com" {
		t.Fatalf("expected email fallback")
	}
	if (&User{DisplayName: "Ann", Email: "a@example.com"}).Label() != "Ann" {
		t.Fatalf("expected display name")
	}
}

func TestSessionCanModerate(t *testing.T) {
	owner := Session{User: &User{UID: "u1"}}
	other := Session{User: &User{UID: "u2"}}
	admin := Session{User: &User{UID: "u3"}, IsAdmin: true}

	if !owner.CanModerate("u1") {
		t.Fatalf("owner should moderate")
	}
	if other.CanModerate("u1") {
		t.Fatalf("non-owner should not moderate")
	}
	if !admin.CanModerate("u1") {
		t.Fatalf("admin should moderate")
	}
	if (Session{}).CanModerate("") {
		t.Fatalf("anonymous session should not moderate")
	}
}

func TestProviderError(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := NewProviderError("list cases", cause)
	if err.Error() != "quota exceeded" {
		t.Fatalf("expected verbatim message, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected unwrap to cause")
	}
	if NewProviderError("again", err) != err {
		t.Fatalf("expected no double wrapping")
	}
	if NewProviderError("nil", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
	if !errors.Is(ErrCaseNotFound, ErrMissing) {
		t.Fatalf("ErrCaseNotFound should wrap ErrMissing")
	}
}
