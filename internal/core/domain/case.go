package domain

import (
	"fmt"
	"strings"
	"time"
)

// Stage classifies a case by procurement lifecycle.
type Stage string

const (
	StagePreTender    Stage = "pretender"
	StageDuringTender Stage = "during"
	StagePostTender   Stage = "post"
)

// Stages lists every stage in display order.
var Stages = []Stage{StagePreTender, StageDuringTender, StagePostTender}

var stageTitles = map[Stage]string{
	StagePreTender:    "Pre-Tender",
	StageDuringTender: "During Tender",
	StagePostTender:   "Post-Tender",
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	_, ok := stageTitles[s]
	return ok
}

// Title returns the human label for the stage.
func (s Stage) Title() string {
	if t, ok := stageTitles[s]; ok {
		return t
	}
	return string(s)
}

// ParseStage converts a raw stage id, as used in locations and forms.
func ParseStage(raw string) (Stage, error) {
	s := Stage(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, raw)
	}
	return s, nil
}

// Case is a discussion record about a procurement issue.
type Case struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Stage     Stage     `json:"stage"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details"`
	OwnerUID  string    `json:"owner_uid"`
	OwnerName string    `json:"owner_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LastActivity is the timestamp shown on case cards.
func (c Case) LastActivity() time.Time {
	if c.UpdatedAt.IsZero() {
		return c.CreatedAt
	}
	return c.UpdatedAt
}

// CasePatch carries the mutable fields of a case. Nil fields are left untouched.
type CasePatch struct {
	Summary *string
	Details *string
}
