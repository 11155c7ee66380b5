// Package view builds presentation-neutral page trees from domain data. A
// separate presenter turns a Page into markup, terminal output or JSON.
package view

import "github.com/tenderdesk/caseforum/internal/router"

// Kind selects how a presenter lays out a Page.
type Kind string

const (
	KindHome       Kind = "home"
	KindCaseList   Kind = "case_list"
	KindCaseDetail Kind = "case_detail"
	KindNewCase    Kind = "new_case"
	KindAdmin      Kind = "admin"
	KindNotFound   Kind = "not_found"
	KindLoading    Kind = "loading"
	KindFailure    Kind = "failure"
)

// Page is the complete model of one rendered location.
type Page struct {
	Kind    Kind         `json:"kind"`
	Route   router.Route `json:"route"`
	Heading string       `json:"heading,omitempty"`
	Header  Header       `json:"header"`
	Message string       `json:"message,omitempty"`
	Home    *HomeView    `json:"home,omitempty"`
	List    *CaseList    `json:"list,omitempty"`
	Detail  *CaseDetail  `json:"detail,omitempty"`
	Form    *CaseForm    `json:"form,omitempty"`
	Admin   *AdminPanel  `json:"admin,omitempty"`
	Failure string       `json:"failure,omitempty"`
}

// Header is the session strip shown above every page.
type Header struct {
	Greeting  string `json:"greeting,omitempty"`
	SignedIn  bool   `json:"signed_in"`
	AdminLink *Link  `json:"admin_link,omitempty"`
	Auth      Action `json:"auth"`
}

type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type HomeView struct {
	Welcome    string         `json:"welcome"`
	Links      []Link         `json:"links"`
	Categories []CategoryTile `json:"categories"`
	AdminTip   string         `json:"admin_tip,omitempty"`
}

type CategoryTile struct {
	Title string `json:"title"`
	Blurb string `json:"blurb"`
	Href  string `json:"href"`
}

// EmptyState replaces a list that has no records.
type EmptyState struct {
	Message string `json:"message"`
	Action  *Link  `json:"action,omitempty"`
}

type CaseList struct {
	Cards []CaseCard  `json:"cards"`
	Empty *EmptyState `json:"empty,omitempty"`
}

type CaseCard struct {
	ID         string         `json:"id"`
	Title      Link           `json:"title"`
	StageTitle string         `json:"stage_title"`
	Owner      string         `json:"owner,omitempty"`
	Age        string         `json:"age"`
	Summary    string         `json:"summary"`
	Open       Link           `json:"open"`
	Comments   *CommentThread `json:"comments,omitempty"`
}

// Field names of the two editable parts of a case.
const (
	FieldSummary = "summary"
	FieldDetails = "details"
)

// EditField is a case field that swaps between a read and an edit
// representation.
type EditField struct {
	Name     string  `json:"name"`
	Label    string  `json:"label"`
	Value    string  `json:"value"`
	Editable bool    `json:"editable"`
	Editing  bool    `json:"editing"`
	Draft    string  `json:"draft,omitempty"`
	Toggle   *Action `json:"toggle,omitempty"`
}

type CaseDetail struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	StageTitle string        `json:"stage_title"`
	Owner      string        `json:"owner"`
	Age        string        `json:"age"`
	Summary    EditField     `json:"summary"`
	Details    EditField     `json:"details"`
	Actions    []Action      `json:"actions,omitempty"`
	Comments   CommentThread `json:"comments"`
}

// Field returns the edit field named name, or nil.
func (d *CaseDetail) Field(name string) *EditField {
	switch name {
	case FieldSummary:
		return &d.Summary
	case FieldDetails:
		return &d.Details
	}
	return nil
}

type CommentThread struct {
	CaseID   string        `json:"case_id"`
	Comments []CommentCard `json:"comments"`
	Empty    string        `json:"empty,omitempty"`
	Failure  string        `json:"failure,omitempty"`
	Form     *CommentForm  `json:"form,omitempty"`
	Notice   string        `json:"notice,omitempty"`
}

type CommentCard struct {
	ID      string   `json:"id"`
	Author  string   `json:"author"`
	Age     string   `json:"age"`
	Text    string   `json:"text"`
	Hidden  bool     `json:"hidden"`
	Actions []Action `json:"actions,omitempty"`
}

type CommentForm struct {
	Placeholder string `json:"placeholder"`
	Submit      Action `json:"submit"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// InputField is a form control.
type InputField struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Kind        string   `json:"kind"`
	Required    bool     `json:"required,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Rows        int      `json:"rows,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

type CaseForm struct {
	Fields []InputField `json:"fields"`
	Submit Action       `json:"submit"`
}

type AdminRow struct {
	UID     string `json:"uid"`
	IsAdmin bool   `json:"is_admin"`
	Remove  Action `json:"remove"`
}

type AdminPanel struct {
	Intro string     `json:"intro"`
	Input InputField `json:"input"`
	Add   Action     `json:"add"`
	Rows  []AdminRow `json:"rows"`
	Empty string     `json:"empty,omitempty"`
}
