// Package router maps hash-style navigation locations to routes.
package router

import (
	"strings"

	"github.com/tenderdesk/caseforum/internal/core/domain"
)

// Name identifies the view a location selects.
type Name string

const (
	Home     Name = "home"
	All      Name = "all"
	Library  Name = "library"
	Category Name = "category"
	NewCase  Name = "new"
	Case     Name = "case"
	Admin    Name = "admin"
	NotFound Name = "not_found"
)

// Route is a parsed location.
type Route struct {
	Name   Name         `json:"name"`
	Stage  domain.Stage `json:"stage,omitempty"`
	CaseID string       `json:"case_id,omitempty"`
}

// Location renders r back into its canonical hash location.
func (r Route) Location() string {
	switch r.Name {
	case Home:
		return "#/"
	case Category:
		return CategoryLocation(r.Stage)
	case Case:
		return CaseLocation(r.CaseID)
	case NotFound:
		return ""
	default:
		return "#/" + string(r.Name)
	}
}

// IsList reports whether r renders a list of case cards.
func (r Route) IsList() bool {
	return r.Name == All || r.Name == Library || r.Name == Category
}

func CaseLocation(id string) string {
	return "#/case/" + id
}

func CategoryLocation(stage domain.Stage) string {
	return "#/category/" + string(stage)
}

// LibraryLocation is where a deleted case's page goes.
const LibraryLocation = "#/library"

var static = map[string]Name{
	"/":        Home,
	"/all":     All,
	"/library": Library,
	"/new":     NewCase,
	"/admin":   Admin,
}

// Parse accepts "#/...", "/..." or an empty location. Query strings are not
// supported.
func Parse(location string) Route {
	path := strings.TrimPrefix(strings.TrimSpace(location), "#")
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") || strings.Contains(path, "?") {
		return Route{Name: NotFound}
	}

	if name, ok := static[path]; ok {
		return Route{Name: name}
	}

	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(segments) != 2 || segments[1] == "" {
		return Route{Name: NotFound}
	}

	switch segments[0] {
	case "category":
		stage := domain.Stage(segments[1])
		if !stage.Valid() {
			return Route{Name: NotFound}
		}
		return Route{Name: Category, Stage: stage}
	case "case":
		return Route{Name: Case, CaseID: segments[1]}
	}
	return Route{Name: NotFound}
}
