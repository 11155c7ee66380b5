package ports

import (
	"context"
	"errors"
	"strings"
)

// ErrNoDocument is returned by Get and Update when the id is absent.
var ErrNoDocument = errors.New("document not found")

// Fields is the field set of a stored document.
type Fields map[string]any

// Document is a stored record with its id.
type Document struct {
	ID     string
	Fields Fields
}

// Collection names a top-level collection, or a sub-collection scoped under a
// parent document when Parent is set.
type Collection struct {
	Parent   string
	ParentID string
	Name     string
}

// TopLevel returns the top-level collection name.
func TopLevel(name string) Collection {
	return Collection{Name: name}
}

// Nested returns the sub-collection name under parent/parentID.
func Nested(parent, parentID, name string) Collection {
	return Collection{Parent: parent, ParentID: parentID, Name: name}
}

// IsNested reports whether c is scoped under a parent document.
func (c Collection) IsNested() bool {
	return c.Parent != ""
}

// Path renders the collection as a slash path, e.g. "cases/abc/comments".
func (c Collection) Path() string {
	if !c.IsNested() {
		return c.Name
	}
	return strings.Join([]string{c.Parent, c.ParentID, c.Name}, "/")
}

// Direction orders query results.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Condition is an equality filter on one field.
type Condition struct {
	Field string
	Value any
}

// Query selects and orders documents. An empty OrderBy leaves the order to
// the store.
type Query struct {
	Where     []Condition
	OrderBy   string
	Direction Direction
}

// DocumentStore is the remote document collection store.
type DocumentStore interface {
	List(ctx context.Context, coll Collection, q Query) ([]Document, error)
	Get(ctx context.Context, coll Collection, id string) (Document, error)
	Create(ctx context.Context, coll Collection, fields Fields) (string, error)
	// Set creates or replaces the document with the given id.
	Set(ctx context.Context, coll Collection, id string, fields Fields) error
	Update(ctx context.Context, coll Collection, id string, patch Fields) error
	// Delete is idempotent: deleting an absent id is not an error.
	Delete(ctx context.Context, coll Collection, id string) error
}
