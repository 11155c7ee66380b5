// Package memory provides an in-memory document store used by tests and by
// the server's ephemeral --memory mode.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tenderdesk/caseforum/internal/core/ports"
)

var _ ports.DocumentStore = (*Store)(nil)

// Store keeps documents per collection path, guarded by a single RWMutex.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]ports.Fields
	newID       func() string
}

// NewStore returns an empty Store that assigns random UUIDs to new documents.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]map[string]ports.Fields),
		newID:       uuid.NewString,
	}
}

func (s *Store) List(_ context.Context, coll ports.Collection, q ports.Query) ([]ports.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]ports.Document, 0)
	for id, fields := range s.collections[coll.Path()] {
		if !matches(fields, q.Where) {
			continue
		}
		docs = append(docs, ports.Document{ID: id, Fields: clone(fields)})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			c := compare(docs[i].Fields[q.OrderBy], docs[j].Fields[q.OrderBy])
			if q.Direction == ports.Descending {
				return c > 0
			}
			return c < 0
		})
	}
	return docs, nil
}

func (s *Store) Get(_ context.Context, coll ports.Collection, id string) (ports.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.collections[coll.Path()][id]
	if !ok {
		return ports.Document{}, fmt.Errorf("%s/%s: %w", coll.Path(), id, ports.ErrNoDocument)
	}
	return ports.Document{ID: id, Fields: clone(fields)}, nil
}

func (s *Store) Create(_ context.Context, coll ports.Collection, fields ports.Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	s.collection(coll)[id] = clone(fields)
	return id, nil
}

func (s *Store) Set(_ context.Context, coll ports.Collection, id string, fields ports.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collection(coll)[id] = clone(fields)
	return nil
}

func (s *Store) Update(_ context.Context, coll ports.Collection, id string, patch ports.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.collections[coll.Path()][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", coll.Path(), id, ports.ErrNoDocument)
	}
	for k, v := range patch {
		fields[k] = v
	}
	return nil
}

func (s *Store) Delete(_ context.Context, coll ports.Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[coll.Path()], id)
	return nil
}

// collection returns the map for coll, creating it. Callers hold the write lock.
func (s *Store) collection(coll ports.Collection) map[string]ports.Fields {
	path := coll.Path()
	docs, ok := s.collections[path]
	if !ok {
		docs = make(map[string]ports.Fields)
		s.collections[path] = docs
	}
	return docs
}

func clone(f ports.Fields) ports.Fields {
	out := make(ports.Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func matches(f ports.Fields, where []ports.Condition) bool {
	for _, c := range where {
		if compare(f[c.Field], c.Value) != 0 {
			return false
		}
	}
	return true
}

// compare orders the scalar values the services store: numbers, strings and
// bools. Missing values sort first.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}

	// Mismatched types never compare equal.
	return compareTypeNames(a, b)
}

func compareTypeNames(a, b any) int {
	ta, tb := fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)
	if ta < tb {
		return -1
	}
	return 1
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
