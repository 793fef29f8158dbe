// Package liststore holds the ordered entities a screen renders.
//
// A Store is owned by one screen and only touched from its event loop, so it
// carries no locking.
package liststore

import (
	"errors"
	"fmt"

	"github.com/idilsaglam/coolsave/internal/model"
)

// ErrStaleReference means an edit targeted an id the store no longer holds.
var ErrStaleReference = errors.New("stale reference")

// Store is an ordered sequence of entities keyed by id.
type Store[T model.Keyed] struct {
	items []T
}

// New returns a store seeded with items in the given order.
func New[T model.Keyed](items ...T) *Store[T] {
	s := &Store[T]{}
	s.ReplaceAll(items)
	return s
}

// ReplaceAll swaps in a fresh server snapshot, keeping its order.
func (s *Store[T]) ReplaceAll(items []T) {
	s.items = append(make([]T, 0, len(items)), items...)
}

// InsertFront prepends a newly created entity (most recent first). An entity
// already held under the same id is moved to the front and replaced, so ids
// stay unique.
func (s *Store[T]) InsertFront(item T) {
	if i := s.index(item.Key()); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	}
	s.items = append([]T{item}, s.items...)
}

// RemoveByID drops the entity with id and reports whether it was present.
// Removing an absent id is a no-op.
func (s *Store[T]) RemoveByID(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return true
}

// ReplaceByID swaps the entity with id in place.
func (s *Store[T]) ReplaceByID(id string, item T) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("replace %q: %w", id, ErrStaleReference)
	}
	s.items[i] = item
	return nil
}

// InsertAt puts item back at position i, clamped to the current bounds.
// Used to restore an entity whose optimistic removal failed server-side.
func (s *Store[T]) InsertAt(i int, item T) {
	if i < 0 {
		i = 0
	}
	if i > len(s.items) {
		i = len(s.items)
	}
	s.items = append(s.items[:i:i], append([]T{item}, s.items[i:]...)...)
}

// Get returns the entity with id.
func (s *Store[T]) Get(id string) (T, bool) {
	i := s.index(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	return s.items[i], true
}

// IndexOf returns the position of id, or -1.
func (s *Store[T]) IndexOf(id string) int { return s.index(id) }

// Items returns a copy of the current sequence.
func (s *Store[T]) Items() []T { return append([]T(nil), s.items...) }

func (s *Store[T]) Len() int { return len(s.items) }

func (s *Store[T]) index(id string) int {
	for i, it := range s.items {
		if it.Key() == id {
			return i
		}
	}
	return -1
}
