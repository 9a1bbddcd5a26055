// Package store holds the canonical in-memory mirror of the persisted
// entity set. All deletes route through a store before touching the backend;
// nothing else writes to the backend directly.
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nickholt/routine/internal/logger"
	"github.com/nickholt/routine/internal/storage"
)

// ErrEntityNotFound is returned when a caller references an entity that is
// not in the live in-memory set, e.g. deleting an already-deleted activity.
var ErrEntityNotFound = errors.New("entity not found in store")

// EntityStore is the generic cache-over-backend for a single entity kind.
// It owns the only authoritative in-memory set of live entities of type T;
// every mutation keeps the set and the backend in lockstep.
type EntityStore[T storage.Record] struct {
	repo      storage.Repository[T]
	backend   storage.Backend
	entities  map[string]T
	newRecord func(id string) T
}

func newEntityStore[T storage.Record](backend storage.Backend, repo storage.Repository[T], newRecord func(id string) T) *EntityStore[T] {
	return &EntityStore[T]{
		repo:      repo,
		backend:   backend,
		entities:  make(map[string]T),
		newRecord: newRecord,
	}
}

// Load populates the in-memory set from the backend. A failure here means
// the store cannot guarantee a correct mirror; callers treat it as an
// unrecoverable startup error.
func (s *EntityStore[T]) Load() error {
	records, err := s.repo.FetchAll()
	if err != nil {
		return err
	}

	for _, r := range records {
		s.entities[r.RecordID()] = r
	}

	logger.Debug("Loaded entities from storage", "count", len(records))
	return nil
}

// NewEntity creates a fresh entity, stages its insert against the backend's
// working transaction, and adds it to the live set. It is not durable until
// Persist succeeds.
func (s *EntityStore[T]) NewEntity() T {
	e := s.newRecord(uuid.New().String())
	s.repo.Insert(e)
	s.entities[e.RecordID()] = e
	return e
}

// Delete removes the entity from the backend and, only after a successful
// persist, from the live set. On persist failure the entity stays live and
// the staged delete is retained for a later retry.
func (s *EntityStore[T]) Delete(e T) error {
	id := e.RecordID()
	if _, ok := s.entities[id]; !ok {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}

	s.repo.Delete(e)
	if err := s.Persist(); err != nil {
		return err
	}

	delete(s.entities, id)
	return nil
}

// Persist flushes staged changes. It returns immediately when the backend
// reports nothing pending.
func (s *EntityStore[T]) Persist() error {
	if !s.backend.HasPendingChanges() {
		return nil
	}
	return s.backend.Save()
}

// All returns a copy of the live set; mutating the returned slice does not
// affect the store.
func (s *EntityStore[T]) All() []T {
	out := make([]T, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	return out
}

func (s *EntityStore[T]) Get(id string) (T, bool) {
	e, ok := s.entities[id]
	return e, ok
}

func (s *EntityStore[T]) Contains(id string) bool {
	_, ok := s.entities[id]
	return ok
}

func (s *EntityStore[T]) Len() int {
	return len(s.entities)
}

// stage re-stages an already-live entity so field mutations reach the
// backend on the next Persist.
func (s *EntityStore[T]) stage(e T) {
	s.repo.Insert(e)
}

// stageDelete stages a backend delete without persisting or evicting; used
// by cascades that flush several deletes in one transaction.
func (s *EntityStore[T]) stageDelete(e T) {
	s.repo.Delete(e)
}

func (s *EntityStore[T]) evict(id string) {
	delete(s.entities, id)
}
