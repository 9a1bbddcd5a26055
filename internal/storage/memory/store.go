// Package memory implements the storage backend contract entirely in
// memory. It exists for tests: Save copies staged records into a separate
// "durable" map so cache/disk divergence is observable, and fetch/save
// failures can be injected.
package memory

import (
	"fmt"

	"github.com/nickholt/routine/internal/models"
	"github.com/nickholt/routine/internal/storage"
)

type opKind int

const (
	opUpsert opKind = iota
	opDelete
)

type activityOp struct {
	kind   opKind
	record *models.Activity
}

type completionOp struct {
	kind   opKind
	record *models.Completion
}

type Store struct {
	activities  map[string]models.Activity
	completions map[string]models.Completion
	settings    storage.Settings

	pendingActivities  []activityOp
	pendingCompletions []completionOp

	// FailFetch and FailSave, when non-nil, are returned by the next
	// FetchAll / Save calls.
	FailFetch error
	FailSave  error

	saves int
}

func New() *Store {
	return &Store{
		activities:  make(map[string]models.Activity),
		completions: make(map[string]models.Completion),
	}
}

func (s *Store) Init() error  { return nil }
func (s *Store) Load() error  { return nil }
func (s *Store) Close() error { return nil }

func (s *Store) Location() string { return "memory" }

func (s *Store) HasPendingChanges() bool {
	return len(s.pendingActivities) > 0 || len(s.pendingCompletions) > 0
}

func (s *Store) Save() error {
	if !s.HasPendingChanges() {
		return nil
	}
	if s.FailSave != nil {
		return fmt.Errorf("%w: %v", storage.ErrCouldNotPersist, s.FailSave)
	}

	for _, op := range s.pendingActivities {
		switch op.kind {
		case opUpsert:
			s.activities[op.record.ID] = *op.record
		case opDelete:
			delete(s.activities, op.record.ID)
		}
	}
	for _, op := range s.pendingCompletions {
		switch op.kind {
		case opUpsert:
			s.completions[op.record.ID] = *op.record
		case opDelete:
			delete(s.completions, op.record.ID)
		}
	}

	s.pendingActivities = nil
	s.pendingCompletions = nil
	s.saves++
	return nil
}

// SaveCount reports how many flushes actually ran, for asserting the
// no-op-when-clean behavior.
func (s *Store) SaveCount() int {
	return s.saves
}

// DurableActivityCount reports how many activities have been flushed.
func (s *Store) DurableActivityCount() int {
	return len(s.activities)
}

// DurableCompletionCount reports how many completions have been flushed.
func (s *Store) DurableCompletionCount() int {
	return len(s.completions)
}

func (s *Store) GetSettings() (storage.Settings, error) {
	return s.settings, nil
}

func (s *Store) SaveSettings(settings storage.Settings) error {
	s.settings = settings
	return nil
}

func (s *Store) Activities() storage.Repository[*models.Activity] {
	return &activityRepo{store: s}
}

type activityRepo struct {
	store *Store
}

func (r *activityRepo) FetchAll() ([]*models.Activity, error) {
	if r.store.FailFetch != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCouldNotFetch, r.store.FailFetch)
	}
	out := make([]*models.Activity, 0, len(r.store.activities))
	for _, a := range r.store.activities {
		copied := a
		out = append(out, &copied)
	}
	return out, nil
}

func (r *activityRepo) Insert(a *models.Activity) {
	r.store.pendingActivities = append(r.store.pendingActivities, activityOp{kind: opUpsert, record: a})
}

func (r *activityRepo) Delete(a *models.Activity) {
	r.store.pendingActivities = append(r.store.pendingActivities, activityOp{kind: opDelete, record: a})
}

func (s *Store) Completions() storage.Repository[*models.Completion] {
	return &completionRepo{store: s}
}

type completionRepo struct {
	store *Store
}

func (r *completionRepo) FetchAll() ([]*models.Completion, error) {
	if r.store.FailFetch != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCouldNotFetch, r.store.FailFetch)
	}
	out := make([]*models.Completion, 0, len(r.store.completions))
	for _, c := range r.store.completions {
		copied := c
		out = append(out, &copied)
	}
	return out, nil
}

func (r *completionRepo) Insert(c *models.Completion) {
	r.store.pendingCompletions = append(r.store.pendingCompletions, completionOp{kind: opUpsert, record: c})
}

func (r *completionRepo) Delete(c *models.Completion) {
	r.store.pendingCompletions = append(r.store.pendingCompletions, completionOp{kind: opDelete, record: c})
}
