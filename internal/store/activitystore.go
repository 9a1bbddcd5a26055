package store

import (
	"fmt"
	"time"

	"github.com/nickholt/routine/internal/logger"
	"github.com/nickholt/routine/internal/models"
	"github.com/nickholt/routine/internal/storage"
)

// ActivityStore specializes EntityStore for activities: schedule queries,
// archival, and the completion cascade on delete.
type ActivityStore struct {
	*EntityStore[*models.Activity]
	completions *CompletionStore
}

// NewActivityStore wires the activity store to the backend and to the
// completion store that its delete cascade runs through.
func NewActivityStore(backend storage.Backend, completions *CompletionStore) *ActivityStore {
	return &ActivityStore{
		EntityStore: newEntityStore(backend, backend.Activities(), func(id string) *models.Activity {
			return &models.Activity{
				ID:        id,
				Active:    true,
				StartDate: models.Today(),
				CreatedAt: time.Now(),
			}
		}),
		completions: completions,
	}
}

// NewActivity creates a live, not-yet-durable activity. The title defaults
// to the untitled placeholder when still empty at persist time.
func (s *ActivityStore) NewActivity() *models.Activity {
	return s.NewEntity()
}

// Persist applies the untitled-title default before flushing.
func (s *ActivityStore) Persist() error {
	for _, a := range s.entities {
		if a.Title == "" {
			a.Title = models.UntitledActivityTitle
		}
	}
	return s.EntityStore.Persist()
}

// Update re-stages a mutated activity and persists.
func (s *ActivityStore) Update(a *models.Activity) error {
	if !s.Contains(a.ID) {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, a.ID)
	}
	s.stage(a)
	return s.Persist()
}

// AllActive returns activities still in scheduling rotation.
func (s *ActivityStore) AllActive() []*models.Activity {
	var out []*models.Activity
	for _, a := range s.entities {
		if a.Active {
			out = append(out, a)
		}
	}
	return out
}

// AllInactive returns archived activities.
func (s *ActivityStore) AllInactive() []*models.Activity {
	var out []*models.Activity
	for _, a := range s.entities {
		if !a.Active {
			out = append(out, a)
		}
	}
	return out
}

// ActivitiesOn returns the active activities whose schedule produces an
// occurrence on the given day. Archived activities are never matched.
func (s *ActivityStore) ActivitiesOn(day models.Day) []*models.Activity {
	var out []*models.Activity
	for _, a := range s.entities {
		if a.Active && a.OccursOn(day) {
			out = append(out, a)
		}
	}
	return out
}

// Archive takes an activity out of scheduling rotation. Its completions are
// untouched and remain queryable.
func (s *ActivityStore) Archive(a *models.Activity) error {
	if !s.Contains(a.ID) {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, a.ID)
	}

	a.Active = false
	s.stage(a)
	if err := s.Persist(); err != nil {
		return err
	}

	logger.Info("Archived activity", "id", a.ID, "title", a.DisplayTitle())
	return nil
}

// Unarchive returns an archived activity to scheduling rotation.
func (s *ActivityStore) Unarchive(a *models.Activity) error {
	if !s.Contains(a.ID) {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, a.ID)
	}

	a.Active = true
	s.stage(a)
	return s.Persist()
}

// Delete removes the activity and every completion referencing it, flushed
// as one transaction. Eviction from both caches happens only after the
// persist succeeds.
func (s *ActivityStore) Delete(a *models.Activity) error {
	if !s.Contains(a.ID) {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, a.ID)
	}

	deps := s.completions.ForActivity(a.ID)
	for _, c := range deps {
		s.completions.stageDelete(c)
	}
	s.stageDelete(a)

	if err := s.Persist(); err != nil {
		return err
	}

	for _, c := range deps {
		s.completions.evictCompletion(c)
	}
	s.evict(a.ID)

	logger.Info("Deleted activity", "id", a.ID, "title", a.DisplayTitle(), "cascaded", len(deps))
	return nil
}
