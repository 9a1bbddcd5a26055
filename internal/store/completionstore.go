package store

import (
	"time"

	"github.com/nickholt/routine/internal/logger"
	"github.com/nickholt/routine/internal/models"
	"github.com/nickholt/routine/internal/storage"
)

// CompletionStore specializes EntityStore for completions and maintains the
// by-activity index behind the non-owning ActivityID reference.
type CompletionStore struct {
	*EntityStore[*models.Completion]
	byActivity map[string][]*models.Completion
}

func NewCompletionStore(backend storage.Backend) *CompletionStore {
	s := &CompletionStore{
		byActivity: make(map[string][]*models.Completion),
	}
	s.EntityStore = newEntityStore(backend, backend.Completions(), func(id string) *models.Completion {
		return &models.Completion{
			ID:        id,
			CreatedAt: time.Now(),
		}
	})
	return s
}

// Load populates the cache and rebuilds the by-activity index.
func (s *CompletionStore) Load() error {
	if err := s.EntityStore.Load(); err != nil {
		return err
	}
	for _, c := range s.entities {
		s.index(c)
	}
	return nil
}

// NewCompletion creates a live, not-yet-durable completion for the given
// (activity, day) pair. Callers that need the at-most-one-per-day guarantee
// go through CompletionHistory.RegisterCompletion rather than calling this
// directly.
func (s *CompletionStore) NewCompletion(activityID string, day models.Day, status models.Status) *models.Completion {
	c := s.NewEntity()
	c.ActivityID = activityID
	c.Day = day
	c.Status = status
	s.index(c)
	return c
}

// ForDay returns completions recorded on the given calendar day.
func (s *CompletionStore) ForDay(day models.Day) []*models.Completion {
	var out []*models.Completion
	for _, c := range s.entities {
		if c.Day == day {
			out = append(out, c)
		}
	}
	return out
}

// ForActivity returns completions referencing the given activity.
func (s *CompletionStore) ForActivity(activityID string) []*models.Completion {
	indexed := s.byActivity[activityID]
	out := make([]*models.Completion, len(indexed))
	copy(out, indexed)
	return out
}

// Delete removes one completion, keeping the index consistent.
func (s *CompletionStore) Delete(c *models.Completion) error {
	if err := s.EntityStore.Delete(c); err != nil {
		return err
	}
	s.unindex(c)
	return nil
}

// PurgeDangling deletes completions whose activity reference is empty or
// points at no known activity. It defends against partially-failed cascades
// from a previous run and is safe to call repeatedly. The number of purged
// completions is returned.
func (s *CompletionStore) PurgeDangling(activityExists func(id string) bool) (int, error) {
	var dangling []*models.Completion
	for _, c := range s.entities {
		if c.ActivityID == "" || !activityExists(c.ActivityID) {
			dangling = append(dangling, c)
		}
	}

	if len(dangling) == 0 {
		return 0, nil
	}

	for _, c := range dangling {
		s.stageDelete(c)
	}
	if err := s.Persist(); err != nil {
		return 0, err
	}
	for _, c := range dangling {
		s.evictCompletion(c)
	}

	logger.Warn("Purged dangling completions", "count", len(dangling))
	return len(dangling), nil
}

func (s *CompletionStore) index(c *models.Completion) {
	s.byActivity[c.ActivityID] = append(s.byActivity[c.ActivityID], c)
}

func (s *CompletionStore) unindex(c *models.Completion) {
	indexed := s.byActivity[c.ActivityID]
	for i, other := range indexed {
		if other.ID == c.ID {
			s.byActivity[c.ActivityID] = append(indexed[:i], indexed[i+1:]...)
			break
		}
	}
	if len(s.byActivity[c.ActivityID]) == 0 {
		delete(s.byActivity, c.ActivityID)
	}
}

// evictCompletion drops a completion from the cache and index without
// touching the backend; the caller has already persisted its delete.
func (s *CompletionStore) evictCompletion(c *models.Completion) {
	s.evict(c.ID)
	s.unindex(c)
}
