// Package history reconciles the activity schedule with recorded
// completions: per-day lookups, streak computation, and backfilling of
// days the program never saw.
package history

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nickholt/routine/internal/logger"
	"github.com/nickholt/routine/internal/models"
	"github.com/nickholt/routine/internal/store"
)

var (
	// ErrActivityNotFound is returned by Streak when the activity has no
	// completion records at all.
	ErrActivityNotFound = errors.New("no completion records for activity")

	// ErrDataIntegrity reports more than one completion for a single
	// (activity, day) pair. The uniqueness invariant was violated upstream;
	// it is never resolved silently by picking a winner.
	ErrDataIntegrity = errors.New("multiple completions recorded for one activity and day")
)

// CompletionHistory orchestrates the activity and completion stores.
type CompletionHistory struct {
	activities  *store.ActivityStore
	completions *store.CompletionStore
}

func New(activities *store.ActivityStore, completions *store.CompletionStore) *CompletionHistory {
	return &CompletionHistory{
		activities:  activities,
		completions: completions,
	}
}

// Completion returns the single completion for the activity on the given
// day, or nil when none is recorded. Finding more than one is a
// data-integrity violation and is reported as ErrDataIntegrity.
func (h *CompletionHistory) Completion(activity *models.Activity, day models.Day) (*models.Completion, error) {
	forDay := h.completions.ForDay(day)

	var matches []*models.Completion
	for _, c := range forDay {
		if c.ActivityID == activity.ID {
			matches = append(matches, c)
		}
	}

	if len(matches) > 1 {
		logger.Error("Multiple completions found for activity on one day",
			"activity", activity.ID, "day", day, "count", len(matches))
		return nil, fmt.Errorf("%w: activity %s on %s", ErrDataIntegrity, activity.ID, day)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

// RegisterCompletion records the outcome for (activity, day), atomically
// replacing any prior record for that pair. It is the sole mutation entry
// point for completion state: an explicit not-completed record is distinct
// from the absence of a record, so even that status must come through here.
func (h *CompletionHistory) RegisterCompletion(activity *models.Activity, day models.Day, status models.Status) (*models.Completion, error) {
	existing, err := h.Completion(activity, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := h.completions.Delete(existing); err != nil {
			return nil, err
		}
	}

	c := h.completions.NewCompletion(activity.ID, day, status)
	if err := h.completions.Persist(); err != nil {
		return nil, err
	}

	logger.Debug("Registered completion",
		"activity", activity.ID, "day", day, "status", status.String())
	return c, nil
}

// DeleteCompletion removes the record for (activity, day), if any.
func (h *CompletionHistory) DeleteCompletion(activity *models.Activity, day models.Day) error {
	existing, err := h.Completion(activity, day)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	return h.completions.Delete(existing)
}

// DeleteHistory removes every completion for the activity without touching
// the activity itself.
func (h *CompletionHistory) DeleteHistory(activity *models.Activity) error {
	for _, c := range h.completions.ForActivity(activity.ID) {
		if err := h.completions.Delete(c); err != nil {
			return err
		}
	}
	logger.Info("Purged completion history", "activity", activity.ID)
	return nil
}

// Streak counts consecutive completed records walking backward from the
// record anchored on lastDate. Excused days are transparent: they neither
// extend nor break the run. A not-completed anchor normally yields 0;
// previousFallback continues the walk instead, treating the anchor as
// provisional for the "today isn't over yet" display case. No anchor record
// on lastDate yields 0.
func (h *CompletionHistory) Streak(activity *models.Activity, lastDate models.Day, previousFallback bool) (int, error) {
	all := h.completions.ForActivity(activity.ID)
	if len(all) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrActivityNotFound, activity.ID)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Day.After(all[j].Day)
	})

	anchor := -1
	for i, c := range all {
		if c.Day == lastDate {
			anchor = i
			break
		}
	}
	if anchor == -1 {
		return 0, nil
	}

	var streak int
	switch all[anchor].Status {
	case models.StatusCompleted:
		streak = 1
	case models.StatusExcused:
		streak = 0
	case models.StatusNotCompleted:
		if !previousFallback {
			return 0, nil
		}
		streak = 0
	}

	for _, c := range all[anchor+1:] {
		if c.Status == models.StatusNotCompleted {
			logger.Debug("Streak broken by non-completion",
				"activity", activity.ID, "day", c.Day, "streak", streak)
			return streak, nil
		}
		if c.Status == models.StatusCompleted {
			streak++
		}
	}

	return streak, nil
}

// ScrubActivity backfills [from, to] for one activity: every scheduled day
// on or after the activity's start date with no record gets an explicit
// not-completed completion. Days that already have a record keep it, so the
// operation is idempotent. The activity's archived state is ignored here;
// callers decide which activities to scrub.
func (h *CompletionHistory) ScrubActivity(activity *models.Activity, from, to models.Day) error {
	for day := from; !day.After(to); day = day.Next() {
		if !activity.OccursOn(day) {
			continue
		}

		existing, err := h.Completion(activity, day)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		logger.Debug("Backfilling missing completion", "activity", activity.ID, "day", day)
		if _, err := h.RegisterCompletion(activity, day, models.StatusNotCompleted); err != nil {
			return err
		}
	}
	return nil
}

// Scrub backfills [from, to] across all currently active activities; run on
// startup to cover days the program was not running.
func (h *CompletionHistory) Scrub(from, to models.Day) error {
	logger.Debug("Scrubbing completion data", "from", from, "to", to)

	for day := from; !day.After(to); day = day.Next() {
		for _, activity := range h.activities.ActivitiesOn(day) {
			existing, err := h.Completion(activity, day)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			logger.Debug("Backfilling missing completion", "activity", activity.ID, "day", day)
			if _, err := h.RegisterCompletion(activity, day, models.StatusNotCompleted); err != nil {
				return err
			}
		}
	}
	return nil
}
