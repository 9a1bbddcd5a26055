package history

import (
	"errors"
	"testing"

	"github.com/nickholt/routine/internal/models"
	"github.com/nickholt/routine/internal/storage/memory"
	"github.com/nickholt/routine/internal/store"
)

func newTestHistory(t *testing.T) (*store.ActivityStore, *store.CompletionStore, *CompletionHistory) {
	t.Helper()
	backend := memory.New()
	completions := store.NewCompletionStore(backend)
	activities := store.NewActivityStore(backend, completions)
	return activities, completions, New(activities, completions)
}

func newTestActivity(t *testing.T, activities *store.ActivityStore, days models.DaySet, start models.Day) *models.Activity {
	t.Helper()
	a := activities.NewActivity()
	a.Title = "Practice"
	a.Days = days
	a.StartDate = start
	if err := activities.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	return a
}

func register(t *testing.T, h *CompletionHistory, a *models.Activity, day models.Day, status models.Status) *models.Completion {
	t.Helper()
	c, err := h.RegisterCompletion(a, day, status)
	if err != nil {
		t.Fatalf("RegisterCompletion(%s, %s): %v", day, status, err)
	}
	return c
}

const everyDay = models.DaySet(0x7f)

func TestRegisterCompletion_ReplacesExistingRecord(t *testing.T) {
	activities, completions, h := newTestHistory(t)
	a := newTestActivity(t, activities, everyDay, "2024-03-01")

	register(t, h, a, "2024-03-04", models.StatusCompleted)
	register(t, h, a, "2024-03-04", models.StatusExcused)
	register(t, h, a, "2024-03-04", models.StatusNotCompleted)

	got, err := h.Completion(a, "2024-03-04")
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if got == nil {
		t.Fatal("expected a completion")
	}
	if got.Status != models.StatusNotCompleted {
		t.Errorf("expected most recent status, got %s", got.Status)
	}
	if len(completions.ForActivity(a.ID)) != 1 {
		t.Error("re-registration created a second record for the same day")
	}
}

func TestCompletion_NoneRecorded(t *testing.T) {
	activities, _, h := newTestHistory(t)
	a := newTestActivity(t, activities, everyDay, "2024-03-01")

	got, err := h.Completion(a, "2024-03-04")
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestCompletion_ReportsIntegrityViolation(t *testing.T) {
	activities, completions, h := newTestHistory(t)
	a := newTestActivity(t, activities, everyDay, "2024-03-01")

	// Bypass RegisterCompletion to manufacture the upstream invariant
	// violation it normally prevents.
	completions.NewCompletion(a.ID, "2024-03-04", models.StatusCompleted)
	completions.NewCompletion(a.ID, "2024-03-04", models.StatusExcused)
	if err := completions.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	_, err := h.Completion(a, "2024-03-04")
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
}

func TestStreak_NoRecordsAtAll(t *testing.T) {
	activities, _, h := newTestHistory(t)
	a := newTestActivity(t, activities, everyDay, "2024-03-01")

	_, err := h.Streak(a, "2024-03-04", false)
	if !errors.Is(err, ErrActivityNotFound) {
		t.Fatalf("expected ErrActivityNotFound, got %v", err)
	}
}

func TestStreak_NoAnchorRecord(t *testing.T) {
	activities, _, h := newTestHistory(t)
	a := newTestActivity(t, activities, everyDay, "2024-03-01")

	register(t, h, a, "2024-03-04", models.StatusCompleted)

	// No record on the requested end date: nothing to anchor the count.
	streak, err := h.Streak(a, "2024-03-05", false)
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak != 0 {
		t.Errorf("expected 0, got %d", streak)
	}
}

func TestStreak_ConsecutiveCompletions(t *testing.T) {
	activities, _, h := newTestHistory(t)
	a := newTestActivity(t, activities, everyDay, "2024-03-01")

	register(t, h, a, "2024-03-03", models.StatusCompleted)
	register(t, h, a, "2024-03-04", models.StatusCompleted)

	streak, err := h.Streak(a, "2024-03-04", false)
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak != 2 {
		t.Errorf("expected 2, got %d", streak)
	}
}

func TestStreak_NotCompletedAnchorWithoutFallback(t *testing.T) {
	activities, _, h := newTestHistory(t)
	a := newTestActivity(t, activities, everyDay, "2024-03-01")

	register(t, h, a, "2024-03-03", models.StatusCompleted)
	register(t, h, a, "2024-03-04", models.StatusNotCompleted)

	streak, err := h.Streak(a, "2024-03-04", false)
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak != 0 {
		t.Errorf("expected 0, got %d", streak)
	}
}

func TestStreak_NotCompletedAnchorWithFallback(t *testing.T) {
	activities, _, h := newTestHistory(t)
	a := newTestActivity(t, activities, everyDay, "2024-03-01")

	register(t, h, a, "2024-03-03", models.StatusCompleted)
	register(t, h, a, "2024-03-04", models.StatusNotCompleted)

	// Today's provisional miss should still show yesterday's run.
	streak, err := h.Streak(a, "2024-03-04", true)
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak != 1 {
		t.Errorf("expected 1, got %d", streak)
	}
}

func TestStreak_FallbackStopsAtOlderMiss(t *testing.T) {
	activities, _, h := newTestHistory(t)
	a := newTestActivity(t, activities, everyDay, "2024-03-01")

	register(t, h, a, "2024-03-01", models.StatusCompleted)
	register(t, h, a, "2024-03-02", models.StatusNotCompleted)
	register(t, h, a, "2024-03-03", models.StatusCompleted)
	register(t, h, a, "2024-03-04", models.StatusNotCompleted)

	streak, err := h.Streak(a, "2024-03-04", true)
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak != 1 {
		t.Errorf("expected 1 (walk stops at the 03-02 miss), got %d", streak)
	}
}

func TestStreak_ExcusedTransparency(t *testing.T) {
	activities, _, h := newTestHistory(t)
	a := newTestActivity(t, activities, everyDay, "2024-03-01")

	register(t, h, a, "2024-03-03", models.StatusCompleted)
	register(t, h, a, "2024-03-04", models.StatusExcused)
	register(t, h, a, "2024-03-05", models.StatusCompleted)

	// Excused anchor seeds 0 but older completions still count.
	streak, err := h.Streak(a, "2024-03-04", false)
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak != 1 {
		t.Errorf("Streak ending on excused day: expected 1, got %d", streak)
	}

	// Walking back over the excused day neither extends nor breaks the run.
	streak, err = h.Streak(a, "2024-03-05", false)
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak != 2 {
		t.Errorf("Streak across excused day: expected 2, got %d", streak)
	}
}

func TestScrubActivity_FillsOnlyScheduledGaps(t *testing.T) {
	activities, completions, h := newTestHistory(t)
	// Monday/Wednesday/Friday, starting Monday 2024-03-04.
	a := newTestActivity(t, activities,
		models.NewDaySet(models.Monday, models.Wednesday, models.Friday), "2024-03-04")

	// One day already has an explicit record.
	register(t, h, a, "2024-03-06", models.StatusCompleted)

	if err := h.ScrubActivity(a, "2024-03-04", "2024-03-10"); err != nil {
		t.Fatalf("ScrubActivity: %v", err)
	}

	// Mon 4th, Wed 6th, Fri 8th are scheduled; the 6th already had a record.
	all := completions.ForActivity(a.ID)
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}

	wed, err := h.Completion(a, "2024-03-06")
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if wed.Status != models.StatusCompleted {
		t.Error("scrub overwrote an existing record")
	}

	for _, day := range []models.Day{"2024-03-04", "2024-03-08"} {
		c, err := h.Completion(a, day)
		if err != nil {
			t.Fatalf("Completion(%s): %v", day, err)
		}
		if c == nil || c.Status != models.StatusNotCompleted {
			t.Errorf("expected backfilled not-completed on %s", day)
		}
	}
}

func TestScrubActivity_RespectsStartDate(t *testing.T) {
	activities, completions, h := newTestHistory(t)
	a := newTestActivity(t, activities, everyDay, "2024-03-06")

	if err := h.ScrubActivity(a, "2024-03-04", "2024-03-07"); err != nil {
		t.Fatalf("ScrubActivity: %v", err)
	}

	if got := len(completions.ForActivity(a.ID)); got != 2 {
		t.Errorf("expected records only from the start date on, got %d", got)
	}
}

func TestScrubActivity_Idempotent(t *testing.T) {
	activities, completions, h := newTestHistory(t)
	a := newTestActivity(t, activities,
		models.NewDaySet(models.Monday, models.Wednesday, models.Friday), "2024-03-04")

	if err := h.ScrubActivity(a, "2024-03-04", "2024-03-10"); err != nil {
		t.Fatalf("ScrubActivity: %v", err)
	}
	first := len(completions.ForActivity(a.ID))

	if err := h.ScrubActivity(a, "2024-03-04", "2024-03-10"); err != nil {
		t.Fatalf("ScrubActivity: %v", err)
	}
	if got := len(completions.ForActivity(a.ID)); got != first {
		t.Errorf("second scrub changed record count: %d -> %d", first, got)
	}
}

func TestScrub_CoversActiveActivitiesOnly(t *testing.T) {
	activities, completions, h := newTestHistory(t)

	active := newTestActivity(t, activities, everyDay, "2024-03-04")
	archived := newTestActivity(t, activities, everyDay, "2024-03-04")
	if err := activities.Archive(archived); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if err := h.Scrub("2024-03-04", "2024-03-06"); err != nil {
		t.Fatalf("Scrub: %v", err)
	}

	if got := len(completions.ForActivity(active.ID)); got != 3 {
		t.Errorf("expected 3 backfilled records for the active activity, got %d", got)
	}
	if got := len(completions.ForActivity(archived.ID)); got != 0 {
		t.Errorf("scrub touched an archived activity: %d records", got)
	}
}

func TestDeleteHistory_RemovesOnlyThatActivity(t *testing.T) {
	activities, completions, h := newTestHistory(t)

	a := newTestActivity(t, activities, everyDay, "2024-03-01")
	b := newTestActivity(t, activities, everyDay, "2024-03-01")

	register(t, h, a, "2024-03-04", models.StatusCompleted)
	register(t, h, a, "2024-03-05", models.StatusCompleted)
	register(t, h, b, "2024-03-04", models.StatusCompleted)

	if err := h.DeleteHistory(a); err != nil {
		t.Fatalf("DeleteHistory: %v", err)
	}

	if got := len(completions.ForActivity(a.ID)); got != 0 {
		t.Errorf("expected no records for purged activity, got %d", got)
	}
	if got := len(completions.ForActivity(b.ID)); got != 1 {
		t.Errorf("purge touched another activity's records: %d", got)
	}
	if !activities.Contains(a.ID) {
		t.Error("purging history removed the activity itself")
	}
}

func TestDeleteCompletion(t *testing.T) {
	activities, _, h := newTestHistory(t)
	a := newTestActivity(t, activities, everyDay, "2024-03-01")

	register(t, h, a, "2024-03-04", models.StatusCompleted)
	if err := h.DeleteCompletion(a, "2024-03-04"); err != nil {
		t.Fatalf("DeleteCompletion: %v", err)
	}

	got, err := h.Completion(a, "2024-03-04")
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if got != nil {
		t.Error("record survived DeleteCompletion")
	}

	// Deleting a missing record is not an error.
	if err := h.DeleteCompletion(a, "2024-03-04"); err != nil {
		t.Errorf("deleting absent record: %v", err)
	}
}
