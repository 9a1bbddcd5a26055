package store

import (
	"testing"

	"github.com/nickholt/routine/internal/models"
)

func addActivity(t *testing.T, s *ActivityStore, title string, days models.DaySet, start models.Day) *models.Activity {
	t.Helper()
	a := s.NewActivity()
	a.Title = title
	a.Days = days
	a.StartDate = start
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	return a
}

func addCompletion(t *testing.T, s *CompletionStore, activityID string, day models.Day, status models.Status) *models.Completion {
	t.Helper()
	c := s.NewCompletion(activityID, day, status)
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	return c
}

func TestActivityStore_ActivePartition(t *testing.T) {
	_, activities, _ := newTestStores(t)

	active := addActivity(t, activities, "Run", models.NewDaySet(models.Monday), "2024-03-04")
	archived := addActivity(t, activities, "Swim", models.NewDaySet(models.Tuesday), "2024-03-04")
	if err := activities.Archive(archived); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if got := activities.AllActive(); len(got) != 1 || got[0].ID != active.ID {
		t.Errorf("AllActive = %v", got)
	}
	if got := activities.AllInactive(); len(got) != 1 || got[0].ID != archived.ID {
		t.Errorf("AllInactive = %v", got)
	}
}

func TestActivityStore_ActivitiesOn(t *testing.T) {
	_, activities, _ := newTestStores(t)

	mondays := addActivity(t, activities, "Run", models.NewDaySet(models.Monday), "2024-03-04")
	addActivity(t, activities, "Swim", models.NewDaySet(models.Tuesday), "2024-03-04")
	lateStarter := addActivity(t, activities, "Read", models.NewDaySet(models.Monday), "2024-03-18")

	// 2024-03-11 is a Monday between the two start dates.
	got := activities.ActivitiesOn("2024-03-11")
	if len(got) != 1 || got[0].ID != mondays.ID {
		t.Fatalf("expected only %q on 2024-03-11, got %d activities", mondays.Title, len(got))
	}

	// Once lateStarter's start date arrives, both match.
	if got := activities.ActivitiesOn("2024-03-18"); len(got) != 2 {
		t.Fatalf("expected 2 activities on 2024-03-18, got %d", len(got))
	}

	// Archived activities are never matched.
	if err := activities.Archive(mondays); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	got = activities.ActivitiesOn("2024-03-18")
	if len(got) != 1 || got[0].ID != lateStarter.ID {
		t.Fatalf("archived activity still matched by ActivitiesOn")
	}
}

func TestActivityStore_ArchiveKeepsCompletions(t *testing.T) {
	_, activities, completions := newTestStores(t)

	a := addActivity(t, activities, "Run", models.NewDaySet(models.Monday), "2024-03-04")
	addCompletion(t, completions, a.ID, "2024-03-04", models.StatusCompleted)

	if err := activities.Archive(a); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if got := completions.ForActivity(a.ID); len(got) != 1 {
		t.Errorf("archive touched completions: %d remain", len(got))
	}
	if !activities.Contains(a.ID) {
		t.Error("archive removed the activity from the live set")
	}
}

func TestActivityStore_DeleteCascades(t *testing.T) {
	backend, activities, completions := newTestStores(t)

	doomed := addActivity(t, activities, "Run", models.NewDaySet(models.Monday), "2024-03-04")
	kept := addActivity(t, activities, "Swim", models.NewDaySet(models.Tuesday), "2024-03-04")

	addCompletion(t, completions, doomed.ID, "2024-03-04", models.StatusCompleted)
	addCompletion(t, completions, doomed.ID, "2024-03-11", models.StatusExcused)
	keptCompletion := addCompletion(t, completions, kept.ID, "2024-03-05", models.StatusCompleted)

	if err := activities.Delete(doomed); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if activities.Contains(doomed.ID) {
		t.Error("deleted activity still in live set")
	}
	if got := completions.ForActivity(doomed.ID); len(got) != 0 {
		t.Errorf("expected no completions for deleted activity, got %d", len(got))
	}
	if got := completions.ForActivity(kept.ID); len(got) != 1 || got[0].ID != keptCompletion.ID {
		t.Error("cascade touched another activity's completions")
	}
	if backend.DurableCompletionCount() != 1 {
		t.Errorf("expected 1 durable completion, got %d", backend.DurableCompletionCount())
	}
}

func TestActivityStore_PersistDefaultsUntitled(t *testing.T) {
	backend, activities, _ := newTestStores(t)

	a := activities.NewActivity()
	a.Days = models.NewDaySet(models.Monday)
	if err := activities.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	if a.Title != models.UntitledActivityTitle {
		t.Errorf("expected placeholder title after persist, got %q", a.Title)
	}

	reloaded := NewActivityStore(backend, NewCompletionStore(backend))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, _ := reloaded.Get(a.ID)
	if got == nil || got.Title != models.UntitledActivityTitle {
		t.Error("placeholder title did not reach the backend")
	}
}

func TestActivityStore_ArchiveUnknown(t *testing.T) {
	_, activities, _ := newTestStores(t)

	err := activities.Archive(&models.Activity{ID: "ghost"})
	if err == nil {
		t.Fatal("expected error archiving unknown activity")
	}
}
