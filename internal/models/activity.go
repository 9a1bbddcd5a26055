package models

import "time"

// UntitledActivityTitle is the placeholder applied to activities persisted
// without a title.
const UntitledActivityTitle = "Untitled Activity"

// Activity is a recurring obligation: a title, the weekdays it recurs on,
// and the date the schedule takes effect. Archived activities keep their
// history but drop out of scheduling.
type Activity struct {
	ID        string
	Title     string
	Days      DaySet
	StartDate Day
	Active    bool
	CreatedAt time.Time
}

func (a *Activity) RecordID() string {
	return a.ID
}

// OccursOn reports whether the schedule produces an occurrence on the given
// day: on or after the start date, on a scheduled weekday. Archival is not
// checked here; callers filter on Active when it matters.
func (a *Activity) OccursOn(day Day) bool {
	if day.Before(a.StartDate) {
		return false
	}
	return a.Days.Contains(day.Weekday())
}

// DisplayTitle never returns an empty string.
func (a *Activity) DisplayTitle() string {
	if a.Title == "" {
		return UntitledActivityTitle
	}
	return a.Title
}
