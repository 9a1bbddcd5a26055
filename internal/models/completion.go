package models

import (
	"fmt"
	"time"
)

// Status is the recorded outcome for one activity on one day. An explicit
// StatusNotCompleted record is distinct from having no record at all.
type Status int

const (
	StatusCompleted Status = iota
	StatusNotCompleted
	StatusExcused
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusNotCompleted:
		return "not completed"
	case StatusExcused:
		return "excused"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) Valid() bool {
	return s >= StatusCompleted && s <= StatusExcused
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case "completed", "done":
		return StatusCompleted, nil
	case "not completed", "missed":
		return StatusNotCompleted, nil
	case "excused", "skipped":
		return StatusExcused, nil
	}
	return 0, fmt.Errorf("unrecognized status %q", s)
}

// Completion records one outcome for one activity on one calendar day.
// ActivityID is a plain reference; referential integrity is enforced by the
// stores, not here.
type Completion struct {
	ID         string
	ActivityID string
	Day        Day
	Status     Status
	CreatedAt  time.Time
}

func (c *Completion) RecordID() string {
	return c.ID
}
