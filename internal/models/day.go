package models

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar day in ISO form, YYYY-MM-DD. Two timestamps on the same
// local calendar day map to the same Day, and because the layout is
// fixed-width, string comparison matches date order.
type Day string

// DayOf truncates a timestamp to its local calendar day.
func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

func Today() Day {
	return DayOf(time.Now())
}

// ParseDay validates an ISO date string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns midnight local time on the day.
func (d Day) Time() time.Time {
	t, err := time.ParseInLocation(dayLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Day) Weekday() DayOfWeek {
	return DayOfWeekFromTime(d.Time().Weekday())
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) Next() Day {
	return d.AddDays(1)
}

func (d Day) Before(other Day) bool {
	return d < other
}

func (d Day) After(other Day) bool {
	return d > other
}

func (d Day) IsZero() bool {
	return d == ""
}

func (d Day) String() string {
	return string(d)
}
