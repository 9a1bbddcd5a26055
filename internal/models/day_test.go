package models

import (
	"testing"
	"time"
)

func TestDayOf_NormalizesTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 3, 6, 8, 15, 0, 0, time.Local)
	evening := time.Date(2024, 3, 6, 23, 59, 59, 0, time.Local)

	if DayOf(morning) != DayOf(evening) {
		t.Error("two timestamps on the same calendar day should map to the same Day")
	}
	if DayOf(morning) != "2024-03-06" {
		t.Errorf("unexpected day: %s", DayOf(morning))
	}
}

func TestDay_Weekday(t *testing.T) {
	tests := []struct {
		day  Day
		want DayOfWeek
	}{
		{"2024-03-04", Monday},
		{"2024-03-06", Wednesday},
		{"2024-03-10", Sunday},
	}

	for _, tt := range tests {
		if got := tt.day.Weekday(); got != tt.want {
			t.Errorf("%s.Weekday() = %s, want %s", tt.day, got, tt.want)
		}
	}
}

func TestDay_NextCrossesMonthBoundary(t *testing.T) {
	d := Day("2024-02-29")
	if d.Next() != "2024-03-01" {
		t.Errorf("expected 2024-03-01, got %s", d.Next())
	}
}

func TestDay_Ordering(t *testing.T) {
	earlier := Day("2024-03-05")
	later := Day("2024-03-06")

	if !earlier.Before(later) || later.Before(earlier) {
		t.Error("Before comparison is wrong")
	}
	if !later.After(earlier) {
		t.Error("After comparison is wrong")
	}
}

func TestParseDay(t *testing.T) {
	if _, err := ParseDay("2024-03-06"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseDay("03/06/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
	if _, err := ParseDay("2024-13-01"); err == nil {
		t.Error("expected error for invalid month")
	}
}

func TestActivity_OccursOn(t *testing.T) {
	a := &Activity{
		ID:        "a1",
		Days:      NewDaySet(Monday, Friday),
		StartDate: "2024-03-04", // a Monday
		Active:    true,
	}

	tests := []struct {
		day  Day
		want bool
	}{
		{"2024-03-04", true},  // start date itself, Monday
		{"2024-03-08", true},  // Friday after start
		{"2024-03-05", false}, // Tuesday, not scheduled
		{"2024-03-01", false}, // Friday before start
	}

	for _, tt := range tests {
		if got := a.OccursOn(tt.day); got != tt.want {
			t.Errorf("OccursOn(%s) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestActivity_DisplayTitle(t *testing.T) {
	a := &Activity{}
	if a.DisplayTitle() != UntitledActivityTitle {
		t.Errorf("expected placeholder title, got %q", a.DisplayTitle())
	}
	a.Title = "Meditate"
	if a.DisplayTitle() != "Meditate" {
		t.Errorf("expected real title, got %q", a.DisplayTitle())
	}
}
