// Package models defines the domain types: activities, completions, days,
// and the weekly-schedule set. Everything here is a plain value type with no
// storage awareness.
package models

import (
	"fmt"
	"strings"
	"time"
)

// DayOfWeek is a weekday with Monday fixed at 0. The canonical numbering
// keeps persisted schedule bits stable regardless of locale or of Go's
// Sunday-first time.Weekday.
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var dayAbbrevs = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (d DayOfWeek) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return dayNames[d]
}

// DayOfWeekFromTime converts Go's Sunday-first weekday to the Monday-first
// canonical numbering.
func DayOfWeekFromTime(wd time.Weekday) DayOfWeek {
	return DayOfWeek((int(wd) + 6) % 7)
}

// ParseDayOfWeek accepts a full name, a three-letter abbreviation, or a
// digit 0-6 (Monday=0).
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	in := strings.TrimSpace(s)
	for i := range dayNames {
		if strings.EqualFold(in, dayNames[i]) || strings.EqualFold(in, dayAbbrevs[i]) {
			return DayOfWeek(i), nil
		}
	}
	if len(in) == 1 && in[0] >= '0' && in[0] <= '6' {
		return DayOfWeek(in[0] - '0'), nil
	}
	return 0, fmt.Errorf("unrecognized weekday %q", s)
}

const daySetMask = 0x7f

// DaySet is a weekly schedule: one bit per weekday, bit N for DayOfWeek N.
// The zero value is the empty schedule.
type DaySet uint8

func NewDaySet(days ...DayOfWeek) DaySet {
	var s DaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

// DaySetFromBits restores a set from its persisted bitfield, dropping the
// unused high bit.
func DaySetFromBits(bits uint8) DaySet {
	return DaySet(bits & daySetMask)
}

func (s DaySet) Bits() uint8 {
	return uint8(s)
}

func (s DaySet) Add(d DayOfWeek) DaySet {
	return s | (1 << uint(d))
}

func (s DaySet) Remove(d DayOfWeek) DaySet {
	return s &^ (1 << uint(d))
}

func (s DaySet) Contains(d DayOfWeek) bool {
	return s&(1<<uint(d)) != 0
}

func (s DaySet) IsEmpty() bool {
	return s == 0
}

// Days returns the scheduled weekdays in Monday-first order.
func (s DaySet) Days() []DayOfWeek {
	var out []DayOfWeek
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}

func (s DaySet) String() string {
	days := s.Days()
	if len(days) == 0 {
		return "never"
	}
	abbrevs := make([]string, len(days))
	for i, d := range days {
		abbrevs[i] = dayAbbrevs[d]
	}
	return strings.Join(abbrevs, ", ")
}

// ParseDaySet parses a comma-separated weekday list. An empty input yields
// the empty set; callers decide whether that is acceptable.
func ParseDaySet(s string) (DaySet, error) {
	var set DaySet
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := ParseDayOfWeek(part)
		if err != nil {
			return 0, err
		}
		set = set.Add(d)
	}
	return set, nil
}
