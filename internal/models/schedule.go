package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a lowercase English weekday name used as the schedule key.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the week in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday validates a weekday name from request input.
func ParseWeekday(raw string) (Weekday, error) {
	day := Weekday(strings.ToLower(strings.TrimSpace(raw)))
	for _, w := range Weekdays {
		if day == w {
			return day, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", raw)
}

// DateLayout is the ISO date layout used for all persisted dates. The
// zero-padded form keeps lexicographic order equal to chronological order.
const DateLayout = "2006-01-02"

// ParseDate validates an ISO YYYY-MM-DD date string.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, raw)
}

// WeekdayOf derives the schedule key for a calendar date.
func WeekdayOf(date string) (Weekday, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return Weekday(strings.ToLower(t.Weekday().String())), nil
}

// ScheduleEntry is one recurring class slot inside a weekday.
type ScheduleEntry struct {
	ID        string  `json:"id"`
	SubjectID string  `json:"subjectId"`
	Hours     float64 `json:"hours"`
}

// WeeklySchedule maps weekday names to ordered schedule entries. Absent
// keys are treated as empty days.
type WeeklySchedule map[Weekday][]ScheduleEntry

// EntriesFor returns the ordered entries for a weekday.
func (w WeeklySchedule) EntriesFor(day Weekday) []ScheduleEntry {
	if w == nil {
		return nil
	}
	return w[day]
}

// ValidHours reports whether hours is positive in half-hour steps.
func ValidHours(hours float64) bool {
	if hours <= 0 {
		return false
	}
	doubled := hours * 2
	return doubled == float64(int64(doubled))
}
