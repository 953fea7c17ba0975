package utils

import (
	"time"

	"github.com/voxdiary/voxdiary/internal/constants"
)

// SameDay reports whether t falls on the same calendar day as ref,
// evaluated in ref's location.
func SameDay(t, ref time.Time) bool {
	t = t.In(ref.Location())
	return t.Year() == ref.Year() && t.Month() == ref.Month() && t.Day() == ref.Day()
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the most recent weekStart weekday at or
// before t, in t's location.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	d := StartOfDay(t)
	diff := (int(d.Weekday()) - int(weekStart) + 7) % 7
	return d.AddDate(0, 0, -diff)
}

// ParseDate parses a YYYY-MM-DD date string as midnight in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(constants.DateFormat, s, loc)
}
