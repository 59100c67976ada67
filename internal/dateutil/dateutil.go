// Package dateutil provides date parsing and formatting utilities.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Layout is the storage and flag format for dates.
const Layout = "2006-01-02"

// ErrInvalidDateFormat is returned for input ParseDate does not recognize.
var ErrInvalidDateFormat = errors.New("date must be YYYY-MM-DD, today, tomorrow, yesterday or a weekday name")

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseDate parses a date relative to the current day. See ParseRelativeDate.
func ParseDate(s string) (time.Time, error) {
	return ParseRelativeDate(s, time.Now())
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": relativeTo's day
//   - "tomorrow" or "yesterday"
//   - Weekday names: "monday" through "sunday" (next occurrence, always future)
//   - Absolute date: "2025-01-15" (YYYY-MM-DD), interpreted in local time
//
// All inputs are case-insensitive. The result is always midnight.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if targetDay, ok := weekdayMap[input]; ok {
		return nextWeekday(today, targetDay), nil
	}

	result, err := time.ParseInLocation(Layout, input, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return result, nil
}

// Format renders a date in Layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsToday reports whether t falls on the same calendar day as now.
func IsToday(t, now time.Time) bool {
	return TruncateToDay(t).Equal(TruncateToDay(now.In(t.Location())))
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}
