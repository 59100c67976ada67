// Package conflict detects overlapping scheduled tasks, finds the next free
// start time and computes cascading reschedules.
//
// Every function takes the full task collection and builds its intervals
// from scratch. Nothing is cached between calls.
package conflict

import (
	"cmp"
	"slices"
)

// Task is the view of a scheduled item the resolver works on.
type Task struct {
	ID              string
	Title           string
	ScheduledTime   string // "HH:MM" or "HH:MM AM/PM", empty when unscheduled
	DurationMinutes int
}

// Interval is the half-open range [Start, End) a task occupies, in minutes
// since midnight. End may exceed MinutesPerDay; it never wraps.
type Interval struct {
	ID       string
	Title    string
	Start    int
	End      int
	Duration int
}

// Overlaps reports whether the interval intersects [start, end).
// Touching endpoints do not overlap.
func (iv Interval) Overlaps(start, end int) bool {
	return start < iv.End && iv.Start < end
}

// BuildIntervals returns the intervals of all schedulable tasks sorted by
// start time. Tasks without a time, without a positive duration or with an
// unparsable time are skipped, as is the task whose ID equals excludeID
// when excludeID is not empty. Tasks with equal starts keep their order.
func BuildIntervals(tasks []Task, excludeID string) []Interval {
	intervals := make([]Interval, 0, len(tasks))
	for _, t := range tasks {
		if t.ScheduledTime == "" || t.DurationMinutes <= 0 {
			continue
		}
		if excludeID != "" && t.ID == excludeID {
			continue
		}
		start, ok := ParseTimeToMinutes(t.ScheduledTime)
		if !ok {
			continue
		}
		intervals = append(intervals, Interval{
			ID:       t.ID,
			Title:    t.Title,
			Start:    start,
			End:      start + t.DurationMinutes,
			Duration: t.DurationMinutes,
		})
	}

	slices.SortStableFunc(intervals, func(a, b Interval) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return intervals
}
