package conflict

import (
	"context"

	"github.com/charmbracelet/log"
)

// DefaultMaxIterations bounds the probe-and-advance loop in NextFree.
const DefaultMaxIterations = 200

// Shift moves an existing task to a new start time.
type Shift struct {
	ID           string
	NewStartTime string // "HH:MM"
}

// Patch holds the fields written back for a single shift.
type Patch struct {
	ScheduledTime string
}

// UpdateFunc persists a patch for the task with the given ID.
type UpdateFunc func(ctx context.Context, id string, patch Patch) error

// Result is the outcome of checking a candidate slot.
type Result struct {
	Conflict   bool
	Suggestion string // next free "HH:MM", empty when none was found
}

// HasOverlap reports whether [candidateTime, candidateTime+duration) intersects
// any scheduled task other than excludeID.
// An empty or unparsable time, or a non-positive duration, never conflicts.
func HasOverlap(tasks []Task, candidateTime string, duration int, excludeID string) bool {
	return len(Conflicts(tasks, candidateTime, duration, excludeID)) > 0
}

// Conflicts returns the intervals the candidate collides with, in start order.
func Conflicts(tasks []Task, candidateTime string, duration int, excludeID string) []Interval {
	if candidateTime == "" || duration <= 0 {
		return nil
	}
	start, ok := ParseTimeToMinutes(candidateTime)
	if !ok {
		return nil
	}
	end := start + duration

	var hits []Interval
	for _, iv := range BuildIntervals(tasks, excludeID) {
		if iv.Overlaps(start, end) {
			hits = append(hits, iv)
		}
	}
	return hits
}

// NextFree returns the earliest start at or after candidateTime where a task of
// the given duration no longer overlaps anything. It returns an empty string
// when the candidate did not conflict in the first place, when no slot exists
// before midnight, or when maxIterations advances were not enough.
// A non-positive maxIterations uses DefaultMaxIterations.
func NextFree(tasks []Task, candidateTime string, duration int, excludeID string, maxIterations int) string {
	if candidateTime == "" || duration <= 0 {
		return ""
	}
	start, ok := ParseTimeToMinutes(candidateTime)
	if !ok {
		return ""
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	intervals := BuildIntervals(tasks, excludeID)
	moved, settled := false, false
	for range maxIterations {
		iv, found := firstOverlap(intervals, start, start+duration)
		if !found {
			settled = true
			break
		}
		start = max(start, iv.End)
		moved = true
	}

	if !settled || !moved || start >= MinutesPerDay {
		return ""
	}
	return MinutesToTime(start)
}

func firstOverlap(intervals []Interval, start, end int) (Interval, bool) {
	for _, iv := range intervals {
		if iv.Overlaps(start, end) {
			return iv, true
		}
	}
	return Interval{}, false
}

// Check runs HasOverlap and, only on conflict, NextFree.
func Check(tasks []Task, candidateTime string, duration int, excludeID string, maxIterations int) Result {
	if !HasOverlap(tasks, candidateTime, duration, excludeID) {
		return Result{}
	}
	return Result{
		Conflict:   true,
		Suggestion: NextFree(tasks, candidateTime, duration, excludeID, maxIterations),
	}
}

// ChainShifts computes the pushes needed to insert a new task at newStartTime.
// Each overlapping task is moved to start where the previous one now ends,
// keeping its duration and relative order; a moved task may in turn push the
// next one. The chain stops at the first task that starts after the current
// end, and it stops before any task would start at or past midnight, so the
// result can be shorter than the set of conflicting tasks.
func ChainShifts(tasks []Task, newStartTime string, newDuration int) []Shift {
	newStart, ok := ParseTimeToMinutes(newStartTime)
	if !ok || newDuration <= 0 {
		return nil
	}

	cursorEnd := newStart + newDuration
	var shifts []Shift
	for _, iv := range BuildIntervals(tasks, "") {
		if cursorEnd >= MinutesPerDay || iv.Start >= cursorEnd {
			break
		}
		if iv.End > newStart {
			shifts = append(shifts, Shift{ID: iv.ID, NewStartTime: MinutesToTime(cursorEnd)})
			cursorEnd += iv.Duration
		}
	}
	return shifts
}

// ApplyChainShifts persists each shift in order through update, waiting for
// each call before the next. A failed update is logged and skipped; earlier
// updates stay applied and later ones are still attempted.
// A nil logger falls back to log.Default().
func ApplyChainShifts(ctx context.Context, shifts []Shift, update UpdateFunc, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	for _, s := range shifts {
		if err := update(ctx, s.ID, Patch{ScheduledTime: s.NewStartTime}); err != nil {
			logger.Error("chain shift failed", "id", s.ID, "start", s.NewStartTime, "err", err)
		}
	}
}
