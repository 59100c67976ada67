// Package scheduler provides time-aware scheduling logic for plans.
package scheduler

import (
	"time"

	"github.com/javiermolinar/moodplan/internal/conflict"
	"github.com/javiermolinar/moodplan/internal/dateutil"
)

// Scheduler knows the configured day window and what "now" means for a plan.
type Scheduler struct {
	dayStart int // minutes since midnight
	dayEnd   int
}

// New creates a Scheduler for the given "HH:MM" day window.
// Unparsable bounds fall back to the full day.
func New(dayStart, dayEnd string) *Scheduler {
	start, ok := conflict.ParseTimeToMinutes(dayStart)
	if !ok {
		start = 0
	}
	end, ok := conflict.ParseTimeToMinutes(dayEnd)
	if !ok {
		end = conflict.MinutesPerDay
	}
	return &Scheduler{dayStart: start, dayEnd: end}
}

// AvailableSlot is the part of a day still open for new plans.
type AvailableSlot struct {
	Date  time.Time
	Start string // "HH:MM"
	End   string // "HH:MM"
}

// Minutes returns the length of the slot.
func (a AvailableSlot) Minutes() int {
	start, ok1 := conflict.ParseTimeToMinutes(a.Start)
	end, ok2 := conflict.ParseTimeToMinutes(a.End)
	if !ok1 || !ok2 || start >= end {
		return 0
	}
	return end - start
}

// NextAvailableStart returns where a new plan on date should start by default.
// For today that is now rounded up to the next quarter hour, never before the
// day start. Past days have no slot, and neither does today once the rounded
// time reaches the day end.
func (s *Scheduler) NextAvailableStart(date, now time.Time) (AvailableSlot, bool) {
	day := dateutil.TruncateToDay(date)
	today := dateutil.TruncateToDay(now.In(date.Location()))

	start := s.dayStart
	switch {
	case day.Before(today):
		return AvailableSlot{}, false
	case day.Equal(today):
		rounded := roundUpTo15Min(now)
		if !dateutil.IsToday(rounded, now) {
			return AvailableSlot{}, false
		}
		start = max(start, minuteOfDay(rounded))
	}

	if start >= s.dayEnd {
		return AvailableSlot{}, false
	}
	return AvailableSlot{
		Date:  day,
		Start: conflict.MinutesToTime(start),
		End:   conflict.MinutesToTime(s.dayEnd),
	}, true
}

// IsPast reports whether a plan starting at scheduledTime on date would
// already have started at now. Unscheduled or unparsable times are never past.
func (s *Scheduler) IsPast(date time.Time, scheduledTime string, now time.Time) bool {
	start, ok := conflict.ParseTimeToMinutes(scheduledTime)
	if !ok {
		return false
	}

	day := dateutil.TruncateToDay(date)
	today := dateutil.TruncateToDay(now.In(date.Location()))
	if day.Before(today) {
		return true
	}
	if day.After(today) {
		return false
	}
	return start < minuteOfDay(now)
}

// CanFit returns true if a plan of the given duration starting at startTime
// stays inside the day window.
func (s *Scheduler) CanFit(startTime string, durationMinutes int) bool {
	start, ok := conflict.ParseTimeToMinutes(startTime)
	if !ok || durationMinutes <= 0 {
		return false
	}
	if start < s.dayStart || start >= s.dayEnd {
		return false
	}
	return start+durationMinutes <= s.dayEnd
}

// DayStart returns the configured day start time.
func (s *Scheduler) DayStart() string {
	return conflict.MinutesToTime(s.dayStart)
}

// DayEnd returns the configured day end time.
func (s *Scheduler) DayEnd() string {
	return conflict.MinutesToTime(s.dayEnd)
}

// RoundUp returns t rounded up to the next 15-minute boundary as "HH:MM".
func RoundUp(t time.Time) string {
	return roundUpTo15Min(t).Format("15:04")
}

// roundUpTo15Min rounds a time up to the next 15-minute boundary.
func roundUpTo15Min(t time.Time) time.Time {
	minute := t.Minute()
	remainder := minute % 15
	if remainder == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t
	}
	return t.Add(time.Duration(15-remainder) * time.Minute).Truncate(time.Minute)
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
