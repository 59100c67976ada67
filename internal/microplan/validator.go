package microplan

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/moodplan/internal/conflict"
	"github.com/javiermolinar/moodplan/internal/plan"
	"github.com/javiermolinar/moodplan/internal/scheduler"
)

// ValidationError represents a single problem with a proposed task.
type ValidationError struct {
	TaskIndex int
	Field     string // "start", "window", "past" or "overlap"
	Message   string
}

// String returns a formatted error message.
func (e ValidationError) String() string {
	return fmt.Sprintf("task %d: %s: %s", e.TaskIndex+1, e.Field, e.Message)
}

// ValidationResult contains the result of validating a proposal.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// FormatErrors returns all errors, one per line.
func (r ValidationResult) FormatErrors() string {
	lines := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		lines[i] = "- " + e.String()
	}
	return strings.Join(lines, "\n")
}

// Validator checks a proposal against the day it will be saved into.
type Validator struct {
	now      time.Time
	sched    *scheduler.Scheduler
	existing []conflict.Task
}

// NewValidator creates a Validator for the given stored plans.
func NewValidator(now time.Time, sched *scheduler.Scheduler, existing []*plan.Plan) *Validator {
	return &Validator{
		now:      now,
		sched:    sched,
		existing: plan.ConflictTasks(existing),
	}
}

// Validate checks that every task:
//   - has a parsable start
//   - fits inside the day window
//   - does not start in the past
//   - overlaps neither stored plans nor earlier tasks of the proposal
func (v *Validator) Validate(p *Proposal) ValidationResult {
	result := ValidationResult{Valid: true}
	add := func(i int, field, msg string) {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{TaskIndex: i, Field: field, Message: msg})
	}

	working := append([]conflict.Task(nil), v.existing...)
	for i, t := range p.Tasks {
		if _, ok := conflict.ParseTimeToMinutes(t.Start); !ok {
			add(i, "start", fmt.Sprintf("%q is not a valid time", t.Start))
			continue
		}
		if !v.sched.CanFit(t.Start, t.DurationMinutes) {
			add(i, "window", fmt.Sprintf("%s for %d minutes is outside %s-%s",
				t.Start, t.DurationMinutes, v.sched.DayStart(), v.sched.DayEnd()))
		}
		if v.sched.IsPast(p.Date, t.Start, v.now) {
			add(i, "past", fmt.Sprintf("%s has already started", t.Start))
		}
		if hits := conflict.Conflicts(working, t.Start, t.DurationMinutes, ""); len(hits) > 0 {
			add(i, "overlap", fmt.Sprintf("%s overlaps %q (%s-%s)", t.Start,
				hits[0].Title, conflict.MinutesToTime(hits[0].Start), conflict.MinutesToTime(hits[0].End)))
		}
		working = append(working, conflict.Task{
			ID:              fmt.Sprintf("proposed-%d", i),
			Title:           t.Title,
			ScheduledTime:   t.Start,
			DurationMinutes: t.DurationMinutes,
		})
	}
	return result
}
