package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/moodplan/internal/conflict"
	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/plan"
)

// slotCheck is the result of checking a time slot against a day's plans.
type slotCheck struct {
	Conflicts  []conflict.Interval
	Suggestion string           // next free start, "" when none before midnight
	Shifts     []conflict.Shift // pushes that make room, see conflict.ChainShifts
	Unresolved []conflict.Interval
	titles     map[string]string
}

// Title returns the title of a plan on the checked day.
func (c slotCheck) Title(id string) string {
	return c.titles[id]
}

// checkSlot compares at/duration with the active plans on date, ignoring
// excludeID so a plan never collides with itself.
func (a *App) checkSlot(ctx context.Context, date time.Time, at string, duration int, excludeID string) (slotCheck, error) {
	plans, err := a.repo.ListPlans(ctx, plan.OnDate(date))
	if err != nil {
		return slotCheck{}, fmt.Errorf("fetching plans: %w", err)
	}
	if excludeID != "" {
		plans = plan.Without(plans, excludeID)
	}

	tasks := plan.ConflictTasks(plans)
	res := slotCheck{
		Conflicts: conflict.Conflicts(tasks, at, duration, ""),
		titles:    make(map[string]string, len(plans)),
	}
	for _, p := range plans {
		res.titles[p.ID] = p.Title
	}
	if len(res.Conflicts) == 0 {
		return res, nil
	}

	res.Suggestion = conflict.NextFree(tasks, at, duration, "", a.config.Conflict.MaxIterations)
	res.Shifts = conflict.ChainShifts(tasks, at, duration)
	res.Unresolved = unresolvedAfter(tasks, res.Shifts, at, duration)
	return res, nil
}

// unresolvedAfter returns the intervals that still overlap something once the
// shifts are applied and the new plan is placed at at.
func unresolvedAfter(tasks []conflict.Task, shifts []conflict.Shift, at string, duration int) []conflict.Interval {
	moved := make(map[string]string, len(shifts))
	for _, s := range shifts {
		moved[s.ID] = s.NewStartTime
	}

	const newID = "\x00new"
	working := make([]conflict.Task, 0, len(tasks)+1)
	for _, t := range tasks {
		if start, ok := moved[t.ID]; ok {
			t.ScheduledTime = start
		}
		working = append(working, t)
	}
	working = append(working, conflict.Task{ID: newID, ScheduledTime: at, DurationMinutes: duration})

	var out []conflict.Interval
	seen := make(map[string]bool)
	add := func(iv conflict.Interval) {
		if iv.ID != newID && !seen[iv.ID] {
			seen[iv.ID] = true
			out = append(out, iv)
		}
	}

	for _, iv := range conflict.Conflicts(working, at, duration, newID) {
		add(iv)
	}
	for _, iv := range conflict.BuildIntervals(working, "") {
		if _, ok := moved[iv.ID]; !ok {
			continue
		}
		if conflict.HasOverlap(working, conflict.MinutesToTime(iv.Start), iv.Duration, iv.ID) {
			add(iv)
		}
	}
	return out
}

// prepareSlot runs the past-time and overlap checks for p before it is saved.
// On overlap it fails with plan.ErrTimeConflict, unless shift is set, in which
// case the returned check carries the chain shifts to apply after saving.
func (a *App) prepareSlot(ctx context.Context, p *plan.Plan, excludeID string, shift bool) (slotCheck, error) {
	if !p.IsScheduled() || !p.IsActive() {
		return slotCheck{}, nil
	}

	if a.config.Schedule.RejectPast && a.scheduler().IsPast(p.ScheduledDate, p.ScheduledTime, a.now()) {
		return slotCheck{}, fmt.Errorf("%w: %s %s", plan.ErrPastTime, dateutil.Format(p.ScheduledDate), p.ScheduledTime)
	}

	check, err := a.checkSlot(ctx, p.ScheduledDate, p.ScheduledTime, p.DurationMinutes, excludeID)
	if err != nil {
		return slotCheck{}, err
	}
	if len(check.Conflicts) == 0 {
		return check, nil
	}

	if !shift {
		a.printConflicts(check)
		return slotCheck{}, fmt.Errorf("%w at %s", plan.ErrTimeConflict, p.ScheduledTime)
	}

	if len(check.Unresolved) > 0 {
		fmt.Fprintln(a.out, formatWarning("Not every plan can be pushed before midnight; these still overlap:"))
		for _, iv := range check.Unresolved {
			fmt.Fprintf(a.out, "  %s-%s  %s\n", conflict.MinutesToTime(iv.Start), conflict.MinutesToTime(iv.End), iv.Title)
		}
	}
	return check, nil
}

// applyShifts persists the chain shifts and reports each move.
func (a *App) applyShifts(ctx context.Context, check slotCheck) {
	if len(check.Shifts) == 0 {
		return
	}

	base := plan.ShiftUpdater(a.repo)
	failed := make(map[string]bool)
	update := func(ctx context.Context, id string, patch conflict.Patch) error {
		err := base(ctx, id, patch)
		if err != nil {
			failed[id] = true
		}
		return err
	}
	conflict.ApplyChainShifts(ctx, check.Shifts, update, a.logger)

	for _, s := range check.Shifts {
		if failed[s.ID] {
			fmt.Fprintf(a.out, "  %s could not be moved to %s\n", formatWarning(check.Title(s.ID)), s.NewStartTime)
			continue
		}
		fmt.Fprintf(a.out, "  Moved %s to %s\n", check.Title(s.ID), s.NewStartTime)
	}
}

func (a *App) printConflicts(check slotCheck) {
	fmt.Fprintln(a.out, formatConflict("Overlaps with:"))
	for _, iv := range check.Conflicts {
		fmt.Fprintf(a.out, "  %s-%s  %s\n", conflict.MinutesToTime(iv.Start), conflict.MinutesToTime(iv.End), iv.Title)
	}
	if check.Suggestion != "" {
		fmt.Fprintf(a.out, "Next free time: %s\n", formatSuccess(check.Suggestion))
	} else {
		fmt.Fprintln(a.out, formatMuted("No free time left before midnight."))
	}
}
