package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/moodplan/internal/conflict"
	"github.com/javiermolinar/moodplan/internal/plan"
)

// Form fields in focus order.
const (
	fieldTitle = iota
	fieldTime
	fieldDuration
	fieldCategory
	fieldCount
)

var categories = []plan.Category{
	plan.CategoryStudy,
	plan.CategoryWork,
	plan.CategoryPersonal,
	plan.CategoryOther,
}

var errFormBlocked = errors.New("resolve the overlap first")

// planForm is the add/edit form with its live overlap check.
type planForm struct {
	editing  *plan.Plan // nil for a new plan
	inputs   [fieldCategory]textinput.Model
	category int
	focus    int

	// Recomputed after every change, see Model.checkForm.
	err       error
	past      bool
	conflicts []conflict.Interval
	result    conflict.Result
}

func newPlanForm(styles *Styles, editing *plan.Plan, defaultTime string) planForm {
	f := planForm{editing: editing}

	placeholders := [fieldCategory]string{"What will you do?", "HH:MM", strconv.Itoa(plan.DefaultDuration)}
	limits := [fieldCategory]int{120, 8, 3}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		in.Prompt = ""
		in.TextStyle = styles.InputText
		in.PlaceholderStyle = styles.Muted
		in.Cursor.Style = styles.Cursor
		f.inputs[i] = in
	}

	if editing != nil {
		f.inputs[fieldTitle].SetValue(editing.Title)
		f.inputs[fieldTime].SetValue(editing.ScheduledTime)
		f.inputs[fieldDuration].SetValue(strconv.Itoa(editing.DurationMinutes))
		for i, c := range categories {
			if c == editing.Category {
				f.category = i
			}
		}
	} else {
		f.inputs[fieldTime].SetValue(defaultTime)
		f.inputs[fieldDuration].SetValue(strconv.Itoa(plan.DefaultDuration))
	}

	f.inputs[fieldTitle].Focus()
	return f
}

func (f *planForm) setFocus(field int) {
	f.focus = (field + fieldCount) % fieldCount
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *planForm) cycleCategory(delta int) {
	f.category = (f.category + delta + len(categories)) % len(categories)
}

func (f planForm) title() string {
	return strings.TrimSpace(f.inputs[fieldTitle].Value())
}

// slot parses the time and duration fields. at is "" for an unscheduled plan.
func (f planForm) slot() (at string, duration int, err error) {
	raw := strings.TrimSpace(f.inputs[fieldTime].Value())
	if raw != "" {
		var ok bool
		at, ok = conflict.Normalize(raw)
		if !ok {
			return "", 0, plan.ErrInvalidTime
		}
	}

	duration, err = strconv.Atoi(strings.TrimSpace(f.inputs[fieldDuration].Value()))
	if err != nil || duration < plan.MinDuration || duration > plan.MaxDuration {
		return "", 0, plan.ErrInvalidDuration
	}
	return at, duration, nil
}

// hasConflict is true when the slot overlaps an active plan.
func (f planForm) hasConflict() bool {
	return f.err == nil && f.result.Conflict
}

// applySuggestion moves the start to the suggested free time.
func (f *planForm) applySuggestion() bool {
	if !f.hasConflict() || f.result.Suggestion == "" {
		return false
	}
	f.inputs[fieldTime].SetValue(f.result.Suggestion)
	return true
}

func (f planForm) update(msg tea.Msg) (planForm, tea.Cmd) {
	if f.focus == fieldCategory {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// checkForm re-runs validation and the overlap check against the shown day.
func (m *Model) checkForm() {
	f := &m.form
	f.err, f.past, f.conflicts, f.result = nil, false, nil, conflict.Result{}

	if f.title() == "" {
		f.err = plan.ErrEmptyTitle
	}
	at, duration, err := f.slot()
	if err != nil {
		f.err = err
		return
	}
	if at == "" {
		return
	}

	if m.config.Schedule.RejectPast && m.scheduler.IsPast(m.date, at, m.now()) {
		f.past = true
	}

	tasks := plan.ConflictTasks(m.otherPlans())
	f.result = conflict.Check(tasks, at, duration, "", m.config.Conflict.MaxIterations)
	if f.result.Conflict {
		f.conflicts = conflict.Conflicts(tasks, at, duration, "")
	}
}

// otherPlans are the day's plans minus the one being edited.
func (m Model) otherPlans() []*plan.Plan {
	if m.form.editing == nil {
		return m.plans()
	}
	return plan.Without(m.plans(), m.form.editing.ID)
}

// formPlan builds the plan to save. With shift, it also returns the chain
// shifts that make room for it.
func (m Model) formPlan(shift bool) (*plan.Plan, []conflict.Shift, error) {
	f := m.form
	if f.err != nil {
		return nil, nil, f.err
	}
	if f.past {
		return nil, nil, plan.ErrPastTime
	}
	if f.hasConflict() && !shift {
		return nil, nil, errFormBlocked
	}

	at, duration, _ := f.slot()
	np, err := plan.New(f.title(), string(categories[f.category]), "", at, duration)
	if err != nil {
		return nil, nil, err
	}

	p := np
	if f.editing != nil {
		edited := *f.editing
		edited.Title = np.Title
		edited.Category = np.Category
		edited.ScheduledTime = np.ScheduledTime
		edited.DurationMinutes = np.DurationMinutes
		p = &edited
	}
	p.ScheduledDate = m.date

	var shifts []conflict.Shift
	if shift && f.hasConflict() {
		shifts = conflict.ChainShifts(plan.ConflictTasks(m.otherPlans()), at, duration)
	}
	return p, shifts, nil
}

// formStatus is the one-line verdict shown under the form.
func (m Model) formStatus() string {
	f := m.form
	s := m.styles
	switch {
	case f.err != nil:
		return s.Warning.Render(f.err.Error())
	case f.past:
		return s.Conflict.Render(plan.ErrPastTime.Error())
	case f.hasConflict():
		titles := make([]string, 0, len(f.conflicts))
		for _, iv := range f.conflicts {
			titles = append(titles, fmt.Sprintf("%s %s-%s", iv.Title, conflict.MinutesToTime(iv.Start), conflict.MinutesToTime(iv.End)))
		}
		line := s.Conflict.Render("Overlaps " + strings.Join(titles, ", "))
		if f.result.Suggestion != "" {
			return line + s.Muted.Render("  next free ") + s.Success.Render(f.result.Suggestion) + s.Muted.Render(" (ctrl+u)")
		}
		return line + s.Muted.Render("  no free time left before midnight")
	default:
		return s.Success.Render("Free")
	}
}
