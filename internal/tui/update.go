package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/moodplan/internal/conflict"
	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/llm"
	"github.com/javiermolinar/moodplan/internal/microplan"
	"github.com/javiermolinar/moodplan/internal/plan"
	"github.com/javiermolinar/moodplan/internal/tui/commands"
	"github.com/javiermolinar/moodplan/internal/tui/input"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = max(20, msg.Width-6)
		return m, nil

	case commands.DayLoadedMsg:
		if !msg.Day.Date.Equal(m.date) {
			return m, nil
		}
		m.day = msg.Day
		m.loading = false
		m.cursor = min(m.cursor, max(0, len(m.day.Plans)-1))
		if m.mode == ModeForm {
			m.checkForm()
		}
		return m, nil

	case commands.ErrMsg:
		m.loading = false
		if m.mode == ModeProposal && m.proposal == nil {
			m.mode = ModeList
		}
		m.logger.Error("tui command failed", "err", msg.Err)
		return m, m.setStatus(msg.Err.Error(), true)

	case commands.PlanSavedMsg:
		m.mode = ModeList
		text := fmt.Sprintf("Saved %s", msg.Plan.Title)
		if msg.Created {
			text = fmt.Sprintf("Added %s", msg.Plan.Title)
		}
		if msg.Moved > 0 {
			text += fmt.Sprintf(", moved %d later", msg.Moved)
		}
		if msg.Failed > 0 {
			return m, tea.Batch(m.reload(), m.setStatus(fmt.Sprintf("%s, %d could not be moved", text, msg.Failed), true))
		}
		return m, tea.Batch(m.reload(), m.setStatus(text, false))

	case commands.PlanDeletedMsg:
		m.mode = ModeList
		return m, tea.Batch(m.reload(), m.setStatus("Deleted "+msg.Title, false))

	case commands.MicroPlanMsg:
		m.loading = false
		m.planner = msg.Planner
		m.proposal = msg.Proposal
		m.mode = ModeProposal
		return m, nil

	case commands.MicroPlanSavedMsg:
		m.mode = ModeList
		if m.proposal != nil {
			m.date = m.proposal.Date
		}
		m.proposal = nil
		return m, tea.Batch(m.reload(), m.setStatus(fmt.Sprintf("Saved %d plans", msg.Count), false))

	case commands.ClearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeForm:
		return m.handleFormKey(msg)
	case ModePrompt:
		return m.handlePromptKey(msg)
	case ModeProposal:
		return m.handleProposalKey(msg)
	case ModeConfirmDelete:
		return m.handleConfirmKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.plans())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "h", "left":
		return m.goTo(m.date.AddDate(0, 0, -1))
	case "l", "right":
		return m.goTo(m.date.AddDate(0, 0, 1))
	case "t":
		return m.goTo(m.now())
	case "r":
		return m, m.reload()
	case "a", "n":
		return m.openForm(nil)
	case "e", "enter":
		if p := m.selected(); p != nil {
			return m.openForm(p)
		}
	case " ":
		if p := m.selected(); p != nil {
			next := plan.StatusCompleted
			if p.Status == plan.StatusCompleted {
				next = plan.StatusPending
			}
			return m.setPlanStatus(p, next)
		}
	case "s":
		if p := m.selected(); p != nil {
			return m.setPlanStatus(p, plan.StatusInProgress)
		}
	case "c":
		if p := m.selected(); p != nil {
			return m.setPlanStatus(p, plan.StatusCancelled)
		}
	case "x", "d":
		if m.selected() != nil {
			m.mode = ModeConfirmDelete
		}
	case "p", "/":
		m.mode = ModePrompt
		m.prompt.SetValue("")
		if msg.String() == "/" {
			m.prompt.SetValue("/")
			m.prompt.CursorEnd()
		}
		return m, m.prompt.Focus()
	}
	return m, nil
}

func (m Model) goTo(date time.Time) (tea.Model, tea.Cmd) {
	m.date = dateutil.TruncateToDay(date)
	m.cursor = 0
	m.loading = true
	return m, m.reload()
}

func (m Model) openForm(editing *plan.Plan) (tea.Model, tea.Cmd) {
	defaultTime := ""
	if slot, ok := m.scheduler.NextAvailableStart(m.date, m.now()); ok {
		defaultTime = slot.Start
	}
	m.form = newPlanForm(m.styles, editing, defaultTime)
	m.mode = ModeForm
	m.checkForm()
	return m, textinput.Blink
}

// setPlanStatus changes a plan's status. Reopening a finished plan is refused
// while its slot is taken.
func (m Model) setPlanStatus(p *plan.Plan, status plan.Status) (tea.Model, tea.Cmd) {
	if p.Status == status {
		return m, nil
	}
	reopened := *p
	reopened.Status = status
	if !p.IsActive() && reopened.IsActive() && p.IsScheduled() {
		tasks := plan.ConflictTasks(plan.Without(m.plans(), p.ID))
		if conflict.HasOverlap(tasks, p.ScheduledTime, p.DurationMinutes, "") {
			return m, m.setStatus(fmt.Sprintf("%s at %s", plan.ErrTimeConflict, p.ScheduledTime), true)
		}
	}
	return m, commands.SetStatus(m.ctx, m.repo, p.ID, status)
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeList
		return m, nil
	case "tab", "down":
		m.form.setFocus(m.form.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.form.setFocus(m.form.focus - 1)
		return m, nil
	case "left", "right":
		if m.form.focus == fieldCategory {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			m.form.cycleCategory(delta)
			return m, nil
		}
	case "ctrl+u":
		if m.form.applySuggestion() {
			m.checkForm()
		}
		return m, nil
	case "enter", "ctrl+s":
		p, shifts, err := m.formPlan(msg.String() == "ctrl+s")
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		return m, commands.SavePlan(m.ctx, m.repo, p, shifts, m.logger)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	m.checkForm()
	return m, cmd
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeList
		m.prompt.Blur()
		return m, nil
	case "tab":
		if value, ok := input.Autocomplete(m.prompt.Value(), input.Commands); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil
	case "enter":
		name, arg := input.Parse(m.prompt.Value())
		m.prompt.Blur()
		m.mode = ModeList
		return m.runPrompt(name, arg)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) runPrompt(name, arg string) (tea.Model, tea.Cmd) {
	switch name {
	case "":
		return m, nil
	case "/goto":
		date, err := dateutil.ParseRelativeDate(arg, m.now())
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		return m.goTo(date)
	case "/plan":
		if arg == "" {
			return m, m.setStatus("Say how you feel, e.g. /plan tired but curious", true)
		}
		m.mode = ModeProposal
		m.proposal = nil
		m.loading = true
		req := microplan.Request{Mood: arg, TotalMinutes: llm.DefaultMicroPlanMinutes}
		return m, commands.MicroPlan(m.ctx, m.planner, m.plannerDeps(), req)
	default:
		return m, m.setStatus("Unknown command "+name, true)
	}
}

func (m Model) handleProposalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.proposal == nil {
		if msg.String() == "esc" {
			m.mode = ModeList
		}
		return m, nil
	}
	switch msg.String() {
	case "enter", "y":
		if len(m.proposal.Tasks) == 0 {
			m.mode = ModeList
			m.proposal = nil
			return m, nil
		}
		return m, commands.SaveMicroPlan(m.ctx, m.planner, m.proposal)
	case "esc", "n":
		m.mode = ModeList
		m.proposal = nil
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeList
	p := m.selected()
	if p == nil || msg.String() != "y" {
		return m, nil
	}
	return m, commands.DeletePlan(m.ctx, m.repo, p)
}
