package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/plan"
	"github.com/javiermolinar/moodplan/internal/tui/input"
)

const defaultWidth = 80

// View renders the model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderPlans())
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")

	switch m.mode {
	case ModeForm:
		b.WriteString("\n")
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	case ModePrompt:
		b.WriteString("\n")
		b.WriteString(m.renderPrompt())
		b.WriteString("\n")
	case ModeProposal:
		b.WriteString("\n")
		b.WriteString(m.renderProposal())
		b.WriteString("\n")
	case ModeConfirmDelete:
		if p := m.selected(); p != nil {
			b.WriteString("\n")
			b.WriteString(m.styles.Conflict.Render(fmt.Sprintf("Delete %q? ", p.Title)))
			b.WriteString(m.styles.Help.Render("y to confirm, any other key to keep it"))
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(m.styles.Error.Render(m.statusMsg))
		} else {
			b.WriteString(m.styles.Success.Render(m.statusMsg))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) width80() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("moodplan")
	date := m.styles.Date.Render(m.date.Format("Monday, January 2, 2006"))
	parts := []string{title, date}
	if dateutil.IsToday(m.date, m.now()) {
		parts = append(parts, m.styles.Muted.Render("today"))
	}
	if m.user != "" {
		parts = append(parts, m.styles.Muted.Render("@"+m.user))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderPlans() string {
	if m.loading && m.day == nil {
		return m.styles.Muted.Render("  Loading...") + "\n"
	}
	plans := m.plans()
	if len(plans) == 0 {
		return m.styles.Muted.Render("  Nothing planned. Press a to add a plan or p to ask for one.") + "\n"
	}

	titleWidth := max(10, m.width80()-40)
	var b strings.Builder
	for i, p := range plans {
		b.WriteString(m.renderRow(p, i == m.cursor, titleWidth))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(p *plan.Plan, selected bool, titleWidth int) string {
	when := "  anytime  "
	if p.IsScheduled() {
		when = p.ScheduledTime + "-" + p.EndTime()
	}

	title := truncate(p.Title, titleWidth)
	text := fmt.Sprintf("%s %s %-*s %4dm",
		statusSymbol(p.Status), when, titleWidth, title, p.DurationMinutes)

	style := m.styles.CategoryRow(p.Category, m.isPast(p))
	switch {
	case selected:
		style = m.styles.RowSelected
	case !p.IsActive():
		style = m.styles.RowDone
	}

	pointer := "  "
	if selected {
		pointer = m.styles.Key.Render("> ")
	}
	return pointer + m.styles.Badge(p.Category) + " " + style.Render(text)
}

func (m Model) renderStats() string {
	if m.day == nil {
		return ""
	}
	s := m.day.Stats
	parts := make([]string, 0, 6)
	for _, c := range s.Categories() {
		parts = append(parts, fmt.Sprintf("%s %s", c, formatMinutes(s.ByCategory[c])))
	}
	parts = append(parts, fmt.Sprintf("%d plans", s.Plans))
	if s.PlannedMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%d%% done", s.CompletionPercent()))
	}
	rule := m.styles.Rule.Render(strings.Repeat("─", min(60, m.width80())))
	return rule + "\n" + m.styles.Muted.Render(strings.Join(parts, " · "))
}

func (m Model) renderForm() string {
	f := m.form
	s := m.styles

	heading := "New plan"
	if f.editing != nil {
		heading = "Edit " + f.editing.Title
	}

	labels := [fieldCount]string{"Title", "Time", "Duration", "Category"}
	lines := []string{s.BoxTitle.Render(heading), ""}
	for i := range fieldCount {
		label := s.Label.Render(labels[i])
		if i == f.focus {
			label = s.LabelFocus.Render(labels[i])
		}
		var value string
		if i == fieldCategory {
			value = s.Muted.Render("< ") + s.Badge(categories[f.category]) + s.Muted.Render(" >")
		} else {
			value = f.inputs[i].View()
		}
		lines = append(lines, label+value)
	}
	lines = append(lines, "", m.formStatus(), "",
		s.Help.Render("enter save · ctrl+s save and push later plans · ctrl+u use next free · esc cancel"))

	return s.Box.Width(min(76, m.width80()-4)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderPrompt() string {
	s := m.styles
	lines := []string{s.Key.Render("› ") + m.prompt.View()}
	for _, c := range input.MatchingCommands(m.prompt.Value(), input.Commands) {
		lines = append(lines, s.Muted.Render(fmt.Sprintf("  %-14s %s", c.Usage, c.Description)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderProposal() string {
	s := m.styles
	if m.proposal == nil {
		return s.Muted.Render("  Thinking about a plan for you...")
	}

	p := m.proposal
	lines := []string{s.BoxTitle.Render("Suggested for " + p.Mood)}
	if p.PlanText != "" {
		lines = append(lines, s.Row.Render(p.PlanText))
	}
	lines = append(lines, "")
	if len(p.Tasks) == 0 {
		lines = append(lines, s.Warning.Render("No task fits in what is left of the day."))
	}
	for _, t := range p.Tasks {
		lines = append(lines, fmt.Sprintf("%s-%s %s %s %s",
			t.Start, t.End, s.Badge(t.Category), t.Title, s.Muted.Render(formatMinutes(t.DurationMinutes))))
	}
	for _, t := range p.Unplaced {
		lines = append(lines, s.Warning.Render("no room for "+t.Title))
	}
	lines = append(lines, "", s.Help.Render("enter save · esc discard"))
	return s.Box.Width(min(76, m.width80()-4)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderHelp() string {
	var keys []string
	switch m.mode {
	case ModeList:
		keys = []string{"a add", "e edit", "space done", "s start", "c cancel", "x delete", "p plan", "←/→ day", "t today", "q quit"}
	case ModePrompt:
		keys = []string{"enter run", "tab complete", "esc back"}
	default:
		return ""
	}
	return m.styles.Help.Render(strings.Join(keys, " · "))
}

func statusSymbol(s plan.Status) string {
	switch s {
	case plan.StatusInProgress:
		return "◐"
	case plan.StatusCompleted:
		return "●"
	case plan.StatusCancelled:
		return "✗"
	default:
		return "○"
	}
}

func formatMinutes(minutes int) string {
	h, mm := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", mm)
	case mm == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, mm)
	}
}

func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}
