package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/moodplan/internal/plan"
	"github.com/javiermolinar/moodplan/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	Title       lipgloss.Style
	Date        lipgloss.Style
	Muted       lipgloss.Style
	Rule        lipgloss.Style
	Row         lipgloss.Style
	RowSelected lipgloss.Style
	RowDone     lipgloss.Style

	Conflict lipgloss.Style
	Warning  lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style

	Box        lipgloss.Style
	BoxTitle   lipgloss.Style
	Label      lipgloss.Style
	LabelFocus lipgloss.Style
	InputText  lipgloss.Style
	Cursor     lipgloss.Style
	Help       lipgloss.Style
	Key        lipgloss.Style
}

// NewStyles creates the styles for t.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)

	return &Styles{
		palette: p,

		Title: lipgloss.NewStyle().
			Foreground(p.TextOnAccent).
			Background(p.Accent).
			Bold(true).
			Padding(0, 1),
		Date:  lipgloss.NewStyle().Foreground(p.Fg).Bold(true),
		Muted: lipgloss.NewStyle().Foreground(p.FgMuted),
		Rule:  lipgloss.NewStyle().Foreground(p.BgSelection),
		Row:   lipgloss.NewStyle().Foreground(p.Fg),
		RowSelected: lipgloss.NewStyle().
			Foreground(p.Fg).
			Background(p.BgSelection).
			Bold(true),
		RowDone: lipgloss.NewStyle().Foreground(p.FgMuted).Strikethrough(true),

		Conflict: lipgloss.NewStyle().Foreground(p.Conflict).Bold(true),
		Warning:  lipgloss.NewStyle().Foreground(p.Warning),
		Success:  lipgloss.NewStyle().Foreground(p.Category(string(plan.CategoryPersonal)).Fg),
		Error: lipgloss.NewStyle().
			Foreground(p.TextOnConflict).
			Background(p.Conflict).
			Padding(0, 1),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		BoxTitle:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Label:      lipgloss.NewStyle().Foreground(p.FgMuted).Width(10),
		LabelFocus: lipgloss.NewStyle().Foreground(p.Accent).Bold(true).Width(10),
		InputText:  lipgloss.NewStyle().Foreground(p.Fg),
		Cursor:     lipgloss.NewStyle().Foreground(p.Accent),
		Help:       lipgloss.NewStyle().Foreground(p.FgMuted),
		Key:        lipgloss.NewStyle().Foreground(p.Accent),
	}
}

// Badge renders a category tag in its color.
func (s *Styles) Badge(c plan.Category) string {
	colors := s.palette.Category(string(c))
	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Fg).
		Padding(0, 1).
		Render(string(c))
}

// CategoryRow returns the row style for a plan, muted once it has ended.
func (s *Styles) CategoryRow(c plan.Category, past bool) lipgloss.Style {
	colors := s.palette.Category(string(c))
	bg := colors.Bg
	if past {
		bg = colors.PastBg
	}
	return lipgloss.NewStyle().Foreground(s.palette.Fg).Background(bg)
}
