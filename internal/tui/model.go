// Package tui provides the terminal user interface for moodplan.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/javiermolinar/moodplan/internal/config"
	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/llm"
	"github.com/javiermolinar/moodplan/internal/microplan"
	"github.com/javiermolinar/moodplan/internal/plan"
	"github.com/javiermolinar/moodplan/internal/scheduler"
	"github.com/javiermolinar/moodplan/internal/session"
	"github.com/javiermolinar/moodplan/internal/summary"
	"github.com/javiermolinar/moodplan/internal/tui/commands"
	"github.com/javiermolinar/moodplan/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeList Mode = iota
	ModeForm
	ModePrompt
	ModeProposal
	ModeConfirmDelete
)

const statusTTL = 4 * time.Second

// Options are the dependencies of the TUI.
type Options struct {
	Repo     plan.Repository
	Config   *config.Config
	Logger   *log.Logger
	Now      func() time.Time
	Sessions session.Store // shows the signed-in user for the backend store
	LLM      llm.Client    // optional, built from Config.LLM on first /plan
}

// Model is the main TUI model.
type Model struct {
	ctx       context.Context
	repo      plan.Repository
	config    *config.Config
	logger    *log.Logger
	now       func() time.Time
	scheduler *scheduler.Scheduler
	llmClient llm.Client
	planner   *microplan.Planner
	styles    *Styles
	user      string

	date    time.Time
	day     *summary.Day
	cursor  int
	mode    Mode
	loading bool

	form     planForm
	prompt   textinput.Model
	proposal *microplan.Proposal

	statusMsg string
	statusErr bool
	clearIn   time.Duration // 0 keeps status messages until replaced

	width  int
	height int
}

// New creates a new TUI model showing today.
func New(ctx context.Context, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	t, err := theme.Load(opts.Config.UI.Theme)
	if err != nil {
		opts.Logger.Warn("loading theme", "theme", opts.Config.UI.Theme, "err", err)
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	prompt := textinput.New()
	prompt.Placeholder = "how do you feel? or /goto tomorrow"
	prompt.CharLimit = 200
	prompt.TextStyle = styles.InputText
	prompt.Cursor.Style = styles.Cursor

	m := Model{
		ctx:       ctx,
		repo:      opts.Repo,
		config:    opts.Config,
		logger:    opts.Logger,
		now:       opts.Now,
		scheduler: scheduler.New(opts.Config.Schedule.DayStart, opts.Config.Schedule.DayEnd),
		llmClient: opts.LLM,
		styles:    styles,
		date:      dateutil.TruncateToDay(opts.Now()),
		prompt:    prompt,
		loading:   true,
		clearIn:   statusTTL,
	}

	if opts.Config.Storage.Driver == config.DriverBackend && opts.Sessions != nil {
		if s, err := opts.Sessions.Load(); err == nil {
			m.user = s.User
		}
	}
	return m
}

// Init loads the current day.
func (m Model) Init() tea.Cmd {
	return commands.LoadDay(m.ctx, m.repo, m.date)
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// plans returns the loaded plans of the shown day.
func (m Model) plans() []*plan.Plan {
	if m.day == nil {
		return nil
	}
	return m.day.Plans
}

func (m Model) selected() *plan.Plan {
	plans := m.plans()
	if m.cursor < 0 || m.cursor >= len(plans) {
		return nil
	}
	return plans[m.cursor]
}

func (m Model) isPast(p *plan.Plan) bool {
	if !p.IsScheduled() {
		return m.date.Before(dateutil.TruncateToDay(m.now()))
	}
	start, _ := p.StartMinutes()
	end := m.date.Add(time.Duration(start+p.DurationMinutes) * time.Minute)
	return !end.After(m.now())
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = isErr
	if m.clearIn <= 0 {
		return nil
	}
	return commands.ClearStatusAfter(m.clearIn)
}

func (m Model) reload() tea.Cmd {
	return commands.LoadDay(m.ctx, m.repo, m.date)
}

func (m Model) plannerDeps() commands.PlannerDeps {
	return commands.PlannerDeps{
		Client:    m.llmClient,
		Config:    m.config,
		Repo:      m.repo,
		Scheduler: m.scheduler,
		Now:       m.now,
	}
}
