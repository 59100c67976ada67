package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/moodplan/internal/config"
	"github.com/javiermolinar/moodplan/internal/llm"
	"github.com/javiermolinar/moodplan/internal/plan"
	"github.com/javiermolinar/moodplan/internal/scheduler"
	"github.com/javiermolinar/moodplan/internal/session"
	"github.com/javiermolinar/moodplan/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config   *config.Config
	logger   *log.Logger
	sessions session.Store
	repo     plan.Repository // opened on first use, see ensureRepo
	out      io.Writer
	now      func() time.Time
	newLLM   func(ctx context.Context, model string) (llm.Client, error)
	noColor  bool
	root     *cobra.Command
}

// NewApp creates a new CLI application. The plan store is opened lazily so
// commands like config and login work without one.
func NewApp(cfg *config.Config, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		config:   cfg,
		logger:   logger,
		sessions: session.KeyringStore{},
		out:      os.Stdout,
		now:      time.Now,
	}
	a.newLLM = a.defaultLLM

	a.root = &cobra.Command{
		Use:   "moodplan",
		Short: "Plan small, doable tasks around how you feel",
		Long: `Moodplan keeps a day of study, work and personal plans free of overlaps.

Adding a plan at a taken time suggests the next free slot, or with --shift
pushes the later plans forward. Run without a command to open the planner.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				DisableColor()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			return tui.Run(cmd.Context(), tui.Options{
				Repo:     a.repo,
				Config:   a.config,
				Logger:   a.logger,
				Now:      a.now,
				Sessions: a.sessions,
			})
		},
	}

	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.checkCmd())
	a.root.AddCommand(a.suggestCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.statusCmd("done", "Mark a plan as completed", plan.StatusCompleted, "Completed"))
	a.root.AddCommand(a.statusCmd("start", "Mark a plan as in progress", plan.StatusInProgress, "Started"))
	a.root.AddCommand(a.statusCmd("cancel", "Cancel a plan and free its slot", plan.StatusCancelled, "Cancelled"))
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.planCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.loginCmd())
	a.root.AddCommand(a.logoutCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "moodplan %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// Close releases the plan store if one was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

func (a *App) scheduler() *scheduler.Scheduler {
	return scheduler.New(a.config.Schedule.DayStart, a.config.Schedule.DayEnd)
}
