// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/javiermolinar/moodplan/internal/config"
	"github.com/javiermolinar/moodplan/internal/conflict"
	"github.com/javiermolinar/moodplan/internal/llm"
	"github.com/javiermolinar/moodplan/internal/microplan"
	"github.com/javiermolinar/moodplan/internal/plan"
	"github.com/javiermolinar/moodplan/internal/scheduler"
	"github.com/javiermolinar/moodplan/internal/summary"
)

// DayLoadedMsg is sent when a day's plans are loaded.
type DayLoadedMsg struct {
	Day *summary.Day
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// PlanSavedMsg is sent after a plan was created or updated.
type PlanSavedMsg struct {
	Plan    *plan.Plan
	Created bool
	Moved   int // plans pushed later to make room
	Failed  int // shifts that could not be written
}

// PlanDeletedMsg is sent after a plan was deleted.
type PlanDeletedMsg struct {
	Title string
}

// MicroPlanMsg carries a proposal waiting for approval.
type MicroPlanMsg struct {
	Proposal *microplan.Proposal
	Planner  *microplan.Planner
}

// PlannerDeps is what MicroPlan needs to build a planner.
type PlannerDeps struct {
	Client    llm.Client // optional, built from Config.LLM when nil
	Config    *config.Config
	Repo      plan.Repository
	Scheduler *scheduler.Scheduler
	Now       func() time.Time
}

// MicroPlanSavedMsg is sent when a proposal was stored.
type MicroPlanSavedMsg struct {
	Count int
}

// LoadDay loads and summarizes the plans of date.
func LoadDay(ctx context.Context, repo plan.Repository, date time.Time) tea.Cmd {
	return func() tea.Msg {
		day, err := summary.BuildDay(ctx, repo, date)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DayLoadedMsg{Day: day}
	}
}

// SavePlan creates p, or updates it when it already has an ID, then applies
// shifts through the repository.
func SavePlan(ctx context.Context, repo plan.Repository, p *plan.Plan, shifts []conflict.Shift, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		created := p.ID == ""
		saved := p
		if created {
			if err := repo.CreatePlan(ctx, p); err != nil {
				return ErrMsg{Err: fmt.Errorf("creating plan: %w", err)}
			}
		} else {
			title, category, at, duration := p.Title, p.Category, p.ScheduledTime, p.DurationMinutes
			u := plan.Update{Title: &title, Category: &category, ScheduledTime: &at, DurationMinutes: &duration}
			updated, err := repo.UpdatePlan(ctx, p.ID, u)
			if err != nil {
				return ErrMsg{Err: fmt.Errorf("updating plan: %w", err)}
			}
			saved = updated
		}

		failed := 0
		base := plan.ShiftUpdater(repo)
		conflict.ApplyChainShifts(ctx, shifts, func(ctx context.Context, id string, patch conflict.Patch) error {
			err := base(ctx, id, patch)
			if err != nil {
				failed++
			}
			return err
		}, logger)

		return PlanSavedMsg{Plan: saved, Created: created, Moved: len(shifts) - failed, Failed: failed}
	}
}

// SetStatus changes the status of a plan.
func SetStatus(ctx context.Context, repo plan.Repository, id string, status plan.Status) tea.Cmd {
	return func() tea.Msg {
		updated, err := repo.UpdatePlan(ctx, id, plan.WithStatus(status))
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("updating plan: %w", err)}
		}
		return PlanSavedMsg{Plan: updated}
	}
}

// DeletePlan removes a plan.
func DeletePlan(ctx context.Context, repo plan.Repository, p *plan.Plan) tea.Cmd {
	return func() tea.Msg {
		if err := repo.DeletePlan(ctx, p.ID); err != nil {
			return ErrMsg{Err: fmt.Errorf("deleting plan: %w", err)}
		}
		return PlanDeletedMsg{Title: p.Title}
	}
}

// MicroPlan asks for a micro plan. The planner is built on first use, and
// with it the LLM client when none is given.
func MicroPlan(ctx context.Context, planner *microplan.Planner, deps PlannerDeps, req microplan.Request) tea.Cmd {
	return func() tea.Msg {
		if planner == nil {
			client := deps.Client
			if client == nil {
				var err error
				client, err = llm.NewClient(ctx, deps.Config.LLM.Provider, deps.Config.LLM.Model, deps.Config.LLM.BaseURL)
				if err != nil {
					return ErrMsg{Err: fmt.Errorf("creating LLM client: %w", err)}
				}
			}
			planner = microplan.New(client, deps.Repo, deps.Scheduler, deps.Config.Conflict.MaxIterations)
			if deps.Now != nil {
				planner.WithNow(deps.Now)
			}
		}

		proposal, err := planner.Propose(ctx, req)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("planning: %w", err)}
		}
		return MicroPlanMsg{Proposal: proposal, Planner: planner}
	}
}

// SaveMicroPlan stores an approved proposal.
func SaveMicroPlan(ctx context.Context, planner *microplan.Planner, proposal *microplan.Proposal) tea.Cmd {
	return func() tea.Msg {
		if planner == nil || proposal == nil {
			return ErrMsg{Err: fmt.Errorf("no plan to save")}
		}
		saved, err := planner.Save(ctx, proposal)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return MicroPlanSavedMsg{Count: len(saved)}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
