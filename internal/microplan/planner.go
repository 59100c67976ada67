// Package microplan turns a mood into a few short plans for today.
// It coordinates the LLM, the scheduler, the conflict resolver and the
// repository. Both the CLI and the TUI use it.
package microplan

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/javiermolinar/moodplan/internal/conflict"
	"github.com/javiermolinar/moodplan/internal/llm"
	"github.com/javiermolinar/moodplan/internal/plan"
	"github.com/javiermolinar/moodplan/internal/scheduler"
)

var (
	// ErrNoTimeLeft is returned when the day has no room for new plans.
	ErrNoTimeLeft = errors.New("no time left in the day")

	// ErrStaleProposal is returned by Save when the day changed since Propose.
	ErrStaleProposal = errors.New("proposal no longer fits the day")
)

// Planner proposes and saves micro plans.
type Planner struct {
	llmClient     llm.Client
	scheduler     *scheduler.Scheduler
	repo          plan.Repository
	maxIterations int
	now           func() time.Time
}

// New creates a Planner with the given dependencies.
func New(client llm.Client, repo plan.Repository, sched *scheduler.Scheduler, maxIterations int) *Planner {
	return &Planner{
		llmClient:     client,
		scheduler:     sched,
		repo:          repo,
		maxIterations: maxIterations,
		now:           time.Now,
	}
}

// WithNow replaces the clock used for "today" and past checks.
func (p *Planner) WithNow(now func() time.Time) *Planner {
	p.now = now
	return p
}

// Request is what the user asked for.
type Request struct {
	Mood         string
	Context      string
	TotalMinutes int
}

// ProposedTask is a micro task with a slot.
type ProposedTask struct {
	Title           string
	Category        plan.Category
	Start           string // "HH:MM"
	End             string
	DurationMinutes int
}

// Proposal is a placed micro plan waiting for the user's approval.
type Proposal struct {
	Date     time.Time
	Mood     string
	PlanText string
	Tasks    []ProposedTask
	Unplaced []llm.MicroTask
}

// TotalMinutes returns the planned time.
func (p *Proposal) TotalMinutes() int {
	total := 0
	for _, t := range p.Tasks {
		total += t.DurationMinutes
	}
	return total
}

// Propose asks the LLM for a micro plan and places its tasks after the
// default start of today, skipping past existing plans.
func (p *Planner) Propose(ctx context.Context, req Request) (*Proposal, error) {
	now := p.now()

	slot, ok := p.scheduler.NextAvailableStart(now, now)
	if !ok {
		return nil, ErrNoTimeLeft
	}

	existing, err := p.repo.ListPlans(ctx, plan.OnDate(slot.Date))
	if err != nil {
		return nil, fmt.Errorf("fetching today's plans: %w", err)
	}

	resp, err := llm.SuggestMicroPlan(ctx, p.llmClient, llm.MicroPlanRequest{
		Mood:         req.Mood,
		Context:      req.Context,
		TotalMinutes: req.TotalMinutes,
		Now:          now,
		Busy:         busySlots(existing),
	})
	if err != nil {
		return nil, err
	}

	placed, unplaced := Place(plan.ConflictTasks(existing), resp.Tasks, slot.Start, p.scheduler, p.maxIterations)
	return &Proposal{
		Date:     slot.Date,
		Mood:     req.Mood,
		PlanText: resp.PlanText,
		Tasks:    placed,
		Unplaced: unplaced,
	}, nil
}

// Place assigns start times to tasks in order. Each task starts where the
// previous one ended, or at the next free time when that overlaps. Tasks
// that cannot fit inside the day window are returned as unplaced.
func Place(existing []conflict.Task, tasks []llm.MicroTask, start string, sched *scheduler.Scheduler, maxIterations int) ([]ProposedTask, []llm.MicroTask) {
	working := append([]conflict.Task(nil), existing...)
	cursor := start

	var placed []ProposedTask
	var unplaced []llm.MicroTask
	for i, t := range tasks {
		duration := clampDuration(t.DurationMinutes)

		at := cursor
		if conflict.HasOverlap(working, at, duration, "") {
			at = conflict.NextFree(working, at, duration, "", maxIterations)
		}
		if at == "" || !sched.CanFit(at, duration) {
			unplaced = append(unplaced, t)
			continue
		}

		startMin, _ := conflict.ParseTimeToMinutes(at)
		end := conflict.MinutesToTime(startMin + duration)
		placed = append(placed, ProposedTask{
			Title:           t.Title,
			Category:        categoryOrOther(t.Category),
			Start:           at,
			End:             end,
			DurationMinutes: duration,
		})
		working = append(working, conflict.Task{
			ID:              "proposed-" + strconv.Itoa(i),
			Title:           t.Title,
			ScheduledTime:   at,
			DurationMinutes: duration,
		})
		cursor = end
	}
	return placed, unplaced
}

// Save re-checks the proposal against the stored plans and creates it.
func (p *Planner) Save(ctx context.Context, proposal *Proposal) ([]*plan.Plan, error) {
	if len(proposal.Tasks) == 0 {
		return nil, nil
	}

	existing, err := p.repo.ListPlans(ctx, plan.OnDate(proposal.Date))
	if err != nil {
		return nil, fmt.Errorf("fetching plans: %w", err)
	}

	v := NewValidator(p.now(), p.scheduler, existing)
	if result := v.Validate(proposal); !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrStaleProposal, result.Errors[0])
	}

	plans := make([]*plan.Plan, 0, len(proposal.Tasks))
	for _, t := range proposal.Tasks {
		np, err := plan.New(t.Title, string(t.Category), "", t.Start, t.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("converting %q: %w", t.Title, err)
		}
		np.ScheduledDate = proposal.Date
		np.Description = "Suggested for mood: " + proposal.Mood
		plans = append(plans, np)
	}

	if err := createAll(ctx, p.repo, plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// batchCreator is implemented by stores that can insert atomically.
type batchCreator interface {
	CreatePlans(ctx context.Context, plans []*plan.Plan) error
}

func createAll(ctx context.Context, repo plan.Repository, plans []*plan.Plan) error {
	if bc, ok := repo.(batchCreator); ok {
		if err := bc.CreatePlans(ctx, plans); err != nil {
			return fmt.Errorf("saving plans: %w", err)
		}
		return nil
	}
	for _, p := range plans {
		if err := repo.CreatePlan(ctx, p); err != nil {
			return fmt.Errorf("saving %q: %w", p.Title, err)
		}
	}
	return nil
}

func busySlots(plans []*plan.Plan) []llm.BusySlot {
	var out []llm.BusySlot
	for _, p := range plans {
		if !p.IsActive() || !p.IsScheduled() {
			continue
		}
		out = append(out, llm.BusySlot{Start: p.ScheduledTime, End: p.EndTime(), Title: p.Title})
	}
	return out
}

func clampDuration(d int) int {
	return min(plan.MaxDuration, max(plan.MinDuration, d))
}

func categoryOrOther(s string) plan.Category {
	c, err := plan.ParseCategory(s)
	if err != nil {
		return plan.CategoryOther
	}
	return c
}
