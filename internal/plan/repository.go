package plan

import (
	"context"
	"time"

	"github.com/javiermolinar/moodplan/internal/conflict"
)

// Filter narrows ListPlans. Nil fields match everything.
type Filter struct {
	Date     *time.Time
	Category *Category
	Status   *Status
}

// Matches reports whether p passes the filter.
func (f Filter) Matches(p *Plan) bool {
	if f.Date != nil && !sameDay(*f.Date, p.ScheduledDate) {
		return false
	}
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	return true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// OnDate returns a filter for a single day.
func OnDate(date time.Time) Filter {
	return Filter{Date: &date}
}

// Repository defines the storage interface for plans.
type Repository interface {
	// CreatePlan adds a new plan and sets its ID.
	CreatePlan(ctx context.Context, p *Plan) error

	// GetPlan retrieves a plan by ID. Returns ErrPlanNotFound if it does not exist.
	GetPlan(ctx context.Context, id string) (*Plan, error)

	// ListPlans returns plans matching the filter ordered by date and time.
	ListPlans(ctx context.Context, f Filter) ([]*Plan, error)

	// UpdatePlan applies a partial update and returns the stored plan.
	UpdatePlan(ctx context.Context, id string, u Update) (*Plan, error)

	// DeletePlan removes a plan.
	DeletePlan(ctx context.Context, id string) error

	// Close releases any resources held by the repository.
	Close() error
}

// ShiftUpdater adapts a repository to the resolver's persistence sink.
func ShiftUpdater(repo Repository) conflict.UpdateFunc {
	return func(ctx context.Context, id string, patch conflict.Patch) error {
		_, err := repo.UpdatePlan(ctx, id, FromPatch(patch))
		return err
	}
}
