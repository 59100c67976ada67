package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/javiermolinar/moodplan/internal/backend"
	"github.com/javiermolinar/moodplan/internal/config"
	"github.com/javiermolinar/moodplan/internal/db"
	"github.com/javiermolinar/moodplan/internal/plan"
	"github.com/javiermolinar/moodplan/internal/session"
)

// minIDPrefix is the shortest ID prefix findPlan will try to expand.
const minIDPrefix = 4

// ensureRepo opens the configured plan store on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	repo, err := openRepository(a.config, a.sessions)
	if err != nil {
		return err
	}
	a.repo = repo
	return nil
}

// openRepository returns the SQLite store or the remote backend, depending on
// storage.driver. The backend needs a stored session.
func openRepository(cfg *config.Config, sessions session.Store) (plan.Repository, error) {
	switch cfg.Storage.Driver {
	case config.DriverBackend:
		sess, err := sessions.Load()
		if err != nil {
			return nil, err
		}
		return backend.New(cfg.Backend.BaseURL, cfg.BackendTimeout(), sess), nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		repo, err := db.New(cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return repo, nil
	}
}

// findPlan looks a plan up by ID, or by a unique ID prefix as printed by list.
func (a *App) findPlan(ctx context.Context, ref string) (*plan.Plan, error) {
	ref = strings.TrimSpace(ref)
	p, err := a.repo.GetPlan(ctx, ref)
	if err == nil || !errors.Is(err, plan.ErrPlanNotFound) || len(ref) < minIDPrefix {
		return p, err
	}

	all, err := a.repo.ListPlans(ctx, plan.Filter{})
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	var match *plan.Plan
	for _, candidate := range all {
		if !strings.HasPrefix(candidate.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("id prefix %q matches more than one plan", ref)
		}
		match = candidate
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", plan.ErrPlanNotFound, ref)
	}
	return match, nil
}
