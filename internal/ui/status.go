package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/moodplan/internal/plan"
)

// statusCmd builds done/start/cancel, which only differ in the status they set.
func (a *App) statusCmd(use, short string, status plan.Status, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [plan-id]",
		Short: short,
		Long: short + `.

The ID can be shortened to any unique prefix of at least 4 characters.

Example:
  moodplan ` + use + ` 3f2a9c1e`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := cmd.Context()
			p, err := a.findPlan(ctx, args[0])
			if err != nil {
				return err
			}
			if p.Status == status {
				fmt.Fprintf(a.out, "%s is already %s\n", p.Title, status)
				return nil
			}

			// Reopening a finished plan takes its slot back.
			if !p.IsActive() && status != plan.StatusCompleted && status != plan.StatusCancelled && p.IsScheduled() {
				check, err := a.checkSlot(ctx, p.ScheduledDate, p.ScheduledTime, p.DurationMinutes, p.ID)
				if err != nil {
					return err
				}
				if len(check.Conflicts) > 0 {
					a.printConflicts(check)
					return fmt.Errorf("%w at %s", plan.ErrTimeConflict, p.ScheduledTime)
				}
			}

			updated, err := a.repo.UpdatePlan(ctx, p.ID, plan.WithStatus(status))
			if err != nil {
				return fmt.Errorf("updating plan: %w", err)
			}
			a.logger.Debug("plan status changed", "id", updated.ID, "status", updated.Status)

			fmt.Fprintf(a.out, "%s %s: %s\n", formatSuccess(verb), shortID(updated.ID), updated.Title)
			return nil
		},
	}
}
