package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/moodplan/internal/plan"
)

func (a *App) editCmd() *cobra.Command {
	var (
		title       string
		at          string
		duration    int
		category    string
		description string
		clearTime   bool
		shift       bool
	)

	cmd := &cobra.Command{
		Use:   "edit [plan-id]",
		Short: "Change a plan",
		Long: `Change the title, time, duration, category or notes of a plan.

Moving a plan or making it longer runs the same overlap check as add; the
plan never conflicts with its own old slot.

Example:
  moodplan edit 3f2a --time 10:00
  moodplan edit 3f2a --duration 90 --shift`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			var u plan.Update
			if flags.Changed("title") {
				u.Title = &title
			}
			if flags.Changed("description") {
				u.Description = &description
			}
			if flags.Changed("category") {
				c, err := plan.ParseCategory(category)
				if err != nil {
					return err
				}
				u.Category = &c
			}
			if flags.Changed("duration") {
				u.DurationMinutes = &duration
			}
			if flags.Changed("time") && clearTime {
				return errors.New("--time and --clear-time cannot be combined")
			}
			if flags.Changed("time") {
				u.ScheduledTime = &at
			}
			if clearTime {
				empty := ""
				u.ScheduledTime = &empty
			}
			if u.IsEmpty() {
				return errors.New("nothing to change, pass at least one flag")
			}
			if err := u.Validate(); err != nil {
				return err
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := cmd.Context()
			p, err := a.findPlan(ctx, args[0])
			if err != nil {
				return err
			}

			updated := *p
			u.Apply(&updated)

			var check slotCheck
			if u.ScheduledTime != nil || u.DurationMinutes != nil {
				check, err = a.prepareSlot(ctx, &updated, p.ID, shift || a.config.Conflict.AutoShift)
				if err != nil {
					return err
				}
			}

			saved, err := a.repo.UpdatePlan(ctx, p.ID, u)
			if err != nil {
				return fmt.Errorf("updating plan: %w", err)
			}
			a.logger.Debug("plan updated", "id", saved.ID)

			fmt.Fprintf(a.out, "%s %s: %s %s %s\n",
				formatSuccess("Updated plan"),
				shortID(saved.ID),
				saved.Title,
				formatCategory(saved.Category),
				timeRange(saved),
			)
			a.applyShifts(ctx, check)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&at, "time", "t", "", "New start time (HH:MM or 9:30 PM)")
	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "New duration in minutes (5-180)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category: study, work, personal or other")
	cmd.Flags().StringVar(&description, "description", "", "New notes")
	cmd.Flags().BoolVar(&clearTime, "clear-time", false, "Make the plan unscheduled")
	cmd.Flags().BoolVar(&shift, "shift", false, "Push overlapping plans later instead of failing")

	return cmd
}
