package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/plan"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date        string
		at          string
		duration    int
		category    string
		description string
		shift       bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new plan",
		Long: `Add a new plan to your day.

If the time overlaps another plan the command fails and prints the next free
time. With --shift (or conflict.auto_shift) the overlapping plans are pushed
later instead.

Example:
  moodplan add "Read chapter 3" --time 09:30 --duration 45 --category study
  moodplan add "Gym" --time "6:30 PM" --date tomorrow --shift`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var title string
			if len(args) == 1 {
				title = args[0]
			}

			if interactive || (title == "" && isInteractive()) {
				v := planFormValues{
					Title:    title,
					Category: category,
					Date:     date,
					Time:     at,
					Duration: strconv.Itoa(duration),
				}
				if err := planForm(&v).Run(); err != nil {
					return err
				}
				title, category, date, at = v.Title, v.Category, v.Date, v.Time
				if d := strings.TrimSpace(v.Duration); d != "" {
					duration, _ = strconv.Atoi(d)
				}
			}

			day, err := dateutil.ParseRelativeDate(date, a.now())
			if err != nil {
				return err
			}
			p, err := plan.New(title, category, "", at, duration)
			if err != nil {
				return err
			}
			p.ScheduledDate = day
			p.Description = strings.TrimSpace(description)

			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := cmd.Context()
			check, err := a.prepareSlot(ctx, p, "", shift || a.config.Conflict.AutoShift)
			if err != nil {
				return err
			}
			if err := a.repo.CreatePlan(ctx, p); err != nil {
				return fmt.Errorf("creating plan: %w", err)
			}
			a.logger.Debug("plan created", "id", p.ID, "date", dateutil.Format(p.ScheduledDate), "time", p.ScheduledTime)

			fmt.Fprintf(a.out, "%s %s: %s %s %s %s\n",
				formatSuccess("Created plan"),
				shortID(p.ID),
				p.Title,
				formatCategory(p.Category),
				dateutil.Format(p.ScheduledDate),
				strings.TrimSpace(timeRange(p)),
			)
			a.applyShifts(ctx, check)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow or a weekday; default: today)")
	cmd.Flags().StringVarP(&at, "time", "t", "", "Start time (HH:MM or 9:30 PM; blank for anytime)")
	cmd.Flags().IntVarP(&duration, "duration", "d", plan.DefaultDuration, "Duration in minutes (5-180)")
	cmd.Flags().StringVarP(&category, "category", "c", string(plan.CategoryStudy), "Category: study, work, personal or other")
	cmd.Flags().StringVar(&description, "description", "", "Optional notes")
	cmd.Flags().BoolVar(&shift, "shift", false, "Push overlapping plans later instead of failing")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill the plan in a form")

	return cmd
}
