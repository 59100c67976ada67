package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/plan"
)

func (a *App) listCmd() *cobra.Command {
	var (
		date     string
		status   string
		category string
		all      bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List plans",
		Long: `List plans for a day, ordered by start time. Unscheduled plans come last.

With --all every stored plan is listed, grouped by date.`,
		Example: `  moodplan list
  moodplan list --date tomorrow --category study
  moodplan list --all --status completed`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var f plan.Filter
			if !all {
				day, err := dateutil.ParseRelativeDate(date, a.now())
				if err != nil {
					return err
				}
				f.Date = &day
			}
			if status != "" {
				s, err := plan.ParseStatus(status)
				if err != nil {
					return err
				}
				f.Status = &s
			}
			if category != "" {
				c, err := plan.ParseCategory(category)
				if err != nil {
					return err
				}
				f.Category = &c
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			plans, err := a.repo.ListPlans(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("listing plans: %w", err)
			}

			if len(plans) == 0 {
				fmt.Fprintln(a.out, "No plans found.")
				return nil
			}

			width := titleWidth()
			var currentDate string
			for _, p := range plans {
				day := dateutil.Format(p.ScheduledDate)
				if day != currentDate {
					if currentDate != "" {
						fmt.Fprintln(a.out)
					}
					fmt.Fprintf(a.out, "=== %s ===\n", formatHeader(p.ScheduledDate.Format("Mon 2006-01-02")))
					currentDate = day
				}
				printPlanRow(a.out, p, width)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow or a weekday; default: today)")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Only plans with this status")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only plans in this category")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every date")

	return cmd
}
