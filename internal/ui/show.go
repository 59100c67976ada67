package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/summary"
)

func (a *App) showCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a day overview",
		Long: `Display a day's plans with time per category and how much is done.

Use 'moodplan week' for the whole week.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := dateutil.ParseRelativeDate(date, a.now())
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			d, err := summary.BuildDay(cmd.Context(), a.repo, day)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "=== %s ===\n\n", formatHeader(d.Date.Format("Monday, January 2, 2006")))
			if len(d.Plans) == 0 {
				fmt.Fprintln(a.out, "Nothing planned for this day.")
				return nil
			}

			width := titleWidth()
			for _, p := range d.Plans {
				printPlanRow(a.out, p, width)
			}

			fmt.Fprintln(a.out)
			printStats(a.out, d.Stats)
			if d.Stats.PlannedMinutes > 0 {
				fmt.Fprintf(a.out, "Progress: %s\n", ProgressBar(d.Stats.CompletedMinutes, d.Stats.PlannedMinutes, 20))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow or a weekday; default: today)")
	return cmd
}
