package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/moodplan/internal/conflict"
	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/plan"
)

func (a *App) checkCmd() *cobra.Command {
	var (
		date      string
		at        string
		duration  int
		excludeID string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a time is free",
		Long: `Check a start time and duration against the day's active plans without
saving anything. Prints the overlapping plans and the next free time.

Example:
  moodplan check --time 14:00 --duration 60
  moodplan check --time 14:00 --duration 90 --exclude 3f2a`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, start, err := a.parseSlot(date, at, duration)
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if excludeID != "" {
				p, err := a.findPlan(ctx, excludeID)
				if err != nil {
					return err
				}
				excludeID = p.ID
			}

			check, err := a.checkSlot(ctx, day, start, duration, excludeID)
			if err != nil {
				return err
			}
			if len(check.Conflicts) == 0 {
				startMin, _ := conflict.ParseTimeToMinutes(start)
				fmt.Fprintf(a.out, "%s %s-%s is free\n",
					formatSuccess("OK"), start, conflict.MinutesToTime(startMin+duration))
				return nil
			}
			a.printConflicts(check)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (default: today)")
	cmd.Flags().StringVarP(&at, "time", "t", "", "Start time (HH:MM or 9:30 PM)")
	cmd.Flags().IntVarP(&duration, "duration", "d", plan.DefaultDuration, "Duration in minutes")
	cmd.Flags().StringVar(&excludeID, "exclude", "", "Plan ID to ignore, for checking a move")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

func (a *App) suggestCmd() *cobra.Command {
	var (
		date     string
		at       string
		duration int
		copyOut  bool
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest the next free start time",
		Long: `Print the first start time at or after --time where a plan of --duration
fits without overlapping. Without --time the search starts at the next
quarter hour today, or at the day start for later dates.

Example:
  moodplan suggest --duration 45
  moodplan suggest --time 14:00 --date tomorrow --copy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(at) == "" {
				day, err := dateutil.ParseRelativeDate(date, a.now())
				if err != nil {
					return err
				}
				slot, ok := a.scheduler().NextAvailableStart(day, a.now())
				if !ok {
					fmt.Fprintln(a.out, formatMuted("No free time left on that day."))
					return nil
				}
				at = slot.Start
			}

			day, start, err := a.parseSlot(date, at, duration)
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			check, err := a.checkSlot(cmd.Context(), day, start, duration, "")
			if err != nil {
				return err
			}

			suggestion := start
			if len(check.Conflicts) > 0 {
				suggestion = check.Suggestion
			}
			if suggestion == "" {
				fmt.Fprintln(a.out, formatMuted("No free time left before midnight."))
				return nil
			}

			fmt.Fprintln(a.out, suggestion)
			if copyOut {
				if err := clipboard.WriteAll(suggestion); err != nil {
					a.logger.Warn("copy to clipboard failed", "err", err)
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(a.out, formatMuted("Copied to clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (default: today)")
	cmd.Flags().StringVarP(&at, "time", "t", "", "Earliest start time (HH:MM or 9:30 PM)")
	cmd.Flags().IntVarP(&duration, "duration", "d", plan.DefaultDuration, "Duration in minutes")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the suggestion to the clipboard")

	return cmd
}

// parseSlot validates the shared date, time and duration flags of check and
// suggest and returns the day and the normalized "HH:MM" start.
func (a *App) parseSlot(date, at string, duration int) (time.Time, string, error) {
	day, err := dateutil.ParseRelativeDate(date, a.now())
	if err != nil {
		return time.Time{}, "", err
	}
	start, ok := conflict.Normalize(at)
	if !ok {
		return time.Time{}, "", fmt.Errorf("%w: %q", plan.ErrInvalidTime, at)
	}
	if duration < plan.MinDuration || duration > plan.MaxDuration {
		return time.Time{}, "", plan.ErrInvalidDuration
	}
	return day, start, nil
}
