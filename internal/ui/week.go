package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/summary"
)

const weekRule = 74

func (a *App) weekCmd() *cobra.Command {
	var (
		date    string
		model   string
		insight bool
	)

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the week's plans and progress",
		Long: `Display Monday through Sunday of the week containing --date, with time per
category and completion. With --insight the configured LLM adds a short
reflection on the week.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := dateutil.ParseRelativeDate(date, a.now())
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := cmd.Context()
			var opts summary.WeekOptions
			if insight {
				if model == "" {
					model = a.config.LLM.Model
				}
				client, err := a.newLLM(ctx, model)
				if err != nil {
					return fmt.Errorf("creating LLM client: %w", err)
				}
				opts.Client = client
			}

			w, err := summary.BuildWeek(ctx, a.repo, ref, opts)
			if err != nil {
				return fmt.Errorf("building week summary: %w", err)
			}
			if w.Stats.Plans == 0 && w.Stats.Cancelled == 0 {
				fmt.Fprintln(a.out, "Nothing planned this week.")
				return nil
			}

			header := fmt.Sprintf("WEEK: %s - %s", w.Start.Format("Mon Jan 2"), w.End.Format("Mon Jan 2, 2006"))
			fmt.Fprintf(a.out, "\n  %s\n", formatHeader(header))
			fmt.Fprintln(a.out, strings.Repeat("─", weekRule))

			width := min(40, titleWidth())
			first := true
			for _, d := range w.Days {
				if len(d.Plans) == 0 {
					continue
				}
				if !first {
					fmt.Fprintln(a.out)
				}
				first = false
				fmt.Fprintf(a.out, "  %s\n", formatHeader(d.Date.Format("Mon Jan 2")))
				for _, p := range d.Plans {
					printPlanRow(a.out, p, width)
				}
			}

			fmt.Fprintln(a.out, strings.Repeat("─", weekRule))
			printStats(a.out, w.Stats)
			if w.Stats.PlannedMinutes > 0 {
				fmt.Fprintf(a.out, "Progress: %s\n", ProgressBar(w.Stats.CompletedMinutes, w.Stats.PlannedMinutes, 20))
			}
			if best := w.BestDay(); best != nil {
				fmt.Fprintf(a.out, "Best day: %s (%s done)\n", best.Date.Format("Monday"), FormatDuration(best.Stats.CompletedMinutes))
			}

			if w.Insight != "" {
				fmt.Fprintf(a.out, "\n  %s\n", formatHeader("INSIGHT"))
				fmt.Fprintln(a.out, strings.Repeat("─", weekRule))
				printWrapped(a.out, w.Insight, weekRule-2)
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any day of the week to show (default: today)")
	cmd.Flags().BoolVar(&insight, "insight", false, "Ask the LLM for a short reflection")
	cmd.Flags().StringVar(&model, "model", "", "LLM model to use (default from config)")
	return cmd
}

// printWrapped prints text indented by two spaces, wrapped at width.
// Existing line breaks are kept.
func printWrapped(w io.Writer, text string, width int) {
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			fmt.Fprintln(w)
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			if len(current)+1+len(word) > width {
				fmt.Fprintf(w, "  %s\n", current)
				current = word
				continue
			}
			current += " " + word
		}
		fmt.Fprintf(w, "  %s\n", current)
	}
}
