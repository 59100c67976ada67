package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/moodplan/internal/plan"
	"github.com/javiermolinar/moodplan/internal/summary"
)

// shortIDLen is how much of an ID list output shows.
const shortIDLen = 8

// statusSymbol returns the status indicator for a plan.
func statusSymbol(s plan.Status) string {
	switch s {
	case plan.StatusPending:
		return "○"
	case plan.StatusInProgress:
		return "◐"
	case plan.StatusCompleted:
		return "●"
	case plan.StatusCancelled:
		return "✗"
	default:
		return "?"
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// timeRange renders "HH:MM-HH:MM", or a placeholder for unscheduled plans.
func timeRange(p *plan.Plan) string {
	if !p.IsScheduled() {
		return "  anytime  "
	}
	return p.ScheduledTime + "-" + p.EndTime()
}

// printPlanRow prints a single plan row with consistent formatting.
func printPlanRow(w io.Writer, p *plan.Plan, maxTitleWidth int) {
	title := truncate(p.Title, maxTitleWidth)
	row := fmt.Sprintf("  %s %s  %s  %-*s  %s",
		statusSymbol(p.Status),
		timeRange(p),
		formatCategory(p.Category),
		maxTitleWidth, title,
		formatMuted(FormatDuration(p.DurationMinutes)+"  "+shortID(p.ID)),
	)
	if !p.IsActive() {
		row = formatMuted(stripPadding(row))
	}
	fmt.Fprintln(w, row)
}

// titleWidth fits titles to the terminal.
// Row overhead: "  ○ HH:MM-HH:MM  [personal]  " plus "  3h30m  12345678".
func titleWidth() int {
	const overhead = 30 + 18
	return min(60, max(20, termWidth()-overhead))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

func stripPadding(s string) string {
	return strings.TrimRight(s, " ")
}

// printStats prints the category breakdown line of a summary.
func printStats(w io.Writer, s summary.Stats) {
	parts := make([]string, 0, 4)
	for _, c := range s.Categories() {
		parts = append(parts, fmt.Sprintf("%s %s", formatCategory(c), FormatDuration(s.ByCategory[c])))
	}
	if len(parts) == 0 {
		parts = append(parts, formatMuted("nothing planned"))
	}
	fmt.Fprintf(w, "%s  |  Plans: %d", strings.Join(parts, "  "), s.Plans)
	if s.Cancelled > 0 {
		fmt.Fprintf(w, "  |  %s", formatMuted(fmt.Sprintf("Cancelled: %d", s.Cancelled)))
	}
	fmt.Fprintln(w)
}

// ProgressBar renders the completed share of planned minutes.
func ProgressBar(completed, planned, width int) string {
	if planned == 0 {
		return "[" + strings.Repeat("░", width) + "] (0% done)"
	}
	filled := min(width, completed*width/planned)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatSuccess(bar), fmt.Sprintf("(%d%% done)", completed*100/planned))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}
