// Package summary aggregates plans into day and week overviews.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/llm"
	"github.com/javiermolinar/moodplan/internal/plan"
)

// Stats holds aggregated minutes and counts for a set of plans.
// Cancelled plans only count towards Cancelled.
type Stats struct {
	ByCategory       map[plan.Category]int
	PlannedMinutes   int
	CompletedMinutes int
	Plans            int
	Completed        int
	Cancelled        int
}

func (s *Stats) add(p *plan.Plan) {
	if s.ByCategory == nil {
		s.ByCategory = make(map[plan.Category]int)
	}
	if p.Status == plan.StatusCancelled {
		s.Cancelled++
		return
	}

	s.Plans++
	s.PlannedMinutes += p.DurationMinutes
	s.ByCategory[p.Category] += p.DurationMinutes
	if p.Status == plan.StatusCompleted {
		s.Completed++
		s.CompletedMinutes += p.DurationMinutes
	}
}

func (s *Stats) merge(o Stats) {
	if s.ByCategory == nil {
		s.ByCategory = make(map[plan.Category]int)
	}
	for c, m := range o.ByCategory {
		s.ByCategory[c] += m
	}
	s.PlannedMinutes += o.PlannedMinutes
	s.CompletedMinutes += o.CompletedMinutes
	s.Plans += o.Plans
	s.Completed += o.Completed
	s.Cancelled += o.Cancelled
}

// CompletionPercent returns the share of planned minutes already done.
func (s Stats) CompletionPercent() int {
	if s.PlannedMinutes == 0 {
		return 0
	}
	return s.CompletedMinutes * 100 / s.PlannedMinutes
}

// Categories returns the categories with planned minutes in display order.
func (s Stats) Categories() []plan.Category {
	var out []plan.Category
	for _, c := range []plan.Category{plan.CategoryStudy, plan.CategoryWork, plan.CategoryPersonal, plan.CategoryOther} {
		if s.ByCategory[c] > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Day is the overview of a single date.
type Day struct {
	Date  time.Time
	Plans []*plan.Plan
	Stats Stats
}

// Summarize builds a Day from plans already filtered to date.
func Summarize(date time.Time, plans []*plan.Plan) *Day {
	d := &Day{Date: dateutil.TruncateToDay(date), Plans: plans}
	for _, p := range plans {
		d.Stats.add(p)
	}
	return d
}

// BuildDay loads and summarizes the plans of one date.
func BuildDay(ctx context.Context, repo plan.Repository, date time.Time) (*Day, error) {
	plans, err := repo.ListPlans(ctx, plan.OnDate(dateutil.TruncateToDay(date)))
	if err != nil {
		return nil, fmt.Errorf("fetching plans: %w", err)
	}
	return Summarize(date, plans), nil
}

// Week is the overview of a Monday to Sunday week.
type Week struct {
	Start   time.Time
	End     time.Time
	Days    [7]*Day
	Stats   Stats
	Insight string
}

// BestDay returns the day with the most completed minutes, or nil.
func (w *Week) BestDay() *Day {
	var best *Day
	for _, d := range w.Days {
		if d.Stats.CompletedMinutes > 0 && (best == nil || d.Stats.CompletedMinutes > best.Stats.CompletedMinutes) {
			best = d
		}
	}
	return best
}

// WeekOptions configures BuildWeek.
type WeekOptions struct {
	// Client, when set, is asked for a short reflection on the week.
	Client llm.Client
}

// BuildWeek loads the week containing ref.
func BuildWeek(ctx context.Context, repo plan.Repository, ref time.Time, opts WeekOptions) (*Week, error) {
	start := StartOfWeek(ref)
	w := &Week{Start: start, End: start.AddDate(0, 0, 6)}

	for i := range w.Days {
		day, err := BuildDay(ctx, repo, start.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		w.Days[i] = day
		w.Stats.merge(day.Stats)
	}

	if opts.Client != nil && w.Stats.Plans > 0 {
		insight, err := opts.Client.Chat(ctx, weekInsightMessages(w))
		if err != nil {
			return nil, fmt.Errorf("asking for week insight: %w", err)
		}
		w.Insight = strings.TrimSpace(insight)
	}
	return w, nil
}

// StartOfWeek returns the Monday on or before t at midnight.
func StartOfWeek(t time.Time) time.Time {
	day := dateutil.TruncateToDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

const weekInsightPrompt = `You are a kind study and wellbeing coach. Look at the user's week and
reply with three short bullet points: what went well, what slipped, and one
gentle suggestion for next week. Plain text, no headings.`

func weekInsightMessages(w *Week) []llm.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Week of %s\n", w.Start.Format("January 2, 2006"))
	for _, d := range w.Days {
		for _, p := range d.Plans {
			fmt.Fprintf(&b, "- %s %s %s (%s, %d min, %s)\n",
				d.Date.Format("Mon"), p.ScheduledTime, p.Title, p.Category, p.DurationMinutes, p.Status)
		}
	}
	fmt.Fprintf(&b, "Completed %d of %d plans (%d%% of planned minutes).\n",
		w.Stats.Completed, w.Stats.Plans, w.Stats.CompletionPercent())

	return []llm.Message{
		{Role: llm.RoleSystem, Content: weekInsightPrompt},
		{Role: llm.RoleUser, Content: b.String()},
	}
}
