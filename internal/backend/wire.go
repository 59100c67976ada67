package backend

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/plan"
)

// planJSON mirrors the backend's plan response.
type planJSON struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id,omitempty"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	Category        string  `json:"category"`
	DurationMinutes int     `json:"duration_minutes"`
	Status          string  `json:"status"`
	ScheduledDate   *string `json:"scheduled_date,omitempty"`
	ScheduledTime   *string `json:"scheduled_time"`
	RelatedMoodID   *string `json:"related_mood_id"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type planListJSON struct {
	Plans []planJSON `json:"plans"`
	Count int        `json:"count"`
}

// createJSON is the PlanCreate body. scheduled_date is ignored by servers
// that do not know it.
type createJSON struct {
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	Category        string  `json:"category"`
	DurationMinutes int     `json:"duration_minutes"`
	Status          string  `json:"status,omitempty"`
	ScheduledDate   string  `json:"scheduled_date,omitempty"`
	ScheduledTime   *string `json:"scheduled_time,omitempty"`
	RelatedMoodID   *string `json:"related_mood_id,omitempty"`
}

// Layouts seen in created_at/updated_at.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func toCreateJSON(p *plan.Plan) createJSON {
	body := createJSON{
		Title:           p.Title,
		Category:        string(p.Category),
		DurationMinutes: p.DurationMinutes,
		Status:          string(p.Status),
		Description:     optional(p.Description),
		ScheduledTime:   optional(p.ScheduledTime),
		RelatedMoodID:   optional(p.RelatedMoodID),
	}
	if !p.ScheduledDate.IsZero() {
		body.ScheduledDate = dateutil.Format(p.ScheduledDate)
	}
	return body
}

// toUpdateJSON builds a PUT body holding only the set fields. An empty
// scheduled time is sent as null to clear it.
func toUpdateJSON(u plan.Update) map[string]any {
	body := map[string]any{}
	if u.Title != nil {
		body["title"] = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		body["description"] = *u.Description
	}
	if u.Category != nil {
		body["category"] = string(*u.Category)
	}
	if u.DurationMinutes != nil {
		body["duration_minutes"] = *u.DurationMinutes
	}
	if u.Status != nil {
		body["status"] = string(*u.Status)
	}
	if u.ScheduledTime != nil {
		if *u.ScheduledTime == "" {
			body["scheduled_time"] = nil
		} else {
			body["scheduled_time"] = *u.ScheduledTime
		}
	}
	return body
}

func (pj planJSON) hasDate() bool {
	return pj.ScheduledDate != nil && *pj.ScheduledDate != ""
}

func (pj planJSON) toPlan() (*plan.Plan, error) {
	p := &plan.Plan{
		ID:              pj.ID,
		UserID:          pj.UserID,
		Title:           pj.Title,
		Category:        plan.Category(pj.Category),
		DurationMinutes: pj.DurationMinutes,
		Status:          plan.Status(pj.Status),
	}
	if pj.Description != nil {
		p.Description = *pj.Description
	}
	if pj.RelatedMoodID != nil {
		p.RelatedMoodID = *pj.RelatedMoodID
	}
	if pj.ScheduledTime != nil {
		p.ScheduledTime = trimSeconds(*pj.ScheduledTime)
	}

	var err error
	if p.CreatedAt, err = parseTimestamp(pj.CreatedAt); err != nil {
		return nil, fmt.Errorf("parsing created_at of plan %s: %w", pj.ID, err)
	}
	if p.UpdatedAt, err = parseTimestamp(pj.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at of plan %s: %w", pj.ID, err)
	}

	// Servers without scheduled_date file plans under the day they were created.
	if pj.hasDate() {
		if p.ScheduledDate, err = dateutil.ParseRelativeDate(*pj.ScheduledDate, p.CreatedAt); err != nil {
			return nil, fmt.Errorf("parsing scheduled_date of plan %s: %w", pj.ID, err)
		}
	} else if !p.CreatedAt.IsZero() {
		p.ScheduledDate = dateutil.TruncateToDay(p.CreatedAt.Local())
	}
	return p, nil
}

// trimSeconds turns the server's "HH:MM:SS" into "HH:MM".
func trimSeconds(s string) string {
	if len(s) == 8 && s[2] == ':' && s[5] == ':' {
		return s[:5]
	}
	return s
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// sortPlans orders by date, then start time, unscheduled last.
func sortPlans(plans []*plan.Plan) {
	slices.SortStableFunc(plans, func(a, b *plan.Plan) int {
		if c := a.ScheduledDate.Compare(b.ScheduledDate); c != 0 {
			return c
		}
		if a.IsScheduled() != b.IsScheduled() {
			if a.IsScheduled() {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.ScheduledTime, b.ScheduledTime)
	})
}
