// Package plan defines the core domain types for moodplan.
package plan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/moodplan/internal/conflict"
	"github.com/javiermolinar/moodplan/internal/dateutil"
)

// Duration bounds accepted by the backend.
const (
	MinDuration = 5
	MaxDuration = 180

	DefaultDuration = 30
)

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidCategory = errors.New("category must be one of study, work, personal, other")
	ErrInvalidStatus   = errors.New("status must be one of pending, in_progress, completed, cancelled")
	ErrInvalidDuration = fmt.Errorf("duration must be between %d and %d minutes", MinDuration, MaxDuration)
	ErrInvalidTime     = errors.New("time must be HH:MM or HH:MM AM/PM")
)

// Domain errors.
var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrTimeConflict = errors.New("time overlaps with another plan")
	ErrPastTime     = errors.New("selected time is in the past")
)

// Category groups plans by area of life.
type Category string

const (
	CategoryStudy    Category = "study"
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryOther    Category = "other"
)

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryStudy, CategoryWork, CategoryPersonal, CategoryOther:
		return c, nil
	default:
		return "", ErrInvalidCategory
	}
}

// Status represents the state of a plan.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Plan is a task the user scheduled, optionally at a wall-clock time.
type Plan struct {
	ID              string
	UserID          string
	Title           string
	Description     string
	Category        Category
	DurationMinutes int
	Status          Status
	ScheduledDate   time.Time
	ScheduledTime   string // "HH:MM", empty when unscheduled
	RelatedMoodID   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// New creates a pending Plan with validation.
// date can be empty (today) or YYYY-MM-DD. scheduledTime can be empty or any
// form conflict.ParseTimeToMinutes accepts; it is stored as 24-hour HH:MM.
func New(title, category, date, scheduledTime string, duration int) (*Plan, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	cat, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}

	if err := validateDuration(duration); err != nil {
		return nil, err
	}

	scheduledDate, err := dateutil.ParseDate(date)
	if err != nil {
		return nil, err
	}

	at, err := normalizeTime(scheduledTime)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Plan{
		Title:           title,
		Category:        cat,
		DurationMinutes: duration,
		Status:          StatusPending,
		ScheduledDate:   scheduledDate,
		ScheduledTime:   at,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func validateDuration(d int) error {
	if d < MinDuration || d > MaxDuration {
		return ErrInvalidDuration
	}
	return nil
}

func normalizeTime(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	at, ok := conflict.Normalize(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return at, nil
}

// IsScheduled returns true if the plan has a start time.
func (p *Plan) IsScheduled() bool {
	return p.ScheduledTime != ""
}

// IsActive returns true if the plan still occupies its time slot.
// Completed and cancelled plans free their slot.
func (p *Plan) IsActive() bool {
	return p.Status != StatusCompleted && p.Status != StatusCancelled
}

// StartMinutes returns the start as minutes since midnight.
func (p *Plan) StartMinutes() (int, bool) {
	if !p.IsScheduled() {
		return 0, false
	}
	return conflict.ParseTimeToMinutes(p.ScheduledTime)
}

// EndTime returns the "HH:MM" end of a scheduled plan, or "" when unscheduled.
func (p *Plan) EndTime() string {
	start, ok := p.StartMinutes()
	if !ok {
		return ""
	}
	return conflict.MinutesToTime(start + p.DurationMinutes)
}

// Task returns the view of the plan used by the conflict resolver.
func (p *Plan) Task() conflict.Task {
	return conflict.Task{
		ID:              p.ID,
		Title:           p.Title,
		ScheduledTime:   p.ScheduledTime,
		DurationMinutes: p.DurationMinutes,
	}
}

// ConflictTasks converts active plans into resolver tasks.
func ConflictTasks(plans []*Plan) []conflict.Task {
	tasks := make([]conflict.Task, 0, len(plans))
	for _, p := range plans {
		if p == nil || !p.IsActive() {
			continue
		}
		tasks = append(tasks, p.Task())
	}
	return tasks
}

// Without returns plans minus the one with the given ID.
func Without(plans []*Plan, id string) []*Plan {
	out := make([]*Plan, 0, len(plans))
	for _, p := range plans {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the plan with the given ID, or nil.
func Find(plans []*Plan, id string) *Plan {
	for _, p := range plans {
		if p.ID == id {
			return p
		}
	}
	return nil
}
