package plan

import (
	"strings"

	"github.com/javiermolinar/moodplan/internal/conflict"
)

// Update is a partial change to a plan. Nil fields are left untouched.
type Update struct {
	Title           *string
	Description     *string
	Category        *Category
	DurationMinutes *int
	Status          *Status
	ScheduledTime   *string
}

// IsEmpty returns true if no field is set.
func (u Update) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil &&
		u.DurationMinutes == nil && u.Status == nil && u.ScheduledTime == nil
}

// Validate checks the set fields and normalizes the scheduled time in place.
func (u *Update) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return ErrEmptyTitle
	}
	if u.Category != nil {
		if _, err := ParseCategory(string(*u.Category)); err != nil {
			return err
		}
	}
	if u.Status != nil {
		if _, err := ParseStatus(string(*u.Status)); err != nil {
			return err
		}
	}
	if u.DurationMinutes != nil {
		if err := validateDuration(*u.DurationMinutes); err != nil {
			return err
		}
	}
	if u.ScheduledTime != nil {
		at, err := normalizeTime(*u.ScheduledTime)
		if err != nil {
			return err
		}
		u.ScheduledTime = &at
	}
	return nil
}

// Apply copies the set fields onto p.
func (u Update) Apply(p *Plan) {
	if u.Title != nil {
		p.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.DurationMinutes != nil {
		p.DurationMinutes = *u.DurationMinutes
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.ScheduledTime != nil {
		p.ScheduledTime = *u.ScheduledTime
	}
}

// FromPatch builds the update a chain shift writes back.
func FromPatch(patch conflict.Patch) Update {
	at := patch.ScheduledTime
	return Update{ScheduledTime: &at}
}

// WithStatus returns an update that only changes the status.
func WithStatus(s Status) Update {
	return Update{Status: &s}
}
