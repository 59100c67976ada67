package ui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/javiermolinar/moodplan/internal/conflict"
	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/plan"
)

// planFormValues backs the interactive add form.
type planFormValues struct {
	Title    string
	Category string
	Date     string
	Time     string
	Duration string
}

func categoryOptions() []huh.Option[string] {
	return huh.NewOptions(
		string(plan.CategoryStudy),
		string(plan.CategoryWork),
		string(plan.CategoryPersonal),
		string(plan.CategoryOther),
	)
}

func planForm(v *planFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&v.Title).
				Validate(validateRequired),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions()...).
				Value(&v.Category),
			huh.NewInput().
				Title("Date (YYYY-MM-DD, today, tomorrow, weekday)").
				Placeholder("today").
				Value(&v.Date).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Time (HH:MM or 9:30 PM, blank for anytime)").
				Placeholder("09:00").
				Value(&v.Time).
				Validate(validateOptionalTime),
			huh.NewInput().
				Title("Duration (minutes)").
				Placeholder(strconv.Itoa(plan.DefaultDuration)).
				Value(&v.Duration).
				Validate(validateDuration),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithShowHelp(false)
}

func confirmForm(title string, value *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(value),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := dateutil.ParseDate(s)
	return err
}

func validateOptionalTime(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, ok := conflict.ParseTimeToMinutes(s); !ok {
		return plan.ErrInvalidTime
	}
	return nil
}

func validateDuration(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < plan.MinDuration || n > plan.MaxDuration {
		return plan.ErrInvalidDuration
	}
	return nil
}
