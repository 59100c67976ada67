package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/moodplan/internal/plan"
)

// Color definitions for consistent styling across the UI.
var (
	colorStudy    = color.New(color.FgBlue, color.Bold)
	colorWork     = color.New(color.FgYellow)
	colorPersonal = color.New(color.FgGreen)
	colorOther    = color.New(color.FgCyan)

	colorHeader   = color.New(color.Bold)
	colorConflict = color.New(color.FgRed, color.Bold)
	colorWarning  = color.New(color.FgYellow)
	colorSuccess  = color.New(color.FgGreen, color.Bold)
	colorMuted    = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isInteractive reports whether stdin is a terminal, so forms can be shown.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatCategory(c plan.Category) string {
	label := "[" + string(c) + "]"
	switch c {
	case plan.CategoryStudy:
		return colorStudy.Sprint(label)
	case plan.CategoryWork:
		return colorWork.Sprint(label)
	case plan.CategoryPersonal:
		return colorPersonal.Sprint(label)
	default:
		return colorOther.Sprint(label)
	}
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatConflict(s string) string {
	return colorConflict.Sprint(s)
}

func formatWarning(s string) string {
	return colorWarning.Sprint(s)
}

func formatSuccess(s string) string {
	return colorSuccess.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
