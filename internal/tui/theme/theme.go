// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// DefaultName is used when no theme is configured.
const DefaultName = "mocha"

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`
	BgHighlight string `toml:"bg_highlight"` // Plan rows, input boxes
	BgSelection string `toml:"bg_selection"` // Cursor, focused input
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // Past and finished plans, hints
	Accent      string `toml:"accent"`   // Title, borders

	Study    string `toml:"study"`
	Work     string `toml:"work"`
	Personal string `toml:"personal"`
	Other    string `toml:"other"`

	Conflict string `toml:"conflict"` // Overlap messages
	Warning  string `toml:"warning"`  // Past-time and incomplete shift notes
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files.
// Unknown names fall back to the default theme.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != DefaultName {
			return Load(DefaultName)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

func (t *Theme) applyDefaults() {
	t.Other = coalesce(t.Other, t.Accent)
	t.Conflict = coalesce(t.Conflict, t.Warning, t.Accent)
	t.Warning = coalesce(t.Warning, t.Conflict)
	t.FgMuted = coalesce(t.FgMuted, t.Fg)
}

// CategoryColor returns the hex color for a plan category name.
func (t *Theme) CategoryColor(category string) string {
	switch category {
	case "study":
		return coalesce(t.Study, t.Accent)
	case "work":
		return coalesce(t.Work, t.Accent)
	case "personal":
		return coalesce(t.Personal, t.Accent)
	default:
		return coalesce(t.Other, t.Accent)
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
