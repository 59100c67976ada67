package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Conflict    lipgloss.Color
	Warning     lipgloss.Color

	TextOnAccent   lipgloss.Color
	TextOnConflict lipgloss.Color

	categories map[string]CategoryColors
}

// CategoryColors are the colors used to draw plans of one category.
type CategoryColors struct {
	Fg     lipgloss.Color // Title text and badge
	Bg     lipgloss.Color // Row background
	PastBg lipgloss.Color // Row background once the plan is over
	Text   lipgloss.Color // Text on Fg
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	isLight := isLightTheme(t.Bg)
	p := &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Conflict:    lipgloss.Color(t.Conflict),
		Warning:     lipgloss.Color(t.Warning),

		TextOnAccent:   lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnConflict: lipgloss.Color(chooseTextColor(t.Conflict, t.Bg, t.Fg)),

		categories: make(map[string]CategoryColors, 4),
	}

	for _, name := range []string{"study", "work", "personal", "other"} {
		hex := t.CategoryColor(name)
		p.categories[name] = CategoryColors{
			Fg:     lipgloss.Color(hex),
			Bg:     lipgloss.Color(rowBg(hex, t.Bg, isLight, 0.50, 0.75)),
			PastBg: lipgloss.Color(rowBg(hex, t.Bg, isLight, 0.30, 0.88)),
			Text:   lipgloss.Color(chooseTextColor(hex, t.Bg, t.Fg)),
		}
	}
	return p
}

// Category returns the colors for a category, using "other" for unknown names.
func (p *Palette) Category(name string) CategoryColors {
	if c, ok := p.categories[name]; ok {
		return c
	}
	return p.categories["other"]
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// rowBg darkens accent on dark themes and blends it into bg on light ones.
func rowBg(accent, bg string, isLight bool, darken, blend float64) string {
	if isLight {
		return blendColors(accent, bg, blend)
	}
	return scaleColor(accent, darken, 30)
}

// scaleColor multiplies each channel by factor, keeping it above floor so the
// row stays visible on dark backgrounds.
func scaleColor(hex string, factor float64, floor int) string {
	r, g, b, ok := parseRGB(hex)
	if !ok {
		return hex
	}
	scale := func(c int) int { return max(floor, int(float64(c)*factor)) }
	return formatHexColor(scale(r), scale(g), scale(b))
}

func parseRGB(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	return parseHex(hex[1:3]), parseHex(hex[3:5]), parseHex(hex[5:7]), true
}

// parseHex parses a 2-character hex string into an integer.
func parseHex(s string) int {
	var val int
	for i := 0; i < len(s); i++ {
		val *= 16
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

// formatHexColor formats RGB values as a hex color string.
func formatHexColor(r, g, b int) string {
	const hex = "0123456789abcdef"
	result := []byte{'#', hex[r>>4], hex[r&0xf], hex[g>>4], hex[g&0xf], hex[b>>4], hex[b&0xf]}
	return string(result)
}

func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	r, g, b, ok := parseRGB(hex)
	if !ok {
		return 0
	}
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b)
}

func srgbToLinear(c int) float64 {
	v := float64(c) / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func blendColors(a, b string, ratio float64) string {
	ar, ag, ab, ok1 := parseRGB(a)
	br, bg, bb, ok2 := parseRGB(b)
	if !ok1 || !ok2 {
		return a
	}
	ratio = min(1, max(0, ratio))
	mix := func(x, y int) int { return int(float64(x)*(1-ratio) + float64(y)*ratio) }
	return formatHexColor(mix(ar, br), mix(ag, bg), mix(ab, bb))
}
