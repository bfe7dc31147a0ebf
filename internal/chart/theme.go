package chart

import "fmt"

// Theme selects the light or dark rendering of the dashboard. It is an
// explicit value resolved per request (query parameter falling back to the
// configured default) and threaded into chart construction; there is no
// process-global theme state.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Palette holds the colors and plot template a theme maps to. The defaults
// match the original dashboard's light and dark stylesheets; deployments
// can override them via the layout config.
type Palette struct {
	Background string `yaml:"background" json:"background"`
	Text       string `yaml:"text" json:"text"`
	Card       string `yaml:"card" json:"card"`
	Template   string `yaml:"template" json:"template"`
}

// DefaultPalettes returns the built-in light and dark palettes.
func DefaultPalettes() map[Theme]Palette {
	return map[Theme]Palette{
		ThemeLight: {Background: "#ffffff", Text: "#000000", Card: "#f0f2f6", Template: "plotly_white"},
		ThemeDark:  {Background: "#0e1117", Text: "#fafafa", Card: "#262730", Template: "plotly_dark"},
	}
}

// ParseTheme validates a user-supplied theme choice, returning fallback for
// an empty value.
func ParseTheme(s string, fallback Theme) (Theme, error) {
	switch Theme(s) {
	case "":
		return fallback, nil
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("invalid theme %q (want light or dark)", s)
	}
}

// Template returns the plot template name for a theme given the configured
// palettes.
func (t Theme) Template(palettes map[Theme]Palette) string {
	if p, ok := palettes[t]; ok {
		return p.Template
	}
	return DefaultPalettes()[t].Template
}
