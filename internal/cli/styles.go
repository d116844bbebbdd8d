package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for derivation display.
type Theme struct {
	Fresh lipgloss.Color // modules introduced by the latest pass
	Dim   lipgloss.Color // carried-over modules and metadata
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Fresh: lipgloss.Color("#00ff9f"),
	Dim:   lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Header  lipgloss.Style
	Fresh   lipgloss.Style
	Carried lipgloss.Style
	Meta    lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(t.Fresh),
		Fresh:   lipgloss.NewStyle().Bold(true).Foreground(t.Fresh),
		Carried: lipgloss.NewStyle(),
		Meta:    lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// renderSequence formats one generation's module display forms.
// Modules introduced by the latest pass are starred and highlighted;
// the star survives plain-text output where colors are stripped.
func (s Styles) renderSequence(modules []string, fresh []bool) string {
	parts := make([]string, len(modules))
	for i, m := range modules {
		if i < len(fresh) && fresh[i] {
			parts[i] = s.Fresh.Render(m + "*")
		} else {
			parts[i] = s.Carried.Render(m)
		}
	}
	return strings.Join(parts, " ")
}
