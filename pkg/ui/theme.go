package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles the renderer with the palette so styles adapt to the
// output terminal's color profile.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor // titles, selected node
	Secondary lipgloss.AdaptiveColor // accents, borders of focused panels
	Subtext   lipgloss.AdaptiveColor // body text
	Muted     lipgloss.AdaptiveColor // hints, edges
	Border    lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Loading   lipgloss.AdaptiveColor
}

// DefaultTheme returns the standard dark-leaning palette.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7b2fbf", Dark: "#bd93f9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#0097a7", Dark: "#8be9fd"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#24292f", Dark: "#f8f8f2"},
		Muted:     lipgloss.AdaptiveColor{Light: "#6e7781", Dark: "#6272a4"},
		Border:    lipgloss.AdaptiveColor{Light: "#d0d7de", Dark: "#44475a"},
		Error:     lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#ff5555"},
		Loading:   lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#f1fa8c"},
	}
}

// LightTheme returns a palette tuned for light terminals.
func LightTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#6f42c1", Dark: "#6f42c1"},
		Secondary: lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#0969da"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#1f2328", Dark: "#1f2328"},
		Muted:     lipgloss.AdaptiveColor{Light: "#59636e", Dark: "#59636e"},
		Border:    lipgloss.AdaptiveColor{Light: "#d1d9e0", Dark: "#d1d9e0"},
		Error:     lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#cf222e"},
		Loading:   lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#9a6700"},
	}
}

// ThemeByName resolves the configured theme name. Unknown or empty
// names fall back to the default.
func ThemeByName(name string, r *lipgloss.Renderer) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return LightTheme(r)
	default:
		return DefaultTheme(r)
	}
}

// NodeStyle renders an unselected node label.
func (t Theme) NodeStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(t.Subtext)
}

// SelectedStyle renders the selected node label.
func (t Theme) SelectedStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Reverse(true)
}

// LoadingStyle renders a node awaiting expansion results.
func (t Theme) LoadingStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(t.Loading)
}

// EdgeStyle renders connector dots between nodes.
func (t Theme) EdgeStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(t.Muted)
}
