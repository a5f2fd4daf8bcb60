package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case modePrompt:
		return m.promptView()
	case modeGenerating:
		return m.generatingView()
	}

	body := renderCanvas(m.layoutRes, m.view, m.canvasCols(), m.canvasRows(), m.selectedPath(), m.theme)

	if m.sidebarVisible() {
		panel := m.theme.Renderer.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.theme.Border).
			Width(detailWidth - 2).
			Height(m.canvasRows() - 2).
			Render(m.sidebar.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, m.footerView())

	if m.showHelp {
		overlay := renderHelp(m.theme, m.width)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay,
			lipgloss.WithWhitespaceChars(" "))
	}
	return out
}

func (m Model) selectedPath() string {
	if n, ok := m.selectedNode(); ok {
		return n.Path
	}
	return ""
}

func (m Model) promptView() string {
	r := m.theme.Renderer
	title := r.NewStyle().Bold(true).Foreground(m.theme.Primary).Render("knowtree")
	sub := r.NewStyle().Foreground(m.theme.Muted).Render("What do you want to explore?")

	var b strings.Builder
	b.WriteString(title + "\n\n" + sub + "\n\n" + m.input.View() + "\n")
	if m.lastErr != "" {
		b.WriteString("\n" + r.NewStyle().Foreground(m.theme.Error).Render(m.lastErr) + "\n")
	}
	b.WriteString("\n" + r.NewStyle().Foreground(m.theme.Muted).Render("enter to generate · esc to quit"))

	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Secondary).
		Padding(1, 3).
		Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) generatingView() string {
	msg := fmt.Sprintf("%s mapping %q…", m.spin.View(), m.topic)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

func (m Model) headerView() string {
	r := m.theme.Renderer
	left := r.NewStyle().Bold(true).Foreground(m.theme.Primary).Render(" " + m.topic)
	right := r.NewStyle().Foreground(m.theme.Muted).Render(fmt.Sprintf(
		"%d nodes · depth %d · zoom %.2gx ", m.stats.Nodes, m.stats.MaxDepth, m.view.K))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) footerView() string {
	r := m.theme.Renderer
	if m.lastErr != "" {
		return r.NewStyle().Foreground(m.theme.Error).Render(" ✗ " + m.lastErr)
	}
	if m.status != "" {
		return r.NewStyle().Foreground(m.theme.Secondary).Render(" " + m.status)
	}
	return r.NewStyle().Foreground(m.theme.Muted).Render(
		" j/k select · enter expand · arrows pan · +/- zoom · y copy path · x export · ? help · q quit")
}

const helpContent = `**Selection**
  j/k       Next / previous node
  h         Jump to parent
  l         Jump to first child
  c         Center on selection

**Expansion**
  enter     Expand selected leaf
            (needs a generated tree; leaves only)

**Viewport**
  ←/→       Pan horizontally
  ↑/↓       Pan vertically
  +/-       Zoom in / out (anchored at center)
  0         Reset zoom and center

**Actions**
  y         Copy selection path to clipboard
  x         Export SVG, PNG, Markdown and HTML
  n         Start a new topic
  q         Quit`

// renderHelp renders the key reference modal.
func renderHelp(theme Theme, width int) string {
	r := theme.Renderer

	modalWidth := 56
	if modalWidth > width-4 {
		modalWidth = width - 4
	}

	var b strings.Builder
	b.WriteString(r.NewStyle().Bold(true).Foreground(theme.Primary).Render("Key Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", modalWidth-4)))
	b.WriteString("\n\n")
	b.WriteString(r.NewStyle().Foreground(theme.Subtext).Render(strings.ReplaceAll(helpContent, "**", "")))
	b.WriteString("\n\n")
	b.WriteString(r.NewStyle().Foreground(theme.Muted).Italic(true).Render("Esc to close"))

	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth).
		Render(b.String())
}
