// Package ui is the interactive terminal front end: topic entry, the
// pannable/zoomable tree canvas, a detail sidebar, and the expansion
// lifecycle against the content provider.
package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/knowtree/pkg/analysis"
	"github.com/vanderheijden86/knowtree/pkg/layout"
	"github.com/vanderheijden86/knowtree/pkg/model"
	"github.com/vanderheijden86/knowtree/pkg/provider"
)

// DetailViewThreshold is the terminal width above which the detail
// sidebar is shown alongside the canvas.
const DetailViewThreshold = 110

const detailWidth = 42

// Pan step per keypress, in view-space world units.
const (
	panStepX = 2 * cellUnitX
	panStepY = 2 * cellUnitY
)

const zoomStep = 1.25

type mode int

const (
	modePrompt mode = iota // entering a topic
	modeGenerating
	modeBrowse
)

// Model is the top-level bubbletea model.
type Model struct {
	provider provider.Provider
	theme    Theme

	// Tree state. tree is immutable; every change swaps the pointer.
	topic     string
	tree      *model.KnowledgeTree
	layoutRes layout.Result
	stats     analysis.TreeStats

	// View state
	view     layout.Transform
	selected []int // index path of the selected node
	mode     mode
	showHelp bool

	// Widgets
	input    textinput.Model
	spin     spinner.Model
	sidebar  viewport.Model
	renderer *glamour.TermRenderer

	// Status line
	status  string
	lastErr string

	// Zoom clamp, config-narrowed from the layout defaults.
	zoomMin float64
	zoomMax float64

	ready  bool
	width  int
	height int
}

// Options configures the initial model.
type Options struct {
	Topic   string // skips the prompt when non-empty
	Theme   Theme
	ZoomMin float64 // zero means layout.MinZoom
	ZoomMax float64 // zero means layout.MaxZoom
}

// NewModel builds the initial model. When Options.Topic is non-empty
// the prompt is skipped and generation starts immediately.
func NewModel(p provider.Provider, opts Options) Model {
	topic := opts.Topic
	theme := opts.Theme
	ti := textinput.New()
	ti.Placeholder = "Quantum Computing, Byzantine History, Sourdough…"
	ti.CharLimit = 120
	ti.Width = 50
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Renderer.NewStyle().Foreground(theme.Secondary)

	m := Model{
		provider: p,
		theme:    theme,
		topic:    topic,
		view:     layout.NewTransform(),
		input:    ti,
		spin:     sp,
		mode:     modePrompt,
		zoomMin:  opts.ZoomMin,
		zoomMax:  opts.ZoomMax,
	}
	if m.zoomMin == 0 {
		m.zoomMin = layout.MinZoom
	}
	if m.zoomMax == 0 {
		m.zoomMax = layout.MaxZoom
	}
	if topic != "" {
		m.mode = modeGenerating
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.mode == modeGenerating {
		return tea.Batch(m.spin.Tick, generateCmd(m.provider, m.topic))
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.sidebar = viewport.New(detailWidth-2, m.canvasRows())
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(detailWidth-4),
		)
		m.relayout()
		m.refreshSidebar()
		return m, nil

	case treeReadyMsg:
		m.tree = msg.tree
		m.topic = msg.tree.Topic
		m.mode = modeBrowse
		m.lastErr = ""
		m.view = layout.NewTransform()
		m.selected = nil
		m.relayout()
		m.centerOnSelected()
		m.refreshSidebar()
		return m, nil

	case generateFailedMsg:
		m.mode = modePrompt
		m.lastErr = describeError(msg.err)
		m.input.Focus()
		return m, textinput.Blink

	case nodeExpandedMsg:
		m.tree = model.ApplyAt(m.tree, msg.path, model.ReplaceSubtopics(msg.children))
		m.relayout()
		m.refreshSidebar()
		return m, nil

	case expandFailedMsg:
		m.tree = model.ApplyAt(m.tree, msg.path, model.ClearLoading)
		m.lastErr = describeError(msg.err)
		m.relayout()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.lastErr = describeError(msg.err)
		} else {
			m.status = fmt.Sprintf("exported %d files (%s)", len(msg.paths), strings.Join(msg.paths, ", "))
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.mode == modeGenerating || m.anyLoading() {
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "esc", "?", "q":
			m.showHelp = false
		}
		return m, nil
	}

	switch m.mode {
	case modePrompt:
		switch msg.String() {
		case "enter":
			topic := strings.TrimSpace(m.input.Value())
			if topic == "" {
				return m, nil
			}
			m.topic = topic
			m.mode = modeGenerating
			m.lastErr = ""
			return m, tea.Batch(m.spin.Tick, generateCmd(m.provider, topic))
		case "esc":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case modeGenerating:
		if msg.String() == "esc" || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	// modeBrowse
	m.status = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "n":
		m.mode = modePrompt
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	// Selection walks the tree structure.
	case "j":
		m.moveSelection(1)
	case "k":
		m.moveSelection(-1)
	case "h":
		if len(m.selected) > 0 {
			m.selected = m.selected[:len(m.selected)-1]
			m.centerOnSelected()
			m.refreshSidebar()
		}
	case "l":
		if n, ok := model.NodeAt(m.tree, m.selected); ok && len(n.Subtopics) > 0 {
			m.selected = append(m.selected, 0)
			m.centerOnSelected()
			m.refreshSidebar()
		}

	case "enter", " ":
		return m.expandSelected()

	// Panning moves the viewport, not the selection.
	case "left":
		m.view = m.view.Pan(panStepX, 0)
	case "right":
		m.view = m.view.Pan(-panStepX, 0)
	case "up", "shift+up":
		m.view = m.view.Pan(0, panStepY)
	case "down", "shift+down":
		m.view = m.view.Pan(0, -panStepY)

	case "+", "=":
		m.view = m.view.ZoomAtClamped(m.canvasCenter(), zoomStep, m.zoomMin, m.zoomMax)
		m.relayout()
	case "-", "_":
		m.view = m.view.ZoomAtClamped(m.canvasCenter(), 1/zoomStep, m.zoomMin, m.zoomMax)
		m.relayout()
	case "0":
		m.view = layout.NewTransform()
		m.relayout()
		m.centerOnSelected()

	case "c":
		m.centerOnSelected()

	case "ctrl+j":
		m.sidebar.LineDown(2)
	case "ctrl+k":
		m.sidebar.LineUp(2)

	case "y":
		if n, ok := m.selectedNode(); ok {
			if err := clipboard.WriteAll(n.Path); err != nil {
				m.lastErr = "clipboard unavailable: " + err.Error()
			} else {
				m.status = "copied: " + n.Path
			}
		}

	case "x":
		if m.tree != nil {
			dir, _ := os.Getwd()
			m.status = "exporting…"
			return m, exportAllCmd(dir, m.tree, m.layoutRes)
		}
	}
	return m, nil
}

// expandSelected kicks off an expansion for the selected node when it
// is a non-loading leaf. Duplicate triggers while a request is in
// flight are dropped here by reading the flag from the current tree.
func (m Model) expandSelected() (tea.Model, tea.Cmd) {
	node, ok := model.NodeAt(m.tree, m.selected)
	if !ok || node.IsLoading || len(node.Subtopics) > 0 {
		return m, nil
	}
	path := append([]int(nil), m.selected...)
	ancestry := m.ancestryTitles(path)

	m.tree = model.ApplyAt(m.tree, path, model.MarkLoading)
	m.relayout()
	return m, tea.Batch(
		m.spin.Tick,
		expandNodeCmd(m.provider, m.topic, node.Title, ancestry, path),
	)
}

// ancestryTitles returns the titles from the root down to (excluding)
// the node at path. The root itself has no ancestry.
func (m Model) ancestryTitles(path []int) []string {
	if len(path) == 0 {
		return nil
	}
	titles := []string{m.topic}
	node := m.tree.Root()
	for _, i := range path[:len(path)-1] {
		node = node.Subtopics[i]
		titles = append(titles, node.Title)
	}
	return titles
}

// moveSelection steps through the depth-first node order.
func (m *Model) moveSelection(delta int) {
	idx := m.selectedIndex()
	if idx < 0 {
		if len(m.layoutRes.Nodes) > 0 {
			m.selected = nil
		}
		return
	}
	idx += delta
	if idx < 0 || idx >= len(m.layoutRes.Nodes) {
		return
	}
	m.selected = append([]int(nil), m.layoutRes.Nodes[idx].IndexPath...)
	m.centerOnSelected()
	m.refreshSidebar()
}

// selectedIndex finds the selected node's slot in depth-first order.
func (m *Model) selectedIndex() int {
	for i, n := range m.layoutRes.Nodes {
		if pathsEqual(n.IndexPath, m.selected) {
			return i
		}
	}
	return -1
}

func (m *Model) selectedNode() (*layout.PositionedNode, bool) {
	if i := m.selectedIndex(); i >= 0 {
		return m.layoutRes.Nodes[i], true
	}
	return nil, false
}

func pathsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// relayout recomputes positions from the current tree and zoom. The
// selection survives because it is stored as an index path, not a
// node-slice index.
func (m *Model) relayout() {
	if m.tree == nil {
		m.layoutRes = layout.Result{}
		return
	}
	m.layoutRes = layout.Layout(m.tree, float64(m.canvasRows())*cellUnitY, m.view.K)
	m.stats = analysis.Stats(m.tree)
	if m.selectedIndex() < 0 {
		m.selected = nil
	}
}

// centerOnSelected pans the view so the selected node sits mid-canvas.
func (m *Model) centerOnSelected() {
	n, ok := m.selectedNode()
	if !ok {
		return
	}
	center := m.canvasCenter()
	v := m.view.Apply(n.Pos)
	m.view = m.view.Pan(center.X-v.X-layout.NodeWidth*m.view.K/2, center.Y-v.Y)
}

// canvasCenter is the canvas midpoint in view-space world units.
func (m *Model) canvasCenter() r2.Vec {
	return r2.Vec{
		X: float64(m.canvasCols()) * cellUnitX / 2,
		Y: float64(m.canvasRows()) * cellUnitY / 2,
	}
}

func (m *Model) canvasCols() int {
	cols := m.width
	if m.sidebarVisible() {
		cols -= detailWidth
	}
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (m *Model) canvasRows() int {
	rows := m.height - 2 // header and footer
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) sidebarVisible() bool {
	return m.width > DetailViewThreshold
}

func (m *Model) anyLoading() bool {
	return m.tree != nil && m.stats.Leaves > m.stats.Expandable
}

// refreshSidebar re-renders the detail panel for the selection.
func (m *Model) refreshSidebar() {
	if m.renderer == nil || !m.sidebarVisible() {
		return
	}
	n, ok := m.selectedNode()
	if !ok {
		m.sidebar.SetContent("")
		return
	}
	md := fmt.Sprintf("# %s\n\n*%s*\n\n%s", n.Title, n.Path, n.Description)
	out, err := m.renderer.Render(md)
	if err != nil {
		out = n.Description
	}
	m.sidebar.SetContent(out)
	m.sidebar.GotoTop()
}

// describeError phrases provider failures for the status line.
func describeError(err error) string {
	var pe *provider.ParseError
	if errors.As(err, &pe) {
		return "provider returned malformed content, try again"
	}
	return err.Error()
}
