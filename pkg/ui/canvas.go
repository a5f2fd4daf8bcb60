package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/knowtree/pkg/layout"
)

// Terminal cells are not square, so world units map to columns and rows
// at different rates. These ratios keep the on-screen aspect close to
// the exported SVG at zoom 1.
const (
	cellUnitX = 12.0 // world units per column
	cellUnitY = 28.0 // world units per row
)

// Cell paint classes, used to batch style application per row run.
const (
	cellEmpty = iota
	cellEdge
	cellNode
	cellSelected
	cellLoading
)

const edgeSamples = 24

// canvas rasterizes positioned nodes into a rune grid. Rebuilt from
// scratch on every frame; the grid is small and allocation is cheap
// next to the style rendering.
type canvas struct {
	cols, rows int
	runes      []rune
	class      []uint8
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{
		cols:  cols,
		rows:  rows,
		runes: make([]rune, cols*rows),
		class: make([]uint8, cols*rows),
	}
	for i := range c.runes {
		c.runes[i] = ' '
	}
	return c
}

func (c *canvas) set(col, row int, r rune, class uint8) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	i := row*c.cols + col
	// Node glyphs win over edge dots.
	if c.class[i] >= cellNode && class == cellEdge {
		return
	}
	c.runes[i] = r
	c.class[i] = class
}

// project maps a world point to a grid cell through the view transform.
func project(tr layout.Transform, p r2.Vec) (col, row int) {
	v := tr.Apply(p)
	return int(v.X / cellUnitX), int(v.Y / cellUnitY)
}

// renderCanvas draws the laid-out tree as styled text. selectedPath
// identifies the highlighted node by its display path.
func renderCanvas(res layout.Result, tr layout.Transform, cols, rows int, selectedPath string, theme Theme) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	c := newCanvas(cols, rows)

	for _, e := range res.Edges {
		for i := 0; i <= edgeSamples; i++ {
			col, row := project(tr, e.CubicPoint(float64(i)/edgeSamples))
			c.set(col, row, '·', cellEdge)
		}
	}

	for _, n := range res.Nodes {
		c.drawNode(n, tr, n.Path == selectedPath)
	}

	return c.render(theme)
}

func (c *canvas) drawNode(n *layout.PositionedNode, tr layout.Transform, selected bool) {
	col, row := project(tr, n.Pos)
	if row < 0 || row >= c.rows {
		return
	}

	maxCells := int(layout.NodeWidth * tr.K / cellUnitX)
	if maxCells < 8 {
		maxCells = 8
	}

	label := n.Title
	switch {
	case n.IsLoading:
		label += " …"
	case n.HasChildren:
		label += " ▸"
	}
	label = "[" + runewidth.Truncate(label, maxCells-2, "…") + "]"

	class := uint8(cellNode)
	if n.IsLoading {
		class = cellLoading
	}
	if selected {
		class = cellSelected
	}

	offset := 0
	for _, r := range label {
		c.set(col+offset, row, r, class)
		// A wide rune spills into the next cell; mark it so render
		// emits nothing there instead of a width-doubling space.
		for w := runewidth.RuneWidth(r); w > 1; w-- {
			offset++
			c.set(col+offset, row, 0, class)
		}
		offset++
	}
}

// render turns the grid into lipgloss-styled lines, styling each row as
// runs of a single class to keep escape-sequence volume down.
func (c *canvas) render(theme Theme) string {
	styles := map[uint8]func(string) string{
		cellEmpty:    func(s string) string { return s },
		cellEdge:     func(s string) string { return theme.EdgeStyle().Render(s) },
		cellNode:     func(s string) string { return theme.NodeStyle().Render(s) },
		cellSelected: func(s string) string { return theme.SelectedStyle().Render(s) },
		cellLoading:  func(s string) string { return theme.LoadingStyle().Render(s) },
	}

	var sb strings.Builder
	for row := 0; row < c.rows; row++ {
		start := row * c.cols
		i := 0
		for i < c.cols {
			class := c.class[start+i]
			j := i
			for j < c.cols && c.class[start+j] == class {
				j++
			}
			run := strings.Map(func(r rune) rune {
				if r == 0 {
					return -1
				}
				return r
			}, string(c.runes[start+i:start+j]))
			if class == cellEmpty {
				sb.WriteString(run)
			} else {
				sb.WriteString(styles[class](run))
			}
			i = j
		}
		if row < c.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
