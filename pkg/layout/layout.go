// Package layout turns a knowledge tree snapshot into positioned nodes
// and edges. Layout is a pure function: identical inputs produce
// bit-identical coordinates, so callers can memoize on (tree identity,
// viewport height, zoom).
package layout

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/knowtree/pkg/model"
)

// Geometry constants, in world units. Horizontal position is a pure
// function of depth; vertical position comes from a leaf counter and
// post-order parent centering.
const (
	LevelSpacing    = 240.0
	NodeWidth       = 180.0
	NodeHeight      = 48.0
	VerticalSpacing = 24.0
	Padding         = 40.0
)

// PathSeparator joins ancestor titles into the display path.
const PathSeparator = " > "

// PositionedNode is a node with canvas coordinates. It is derived,
// rebuilt on every layout pass, and never stored back into the tree.
// Parent and Children are render-pass relations only, not ownership.
type PositionedNode struct {
	Title       string
	Description string
	IsLoading   bool
	HasChildren bool

	Pos       r2.Vec
	Depth     int
	Path      string // "Root > A > B", display and selection label only
	IndexPath []int  // canonical structural address for mutations

	Parent   *PositionedNode
	Children []*PositionedNode
}

// Edge connects a parent to one of its children as a cubic curve with
// horizontal tangents at both ends.
type Edge struct {
	SourcePath string
	TargetPath string
	From       r2.Vec
	To         r2.Vec
	C1         r2.Vec
	C2         r2.Vec
}

// Result is one layout pass over a tree snapshot.
type Result struct {
	Nodes []*PositionedNode // depth-first, left-to-right order
	Edges []Edge
	Root  *PositionedNode
}

// Layout positions every node of the tree. viewportHeight and zoom feed
// the global centering offset that keeps the root vertically centered
// in the visible viewport regardless of tree shape.
func Layout(t *model.KnowledgeTree, viewportHeight, zoom float64) Result {
	var res Result
	if t == nil || zoom == 0 {
		return res
	}

	leafY := Padding
	root := place(t.Root(), 0, nil, nil, nil, &leafY, &res)
	res.Root = root

	offset := viewportHeight/(2*zoom) - root.Pos.Y
	for _, n := range res.Nodes {
		n.Pos.Y += offset
	}

	for _, n := range res.Nodes {
		for _, c := range n.Children {
			res.Edges = append(res.Edges, EdgeBetween(n, c))
		}
	}
	return res
}

// place lays out one node and its subtree. Leaves take y from the
// running counter; internal nodes take the midpoint of their first and
// last child, which requires the whole subtree to be placed first.
func place(node model.KnowledgeNode, depth int, parent *PositionedNode, titles []string, indexPath []int, leafY *float64, res *Result) *PositionedNode {
	titles = append(titles, node.Title)
	pn := &PositionedNode{
		Title:       node.Title,
		Description: node.Description,
		IsLoading:   node.IsLoading,
		HasChildren: len(node.Subtopics) > 0,
		Depth:       depth,
		Path:        strings.Join(titles, PathSeparator),
		IndexPath:   append([]int(nil), indexPath...),
		Parent:      parent,
	}
	pn.Pos.X = float64(depth)*LevelSpacing + Padding
	res.Nodes = append(res.Nodes, pn)

	if len(node.Subtopics) == 0 {
		pn.Pos.Y = *leafY
		*leafY += NodeHeight + VerticalSpacing
		return pn
	}

	for i := range node.Subtopics {
		child := place(node.Subtopics[i], depth+1, pn, titles, append(indexPath, i), leafY, res)
		pn.Children = append(pn.Children, child)
	}
	first := pn.Children[0]
	last := pn.Children[len(pn.Children)-1]
	pn.Pos.Y = (first.Pos.Y + last.Pos.Y) / 2
	return pn
}

// EdgeBetween derives the cubic edge for a (parent, child) pair. The
// curve leaves the parent's right side and enters the child's left
// side, tangent horizontal at both ends.
func EdgeBetween(src, dst *PositionedNode) Edge {
	from := r2.Vec{X: src.Pos.X + NodeWidth, Y: src.Pos.Y}
	to := dst.Pos
	bend := (LevelSpacing - NodeWidth) / 2
	return Edge{
		SourcePath: src.Path,
		TargetPath: dst.Path,
		From:       from,
		To:         to,
		C1:         r2.Vec{X: from.X + bend, Y: from.Y},
		C2:         r2.Vec{X: to.X - bend, Y: to.Y},
	}
}

// CubicPoint evaluates an edge's curve at t in [0,1]. Used by the
// raster exporters and the terminal canvas to sample edge geometry.
func (e Edge) CubicPoint(t float64) r2.Vec {
	u := 1 - t
	p := r2.Scale(u*u*u, e.From)
	p = r2.Add(p, r2.Scale(3*u*u*t, e.C1))
	p = r2.Add(p, r2.Scale(3*u*t*t, e.C2))
	return r2.Add(p, r2.Scale(t*t*t, e.To))
}

// HitTest returns the node whose box contains the world-space point.
// Node boxes span NodeWidth to the right of the anchor and NodeHeight
// centered vertically on it.
func (r Result) HitTest(p r2.Vec) (*PositionedNode, bool) {
	for _, n := range r.Nodes {
		if p.X >= n.Pos.X && p.X <= n.Pos.X+NodeWidth &&
			p.Y >= n.Pos.Y-NodeHeight/2 && p.Y <= n.Pos.Y+NodeHeight/2 {
			return n, true
		}
	}
	return nil, false
}

// Bounds returns the min and max corners covered by nodes, with node
// box extents included. Exporters size their canvases from this.
func (r Result) Bounds() (min, max r2.Vec) {
	if len(r.Nodes) == 0 {
		return
	}
	min = r2.Vec{X: r.Nodes[0].Pos.X, Y: r.Nodes[0].Pos.Y}
	max = min
	for _, n := range r.Nodes {
		if n.Pos.X < min.X {
			min.X = n.Pos.X
		}
		if n.Pos.X+NodeWidth > max.X {
			max.X = n.Pos.X + NodeWidth
		}
		if n.Pos.Y-NodeHeight/2 < min.Y {
			min.Y = n.Pos.Y - NodeHeight/2
		}
		if n.Pos.Y+NodeHeight/2 > max.Y {
			max.Y = n.Pos.Y + NodeHeight/2
		}
	}
	return
}
